package help

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"larder/frontend/shared/html"
)

func HelpPage(data PageData) templ.Component {
	return html.Layout("Larder Help", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<main class="container"><header class="page-header"><h1>Help</h1><a class="btn" href="/inventory">Back to inventory</a></header>`)
		b.WriteString(`<section><h2>Subcategory filters</h2><p>Each filter also matches these values, and any subcategory containing the filter name.</p><table class="help-table"><thead><tr><th>Filter</th><th>Matches</th></tr></thead><tbody>`)
		for _, f := range data.Filters {
			b.WriteString(`<tr><td>` + templ.EscapeString(f.Key) + `</td><td>` + templ.EscapeString(f.Synonyms) + `</td></tr>`)
		}
		b.WriteString(`</tbody></table></section>`)
		b.WriteString(`<section><h2>Expiry</h2><p>Items expiring within ` + strconv.Itoa(data.SoonWindowDays) + ` days are marked as expiring soon; past dates are marked expired. `)
		b.WriteString(templ.EscapeString(data.DefaultExpiryTip) + `</p></section>`)
		b.WriteString(`<section><h2>Import and update</h2><p>Accepted files: ` + templ.EscapeString(data.ImportFormats) + `. Update Inventory can replace every item at a location or only add the new rows.</p></section></main>`)
		_, err := io.WriteString(w, b.String())
		return err
	}))
}
