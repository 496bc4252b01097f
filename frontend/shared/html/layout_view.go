package html

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps body in the shared page shell with the CSRF form helper.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!doctype html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`+
			templ.EscapeString(title)+
			`</title><link rel="stylesheet" href="/assets/app.css"></head><body>`); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, CSRFFormScript()+`</body></html>`)
		return err
	})
}

// Raw renders trusted markup as-is.
func Raw(markup string) templ.Component {
	return templ.Raw(markup)
}
