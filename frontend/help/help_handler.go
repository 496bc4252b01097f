package help

import (
	"net/http"
	"strings"

	"larder/frontend/inventory"
)

type FilterRow struct {
	Key      string
	Synonyms string
}

type PageData struct {
	Filters          []FilterRow
	ImportFormats    string
	SoonWindowDays   int
	DefaultExpiryTip string
}

func BuildPageData() PageData {
	rows := make([]FilterRow, 0, len(inventory.CanonicalSubcategories()))
	for _, key := range inventory.CanonicalSubcategories() {
		rows = append(rows, FilterRow{Key: key, Synonyms: strings.Join(inventory.Synonyms(key), ", ")})
	}
	return PageData{
		Filters:          rows,
		ImportFormats:    strings.Join(inventory.ImportExtensions, ", "),
		SoonWindowDays:   inventory.SoonWindowDays,
		DefaultExpiryTip: "New items default to an expiry three months from today.",
	}
}

func HelpPageQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := HelpPage(BuildPageData()).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render help page", http.StatusInternalServerError)
			return
		}
	}
}
