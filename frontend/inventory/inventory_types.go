package inventory

import (
	"strings"
	"time"

	"larder/frontend/shared/nav"
	"larder/models"
)

const (
	pagePath = "/inventory"
	viewPath = "/inventory/view"
)

// Sessions resolves the view model owned by a page session.
type Sessions interface {
	GetOrCreate(id string) *View
}

// Flash is the one-shot notification carried through a redirect.
type Flash struct {
	Message string
	Level   string
}

type ItemCard struct {
	ID          int64
	Name        string
	Quantity    string
	PackType    string
	Placement   string
	Subcategory string
	ExpiryDate  string
	Expiry      ExpiryStatus
}

type FilterButton struct {
	Key    string
	Label  string
	Href   string
	Active bool
}

type ActivityRow struct {
	At      string
	Level   string
	Message string
}

type PageData struct {
	Location      string
	Subcategory   string
	Tabs          []nav.Tab
	Filters       []FilterButton
	Cards         []ItemCard
	Subcategories []string
	EmptyMessage  string
	Flash         Flash
	Activity      []ActivityRow
	DefaultExpiry string
	ExportHref    string
	SheetHref     string
}

// NewItemCard derives the rendered card fields of one item.
func NewItemCard(item models.Item, today time.Time) ItemCard {
	return ItemCard{
		ID:          item.ID,
		Name:        item.Name,
		Quantity:    item.Quantity.String(),
		PackType:    item.PackType,
		Placement:   PlacementLabel(item),
		Subcategory: strings.TrimSpace(item.Subcategory),
		ExpiryDate:  FormatDate(item.ExpiryDate),
		Expiry:      ClassifyExpiry(item.ExpiryDate, today),
	}
}

// BuildPageData snapshots the view for rendering.
func BuildPageData(v *View, today time.Time, flash Flash, activity []models.ActivityLog) PageData {
	location := v.ActiveLocation()
	subcategory := v.ActiveSubcategory()
	filtered := v.Filtered()

	cards := make([]ItemCard, 0, len(filtered))
	for _, item := range filtered {
		cards = append(cards, NewItemCard(item, today))
	}

	filters := []FilterButton{{
		Key:    All,
		Label:  "All",
		Href:   nav.FilterHref(viewPath, location, All),
		Active: subcategory == All,
	}}
	for _, key := range CanonicalSubcategories() {
		filters = append(filters, FilterButton{
			Key:    key,
			Label:  strings.ToUpper(key[:1]) + key[1:],
			Href:   nav.FilterHref(viewPath, location, key),
			Active: strings.EqualFold(subcategory, key),
		})
	}

	rows := make([]ActivityRow, 0, len(activity))
	for _, a := range activity {
		rows = append(rows, ActivityRow{
			At:      a.CreatedAt.Local().Format("15:04:05"),
			Level:   a.Level,
			Message: a.Message,
		})
	}

	data := PageData{
		Location:      location,
		Subcategory:   subcategory,
		Tabs:          nav.BuildLocationTabs(viewPath, location, subcategory),
		Filters:       filters,
		Cards:         cards,
		Subcategories: v.Subcategories(),
		Flash:         flash,
		Activity:      rows,
		DefaultExpiry: DefaultExpiry(today),
		ExportHref:    nav.FilterHref("/inventory/export.csv", location, subcategory),
		SheetHref:     nav.FilterHref("/inventory/sheet.pdf", location, subcategory),
	}
	if len(cards) == 0 {
		data.EmptyMessage = EmptyMessage(location, subcategory)
	}
	return data
}
