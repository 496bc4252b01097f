package inventory

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"larder/models"
)

// All is the "no filter" selection for both location and subcategory.
const All = "all"

// subcategorySynonyms maps the canonical filter keys to raw values seen in imports.
var subcategorySynonyms = map[string][]string{
	"canned":    {"canned", "can", "tinned", "tin", "preserved"},
	"pasta":     {"pasta", "noodles", "spaghetti", "macaroni"},
	"rice":      {"rice", "grain", "grains"},
	"baking":    {"baking", "flour", "sugar", "bake"},
	"snacks":    {"snacks", "snack", "chips", "crackers", "nuts"},
	"breakfast": {"breakfast", "cereal", "oats", "granola"},
	"spices":    {"spices", "spice", "herb", "herbs", "seasoning"},
	"oils":      {"oils", "oil", "vinegar", "cooking oil"},
	"sauces":    {"sauces", "sauce", "condiment", "condiments"},
	"drinks":    {"drinks", "drink", "beverage", "beverages", "tea", "coffee"},
}

var canonicalOrder = []string{"canned", "pasta", "rice", "baking", "snacks", "breakfast", "spices", "oils", "sauces", "drinks"}

// CanonicalSubcategories lists the filter buttons in display order.
func CanonicalSubcategories() []string {
	out := make([]string, len(canonicalOrder))
	copy(out, canonicalOrder)
	return out
}

// Synonyms returns the raw subcategory values the filter key matches.
func Synonyms(key string) []string {
	raw := subcategorySynonyms[strings.ToLower(key)]
	out := make([]string, len(raw))
	copy(out, raw)
	return out
}

// ComputeFilteredView returns the items matching location and subcategory,
// sorted by name. items is never modified.
func ComputeFilteredView(items []models.Item, location, subcategory string) []models.Item {
	location = normalizeSelection(location)
	subcategory = normalizeSelection(subcategory)

	out := make([]models.Item, 0, len(items))
	for _, item := range items {
		if location != All && !MatchesLocation(item, location) {
			continue
		}
		if subcategory != All && !MatchesSubcategory(item.Subcategory, subcategory) {
			continue
		}
		out = append(out, item)
	}
	sortByName(out)
	return out
}

// MatchesLocation checks the top-level location, then the pantry sub-location
// with the tolerant forms free-form imports produce ("kitchen", "Kitchen Pantry").
func MatchesLocation(item models.Item, selection string) bool {
	selection = strings.ToLower(strings.TrimSpace(selection))
	if selection == "" || selection == All {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(item.Location), selection) {
		return true
	}
	if !strings.EqualFold(item.Location, models.LocationPantry) {
		return false
	}
	sub := strings.ToLower(strings.TrimSpace(item.PantryLocation))
	if sub == "" {
		return false
	}
	return sub == selection ||
		sub == selection+" pantry" ||
		sub == selection+" storage" ||
		strings.HasPrefix(sub, selection)
}

// MatchesSubcategory applies the synonym table and the substring fallbacks.
func MatchesSubcategory(itemSubcategory, selection string) bool {
	item := strings.ToLower(strings.TrimSpace(itemSubcategory))
	if item == "" {
		return false
	}
	active := strings.ToLower(strings.TrimSpace(selection))
	if active == "" || active == All {
		return true
	}
	for _, synonym := range subcategorySynonyms[active] {
		if item == synonym {
			return true
		}
	}
	if item == active || strings.Contains(item, active) {
		return true
	}
	return len(item) > 2 && strings.Contains(active, item)
}

// Subcategories returns the distinct raw subcategories present at a location.
func Subcategories(items []models.Item, location string) []string {
	location = normalizeSelection(location)
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, item := range items {
		if location != All && !MatchesLocation(item, location) {
			continue
		}
		sub := strings.TrimSpace(item.Subcategory)
		if sub == "" {
			continue
		}
		key := strings.ToLower(sub)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, sub)
	}
	c := newCollator()
	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(out[i], out[j]) < 0
	})
	return out
}

// EmptyMessage is shown when a filtered view has no items.
func EmptyMessage(location, subcategory string) string {
	location = normalizeSelection(location)
	subcategory = normalizeSelection(subcategory)
	switch {
	case location == All && subcategory == All:
		return "No items found. Add some items!"
	case location == All:
		return "No " + subcategory + " items found in any location."
	case subcategory == All:
		return "No items found in " + LocationLabel(location) + ". Add some items!"
	default:
		return "No " + subcategory + " items found in " + LocationLabel(location) + "."
	}
}

// LocationLabel names a location selection for messages and headings.
func LocationLabel(location string) string {
	switch strings.ToLower(location) {
	case All, "":
		return "all locations"
	case models.LocationFreezer, models.LocationFridge, models.LocationPantry:
		return "the " + strings.ToLower(location)
	case "kitchen":
		return "the kitchen pantry"
	case "basement":
		return "basement storage"
	default:
		return location
	}
}

func normalizeSelection(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, All) {
		return All
	}
	return v
}

func newCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}

func sortByName(items []models.Item) {
	c := newCollator()
	sort.SliceStable(items, func(i, j int) bool {
		if cmp := c.CompareString(items[i].Name, items[j].Name); cmp != 0 {
			return cmp < 0
		}
		return items[i].ID < items[j].ID
	})
}

// PantryLocationLabel expands the pantry picker codes into the stored label.
func PantryLocationLabel(code string) string {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "":
		return ""
	case "kitchen":
		return "Kitchen Pantry"
	case "basement":
		return "Basement Storage"
	default:
		return strings.TrimSpace(code)
	}
}

// PlacementLabel is the card's "Location" line.
func PlacementLabel(item models.Item) string {
	if v := strings.TrimSpace(item.PantryLocation); v != "" {
		return v
	}
	if v := strings.TrimSpace(item.FreezerLocation); v != "" {
		return v
	}
	loc := strings.TrimSpace(item.Location)
	if loc == "" {
		return "Storage"
	}
	return strings.ToUpper(loc[:1]) + loc[1:]
}
