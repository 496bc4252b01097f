package inventory

import (
	"sync"

	"larder/infrastructure/backend"
	"larder/models"
)

// View is the per-page-session inventory state: the last fetched items, the
// active filters, and the filtered subset derived from them.
type View struct {
	mu                sync.Mutex
	items             []models.Item
	activeLocation    string
	activeSubcategory string
	filtered          []models.Item
	loaded            bool
}

func NewView() *View {
	return &View{
		items:             []models.Item{},
		activeLocation:    All,
		activeSubcategory: All,
		filtered:          []models.Item{},
	}
}

// Load replaces the items with a fresh backend fetch.
func (v *View) Load(items []models.Item) []models.Item {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = cloneItems(items)
	v.loaded = true
	return v.recompute()
}

// UpsertFromImport replaces the whole collection with the server's post-import
// result. No merge happens here.
func (v *View) UpsertFromImport(items []models.Item) []models.Item {
	return v.Load(items)
}

func (v *View) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded
}

func (v *View) Items() []models.Item {
	v.mu.Lock()
	defer v.mu.Unlock()
	return cloneItems(v.items)
}

// SetFilter stores the selections and returns the recomputed view.
func (v *View) SetFilter(location, subcategory string) []models.Item {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.activeLocation = normalizeSelection(location)
	v.activeSubcategory = normalizeSelection(subcategory)
	return v.recompute()
}

func (v *View) Filtered() []models.Item {
	v.mu.Lock()
	defer v.mu.Unlock()
	return cloneItems(v.filtered)
}

func (v *View) ActiveLocation() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.activeLocation
}

func (v *View) ActiveSubcategory() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.activeSubcategory
}

// FindFiltered resolves an id against the visible items only.
func (v *View) FindFiltered(id int64) (models.Item, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, item := range v.filtered {
		if item.ID == id {
			return item, true
		}
	}
	return models.Item{}, false
}

// Subcategories lists the raw subcategories at the active location.
func (v *View) Subcategories() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Subcategories(v.items, v.activeLocation)
}

// ApplyQuantityRemoval validates a removal against the cached item. Consumption
// is decided by the backend, so state is not touched here.
func (v *View) ApplyQuantityRemoval(itemID int64, amount float64) (RemovalRequest, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if itemID <= 0 {
		return RemovalRequest{}, invalid(ErrNothingSelected, "Please select an item to remove")
	}
	idx := v.indexOf(itemID)
	if idx < 0 {
		return RemovalRequest{}, invalid(ErrItemNotFound, "Item not found")
	}
	if err := validateRemoval(v.items[idx], amount); err != nil {
		return RemovalRequest{}, err
	}
	return RemovalRequest{ItemID: itemID, Amount: amount}, nil
}

// ApplyRemovalResult reconciles the backend's decision for one removal.
func (v *View) ApplyRemovalResult(itemID int64, result backend.ConsumeResult) []models.Item {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch result.Kind {
	case backend.ConsumeConsumed:
		v.remove(itemID)
	case backend.ConsumeUpdated:
		if result.Item == nil {
			break
		}
		updated := *result.Item
		if idx := v.indexOf(itemID); idx >= 0 {
			v.items[idx] = updated
		} else {
			v.items = append(v.items, updated)
		}
	}
	return v.recompute()
}

// RemoveItem drops an item; an unknown id is a no-op.
func (v *View) RemoveItem(itemID int64) []models.Item {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.remove(itemID)
	return v.recompute()
}

// AddItem appends a server-created item, replacing any entry with the same id.
func (v *View) AddItem(item models.Item) []models.Item {
	v.mu.Lock()
	defer v.mu.Unlock()
	if idx := v.indexOf(item.ID); idx >= 0 {
		v.items[idx] = item
	} else {
		v.items = append(v.items, item)
	}
	return v.recompute()
}

func (v *View) remove(itemID int64) {
	idx := v.indexOf(itemID)
	if idx < 0 {
		return
	}
	next := make([]models.Item, 0, len(v.items)-1)
	next = append(next, v.items[:idx]...)
	next = append(next, v.items[idx+1:]...)
	v.items = next
}

func (v *View) indexOf(id int64) int {
	for i := range v.items {
		if v.items[i].ID == id {
			return i
		}
	}
	return -1
}

// recompute must run with mu held, after the mutation it reflects.
func (v *View) recompute() []models.Item {
	v.filtered = ComputeFilteredView(v.items, v.activeLocation, v.activeSubcategory)
	return cloneItems(v.filtered)
}

func cloneItems(items []models.Item) []models.Item {
	out := make([]models.Item, len(items))
	copy(out, items)
	return out
}

// FilteredFor computes a view for explicit selections without storing them.
// Empty selections fall back to the stored filter.
func (v *View) FilteredFor(location, subcategory string) []models.Item {
	v.mu.Lock()
	defer v.mu.Unlock()
	if location == "" && subcategory == "" {
		return cloneItems(v.filtered)
	}
	if location == "" {
		location = v.activeLocation
	}
	if subcategory == "" {
		subcategory = v.activeSubcategory
	}
	return ComputeFilteredView(v.items, location, subcategory)
}
