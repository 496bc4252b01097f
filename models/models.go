package models

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/uptrace/bun"
)

// Storage locations known to the backend. Other values pass through untouched.
const (
	LocationFreezer = "freezer"
	LocationFridge  = "fridge"
	LocationPantry  = "pantry"
)

// Item is an inventory record as served by the REST backend.
type Item struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Quantity        Quantity `json:"quantity"`
	PackType        string   `json:"packType"`
	Location        string   `json:"location"`
	Subcategory     string   `json:"subcategory,omitempty"`
	PantryLocation  string   `json:"pantryLocation,omitempty"`
	FreezerLocation string   `json:"freezerLocation,omitempty"`
	AddedDate       string   `json:"added_date,omitempty"`
	ExpiryDate      string   `json:"expiry_date,omitempty"`
}

// UnmarshalJSON accepts the legacy pack_type key some import paths emit.
func (i *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	var raw struct {
		plain
		PackTypeSnake string `json:"pack_type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*i = Item(raw.plain)
	if i.PackType == "" {
		i.PackType = raw.PackTypeSnake
	}
	return nil
}

// Quantity is the free-form "<amount><unit>" text, e.g. "3 kg" or "500g".
type Quantity string

// UnmarshalJSON keeps numeric quantities as their decimal text.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] != '"' {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*q = Quantity(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*q = Quantity(s)
	return nil
}

func (q Quantity) String() string {
	return string(q)
}

// NewItem is the add-item payload; the backend assigns id and added_date.
type NewItem struct {
	Name           string `json:"name"`
	PackType       string `json:"packType"`
	Quantity       string `json:"quantity"`
	Location       string `json:"location,omitempty"`
	Subcategory    string `json:"subcategory,omitempty"`
	PantryLocation string `json:"pantryLocation,omitempty"`
	ExpiryDate     string `json:"expiry_date"`
}

// FormatID renders an item id for urls and log fields.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ActivityLog captures the outcome of a user-triggered inventory action.
type ActivityLog struct {
	bun.BaseModel `bun:"table:activity_logs,alias:al"`

	ID        int64     `bun:"id,pk,autoincrement"`
	SessionID string    `bun:"session_id,notnull"`
	Action    string    `bun:"action,notnull"`
	ItemID    *int64    `bun:"item_id"`
	Level     string    `bun:"level,notnull"`
	Message   string    `bun:"message,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
