package exports

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"larder/frontend/inventory"
	"larder/models"
)

var csvHeader = []string{"id", "name", "quantity", "pack_type", "location", "sublocation", "subcategory", "added_date", "expiry_date", "expiry_status"}

// WriteItemsCSV writes items in view order with a derived expiry status column.
func WriteItemsCSV(w io.Writer, items []models.Item, today time.Time) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, item := range items {
		status := inventory.ClassifyExpiry(item.ExpiryDate, today)
		record := []string{
			strconv.FormatInt(item.ID, 10),
			item.Name,
			item.Quantity.String(),
			item.PackType,
			item.Location,
			sublocation(item),
			item.Subcategory,
			item.AddedDate,
			item.ExpiryDate,
			expiryColumn(status),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func sublocation(item models.Item) string {
	if v := strings.TrimSpace(item.PantryLocation); v != "" {
		return v
	}
	return strings.TrimSpace(item.FreezerLocation)
}

func expiryColumn(status inventory.ExpiryStatus) string {
	switch {
	case !status.Known:
		return ""
	case status.Class == inventory.ExpiryExpired:
		return "expired"
	case status.Class == inventory.ExpirySoon:
		return "expiring_soon"
	default:
		return "ok"
	}
}

func ExportFileName(prefix, location, subcategory string, now time.Time, ext string) string {
	parts := []string{prefix}
	for _, v := range []string{location, subcategory} {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || v == inventory.All {
			continue
		}
		parts = append(parts, strings.ReplaceAll(v, " ", "-"))
	}
	parts = append(parts, now.Format("20060102"))
	return strings.Join(parts, "-") + ext
}
