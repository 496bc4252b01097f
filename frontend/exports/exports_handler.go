package exports

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"larder/frontend/inventory"
	"larder/infrastructure/audit"
)

// InventoryCSVHandler downloads the page session's filtered view as CSV.
func InventoryCSVHandler(sessions inventory.Sessions, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, sessionID := inventory.ViewForRequest(r, sessions)
		location := r.URL.Query().Get("location")
		subcategory := r.URL.Query().Get("subcategory")
		items := view.FilteredFor(location, subcategory)
		if location == "" {
			location = view.ActiveLocation()
		}

		now := time.Now()
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename="+ExportFileName("inventory", location, subcategory, now, ".csv"))
		if err := WriteItemsCSV(w, items, now); err != nil {
			slog.Error("write inventory csv failed", slog.Any("err", err))
			http.Error(w, "failed to export csv", http.StatusInternalServerError)
			return
		}
		auditSvc.Record(r.Context(), audit.Entry{
			SessionID: sessionID,
			Action:    "export.csv",
			Level:     audit.LevelInfo,
			Message:   "Exported " + strconv.Itoa(len(items)) + " items to CSV",
		})
	}
}
