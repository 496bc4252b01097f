package sheets

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"larder/frontend/inventory"
	"larder/infrastructure/audit"
)

// InventorySheetHandler renders the filtered view as a printable PDF.
func InventorySheetHandler(sessions inventory.Sessions, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, sessionID := inventory.ViewForRequest(r, sessions)
		location := r.URL.Query().Get("location")
		subcategory := r.URL.Query().Get("subcategory")
		items := view.FilteredFor(location, subcategory)
		if location == "" {
			location = view.ActiveLocation()
		}

		now := time.Now()
		pdfBytes, err := RenderInventorySheetPDF(SheetData{
			Title:     SheetTitle(location, subcategory),
			Items:     items,
			PrintedAt: now,
		})
		if err != nil {
			slog.Error("render inventory sheet failed", slog.Any("err", err))
			http.Error(w, "failed to build inventory sheet", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "inline; filename=inventory-sheet-"+now.Format("20060102")+".pdf")
		_, _ = w.Write(pdfBytes)

		auditSvc.Record(r.Context(), audit.Entry{
			SessionID: sessionID,
			Action:    "export.sheet",
			Level:     audit.LevelInfo,
			Message:   "Printed sheet with " + strconv.Itoa(len(items)) + " items",
		})
	}
}

func SheetTitle(location, subcategory string) string {
	title := "Inventory - " + inventory.LocationLabel(location)
	if s := strings.TrimSpace(subcategory); s != "" && !strings.EqualFold(s, inventory.All) {
		title += " (" + s + ")"
	}
	return title
}
