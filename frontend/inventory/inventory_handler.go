package inventory

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	sessioncontext "larder/frontend/shared/context"
	"larder/frontend/shared/nav"
	"larder/infrastructure/audit"
	"larder/infrastructure/backend"
	"larder/models"
)

const maxUploadBytes = 32 << 20

// ViewForRequest returns the view model of the request's page session.
func ViewForRequest(r *http.Request, sessions Sessions) (*View, string) {
	id, _ := sessioncontext.GetPageSessionFromContext(r.Context())
	return sessions.GetOrCreate(id), id
}

// InventoryPageQueryHandler is a full page load: it always refetches.
func InventoryPageQueryHandler(client *backend.Client, sessions Sessions, auditSvc *audit.Service, activityLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, sessionID := ViewForRequest(r, sessions)
		flash := flashFromQuery(r)
		if f, ok := refresh(r, client, view, sessionID, auditSvc); !ok {
			flash = f
		}
		view.SetFilter(r.URL.Query().Get("location"), r.URL.Query().Get("subcategory"))
		renderPage(w, r, view, sessionID, flash, auditSvc, activityLimit)
	}
}

// InventoryViewQueryHandler re-filters the cached items without a refetch.
func InventoryViewQueryHandler(client *backend.Client, sessions Sessions, auditSvc *audit.Service, activityLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, sessionID := ViewForRequest(r, sessions)
		flash := flashFromQuery(r)
		if !view.Loaded() {
			if f, ok := refresh(r, client, view, sessionID, auditSvc); !ok {
				flash = f
			}
		}
		view.SetFilter(r.URL.Query().Get("location"), r.URL.Query().Get("subcategory"))
		renderPage(w, r, view, sessionID, flash, auditSvc, activityLimit)
	}
}

type itemJSON struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Quantity       string `json:"quantity"`
	QuantityPrefix string `json:"quantityPrefix"`
	PackType       string `json:"packType"`
	Location       string `json:"location"`
	Subcategory    string `json:"subcategory,omitempty"`
	ExpiryDate     string `json:"expiry_date,omitempty"`
}

// ItemQueryHandler resolves a visible item for the remove form prefill.
func ItemQueryHandler(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid item id", http.StatusBadRequest)
			return
		}
		view, _ := ViewForRequest(r, sessions)
		item, ok := view.FindFiltered(id)
		if !ok {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(itemJSON{
			ID:             item.ID,
			Name:           item.Name,
			Quantity:       item.Quantity.String(),
			QuantityPrefix: QuantityPrefix(item.Quantity),
			PackType:       item.PackType,
			Location:       item.Location,
			Subcategory:    item.Subcategory,
			ExpiryDate:     item.ExpiryDate,
		})
	}
}

func AddItemCommandHandler(client *backend.Client, sessions Sessions, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, sessionID := ViewForRequest(r, sessions)
		if err := r.ParseForm(); err != nil {
			redirectWithFlash(w, r, view, Flash{Message: "Invalid add item form", Level: audit.LevelError})
			return
		}
		newItem := models.NewItem{
			Name:           strings.TrimSpace(r.FormValue("name")),
			PackType:       strings.TrimSpace(r.FormValue("packType")),
			Quantity:       strings.TrimSpace(r.FormValue("quantity")),
			Location:       strings.ToLower(strings.TrimSpace(r.FormValue("location"))),
			Subcategory:    strings.TrimSpace(r.FormValue("subcategory")),
			PantryLocation: PantryLocationLabel(r.FormValue("pantryLocation")),
			ExpiryDate:     strings.TrimSpace(r.FormValue("expiry_date")),
		}
		if newItem.Location == "" {
			newItem.Location = models.LocationPantry
		}
		if err := ValidateNewItem(newItem); err != nil {
			notify(w, r, view, auditSvc, sessionID, "items.add", 0, userMessage("Error adding item: ", err), audit.LevelError)
			return
		}

		created, err := client.AddItem(r.Context(), newItem)
		if err != nil {
			slog.Error("add item failed", slog.String("name", newItem.Name), slog.Any("err", err))
			notify(w, r, view, auditSvc, sessionID, "items.add", 0, userMessage("Error adding item: ", err), audit.LevelError)
			return
		}
		view.AddItem(created)
		notify(w, r, view, auditSvc, sessionID, "items.add", created.ID, "Item added successfully!", audit.LevelSuccess)
	}
}

func DeleteItemCommandHandler(client *backend.Client, sessions Sessions, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, sessionID := ViewForRequest(r, sessions)
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			notify(w, r, view, auditSvc, sessionID, "items.delete", 0, "Invalid item id", audit.LevelError)
			return
		}
		if err := client.DeleteItem(r.Context(), id); err != nil {
			slog.Error("delete item failed", slog.Int64("item_id", id), slog.Any("err", err))
			notify(w, r, view, auditSvc, sessionID, "items.delete", id, userMessage("Error deleting item: ", err), audit.LevelError)
			return
		}
		view.RemoveItem(id)
		notify(w, r, view, auditSvc, sessionID, "items.delete", id, "Item deleted successfully!", audit.LevelSuccess)
	}
}

func RemoveQuantityCommandHandler(client *backend.Client, sessions Sessions, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, sessionID := ViewForRequest(r, sessions)
		if err := r.ParseForm(); err != nil {
			notify(w, r, view, auditSvc, sessionID, "items.remove", 0, "Invalid remove form", audit.LevelError)
			return
		}
		itemID, _ := strconv.ParseInt(strings.TrimSpace(r.FormValue("item_id")), 10, 64)
		amount, err := ParseAmount(r.FormValue("quantity_to_remove"))
		if itemID > 0 && err != nil {
			notify(w, r, view, auditSvc, sessionID, "items.remove", itemID, userMessage("", err), audit.LevelError)
			return
		}
		req, err := view.ApplyQuantityRemoval(itemID, amount)
		if err != nil {
			notify(w, r, view, auditSvc, sessionID, "items.remove", itemID, userMessage("", err), audit.LevelError)
			return
		}

		result, err := client.UpdateQuantity(r.Context(), req.ItemID, req.Amount)
		if err != nil {
			slog.Error("update quantity failed", slog.Int64("item_id", req.ItemID), slog.Float64("amount", req.Amount), slog.Any("err", err))
			notify(w, r, view, auditSvc, sessionID, "items.remove", req.ItemID, userMessage("Error updating item quantity: ", err), audit.LevelError)
			return
		}
		view.ApplyRemovalResult(req.ItemID, result)
		message := result.Message
		if message == "" {
			message = "Item quantity updated"
		}
		notify(w, r, view, auditSvc, sessionID, "items.remove", req.ItemID, message, audit.LevelSuccess)
	}
}

func ImportCommandHandler(client *backend.Client, sessions Sessions, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, sessionID := ViewForRequest(r, sessions)
		upload, closeFn, err := uploadFromForm(r)
		if err != nil {
			notify(w, r, view, auditSvc, sessionID, "items.import", 0, userMessage("Error importing items: ", err), audit.LevelError)
			return
		}
		defer closeFn()

		result, err := client.ImportItems(r.Context(), backend.ImportRequest{
			File:             upload,
			Location:         strings.ToLower(strings.TrimSpace(r.FormValue("location"))),
			SpecificLocation: PantryLocationLabel(r.FormValue("specificLocation")),
		})
		if err != nil {
			slog.Error("import items failed", slog.String("file", upload.FileName), slog.Any("err", err))
			notify(w, r, view, auditSvc, sessionID, "items.import", 0, userMessage("Error importing items: ", err), audit.LevelError)
			return
		}
		view.UpsertFromImport(result.Items)
		message := result.Message
		if message == "" {
			message = "Items imported successfully!"
		}
		notify(w, r, view, auditSvc, sessionID, "items.import", 0, message, audit.LevelSuccess)
	}
}

func InventoryUpdateCommandHandler(client *backend.Client, sessions Sessions, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, sessionID := ViewForRequest(r, sessions)
		upload, closeFn, err := uploadFromForm(r)
		updateAll := strings.EqualFold(strings.TrimSpace(r.FormValue("update_all")), "true")
		failurePrefix := "Error adding items: "
		if updateAll {
			failurePrefix = "Error updating inventory: "
		}
		if err != nil {
			notify(w, r, view, auditSvc, sessionID, "inventory.update", 0, userMessage(failurePrefix, err), audit.LevelError)
			return
		}
		defer closeFn()

		result, err := client.UpdateInventory(r.Context(), backend.InventoryUpdateRequest{
			File:        upload,
			Location:    strings.ToLower(strings.TrimSpace(r.FormValue("location"))),
			Sublocation: strings.TrimSpace(r.FormValue("sublocation")),
			UpdateAll:   updateAll,
		})
		if err != nil {
			slog.Error("inventory update failed", slog.String("file", upload.FileName), slog.Bool("update_all", updateAll), slog.Any("err", err))
			notify(w, r, view, auditSvc, sessionID, "inventory.update", 0, userMessage(failurePrefix, err), audit.LevelError)
			return
		}
		view.UpsertFromImport(result.Items)
		message := result.Message
		if message == "" {
			message = "Items added to inventory successfully!"
			if updateAll {
				message = "Inventory updated successfully!"
			}
		}
		notify(w, r, view, auditSvc, sessionID, "inventory.update", 0, message, audit.LevelSuccess)
	}
}

func uploadFromForm(r *http.Request) (backend.Upload, func(), error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return backend.Upload{}, nil, invalid(ErrMissingField, "Please select a file to import")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return backend.Upload{}, nil, invalid(ErrMissingField, "Please select a file to import")
	}
	if err := ValidateImportFileName(header.Filename); err != nil {
		file.Close()
		return backend.Upload{}, nil, err
	}
	return backend.Upload{FileName: header.Filename, Body: file}, func() { file.Close() }, nil
}

func refresh(r *http.Request, client *backend.Client, view *View, sessionID string, auditSvc *audit.Service) (Flash, bool) {
	items, err := client.ListItems(r.Context())
	if err != nil {
		slog.Error("fetch items failed", slog.Any("err", err))
		message := "Error fetching items: " + err.Error()
		auditSvc.Record(r.Context(), audit.Entry{SessionID: sessionID, Action: "items.list", Level: audit.LevelError, Message: message})
		return Flash{Message: message, Level: audit.LevelError}, false
	}
	view.Load(items)
	return Flash{}, true
}

func renderPage(w http.ResponseWriter, r *http.Request, view *View, sessionID string, flash Flash, auditSvc *audit.Service, activityLimit int) {
	activity, err := auditSvc.Recent(r.Context(), sessionID, activityLimit)
	if err != nil {
		slog.Error("load activity failed", slog.String("session", sessionID), slog.Any("err", err))
	}
	data := BuildPageData(view, time.Now(), flash, activity)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := InventoryPage(data).Render(r.Context(), w); err != nil {
		http.Error(w, "failed to render inventory page", http.StatusInternalServerError)
		return
	}
}

// notify records the outcome and redirects back to the current filter.
func notify(w http.ResponseWriter, r *http.Request, view *View, auditSvc *audit.Service, sessionID, action string, itemID int64, message, level string) {
	auditSvc.Record(r.Context(), audit.Entry{
		SessionID: sessionID,
		Action:    action,
		ItemID:    itemID,
		Level:     level,
		Message:   message,
	})
	redirectWithFlash(w, r, view, Flash{Message: message, Level: level})
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, view *View, flash Flash) {
	target := nav.FilterHref(viewPath, view.ActiveLocation(), view.ActiveSubcategory())
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	target += sep + "status=" + url.QueryEscape(flash.Message) + "&level=" + url.QueryEscape(flash.Level)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func flashFromQuery(r *http.Request) Flash {
	q := r.URL.Query()
	level := q.Get("level")
	switch level {
	case audit.LevelSuccess, audit.LevelError, audit.LevelInfo:
	default:
		level = audit.LevelInfo
	}
	return Flash{Message: q.Get("status"), Level: level}
}

// userMessage keeps validation text as-is and prefixes everything else.
func userMessage(prefix string, err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return prefix + err.Error()
}
