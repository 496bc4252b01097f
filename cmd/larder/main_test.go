package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"larder/infrastructure/backend"
	"larder/models"
)

type fakeBackend struct {
	mu      sync.Mutex
	removed []string
	deleted []string
	added   []models.NewItem
}

func newFakeBackend(t *testing.T) (*fakeBackend, string) {
	t.Helper()
	fb := &fakeBackend{}
	items := []models.Item{
		{ID: 1, Name: "Rice", Quantity: "3 kg", Location: "pantry", PantryLocation: "Kitchen Pantry", ExpiryDate: "2099-01-01"},
		{ID: 2, Name: "Peas", Quantity: "500 g", Location: "freezer", ExpiryDate: "2099-01-01"},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/items", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, items)
	})
	mux.HandleFunc("POST /api/items", func(w http.ResponseWriter, r *http.Request) {
		var in models.NewItem
		_ = json.NewDecoder(r.Body).Decode(&in)
		fb.mu.Lock()
		fb.added = append(fb.added, in)
		fb.mu.Unlock()
		writeJSON(w, http.StatusOK, models.Item{ID: 9, Name: in.Name, Quantity: models.Quantity(in.Quantity), Location: in.Location})
	})
	mux.HandleFunc("DELETE /api/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.deleted = append(fb.deleted, r.PathValue("id"))
		fb.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"message": "Item deleted"})
	})
	mux.HandleFunc("POST /api/items/{id}/update-quantity", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.removed = append(fb.removed, r.PathValue("id"))
		fb.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"message": backend.ConsumedMessage})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fb, srv.URL
}

func (fb *fakeBackend) snapshot() (removed, deleted []string, added []models.NewItem) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.removed...), append([]string(nil), fb.deleted...), append([]models.NewItem(nil), fb.added...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestListFiltersByLocation(t *testing.T) {
	_, url := newFakeBackend(t)
	out, _, err := run(t, "--backend", url, "list", "--location", "pantry")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "Rice") || strings.Contains(out, "Peas") {
		t.Fatalf("expected only pantry items:\n%s", out)
	}
	if !strings.Contains(out, "Kitchen Pantry") {
		t.Fatalf("expected placement column:\n%s", out)
	}
}

func TestListEmptyMessage(t *testing.T) {
	_, url := newFakeBackend(t)
	out, _, err := run(t, "--backend", url, "list", "-l", "fridge")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "No items found in the fridge. Add some items!") {
		t.Fatalf("expected empty message:\n%s", out)
	}
}

func TestConsumeValidatesAgainstCurrentQuantity(t *testing.T) {
	fb, url := newFakeBackend(t)
	_, _, err := run(t, "--backend", url, "consume", "1", "5")
	if err == nil || !strings.Contains(err.Error(), "Cannot remove more than the available quantity (3)") {
		t.Fatalf("expected quantity exceeded error, got %v", err)
	}
	if removed, _, _ := fb.snapshot(); len(removed) != 0 {
		t.Fatalf("backend should not be called on a rejected removal")
	}

	out, _, err := run(t, "--backend", url, "consume", "1", "3")
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if !strings.Contains(out, backend.ConsumedMessage) {
		t.Fatalf("expected consumed message, got %q", out)
	}
	if removed, _, _ := fb.snapshot(); len(removed) != 1 || removed[0] != "1" {
		t.Fatalf("unexpected removals: %v", removed)
	}
}

func TestConsumeUnknownItem(t *testing.T) {
	_, url := newFakeBackend(t)
	_, _, err := run(t, "--backend", url, "consume", "42", "1")
	if err == nil || err.Error() != "Item not found" {
		t.Fatalf("expected Item not found, got %v", err)
	}
}

func TestAddDefaultsLocationAndPantryLabel(t *testing.T) {
	fb, url := newFakeBackend(t)
	out, _, err := run(t, "--backend", url, "add", "Oats", "-q", "2 kg", "--pantry", "basement", "-e", "2030-05-01")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "Item added successfully!") {
		t.Fatalf("unexpected output %q", out)
	}
	_, _, added := fb.snapshot()
	if len(added) != 1 {
		t.Fatalf("expected one add, got %d", len(added))
	}
	got := added[0]
	if got.Location != models.LocationPantry || got.PantryLocation != "Basement Storage" || got.Quantity != "2 kg" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestAddRequiresQuantity(t *testing.T) {
	fb, url := newFakeBackend(t)
	if _, _, err := run(t, "--backend", url, "add", "Oats"); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, _, added := fb.snapshot(); len(added) != 0 {
		t.Fatalf("backend should not be called")
	}
}

func TestDeleteRejectsBadID(t *testing.T) {
	fb, url := newFakeBackend(t)
	if _, _, err := run(t, "--backend", url, "delete", "abc"); err == nil {
		t.Fatalf("expected invalid id error")
	}
	if _, _, err := run(t, "--backend", url, "delete", "2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, deleted, _ := fb.snapshot(); len(deleted) != 1 || deleted[0] != "2" {
		t.Fatalf("unexpected deletes: %v", deleted)
	}
}

func TestExportWritesCSVToStdout(t *testing.T) {
	_, url := newFakeBackend(t)
	out, _, err := run(t, "--backend", url, "export", "-l", "freezer", "-o", "-")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "id,name,quantity") || !strings.Contains(lines[1], "Peas") {
		t.Fatalf("unexpected csv:\n%s", out)
	}
}

func TestSheetWritesPDF(t *testing.T) {
	_, url := newFakeBackend(t)
	path := filepath.Join(t.TempDir(), "sheet.pdf")
	if _, _, err := run(t, "--backend", url, "sheet", "-o", path); err != nil {
		t.Fatalf("sheet: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected PDF output")
	}
}

func TestImportRejectsUnsupportedFile(t *testing.T) {
	_, url := newFakeBackend(t)
	path := filepath.Join(t.TempDir(), "items.txt")
	if err := os.WriteFile(path, []byte("name\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	_, _, err := run(t, "--backend", url, "import", path)
	if err == nil || err.Error() != "Please upload a CSV or Excel file" {
		t.Fatalf("expected file type error, got %v", err)
	}
}
