package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"larder/models"
)

type recordedCall struct {
	endpoint string
	outcome  string
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (o *recordingObserver) ObserveCall(endpoint, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, recordedCall{endpoint: endpoint, outcome: outcome})
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *recordingObserver) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	obs := &recordingObserver{}
	return NewClient(ts.URL+"/", time.Second, obs), obs
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListItems_DecodesNumericQuantityAndSnakePackType(t *testing.T) {
	client, obs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/items" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `[{"id":1,"name":"Peas","quantity":2,"pack_type":"Bag","location":"freezer"},
{"id":2,"name":"Rice","quantity":"1 kg","packType":"Sack","location":"pantry","pantryLocation":"Kitchen Pantry"}]`)
	})

	items, err := client.ListItems(context.Background())
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Quantity != "2" || items[0].PackType != "Bag" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].PantryLocation != "Kitchen Pantry" {
		t.Fatalf("unexpected pantry location: %q", items[1].PantryLocation)
	}
	if len(obs.calls) != 1 || obs.calls[0] != (recordedCall{endpoint: "items.list", outcome: "ok"}) {
		t.Fatalf("unexpected observed calls: %+v", obs.calls)
	}
}

func TestAddItem_PostsJSONAndReturnsCreated(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var in models.NewItem
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if in.Name != "Soup" || in.ExpiryDate != "2025-01-01" {
			t.Errorf("unexpected payload: %+v", in)
		}
		writeJSON(w, http.StatusOK, models.Item{ID: 7, Name: in.Name, Quantity: models.Quantity(in.Quantity)})
	})

	created, err := client.AddItem(context.Background(), models.NewItem{Name: "Soup", Quantity: "2 tins", ExpiryDate: "2025-01-01"})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if created.ID != 7 || created.Quantity != "2 tins" {
		t.Fatalf("unexpected created item: %+v", created)
	}
}

func TestAddItem_MissingIDIsMalformed(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"name": "Soup"})
	})

	_, err := client.AddItem(context.Background(), models.NewItem{Name: "Soup"})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
}

func TestUpdateQuantity_ConsumedAndUpdatedBranches(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]float64
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		switch r.URL.Path {
		case "/api/items/1/update-quantity":
			writeJSON(w, http.StatusOK, map[string]string{"message": ConsumedMessage})
		case "/api/items/2/update-quantity":
			if body["quantity_to_remove"] != 1 {
				t.Errorf("unexpected amount: %v", body)
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"message": "Quantity updated successfully",
				"item":    map[string]any{"id": 2, "name": "Flour", "quantity": "2.0kg"},
			})
		default:
			writeJSON(w, http.StatusOK, map[string]string{"message": "something else"})
		}
	})

	consumed, err := client.UpdateQuantity(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if consumed.Kind != ConsumeConsumed || consumed.Item != nil {
		t.Fatalf("expected consumed result, got %+v", consumed)
	}

	updated, err := client.UpdateQuantity(context.Background(), 2, 1)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Kind != ConsumeUpdated || updated.Item == nil || updated.Item.Quantity != "2.0kg" {
		t.Fatalf("expected updated result, got %+v", updated)
	}

	if _, err := client.UpdateQuantity(context.Background(), 3, 1); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected malformed response for unknown shape, got %v", err)
	}
}

func TestDeleteItem_APIErrorCarriesDetail(t *testing.T) {
	client, obs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Item with ID 9 not found"})
	})

	err := client.DeleteItem(context.Background(), 9)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || err.Error() != "Item with ID 9 not found" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
	if obs.calls[0].outcome != "status_4xx" {
		t.Fatalf("unexpected outcome: %+v", obs.calls)
	}
}

func TestAPIError_FallsBackToStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	})

	_, err := client.ListItems(context.Background())
	if err == nil || err.Error() != "Server error: 502" {
		t.Fatalf("expected generic server error, got %v", err)
	}
}

func TestListItems_MalformedJSON(t *testing.T) {
	client, obs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "{not json")
	})

	_, err := client.ListItems(context.Background())
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected malformed response, got %v", err)
	}
	if obs.calls[0].outcome != "malformed" {
		t.Fatalf("unexpected outcome: %+v", obs.calls)
	}
}

func TestListItems_NetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	client := NewClient(url, time.Second, nil)
	_, err := client.ListItems(context.Background())
	if err == nil || !strings.HasPrefix(err.Error(), "network error:") {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestUpdateInventory_SendsMultipartFields(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
		} else {
			defer file.Close()
			data, _ := io.ReadAll(file)
			if header.Filename != "stock.csv" || string(data) != "name,quantity\nPeas,1\n" {
				t.Errorf("unexpected upload %q: %q", header.Filename, data)
			}
		}
		if r.FormValue("location") != "freezer" || r.FormValue("sublocation") != "garage" || r.FormValue("update_all") != "true" {
			t.Errorf("unexpected form values: %v", r.MultipartForm.Value)
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "Inventory updated", "items": []map[string]any{{"id": 1, "name": "Peas", "quantity": "1"}}})
	})

	result, err := client.UpdateInventory(context.Background(), InventoryUpdateRequest{
		File:        Upload{FileName: "stock.csv", Body: strings.NewReader("name,quantity\nPeas,1\n")},
		Location:    "freezer",
		Sublocation: "garage",
		UpdateAll:   true,
	})
	if err != nil {
		t.Fatalf("update inventory: %v", err)
	}
	if result.Message != "Inventory updated" || len(result.Items) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestImportItems_MissingItemsIsMalformed(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})

	_, err := client.ImportItems(context.Background(), ImportRequest{
		File: Upload{FileName: "items.csv", Body: strings.NewReader("x")},
	})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected malformed response, got %v", err)
	}
}
