package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"larder/models"
)

// ConsumedMessage is the backend's sentinel for a fully consumed item.
const ConsumedMessage = "Item fully consumed and removed"

var ErrMalformedResponse = errors.New("failed to parse server response")

// APIError is a non-2xx backend response.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("Server error: %d", e.StatusCode)
}

// Observer receives one call per backend round trip.
type Observer interface {
	ObserveCall(endpoint, outcome string, elapsed time.Duration)
}

// Client talks to the inventory REST backend.
type Client struct {
	BaseURL    string
	httpClient *http.Client
	observer   Observer
}

// NewClient creates a backend client. A nil observer disables call metrics.
func NewClient(baseURL string, timeout time.Duration, observer Observer) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		observer:   observer,
	}
}

// ConsumeKind tells which branch a quantity update took on the backend.
type ConsumeKind int

const (
	ConsumeUpdated ConsumeKind = iota
	ConsumeConsumed
)

// ConsumeResult is the decoded update-quantity response.
type ConsumeResult struct {
	Kind    ConsumeKind
	Message string
	Item    *models.Item // set when Kind == ConsumeUpdated
}

// ImportResult is the post-import collection returned by import and inventory update.
type ImportResult struct {
	Message string        `json:"message"`
	Items   []models.Item `json:"items"`
}

// Upload is a file forwarded as the multipart "file" field.
type Upload struct {
	FileName string
	Body     io.Reader
}

// ImportRequest carries the optional location hints of /api/import.
type ImportRequest struct {
	File             Upload
	Location         string
	SpecificLocation string
}

// InventoryUpdateRequest is the /api/inventory_update form.
type InventoryUpdateRequest struct {
	File        Upload
	Location    string
	Sublocation string
	UpdateAll   bool
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, "health", http.MethodGet, "/api/health", nil, "", nil)
}

func (c *Client) ListItems(ctx context.Context) ([]models.Item, error) {
	items := make([]models.Item, 0)
	if err := c.do(ctx, "items.list", http.MethodGet, "/api/items", nil, "", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) AddItem(ctx context.Context, item models.NewItem) (models.Item, error) {
	body, err := json.Marshal(item)
	if err != nil {
		return models.Item{}, err
	}
	var created models.Item
	if err := c.do(ctx, "items.add", http.MethodPost, "/api/items", bytes.NewReader(body), "application/json", &created); err != nil {
		return models.Item{}, err
	}
	if created.ID == 0 {
		return models.Item{}, fmt.Errorf("%w: created item has no id", ErrMalformedResponse)
	}
	return created, nil
}

func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	return c.do(ctx, "items.delete", http.MethodDelete, "/api/items/"+models.FormatID(id), nil, "", nil)
}

// UpdateQuantity removes amount from the item and decodes which branch the backend took.
func (c *Client) UpdateQuantity(ctx context.Context, id int64, amount float64) (ConsumeResult, error) {
	body, err := json.Marshal(map[string]float64{"quantity_to_remove": amount})
	if err != nil {
		return ConsumeResult{}, err
	}
	var raw struct {
		Message string       `json:"message"`
		Item    *models.Item `json:"item"`
	}
	path := "/api/items/" + models.FormatID(id) + "/update-quantity"
	if err := c.do(ctx, "items.update_quantity", http.MethodPost, path, bytes.NewReader(body), "application/json", &raw); err != nil {
		return ConsumeResult{}, err
	}
	return decodeConsumeResult(raw.Message, raw.Item)
}

func decodeConsumeResult(message string, item *models.Item) (ConsumeResult, error) {
	switch {
	case item != nil:
		return ConsumeResult{Kind: ConsumeUpdated, Message: message, Item: item}, nil
	case message == ConsumedMessage:
		return ConsumeResult{Kind: ConsumeConsumed, Message: message}, nil
	default:
		return ConsumeResult{}, fmt.Errorf("%w: quantity update returned neither item nor consumed message", ErrMalformedResponse)
	}
}

func (c *Client) ImportItems(ctx context.Context, req ImportRequest) (ImportResult, error) {
	fields := map[string]string{
		"location":         req.Location,
		"specificLocation": req.SpecificLocation,
	}
	return c.upload(ctx, "import", "/api/import", req.File, fields)
}

func (c *Client) UpdateInventory(ctx context.Context, req InventoryUpdateRequest) (ImportResult, error) {
	updateAll := "false"
	if req.UpdateAll {
		updateAll = "true"
	}
	fields := map[string]string{
		"location":    req.Location,
		"sublocation": req.Sublocation,
		"update_all":  updateAll,
	}
	return c.upload(ctx, "inventory_update", "/api/inventory_update", req.File, fields)
}

func (c *Client) upload(ctx context.Context, endpoint, path string, file Upload, fields map[string]string) (ImportResult, error) {
	if file.Body == nil {
		return ImportResult{}, fmt.Errorf("upload %s: file is required", endpoint)
	}
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", file.FileName)
	if err != nil {
		return ImportResult{}, fmt.Errorf("create multipart file field: %w", err)
	}
	if _, err := io.Copy(part, file.Body); err != nil {
		return ImportResult{}, fmt.Errorf("copy upload: %w", err)
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(name, value); err != nil {
			return ImportResult{}, fmt.Errorf("write multipart field %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return ImportResult{}, fmt.Errorf("close multipart writer: %w", err)
	}

	var result ImportResult
	if err := c.do(ctx, endpoint, http.MethodPost, path, &body, writer.FormDataContentType(), &result); err != nil {
		return ImportResult{}, err
	}
	if result.Items == nil {
		return ImportResult{}, fmt.Errorf("%w: missing items", ErrMalformedResponse)
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, endpoint, method, path string, body io.Reader, contentType string, out any) (err error) {
	start := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer.ObserveCall(endpoint, outcomeOf(err), time.Since(start))
		}
	}()

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(data, &payload) != nil || len(payload.Detail) == 0 {
		return apiErr
	}
	// FastAPI validation errors carry a list instead of a string.
	var detail string
	if json.Unmarshal(payload.Detail, &detail) == nil {
		apiErr.Detail = detail
	} else {
		apiErr.Detail = string(payload.Detail)
	}
	return apiErr
}

func outcomeOf(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &apiErr):
		return fmt.Sprintf("status_%dxx", apiErr.StatusCode/100)
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	default:
		return "network"
	}
}
