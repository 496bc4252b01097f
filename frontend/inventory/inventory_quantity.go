package inventory

import (
	"errors"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"larder/models"
)

var (
	ErrItemNotFound     = errors.New("item not found")
	ErrInvalidAmount    = errors.New("amount must be a positive number")
	ErrAmountExceeded   = errors.New("amount exceeds available quantity")
	ErrUnsupportedFile  = errors.New("unsupported file type")
	ErrMissingField     = errors.New("missing required field")
	ErrNothingSelected  = errors.New("no item selected")
	quantityPrefixRegex = regexp.MustCompile(`^[\d.]+`)
)

var ImportExtensions = []string{".csv", ".xlsx", ".xls"}

// ValidationError is a local input failure; Message is shown to the user as-is.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(err error, message string) error {
	return &ValidationError{Message: message, Err: err}
}

// RemovalRequest is what the network layer sends to update-quantity.
type RemovalRequest struct {
	ItemID int64
	Amount float64
}

// QuantityAmount parses the leading numeric part of a quantity ("3 kg" -> 3).
func QuantityAmount(q models.Quantity) (float64, bool) {
	prefix := quantityPrefixRegex.FindString(strings.TrimSpace(string(q)))
	if prefix == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// QuantityPrefix returns the numeric text used to prefill the remove form.
func QuantityPrefix(q models.Quantity) string {
	return quantityPrefixRegex.FindString(strings.TrimSpace(string(q)))
}

// ParseAmount parses a user-entered amount to remove.
func ParseAmount(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, invalid(ErrInvalidAmount, "Please enter a valid quantity to remove")
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
		return 0, invalid(ErrInvalidAmount, "Please enter a valid quantity to remove")
	}
	return n, nil
}

func validateRemoval(item models.Item, amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return invalid(ErrInvalidAmount, "Please enter a valid quantity to remove")
	}
	available, ok := QuantityAmount(item.Quantity)
	if !ok {
		// Unparseable quantities are left for the backend to judge.
		return nil
	}
	if amount > available {
		return invalid(ErrAmountExceeded, "Cannot remove more than the available quantity ("+strconv.FormatFloat(available, 'f', -1, 64)+")")
	}
	return nil
}

// ValidateImportFileName accepts the spreadsheet formats the backend can parse.
func ValidateImportFileName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid(ErrMissingField, "Please select a file to import")
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range ImportExtensions {
		if ext == allowed {
			return nil
		}
	}
	return invalid(ErrUnsupportedFile, "Please upload a CSV or Excel file")
}

// ValidateNewItem checks the add-item form before it is sent.
func ValidateNewItem(item models.NewItem) error {
	switch {
	case strings.TrimSpace(item.Name) == "":
		return invalid(ErrMissingField, "Name is required")
	case strings.TrimSpace(item.Quantity) == "":
		return invalid(ErrMissingField, "Quantity is required")
	case strings.TrimSpace(item.ExpiryDate) == "":
		return invalid(ErrMissingField, "Expiry date is required")
	}
	if _, err := time.Parse(isoDate, item.ExpiryDate); err != nil {
		return invalid(ErrMissingField, "Expiry date must be YYYY-MM-DD")
	}
	return nil
}

// DefaultExpiry is the add form's initial expiry: three months out.
func DefaultExpiry(now time.Time) string {
	return now.AddDate(0, 3, 0).Format(isoDate)
}
