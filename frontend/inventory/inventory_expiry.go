package inventory

import (
	"fmt"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

// ExpiryClass is the visual category of an item card.
type ExpiryClass string

const (
	ExpiryNormal  ExpiryClass = ""
	ExpirySoon    ExpiryClass = "expiring-soon"
	ExpiryExpired ExpiryClass = "expired"
)

const SoonWindowDays = 7

// ExpiryStatus is the classified expiry of one item relative to today.
type ExpiryStatus struct {
	Class ExpiryClass
	Days  int
	Known bool
	Text  string
}

// ClassifyExpiry compares calendar dates; a missing or bad date is ExpiryNormal.
func ClassifyExpiry(expiryDate string, today time.Time) ExpiryStatus {
	expiry, ok := parseDate(expiryDate)
	if !ok {
		return ExpiryStatus{Class: ExpiryNormal}
	}
	days := DaysBetween(today, expiry)
	status := ExpiryStatus{Days: days, Known: true}
	switch {
	case days < 0:
		status.Class = ExpiryExpired
		status.Text = fmt.Sprintf("Expired %d days ago", -days)
	case days == 0:
		status.Class = ExpirySoon
		status.Text = "Expires today"
	case days <= SoonWindowDays:
		status.Class = ExpirySoon
		status.Text = fmt.Sprintf("Expires in %d days", days)
	default:
		status.Class = ExpiryNormal
	}
	return status
}

// DaysBetween is the whole number of calendar days from today to date.
func DaysBetween(today, date time.Time) int {
	from := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// FormatDate renders an ISO date for display, or N/A when absent.
func FormatDate(value string) string {
	if strings.TrimSpace(value) == "" {
		return "N/A"
	}
	d, ok := parseDate(value)
	if !ok {
		return value
	}
	return d.Format("Jan 2, 2006")
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if len(value) > len(isoDate) {
		// Backends sometimes send full timestamps; the date part is enough.
		value = value[:len(isoDate)]
	}
	d, err := time.Parse(isoDate, value)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
