package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCall_CountsByEndpointAndOutcome(t *testing.T) {
	c := NewCollector()
	c.ObserveCall("items.list", "ok", 20*time.Millisecond)
	c.ObserveCall("items.list", "ok", 10*time.Millisecond)
	c.ObserveCall("items.list", "network", time.Millisecond)

	if got := testutil.ToFloat64(c.backendCalls.WithLabelValues("items.list", "ok")); got != 2 {
		t.Fatalf("expected 2 ok calls, got %v", got)
	}
	if got := testutil.ToFloat64(c.backendCalls.WithLabelValues("items.list", "network")); got != 1 {
		t.Fatalf("expected 1 network failure, got %v", got)
	}
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.ObserveCall("items.list", "ok", time.Millisecond)
	c.Notified("items.add", "success")
	c.SetPageSessions(3)
}

func TestHandler_ExposesRegisteredMetrics(t *testing.T) {
	c := NewCollector()
	c.Notified("items.delete", "error")
	c.SetPageSessions(2)

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		`larder_notifications_total{action="items.delete",level="error"} 1`,
		"larder_page_sessions 2",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in exposition", want)
		}
	}
}
