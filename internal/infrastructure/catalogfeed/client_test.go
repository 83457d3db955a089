package catalogfeed

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fieldpass/fantasy-corps/internal/domain/caption"
	"github.com/fieldpass/fantasy-corps/internal/platform/logging"
	"github.com/fieldpass/fantasy-corps/internal/platform/resilience"
)

const sampleCatalog = `{
	"data": [
		{"id": "staff-b-whitfield", "name": "Cora Whitfield", "caption": "B", "yearInducted": 1995, "baseValue": 250, "biography": "Brass arranger."},
		{"id": "staff-p-boudreau", "name": "Remy Boudreau", "caption": "P", "yearInducted": 2007, "baseValue": 230},
		{"id": "staff-unknown", "name": "Mystery Hire", "caption": "DM", "yearInducted": 2010, "baseValue": 100},
		{"id": "", "name": "No ID", "caption": "B", "baseValue": 100},
		{"id": "staff-free", "name": "Free Agent", "caption": "B", "baseValue": 0}
	]
}`

func TestParseCatalog_DropsMalformedEntries(t *testing.T) {
	t.Parallel()

	c := NewClient(ClientConfig{BaseURL: "http://directory.invalid", Logger: logging.NewNop()})

	cards, err := c.parseCatalog(t.Context(), []byte(sampleCatalog))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 valid cards, got %d", len(cards))
	}
	if cards[0].ID != "staff-b-whitfield" || cards[0].Caption != caption.SlotB {
		t.Fatalf("unexpected first card: %+v", cards[0])
	}
	if cards[1].BaseValue != 230 {
		t.Fatalf("unexpected base value: %d", cards[1].BaseValue)
	}
}

func TestParseCatalog_RejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	c := NewClient(ClientConfig{BaseURL: "http://directory.invalid", Logger: logging.NewNop()})
	if _, err := c.parseCatalog(t.Context(), []byte("not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestFetchCatalog_RoundTrip(t *testing.T) {
	var sawAuth atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != catalogPath {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") == "Bearer feed-token" {
			sawAuth.Store(true)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleCatalog))
	}))
	defer server.Close()

	c := NewClient(ClientConfig{
		BaseURL: server.URL,
		Token:   "feed-token",
		Timeout: 2 * time.Second,
		Logger:  logging.NewNop(),
	})

	cards, err := c.FetchCatalog(t.Context())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("unexpected card count: %d", len(cards))
	}
	if !sawAuth.Load() {
		t.Fatalf("bearer token not sent")
	}
}

func TestFetchCatalog_NonRetryableStatusFailsFast(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	c := NewClient(ClientConfig{
		BaseURL:    server.URL,
		Timeout:    2 * time.Second,
		MaxRetries: 3,
		Logger:     logging.NewNop(),
	})

	if _, err := c.FetchCatalog(t.Context()); err == nil {
		t.Fatalf("expected error on 403")
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("non-retryable status must not retry: %d requests", got)
	}
}

func TestFetchCatalog_CircuitOpensAfterFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClient(ClientConfig{
		BaseURL: server.URL,
		Timeout: 2 * time.Second,
		Logger:  logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for i := 0; i < 2; i++ {
		if _, err := c.FetchCatalog(t.Context()); err == nil {
			t.Fatalf("expected upstream failure")
		}
	}
	if state := c.breaker.State(); state != resilience.CircuitStateOpen {
		t.Fatalf("breaker should be open, state=%s", state)
	}

	// Open breaker rejects without touching the network.
	if _, err := c.FetchCatalog(t.Context()); err == nil {
		t.Fatalf("expected circuit rejection")
	}
}
