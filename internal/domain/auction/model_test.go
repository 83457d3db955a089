package auction

import (
	"testing"
	"time"
)

func TestMinimumNextBid(t *testing.T) {
	a := Auction{StartingPrice: 100}
	if got := a.MinimumNextBid(); got != 100 {
		t.Fatalf("first bid minimum: expected 100, got %d", got)
	}

	current := int64(100)
	a.CurrentBid = &current
	if got := a.MinimumNextBid(); got != 110 {
		t.Fatalf("subsequent bid minimum: expected 110, got %d", got)
	}
}

func TestExpired_BoundaryIsInclusive(t *testing.T) {
	endsAt := time.Date(2026, 7, 4, 20, 0, 0, 0, time.UTC)
	a := Auction{EndsAt: endsAt, Status: StatusOpen}

	if a.Expired(endsAt.Add(-time.Second)) {
		t.Fatal("auction expired before endsAt")
	}
	if !a.Expired(endsAt) {
		t.Fatal("auction not expired exactly at endsAt")
	}
}

func TestFormatTimeRemaining(t *testing.T) {
	cases := []struct {
		remaining time.Duration
		want      string
	}{
		{0, "ended"},
		{-time.Minute, "ended"},
		{90 * time.Minute, "1h 30m"},
		{23*time.Hour + 59*time.Minute, "23h 59m"},
		{26 * time.Hour, "1d 2h"},
		{49 * time.Hour, "2d 1h"},
	}
	for _, tc := range cases {
		if got := FormatTimeRemaining(tc.remaining); got != tc.want {
			t.Fatalf("FormatTimeRemaining(%v): expected %q, got %q", tc.remaining, tc.want, got)
		}
	}
}
