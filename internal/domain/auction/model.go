package auction

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrBidTooLow      = errors.New("bid below required minimum")
	ErrAuctionEnded   = errors.New("auction has ended")
	ErrAuctionHasBids = errors.New("auction already has bids")
	// ErrVersionConflict signals a lost compare-and-swap race; callers retry
	// against re-read state.
	ErrVersionConflict = errors.New("auction was modified concurrently")
)

// MinimumIncrement is the fixed amount every bid after the first must clear
// above the current bid.
const MinimumIncrement int64 = 10

// Status is the auction lifecycle state. Open auctions accept bids until
// expiry; Ended marks an expired auction claimed for settlement (terminal when
// unsold); Completed and Cancelled are terminal.
type Status string

const (
	StatusOpen      Status = "open"
	StatusEnded     Status = "ended"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Bid is one accepted bid. BidHistory preserves acceptance order.
type Bid struct {
	BidderID string
	Amount   int64
	PlacedAt time.Time
}

// Auction is a time-boxed ascending sale of one staff card. Version backs the
// compare-and-swap writes that serialize concurrent mutations.
type Auction struct {
	ID              string
	StaffID         string
	SellerID        string
	StartingPrice   int64
	CurrentBid      *int64
	CurrentBidderID *string
	BidHistory      []Bid
	EndsAt          time.Time
	Status          Status
	WinnerID        *string
	SalePrice       *int64
	Version         int64
	CreatedAt       time.Time
}

// Expired reports whether the auction is past its end time. An Open auction
// with zero time remaining is already eligible for completion whether or not
// a sweep has run.
func (a Auction) Expired(now time.Time) bool {
	return !now.Before(a.EndsAt)
}

// MinimumNextBid is the smallest acceptable bid against the current state.
// The first bid only has to meet the starting price.
func (a Auction) MinimumNextBid() int64 {
	if a.CurrentBid == nil {
		return a.StartingPrice
	}
	return *a.CurrentBid + MinimumIncrement
}

// TimeRemaining derives the remaining open window; never negative.
func (a Auction) TimeRemaining(now time.Time) time.Duration {
	remaining := a.EndsAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FormatTimeRemaining renders a coarse countdown: days/hours above a day,
// hours/minutes below.
func FormatTimeRemaining(remaining time.Duration) string {
	if remaining <= 0 {
		return "ended"
	}
	if remaining >= 24*time.Hour {
		days := int(remaining / (24 * time.Hour))
		hours := int(remaining % (24 * time.Hour) / time.Hour)
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	hours := int(remaining / time.Hour)
	minutes := int(remaining % time.Hour / time.Minute)
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
