package auction

import (
	"context"
	"time"

	"github.com/fieldpass/fantasy-corps/internal/domain/caption"
)

// Repository persists auctions. Update is a compare-and-swap on Version:
// implementations must reject a write whose Version no longer matches the
// stored record with ErrVersionConflict and bump Version on success, so all
// mutations to one auction serialize.
type Repository interface {
	Create(ctx context.Context, a Auction) error
	GetByID(ctx context.Context, auctionID string) (Auction, bool, error)
	// GetOpenByStaff reports whether the card is currently listed by owner.
	GetOpenByStaff(ctx context.Context, sellerID, staffID string) (Auction, bool, error)
	// ListOpen returns open auctions, optionally filtered by staff caption.
	// The caption filter needs the staff catalog, so it is resolved by the
	// caller; repositories filter by the staff ids given (nil means all).
	ListOpen(ctx context.Context, staffIDs []string) ([]Auction, error)
	// ListExpired returns non-terminal auctions whose end time has passed.
	ListExpired(ctx context.Context, now time.Time) ([]Auction, error)
	Update(ctx context.Context, a Auction) error
}

// CaptionFilter narrows active-auction listings to one caption slot.
type CaptionFilter struct {
	Slot caption.Slot
	Set  bool
}
