package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fieldpass/fantasy-corps/internal/domain/auction"
)

type AuctionRepository struct {
	mu    sync.Mutex
	items map[string]auction.Auction
}

func NewAuctionRepository() *AuctionRepository {
	return &AuctionRepository{items: make(map[string]auction.Auction)}
}

func (r *AuctionRepository) Create(_ context.Context, a auction.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[a.ID]; exists {
		return fmt.Errorf("auction already exists: %s", a.ID)
	}

	a.Version = 1
	r.items[a.ID] = cloneAuction(a)
	return nil
}

func (r *AuctionRepository) GetByID(_ context.Context, auctionID string) (auction.Auction, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[auctionID]
	if !ok {
		return auction.Auction{}, false, nil
	}
	return cloneAuction(a), true, nil
}

func (r *AuctionRepository) GetOpenByStaff(_ context.Context, sellerID, staffID string) (auction.Auction, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.items {
		if a.Status == auction.StatusOpen && a.SellerID == sellerID && a.StaffID == staffID {
			return cloneAuction(a), true, nil
		}
	}
	return auction.Auction{}, false, nil
}

func (r *AuctionRepository) ListOpen(_ context.Context, staffIDs []string) ([]auction.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var filter map[string]struct{}
	if staffIDs != nil {
		filter = make(map[string]struct{}, len(staffIDs))
		for _, id := range staffIDs {
			filter[id] = struct{}{}
		}
	}

	var out []auction.Auction
	for _, a := range r.items {
		if a.Status != auction.StatusOpen {
			continue
		}
		if filter != nil {
			if _, ok := filter[a.StaffID]; !ok {
				continue
			}
		}
		out = append(out, cloneAuction(a))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].EndsAt.Before(out[j].EndsAt) })
	return out, nil
}

func (r *AuctionRepository) ListExpired(_ context.Context, now time.Time) ([]auction.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []auction.Auction
	for _, a := range r.items {
		if a.Status.Terminal() || !a.Expired(now) {
			continue
		}
		// Ended without bids resolved unsold; there is nothing to settle.
		if a.Status == auction.StatusEnded && len(a.BidHistory) == 0 {
			continue
		}
		out = append(out, cloneAuction(a))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].EndsAt.Before(out[j].EndsAt) })
	return out, nil
}

// Update applies a compare-and-swap on Version so concurrent mutations of one
// auction serialize; losers get ErrVersionConflict and must re-read.
func (r *AuctionRepository) Update(_ context.Context, a auction.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[a.ID]
	if !ok {
		return fmt.Errorf("auction not found: %s", a.ID)
	}
	if stored.Version != a.Version {
		return fmt.Errorf("%w: auction=%s", auction.ErrVersionConflict, a.ID)
	}

	a.Version++
	r.items[a.ID] = cloneAuction(a)
	return nil
}

func cloneAuction(a auction.Auction) auction.Auction {
	copied := a
	copied.BidHistory = append([]auction.Bid(nil), a.BidHistory...)
	if a.CurrentBid != nil {
		v := *a.CurrentBid
		copied.CurrentBid = &v
	}
	if a.CurrentBidderID != nil {
		v := *a.CurrentBidderID
		copied.CurrentBidderID = &v
	}
	if a.WinnerID != nil {
		v := *a.WinnerID
		copied.WinnerID = &v
	}
	if a.SalePrice != nil {
		v := *a.SalePrice
		copied.SalePrice = &v
	}
	return copied
}
