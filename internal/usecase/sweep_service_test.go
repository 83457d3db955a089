package usecase

import (
	"testing"
	"time"

	"github.com/fieldpass/fantasy-corps/internal/domain/auction"
	"github.com/fieldpass/fantasy-corps/internal/domain/profile"
)

func TestSweepService_SettlesExpiredAuctions(t *testing.T) {
	f := newAuctionFixture(t, []profile.Profile{
		{UserID: "seller", CorpsCoin: 0},
		{UserID: "bidder-1", CorpsCoin: 1000},
	})
	f.grantStaff(t, "seller", "staff-b-whitfield")
	f.grantStaff(t, "seller", "staff-p-boudreau")
	f.grantStaff(t, "seller", "staff-ma-tanaka")

	// Two auctions expire inside the sweep window, one stays open.
	short1, err := f.svc.List(t.Context(), ListInput{
		SellerID: "seller", StaffID: "staff-b-whitfield", StartingPrice: 50, Duration: 2 * time.Hour,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	short2, err := f.svc.List(t.Context(), ListInput{
		SellerID: "seller", StaffID: "staff-p-boudreau", StartingPrice: 60, Duration: 2 * time.Hour,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	long, err := f.svc.List(t.Context(), ListInput{
		SellerID: "seller", StaffID: "staff-ma-tanaka", StartingPrice: 70, Duration: 48 * time.Hour,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if _, err := f.svc.Bid(t.Context(), "bidder-1", short1.ID, 50); err != nil {
		t.Fatalf("bid failed: %v", err)
	}

	f.advance(3 * time.Hour)

	sweeper := NewSweepService(f.auctionRepo, f.svc, 2, discardLogger())
	sweeper.now = f.clock

	result, err := sweeper.Sweep(t.Context())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if result.Scanned != 2 {
		t.Fatalf("unexpected scanned count: %d", result.Scanned)
	}
	if result.Settled != 2 || result.Failed != 0 {
		t.Fatalf("unexpected outcome: settled=%d failed=%d", result.Settled, result.Failed)
	}

	sold, _, _ := f.auctionRepo.GetByID(t.Context(), short1.ID)
	if sold.Status != auction.StatusCompleted || sold.WinnerID == nil {
		t.Fatalf("bid auction not settled: %+v", sold)
	}
	unsold, _, _ := f.auctionRepo.GetByID(t.Context(), short2.ID)
	if unsold.Status != auction.StatusCompleted || unsold.WinnerID != nil {
		t.Fatalf("no-bid auction should resolve unsold: %+v", unsold)
	}
	stillOpen, _, _ := f.auctionRepo.GetByID(t.Context(), long.ID)
	if stillOpen.Status != auction.StatusOpen {
		t.Fatalf("open auction must be untouched: %s", stillOpen.Status)
	}
}

func TestSweepService_EmptySweep(t *testing.T) {
	f := newAuctionFixture(t, []profile.Profile{{UserID: "seller", CorpsCoin: 0}})

	sweeper := NewSweepService(f.auctionRepo, f.svc, 0, discardLogger())
	sweeper.now = f.clock

	result, err := sweeper.Sweep(t.Context())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if result.Scanned != 0 || result.Settled != 0 || result.Failed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}
