package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fieldpass/fantasy-corps/internal/domain/auction"
	"github.com/fieldpass/fantasy-corps/internal/domain/caption"
	"github.com/fieldpass/fantasy-corps/internal/domain/profile"
	"github.com/fieldpass/fantasy-corps/internal/domain/staff"
	"github.com/fieldpass/fantasy-corps/internal/platform/id"
)

// casRetries bounds how many times a mutation re-reads and retries after
// losing a version race before giving up.
const casRetries = 3

// AuctionDurations bounds how long a seller may keep an auction open.
type AuctionDurations struct {
	Min time.Duration
	Max time.Duration
}

// ListInput creates one auction.
type ListInput struct {
	SellerID      string
	StaffID       string
	StartingPrice int64
	Duration      time.Duration
}

// ActiveAuction is an open auction enriched for listing responses.
type ActiveAuction struct {
	Auction       auction.Auction
	Staff         staff.Card
	TimeRemaining string
	MinimumBid    int64
}

type AuctionService struct {
	auctionRepo auction.Repository
	ledger      staff.Ledger
	profileRepo profile.Repository
	marketplace *MarketplaceService
	ids         id.Generator
	durations   AuctionDurations
	logger      *slog.Logger
	now         func() time.Time

	// settleMu serializes settlement per auction within this process. The
	// version claim already guards cross-instance races; this keeps an
	// Ended-retry from overlapping a settlement still in flight locally.
	settleMu sync.Map
}

func NewAuctionService(
	auctionRepo auction.Repository,
	ledger staff.Ledger,
	profileRepo profile.Repository,
	marketplace *MarketplaceService,
	ids id.Generator,
	durations AuctionDurations,
	logger *slog.Logger,
) *AuctionService {
	if logger == nil {
		logger = slog.Default()
	}
	if durations.Min <= 0 {
		durations.Min = time.Hour
	}
	if durations.Max < durations.Min {
		durations.Max = 7 * 24 * time.Hour
	}

	return &AuctionService{
		auctionRepo: auctionRepo,
		ledger:      ledger,
		profileRepo: profileRepo,
		marketplace: marketplace,
		ids:         ids,
		durations:   durations,
		logger:      logger,
		now:         time.Now,
	}
}

// List puts an owned, unassigned staff card up for auction.
func (s *AuctionService) List(ctx context.Context, input ListInput) (auction.Auction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.List")
	defer span.End()

	input.SellerID = strings.TrimSpace(input.SellerID)
	input.StaffID = strings.TrimSpace(input.StaffID)
	if input.SellerID == "" || input.StaffID == "" {
		return auction.Auction{}, fmt.Errorf("%w: seller id and staff id are required", ErrInvalidInput)
	}
	if input.StartingPrice < 1 {
		return auction.Auction{}, fmt.Errorf("%w: starting price must be at least 1", ErrInvalidInput)
	}
	if input.Duration < s.durations.Min || input.Duration > s.durations.Max {
		return auction.Auction{}, fmt.Errorf("%w: duration must be between %s and %s",
			ErrInvalidInput, s.durations.Min, s.durations.Max)
	}

	owned, found, err := s.ledger.GetOwned(ctx, input.SellerID, input.StaffID)
	if err != nil {
		return auction.Auction{}, fmt.Errorf("check ownership: %w", err)
	}
	if !found {
		return auction.Auction{}, fmt.Errorf("%w: %s", staff.ErrNotOwned, input.StaffID)
	}
	if owned.AssignedTo != nil {
		return auction.Auction{}, fmt.Errorf("%w: unassign %s before listing", ErrInvalidInput, input.StaffID)
	}

	if _, listed, err := s.auctionRepo.GetOpenByStaff(ctx, input.SellerID, input.StaffID); err != nil {
		return auction.Auction{}, fmt.Errorf("check open auctions: %w", err)
	} else if listed {
		return auction.Auction{}, fmt.Errorf("%w: %s", staff.ErrAlreadyListedForAuction, input.StaffID)
	}

	auctionID, err := s.ids.NewID()
	if err != nil {
		return auction.Auction{}, fmt.Errorf("generate auction id: %w", err)
	}

	now := s.now().UTC()
	a := auction.Auction{
		ID:            auctionID,
		StaffID:       input.StaffID,
		SellerID:      input.SellerID,
		StartingPrice: input.StartingPrice,
		EndsAt:        now.Add(input.Duration),
		Status:        auction.StatusOpen,
		CreatedAt:     now,
	}
	if err := s.auctionRepo.Create(ctx, a); err != nil {
		return auction.Auction{}, fmt.Errorf("create auction: %w", err)
	}

	s.logger.InfoContext(ctx, "auction listed",
		slog.String("auction_id", a.ID),
		slog.String("staff_id", a.StaffID),
		slog.String("seller_id", a.SellerID),
		slog.Int64("starting_price", a.StartingPrice),
		slog.Time("ends_at", a.EndsAt),
	)

	return a, nil
}

// Bid places an ascending bid. All checks run against re-read committed state
// inside a bounded compare-and-swap loop so a bid accepted under a stale read
// never commits.
func (s *AuctionService) Bid(ctx context.Context, bidderID, auctionID string, amount int64) (auction.Auction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.Bid")
	defer span.End()

	bidderID = strings.TrimSpace(bidderID)
	if bidderID == "" {
		return auction.Auction{}, fmt.Errorf("%w: bidder id is required", ErrInvalidInput)
	}

	prof, found, err := s.profileRepo.GetByUserID(ctx, bidderID)
	if err != nil {
		return auction.Auction{}, fmt.Errorf("get bidder profile: %w", err)
	}
	if !found {
		return auction.Auction{}, fmt.Errorf("%w: profile %s", ErrNotFound, bidderID)
	}

	var lastErr error
	for attempt := 0; attempt < casRetries; attempt++ {
		a, found, err := s.auctionRepo.GetByID(ctx, auctionID)
		if err != nil {
			return auction.Auction{}, fmt.Errorf("get auction: %w", err)
		}
		if !found {
			return auction.Auction{}, fmt.Errorf("%w: auction %s", ErrNotFound, auctionID)
		}

		if a.SellerID == bidderID {
			return auction.Auction{}, fmt.Errorf("%w: seller cannot bid on own auction", ErrInvalidInput)
		}
		now := s.now().UTC()
		if a.Status != auction.StatusOpen || a.Expired(now) {
			return auction.Auction{}, fmt.Errorf("%w: %s", auction.ErrAuctionEnded, auctionID)
		}
		if minimum := a.MinimumNextBid(); amount < minimum {
			return auction.Auction{}, fmt.Errorf("%w: minimum bid is %d", auction.ErrBidTooLow, minimum)
		}
		// No escrow: solvency is advisory here and re-checked at settlement.
		if prof.CorpsCoin < amount {
			return auction.Auction{}, fmt.Errorf("%w: balance %d, bid %d", profile.ErrInsufficientFunds, prof.CorpsCoin, amount)
		}

		bid := auction.Bid{BidderID: bidderID, Amount: amount, PlacedAt: now}
		a.CurrentBid = &bid.Amount
		a.CurrentBidderID = &bid.BidderID
		a.BidHistory = append(a.BidHistory, bid)

		if err := s.auctionRepo.Update(ctx, a); err != nil {
			if errors.Is(err, auction.ErrVersionConflict) {
				lastErr = err
				continue
			}
			return auction.Auction{}, fmt.Errorf("save bid: %w", err)
		}
		a.Version++

		s.logger.InfoContext(ctx, "bid accepted",
			slog.String("auction_id", a.ID),
			slog.String("bidder_id", bidderID),
			slog.Int64("amount", amount),
		)
		return a, nil
	}

	return auction.Auction{}, fmt.Errorf("place bid after %d attempts: %w", casRetries, lastErr)
}

// Complete settles an expired auction. Phase one claims the auction by moving
// it Open to Ended under compare-and-swap, so exactly one caller settles.
// Phase two walks the bid history from the top, debits the first solvent
// bidder, credits the seller, transfers the card, and marks the auction
// Completed. An Ended auction with bids can be re-completed to retry a failed
// settlement.
func (s *AuctionService) Complete(ctx context.Context, auctionID string) (auction.Auction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.Complete")
	defer span.End()

	lock := s.settleLock(auctionID)
	lock.Lock()
	defer lock.Unlock()

	for attempt := 0; attempt < casRetries; attempt++ {
		a, found, err := s.auctionRepo.GetByID(ctx, auctionID)
		if err != nil {
			return auction.Auction{}, fmt.Errorf("get auction: %w", err)
		}
		if !found {
			return auction.Auction{}, fmt.Errorf("%w: auction %s", ErrNotFound, auctionID)
		}

		switch a.Status {
		case auction.StatusCompleted, auction.StatusCancelled:
			return a, nil
		case auction.StatusEnded:
			// A previous settlement attempt failed partway; retry it.
			return s.settle(ctx, a)
		}

		if !a.Expired(s.now().UTC()) {
			return auction.Auction{}, fmt.Errorf("%w: auction %s is still open", ErrInvalidInput, auctionID)
		}

		a.Status = auction.StatusEnded
		if err := s.auctionRepo.Update(ctx, a); err != nil {
			if errors.Is(err, auction.ErrVersionConflict) {
				// A late bid or concurrent completer moved the record;
				// re-read and claim the committed state.
				continue
			}
			return auction.Auction{}, fmt.Errorf("claim auction for settlement: %w", err)
		}
		a.Version++ // keep in step with the committed record for the settle writes

		return s.settle(ctx, a)
	}

	return auction.Auction{}, fmt.Errorf("claim auction for settlement: %w", auction.ErrVersionConflict)
}

func (s *AuctionService) settleLock(auctionID string) *sync.Mutex {
	v, _ := s.settleMu.LoadOrStore(auctionID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (s *AuctionService) settle(ctx context.Context, a auction.Auction) (auction.Auction, error) {
	// A retry after a failed final write must not move funds again. If the
	// seller no longer holds the card the transfer already happened; the
	// record converges to whoever actually holds the card now, which after
	// a fallback settlement is not necessarily the top bidder.
	if _, stillHeld, err := s.ledger.GetOwned(ctx, a.SellerID, a.StaffID); err != nil {
		return auction.Auction{}, fmt.Errorf("check seller ownership: %w", err)
	} else if !stillHeld && len(a.BidHistory) > 0 {
		winner, price, found := s.findCardHolder(ctx, a)
		if !found {
			return auction.Auction{}, fmt.Errorf("auction %s: staff %s left the seller but no bidder holds it", a.ID, a.StaffID)
		}
		a.Status = auction.StatusCompleted
		a.WinnerID = &winner
		a.SalePrice = &price
		if err := s.auctionRepo.Update(ctx, a); err != nil {
			return auction.Auction{}, fmt.Errorf("finalize auction: %w", err)
		}
		return a, nil
	}

	winner, price, sold := s.pickWinner(ctx, a)
	if !sold {
		// Unsold: the claim already wrote StatusEnded, which is terminal
		// when there is nothing to transfer. The card stays with the seller.
		s.logger.InfoContext(ctx, "auction resolved unsold",
			slog.String("auction_id", a.ID),
			slog.Int("bids", len(a.BidHistory)),
		)
		return a, nil
	}

	if err := s.profileRepo.AdjustBalance(ctx, winner, -price); err != nil {
		return auction.Auction{}, fmt.Errorf("debit winner: %w", err)
	}
	if err := s.transferToWinner(ctx, a, winner, price); err != nil {
		if refundErr := s.profileRepo.AdjustBalance(ctx, winner, price); refundErr != nil {
			s.logger.ErrorContext(ctx, "settlement refund failed",
				slog.String("auction_id", a.ID),
				slog.String("winner_id", winner),
				slog.Int64("amount", price),
				slog.Any("error", refundErr),
			)
		}
		return auction.Auction{}, err
	}

	a.Status = auction.StatusCompleted
	a.WinnerID = &winner
	a.SalePrice = &price
	if err := s.auctionRepo.Update(ctx, a); err != nil {
		// Funds and ownership already moved; the next Complete retry will
		// find the card transferred and only has to converge the record.
		return auction.Auction{}, fmt.Errorf("finalize auction: %w", err)
	}

	s.logger.InfoContext(ctx, "auction settled",
		slog.String("auction_id", a.ID),
		slog.String("winner_id", winner),
		slog.Int64("sale_price", price),
	)
	return a, nil
}

// findCardHolder locates which bidder received the card during a partially
// persisted settlement, walking accepted bids from most recent (highest)
// down. The matched bid's amount is what that bidder was debited.
func (s *AuctionService) findCardHolder(ctx context.Context, a auction.Auction) (string, int64, bool) {
	seen := make(map[string]struct{}, len(a.BidHistory))
	for i := len(a.BidHistory) - 1; i >= 0; i-- {
		bid := a.BidHistory[i]
		if _, dup := seen[bid.BidderID]; dup {
			continue
		}
		seen[bid.BidderID] = struct{}{}

		_, holds, err := s.ledger.GetOwned(ctx, bid.BidderID, a.StaffID)
		if err != nil {
			s.logger.WarnContext(ctx, "holder lookup failed during settlement convergence",
				slog.String("auction_id", a.ID),
				slog.String("bidder_id", bid.BidderID),
				slog.Any("error", err),
			)
			continue
		}
		if holds {
			return bid.BidderID, bid.Amount, true
		}
	}
	return "", 0, false
}

// pickWinner walks accepted bids from most recent (highest) down and returns
// the first bidder whose balance still covers their bid.
func (s *AuctionService) pickWinner(ctx context.Context, a auction.Auction) (string, int64, bool) {
	for i := len(a.BidHistory) - 1; i >= 0; i-- {
		bid := a.BidHistory[i]
		prof, found, err := s.profileRepo.GetByUserID(ctx, bid.BidderID)
		if err != nil || !found {
			s.logger.WarnContext(ctx, "skipping bidder during settlement",
				slog.String("auction_id", a.ID),
				slog.String("bidder_id", bid.BidderID),
				slog.Any("error", err),
			)
			continue
		}
		if prof.CorpsCoin >= bid.Amount {
			return bid.BidderID, bid.Amount, true
		}
		s.logger.InfoContext(ctx, "bidder insolvent at settlement, falling back",
			slog.String("auction_id", a.ID),
			slog.String("bidder_id", bid.BidderID),
			slog.Int64("bid", bid.Amount),
			slog.Int64("balance", prof.CorpsCoin),
		)
	}
	return "", 0, false
}

func (s *AuctionService) transferToWinner(ctx context.Context, a auction.Auction, winner string, price int64) error {
	if err := s.profileRepo.AdjustBalance(ctx, a.SellerID, price); err != nil {
		return fmt.Errorf("credit seller: %w", err)
	}
	if err := s.ledger.Transfer(ctx, a.StaffID, a.SellerID, winner); err != nil {
		if debitErr := s.profileRepo.AdjustBalance(ctx, a.SellerID, -price); debitErr != nil {
			s.logger.ErrorContext(ctx, "seller credit reversal failed",
				slog.String("auction_id", a.ID),
				slog.String("seller_id", a.SellerID),
				slog.Int64("amount", price),
				slog.Any("error", debitErr),
			)
		}
		return fmt.Errorf("transfer staff: %w", err)
	}
	return nil
}

// Cancel withdraws an open auction that has received no bids.
func (s *AuctionService) Cancel(ctx context.Context, sellerID, auctionID string) (auction.Auction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.Cancel")
	defer span.End()

	var lastErr error
	for attempt := 0; attempt < casRetries; attempt++ {
		a, found, err := s.auctionRepo.GetByID(ctx, auctionID)
		if err != nil {
			return auction.Auction{}, fmt.Errorf("get auction: %w", err)
		}
		if !found {
			return auction.Auction{}, fmt.Errorf("%w: auction %s", ErrNotFound, auctionID)
		}
		if a.SellerID != sellerID {
			return auction.Auction{}, fmt.Errorf("%w: only the seller can cancel", ErrUnauthorized)
		}
		if a.Status != auction.StatusOpen {
			return auction.Auction{}, fmt.Errorf("%w: %s", auction.ErrAuctionEnded, auctionID)
		}
		if len(a.BidHistory) > 0 {
			return auction.Auction{}, fmt.Errorf("%w: %s", auction.ErrAuctionHasBids, auctionID)
		}

		a.Status = auction.StatusCancelled
		if err := s.auctionRepo.Update(ctx, a); err != nil {
			if errors.Is(err, auction.ErrVersionConflict) {
				lastErr = err
				continue
			}
			return auction.Auction{}, fmt.Errorf("cancel auction: %w", err)
		}
		a.Version++

		s.logger.InfoContext(ctx, "auction cancelled",
			slog.String("auction_id", a.ID),
			slog.String("seller_id", sellerID),
		)
		return a, nil
	}

	return auction.Auction{}, fmt.Errorf("cancel auction after %d attempts: %w", casRetries, lastErr)
}

// ListActive returns open auctions enriched with their staff cards and a
// coarse countdown, optionally narrowed to one caption slot.
func (s *AuctionService) ListActive(ctx context.Context, filter auction.CaptionFilter) ([]ActiveAuction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.ListActive")
	defer span.End()

	cards, err := s.marketplace.Catalog(ctx, false)
	if err != nil {
		return nil, err
	}
	cardsByID := make(map[string]staff.Card, len(cards))
	for _, card := range cards {
		cardsByID[card.ID] = card
	}

	var staffIDs []string
	if filter.Set {
		if !filter.Slot.Valid() {
			return nil, fmt.Errorf("%w: unknown caption %q", ErrInvalidInput, string(filter.Slot))
		}
		staffIDs = make([]string, 0, len(cards))
		for _, card := range cards {
			if card.Caption == filter.Slot {
				staffIDs = append(staffIDs, card.ID)
			}
		}
		if len(staffIDs) == 0 {
			return []ActiveAuction{}, nil
		}
	}

	open, err := s.auctionRepo.ListOpen(ctx, staffIDs)
	if err != nil {
		return nil, fmt.Errorf("list open auctions: %w", err)
	}

	now := s.now().UTC()
	active := make([]ActiveAuction, 0, len(open))
	for _, a := range open {
		card, ok := cardsByID[a.StaffID]
		if !ok {
			// Card dropped from the upstream catalog; keep the auction
			// visible with whatever we know.
			card = staff.Card{ID: a.StaffID, Caption: caption.Slot("")}
		}
		active = append(active, ActiveAuction{
			Auction:       a,
			Staff:         card,
			TimeRemaining: auction.FormatTimeRemaining(a.TimeRemaining(now)),
			MinimumBid:    a.MinimumNextBid(),
		})
	}
	return active, nil
}
