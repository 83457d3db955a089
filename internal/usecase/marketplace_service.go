package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/fieldpass/fantasy-corps/internal/domain/auction"
	"github.com/fieldpass/fantasy-corps/internal/domain/gameclass"
	"github.com/fieldpass/fantasy-corps/internal/domain/profile"
	"github.com/fieldpass/fantasy-corps/internal/domain/staff"
	"github.com/fieldpass/fantasy-corps/internal/platform/cache"
)

const staffCatalogCacheKey = "staff:catalog"

// MarketplaceListing is one staff card as presented in the marketplace,
// annotated with ownership from the caller's point of view.
type MarketplaceListing struct {
	Card  staff.Card
	Owned bool
}

// AssignmentInput targets one owned staff card at a corps. Setting Clear, or
// leaving Class empty, removes the current assignment instead.
type AssignmentInput struct {
	UserID    string
	StaffID   string
	Class     string
	CorpsName string
	Clear     bool
}

type MarketplaceService struct {
	catalog     staff.CatalogSource
	ledger      staff.Ledger
	profileRepo profile.Repository
	auctionRepo auction.Repository
	store       *cache.Store
	logger      *slog.Logger
	now         func() time.Time
}

func NewMarketplaceService(
	catalog staff.CatalogSource,
	ledger staff.Ledger,
	profileRepo profile.Repository,
	auctionRepo auction.Repository,
	store *cache.Store,
	logger *slog.Logger,
) *MarketplaceService {
	if logger == nil {
		logger = slog.Default()
	}

	return &MarketplaceService{
		catalog:     catalog,
		ledger:      ledger,
		profileRepo: profileRepo,
		auctionRepo: auctionRepo,
		store:       store,
		logger:      logger,
		now:         time.Now,
	}
}

// Catalog returns the published staff cards, served from the TTL cache.
// Concurrent cache misses are coalesced into one upstream fetch. When the
// upstream fails and a previously cached catalog exists, the stale copy is
// served; with no fallback the failure propagates.
func (s *MarketplaceService) Catalog(ctx context.Context, force bool) ([]staff.Card, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketplaceService.Catalog")
	defer span.End()

	loader := func(ctx context.Context) (any, error) {
		cards, err := s.catalog.FetchCatalog(ctx)
		if err != nil {
			return nil, err
		}
		sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
		return cards, nil
	}

	var value any
	var err error
	if force {
		// Refresh hits upstream even with a fresh entry; concurrent refreshes
		// share one fetch, and the stale copy is kept as fallback until the
		// fetch succeeds.
		value, err = s.store.Reload(ctx, staffCatalogCacheKey, loader)
	} else {
		value, err = s.store.GetOrLoad(ctx, staffCatalogCacheKey, loader)
	}
	if err != nil {
		if stale, ok := s.store.GetStale(ctx, staffCatalogCacheKey); ok {
			s.logger.WarnContext(ctx, "staff catalog fetch failed, serving stale copy",
				slog.Any("error", err),
			)
			return stale.([]staff.Card), nil
		}
		return nil, fmt.Errorf("%w: staff catalog: %v", ErrDependencyUnavailable, err)
	}

	return value.([]staff.Card), nil
}

// Browse returns the catalog annotated with which cards the caller owns.
func (s *MarketplaceService) Browse(ctx context.Context, userID string, force bool) ([]MarketplaceListing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketplaceService.Browse")
	defer span.End()

	cards, err := s.Catalog(ctx, force)
	if err != nil {
		return nil, err
	}

	ownedSet := map[string]struct{}{}
	if userID = strings.TrimSpace(userID); userID != "" {
		owned, err := s.ledger.ListOwnedByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("list owned staff: %w", err)
		}
		for _, o := range owned {
			ownedSet[o.StaffID] = struct{}{}
		}
	}

	listings := make([]MarketplaceListing, 0, len(cards))
	for _, card := range cards {
		_, owned := ownedSet[card.ID]
		listings = append(listings, MarketplaceListing{Card: card, Owned: owned})
	}
	return listings, nil
}

// Purchase buys a staff card off the marketplace at its base value. The coin
// debit happens first; a failed ownership grant refunds it.
func (s *MarketplaceService) Purchase(ctx context.Context, userID, staffID string) (staff.Owned, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketplaceService.Purchase")
	defer span.End()

	userID = strings.TrimSpace(userID)
	staffID = strings.TrimSpace(staffID)
	if userID == "" || staffID == "" {
		return staff.Owned{}, fmt.Errorf("%w: user id and staff id are required", ErrInvalidInput)
	}

	card, err := s.lookupCard(ctx, staffID)
	if err != nil {
		return staff.Owned{}, err
	}

	if _, owned, err := s.ledger.GetOwned(ctx, userID, staffID); err != nil {
		return staff.Owned{}, fmt.Errorf("check ownership: %w", err)
	} else if owned {
		return staff.Owned{}, fmt.Errorf("%w: %s", staff.ErrAlreadyOwned, staffID)
	}

	if err := s.profileRepo.AdjustBalance(ctx, userID, -card.BaseValue); err != nil {
		return staff.Owned{}, fmt.Errorf("debit purchase price: %w", err)
	}

	owned := staff.Owned{
		StaffID:      staffID,
		OwnerID:      userID,
		CurrentValue: card.BaseValue,
		PurchasedAt:  s.now().UTC(),
	}
	if err := s.ledger.Create(ctx, owned); err != nil {
		if refundErr := s.profileRepo.AdjustBalance(ctx, userID, card.BaseValue); refundErr != nil {
			s.logger.ErrorContext(ctx, "purchase refund failed",
				slog.String("user_id", userID),
				slog.String("staff_id", staffID),
				slog.Int64("amount", card.BaseValue),
				slog.Any("error", refundErr),
			)
		}
		return staff.Owned{}, fmt.Errorf("record ownership: %w", err)
	}

	s.logger.InfoContext(ctx, "staff purchased",
		slog.String("user_id", userID),
		slog.String("staff_id", staffID),
		slog.Int64("price", card.BaseValue),
	)

	return owned, nil
}

// Assign points an owned staff card at one of the caller's corps, or clears
// the assignment. Cards listed in an open auction cannot be reassigned.
func (s *MarketplaceService) Assign(ctx context.Context, input AssignmentInput) (staff.Owned, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketplaceService.Assign")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.StaffID = strings.TrimSpace(input.StaffID)
	if input.UserID == "" || input.StaffID == "" {
		return staff.Owned{}, fmt.Errorf("%w: user id and staff id are required", ErrInvalidInput)
	}
	// An omitted class is an unassignment, same as an explicit clear.
	input.Class = strings.TrimSpace(input.Class)
	if input.Class == "" {
		input.Clear = true
	}

	if _, found, err := s.ledger.GetOwned(ctx, input.UserID, input.StaffID); err != nil {
		return staff.Owned{}, fmt.Errorf("check ownership: %w", err)
	} else if !found {
		return staff.Owned{}, fmt.Errorf("%w: %s", staff.ErrNotOwned, input.StaffID)
	}

	if _, listed, err := s.auctionRepo.GetOpenByStaff(ctx, input.UserID, input.StaffID); err != nil {
		return staff.Owned{}, fmt.Errorf("check open auctions: %w", err)
	} else if listed {
		return staff.Owned{}, fmt.Errorf("%w: %s", staff.ErrAlreadyListedForAuction, input.StaffID)
	}

	var assignment *staff.Assignment
	if !input.Clear {
		class, err := gameclass.Parse(input.Class)
		if err != nil {
			return staff.Owned{}, fmt.Errorf("%w: %s", gameclass.ErrInvalidClass, input.Class)
		}
		corpsName := strings.TrimSpace(input.CorpsName)
		if corpsName == "" {
			return staff.Owned{}, fmt.Errorf("%w: corps name is required", ErrInvalidInput)
		}
		assignment = &staff.Assignment{Class: class, CorpsName: corpsName}
	}

	if err := s.ledger.SetAssignment(ctx, input.UserID, input.StaffID, assignment); err != nil {
		if errors.Is(err, staff.ErrNotOwned) {
			return staff.Owned{}, err
		}
		return staff.Owned{}, fmt.Errorf("set assignment: %w", err)
	}

	owned, _, err := s.ledger.GetOwned(ctx, input.UserID, input.StaffID)
	if err != nil {
		return staff.Owned{}, fmt.Errorf("reload ownership: %w", err)
	}
	return owned, nil
}

// Roster lists the caller's owned staff with per-class assignment counts so
// clients can show progress toward the scoring bonus cap.
func (s *MarketplaceService) Roster(ctx context.Context, userID string) ([]staff.Owned, map[gameclass.Class]int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketplaceService.Roster")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	owned, err := s.ledger.ListOwnedByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list owned staff: %w", err)
	}
	counts, err := s.ledger.AssignmentCounts(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("count assignments: %w", err)
	}
	return owned, counts, nil
}

func (s *MarketplaceService) lookupCard(ctx context.Context, staffID string) (staff.Card, error) {
	cards, err := s.Catalog(ctx, false)
	if err != nil {
		return staff.Card{}, err
	}
	for _, card := range cards {
		if card.ID == staffID {
			return card, nil
		}
	}
	return staff.Card{}, fmt.Errorf("%w: staff %s", ErrNotFound, staffID)
}
