package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fieldpass/fantasy-corps/internal/domain/caption"
	"github.com/fieldpass/fantasy-corps/internal/domain/corps"
	"github.com/fieldpass/fantasy-corps/internal/domain/gameclass"
	"github.com/fieldpass/fantasy-corps/internal/domain/roster"
	"github.com/fieldpass/fantasy-corps/internal/domain/season"
)

// DefaultTradeLimit caps accepted lineup submissions per scoring period.
const DefaultTradeLimit = 3

// LineupInput is a proposed lineup: caption slot name to corps id.
type LineupInput struct {
	UserID string
	Class  string
	Picks  map[string]string
}

// LineupCheck is the validation outcome returned to both the interactive
// validate endpoint and the submit path.
type LineupCheck struct {
	TotalValue int64
	Budget     int64
}

type LineupService struct {
	corpsRepo  corps.Repository
	claimRepo  roster.ClaimRepository
	schedule   season.Schedule
	tradeLimit int
	now        func() time.Time
}

func NewLineupService(
	corpsRepo corps.Repository,
	claimRepo roster.ClaimRepository,
	schedule season.Schedule,
	tradeLimit int,
) *LineupService {
	if tradeLimit < 1 {
		tradeLimit = DefaultTradeLimit
	}

	return &LineupService{
		corpsRepo:  corpsRepo,
		claimRepo:  claimRepo,
		schedule:   schedule,
		tradeLimit: tradeLimit,
		now:        time.Now,
	}
}

// Validate resolves the proposed picks against the corps catalog and runs the
// shared lineup rules. It never mutates state; rule violations come back as
// wrapped roster sentinels.
func (s *LineupService) Validate(ctx context.Context, input LineupInput) (LineupCheck, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.Validate")
	defer span.End()

	_, lineup, budget, err := s.resolve(ctx, input)
	if err != nil {
		return LineupCheck{}, err
	}

	total, err := roster.Validate(lineup, budget)
	if err != nil {
		return LineupCheck{Budget: budget}, err
	}

	return LineupCheck{TotalValue: total, Budget: budget}, nil
}

// Submit runs the full validation and, when the lineup passes, claims it for
// the current scoring period. The claim is all-or-nothing: a rejected lineup
// is never partially persisted, and an accepted one supersedes the user's
// previous claim.
func (s *LineupService) Submit(ctx context.Context, input LineupInput) (roster.Claim, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.Submit")
	defer span.End()

	class, lineup, budget, err := s.resolve(ctx, input)
	if err != nil {
		return roster.Claim{}, err
	}

	total, err := roster.Validate(lineup, budget)
	if err != nil {
		return roster.Claim{}, err
	}

	period, err := s.schedule.CurrentPeriod(ctx)
	if err != nil {
		return roster.Claim{}, fmt.Errorf("%w: get current period: %v", ErrDependencyUnavailable, err)
	}

	fingerprint := roster.Fingerprint(lineup)

	existing, claimed, err := s.claimRepo.GetByFingerprint(ctx, period, fingerprint)
	if err != nil {
		return roster.Claim{}, fmt.Errorf("check lineup fingerprint: %w", err)
	}
	if claimed && existing.UserID != input.UserID {
		return roster.Claim{}, fmt.Errorf("%w: fingerprint=%s", roster.ErrDuplicateLineupClaimed, fingerprint)
	}

	previous, hasPrevious, err := s.claimRepo.GetByUser(ctx, period, input.UserID)
	if err != nil {
		return roster.Claim{}, fmt.Errorf("get current claim: %w", err)
	}
	if hasPrevious && previous.Fingerprint == fingerprint && previous.Class == class {
		// Resubmitting the identical lineup is a no-op, not a trade.
		return previous, nil
	}

	submissions, err := s.claimRepo.CountSubmissions(ctx, period, input.UserID)
	if err != nil {
		return roster.Claim{}, fmt.Errorf("count submissions: %w", err)
	}
	if submissions >= s.tradeLimit {
		return roster.Claim{}, fmt.Errorf("%w: limit=%d", roster.ErrTradeLimitExceeded, s.tradeLimit)
	}

	claim := roster.Claim{
		UserID:      input.UserID,
		Class:       class,
		Period:      period,
		Fingerprint: fingerprint,
		TotalValue:  total,
		SubmittedAt: s.now().UTC(),
	}

	if err := s.claimRepo.Upsert(ctx, claim); err != nil {
		return roster.Claim{}, fmt.Errorf("save lineup claim: %w", err)
	}

	return claim, nil
}

func (s *LineupService) resolve(ctx context.Context, input LineupInput) (gameclass.Class, roster.Lineup, int64, error) {
	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		return "", nil, 0, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	class, err := gameclass.Parse(strings.TrimSpace(input.Class))
	if err != nil {
		return "", nil, 0, fmt.Errorf("%w: %s", gameclass.ErrInvalidClass, input.Class)
	}
	budget, err := gameclass.PointBudget(class)
	if err != nil {
		return "", nil, 0, err
	}

	corpsIDs := make([]string, 0, len(input.Picks))
	bySlot := make(map[caption.Slot]string, len(input.Picks))
	for slotName, corpsID := range input.Picks {
		slot, ok := caption.Parse(strings.TrimSpace(slotName))
		if !ok {
			return "", nil, 0, fmt.Errorf("%w: unknown caption %q", ErrInvalidInput, slotName)
		}
		corpsID = strings.TrimSpace(corpsID)
		if corpsID == "" {
			return "", nil, 0, fmt.Errorf("%w: corps id is required for caption %s", ErrInvalidInput, slot)
		}
		bySlot[slot] = corpsID
		corpsIDs = append(corpsIDs, corpsID)
	}

	entries, err := s.corpsRepo.GetByIDs(ctx, corpsIDs)
	if err != nil {
		return "", nil, 0, fmt.Errorf("get corps by ids: %w", err)
	}
	valueByID := make(map[string]corps.CatalogEntry, len(entries))
	for _, entry := range entries {
		valueByID[entry.ID] = entry
	}

	lineup := make(roster.Lineup, len(bySlot))
	for slot, corpsID := range bySlot {
		entry, ok := valueByID[corpsID]
		if !ok {
			return "", nil, 0, fmt.Errorf("%w: unknown corps %q", ErrInvalidInput, corpsID)
		}
		lineup[slot] = roster.Pick{Slot: slot, CorpsID: entry.ID, PointValue: entry.PointValue}
	}

	return class, lineup, budget, nil
}
