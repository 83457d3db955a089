package usecase

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fieldpass/fantasy-corps/internal/domain/gameclass"
	"github.com/fieldpass/fantasy-corps/internal/domain/roster"
	"github.com/fieldpass/fantasy-corps/internal/infrastructure/repository/memory"
)

// cheapPicks fills all eight captions with distinct low-value seed corps,
// totalling 91 points.
func cheapPicks() map[string]string {
	return map[string]string{
		"GE1": "colts-2015",
		"GE2": "spirit-2000",
		"VP":  "academy-2016",
		"VA":  "mandarins-2018",
		"CG":  "troopers-2017",
		"B":   "crossmen-1992",
		"MA":  "madison-1995",
		"P":   "blue-knights-2014",
	}
}

func newLineupService(tradeLimit int) (*LineupService, *memory.LineupClaimRepository) {
	claimRepo := memory.NewLineupClaimRepository()
	svc := NewLineupService(
		memory.NewCorpsRepository(memory.SeedCorps()),
		claimRepo,
		memory.NewSeasonSchedule("2026-wk8", 8),
		tradeLimit,
	)
	svc.now = func() time.Time { return time.Date(2026, time.July, 4, 12, 0, 0, 0, time.UTC) }
	return svc, claimRepo
}

func TestLineupService_Validate_WithinBudget(t *testing.T) {
	svc, _ := newLineupService(0)

	check, err := svc.Validate(t.Context(), LineupInput{
		UserID: "user-1",
		Class:  "openClass",
		Picks:  cheapPicks(),
	})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if check.TotalValue != 91 {
		t.Fatalf("unexpected total: got=%d want=91", check.TotalValue)
	}
	if check.Budget != 120 {
		t.Fatalf("unexpected budget: got=%d want=120", check.Budget)
	}
}

func TestLineupService_Validate_BudgetExceeded(t *testing.T) {
	svc, _ := newLineupService(0)

	picks := cheapPicks()
	picks["GE1"] = "blue-devils-2014"
	picks["GE2"] = "bluecoats-2016"
	picks["VP"] = "carolina-crown-2013"
	picks["VA"] = "scv-2018"
	picks["CG"] = "cadets-2011"

	_, err := svc.Validate(t.Context(), LineupInput{
		UserID: "user-1",
		Class:  "openClass",
		Picks:  picks,
	})
	if !errors.Is(err, roster.ErrBudgetExceeded) {
		t.Fatalf("expected ErrBudgetExceeded, got %v", err)
	}
}

func TestLineupService_Validate_MissingCaption(t *testing.T) {
	svc, _ := newLineupService(0)

	picks := cheapPicks()
	delete(picks, "P")

	_, err := svc.Validate(t.Context(), LineupInput{
		UserID: "user-1",
		Class:  "worldClass",
		Picks:  picks,
	})
	if !errors.Is(err, roster.ErrIncompleteLineup) {
		t.Fatalf("expected ErrIncompleteLineup, got %v", err)
	}
	if !strings.Contains(err.Error(), "P") {
		t.Fatalf("error should name the missing caption: %v", err)
	}
}

func TestLineupService_Validate_UnknownInputs(t *testing.T) {
	svc, _ := newLineupService(0)

	_, err := svc.Validate(t.Context(), LineupInput{UserID: "user-1", Class: "galaxyClass", Picks: cheapPicks()})
	if !errors.Is(err, gameclass.ErrInvalidClass) {
		t.Fatalf("expected ErrInvalidClass, got %v", err)
	}

	picks := cheapPicks()
	picks["GE1"] = "no-such-corps"
	_, err = svc.Validate(t.Context(), LineupInput{UserID: "user-1", Class: "openClass", Picks: picks})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown corps, got %v", err)
	}

	picks = cheapPicks()
	picks["DM"] = "colts-2015"
	_, err = svc.Validate(t.Context(), LineupInput{UserID: "user-1", Class: "openClass", Picks: picks})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown caption, got %v", err)
	}
}

func TestLineupService_Submit_ClaimsFingerprint(t *testing.T) {
	svc, claimRepo := newLineupService(0)

	claim, err := svc.Submit(t.Context(), LineupInput{
		UserID: "user-1",
		Class:  "openClass",
		Picks:  cheapPicks(),
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if claim.Period != "2026-wk8" {
		t.Fatalf("unexpected period: %s", claim.Period)
	}
	if claim.TotalValue != 91 {
		t.Fatalf("unexpected total: %d", claim.TotalValue)
	}

	stored, found, err := claimRepo.GetByFingerprint(t.Context(), claim.Period, claim.Fingerprint)
	if err != nil || !found {
		t.Fatalf("claim not stored: found=%v err=%v", found, err)
	}
	if stored.UserID != "user-1" {
		t.Fatalf("unexpected claim owner: %s", stored.UserID)
	}
}

func TestLineupService_Submit_RejectsDuplicateLineup(t *testing.T) {
	svc, _ := newLineupService(0)

	if _, err := svc.Submit(t.Context(), LineupInput{UserID: "user-1", Class: "openClass", Picks: cheapPicks()}); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	_, err := svc.Submit(t.Context(), LineupInput{UserID: "user-2", Class: "openClass", Picks: cheapPicks()})
	if !errors.Is(err, roster.ErrDuplicateLineupClaimed) {
		t.Fatalf("expected ErrDuplicateLineupClaimed, got %v", err)
	}
}

func TestLineupService_Submit_ResubmitSameLineupIsNoOp(t *testing.T) {
	svc, claimRepo := newLineupService(1)

	first, err := svc.Submit(t.Context(), LineupInput{UserID: "user-1", Class: "openClass", Picks: cheapPicks()})
	if err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	// The identical lineup again does not consume a trade even at the limit.
	second, err := svc.Submit(t.Context(), LineupInput{UserID: "user-1", Class: "openClass", Picks: cheapPicks()})
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	if second.Fingerprint != first.Fingerprint {
		t.Fatalf("fingerprint changed on resubmit")
	}

	count, err := claimRepo.CountSubmissions(t.Context(), first.Period, "user-1")
	if err != nil {
		t.Fatalf("count submissions: %v", err)
	}
	if count != 1 {
		t.Fatalf("unexpected submission count: got=%d want=1", count)
	}
}

func TestLineupService_Submit_ReplacementReleasesFingerprint(t *testing.T) {
	svc, claimRepo := newLineupService(0)

	first, err := svc.Submit(t.Context(), LineupInput{UserID: "user-1", Class: "openClass", Picks: cheapPicks()})
	if err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	changed := cheapPicks()
	changed["GE1"] = "boston-2019"
	if _, err := svc.Submit(t.Context(), LineupInput{UserID: "user-1", Class: "openClass", Picks: changed}); err != nil {
		t.Fatalf("replacement submit failed: %v", err)
	}

	// The superseded lineup is free for another user to claim.
	if _, err := svc.Submit(t.Context(), LineupInput{UserID: "user-2", Class: "openClass", Picks: cheapPicks()}); err != nil {
		t.Fatalf("reclaim of released lineup failed: %v", err)
	}

	_, found, err := claimRepo.GetByFingerprint(t.Context(), first.Period, first.Fingerprint)
	if err != nil {
		t.Fatalf("get by fingerprint: %v", err)
	}
	if !found {
		t.Fatalf("released fingerprint should be claimed by user-2")
	}
}

func TestLineupService_Submit_TradeLimit(t *testing.T) {
	svc, _ := newLineupService(2)

	variants := []string{"colts-2015", "boston-2019", "phantom-2008"}
	var lastErr error
	for i, corpsID := range variants {
		picks := cheapPicks()
		picks["GE1"] = corpsID
		_, lastErr = svc.Submit(t.Context(), LineupInput{UserID: "user-1", Class: "worldClass", Picks: picks})
		if i < 2 && lastErr != nil {
			t.Fatalf("submit %d failed: %v", i+1, lastErr)
		}
	}
	if !errors.Is(lastErr, roster.ErrTradeLimitExceeded) {
		t.Fatalf("expected ErrTradeLimitExceeded, got %v", lastErr)
	}
}

func TestLineupService_Submit_DistinctUsersDistinctLineups(t *testing.T) {
	svc, _ := newLineupService(0)

	for i := 0; i < 3; i++ {
		picks := cheapPicks()
		picks["P"] = []string{"blue-knights-2014", "boston-2019", "phantom-2008"}[i]
		user := fmt.Sprintf("user-%d", i+1)
		if _, err := svc.Submit(t.Context(), LineupInput{UserID: user, Class: "worldClass", Picks: picks}); err != nil {
			t.Fatalf("submit for %s failed: %v", user, err)
		}
	}
}
