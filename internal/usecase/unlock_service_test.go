package usecase

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/fieldpass/fantasy-corps/internal/domain/gameclass"
	"github.com/fieldpass/fantasy-corps/internal/domain/profile"
	"github.com/fieldpass/fantasy-corps/internal/infrastructure/repository/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newUnlockService(weeksRemaining int) (*UnlockService, *memory.ProfileRepository) {
	profileRepo := memory.NewProfileRepository(memory.SeedProfiles())
	svc := NewUnlockService(profileRepo, memory.NewSeasonSchedule("2026-wk8", weeksRemaining), discardLogger())
	return svc, profileRepo
}

func TestUnlockService_Registration_AlreadyUnlocked(t *testing.T) {
	svc, _ := newUnlockService(8)

	status, err := svc.Registration(t.Context(), "demo-director", "worldClass")
	if err != nil {
		t.Fatalf("registration check failed: %v", err)
	}
	if !status.Unlocked || !status.CanRegister {
		t.Fatalf("expected unlocked class to allow registration: %+v", status)
	}
}

func TestUnlockService_Registration_RequiresPayment(t *testing.T) {
	svc, _ := newUnlockService(8)

	// demo-rookie has 150 XP and 1200 CorpsCoin; aClass needs 500 XP or 1000 coin.
	status, err := svc.Registration(t.Context(), "demo-rookie", "aClass")
	if err != nil {
		t.Fatalf("registration check failed: %v", err)
	}
	if !status.CanRegister {
		t.Fatalf("expected rookie to afford aClass unlock: %+v", status)
	}
	if !status.RequiresPayment || status.Cost != gameclass.UnlockCost(gameclass.ClassA) {
		t.Fatalf("expected paid unlock: %+v", status)
	}
}

func TestUnlockService_Registration_ReportsShortfall(t *testing.T) {
	svc, _ := newUnlockService(8)

	status, err := svc.Registration(t.Context(), "demo-rookie", "worldClass")
	if err != nil {
		t.Fatalf("registration check failed: %v", err)
	}
	if status.CanRegister {
		t.Fatalf("rookie should not reach worldClass: %+v", status)
	}
	if !strings.Contains(status.Reason, "more XP") {
		t.Fatalf("reason should describe the shortfall: %q", status.Reason)
	}
}

func TestUnlockService_Registration_WindowClosed(t *testing.T) {
	svc, _ := newUnlockService(2)

	status, err := svc.Registration(t.Context(), "demo-rookie", "aClass")
	if err != nil {
		t.Fatalf("registration check failed: %v", err)
	}
	if status.CanRegister {
		t.Fatalf("registration should be closed: %+v", status)
	}
	if !strings.Contains(status.Reason, "closes") {
		t.Fatalf("reason should describe the closed window: %q", status.Reason)
	}
}

func TestUnlockService_Unlock_DebitsCost(t *testing.T) {
	svc, profileRepo := newUnlockService(8)

	status, err := svc.Unlock(t.Context(), "demo-rookie", "aClass")
	if err != nil {
		t.Fatalf("unlock failed: %v", err)
	}
	if !status.Unlocked || !status.RequiresPayment {
		t.Fatalf("expected paid unlock: %+v", status)
	}

	prof, _, err := profileRepo.GetByUserID(t.Context(), "demo-rookie")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if !prof.HasUnlocked(gameclass.ClassA) {
		t.Fatalf("class not recorded as unlocked")
	}
	if want := int64(1200) - status.Cost; prof.CorpsCoin != want {
		t.Fatalf("unexpected balance: got=%d want=%d", prof.CorpsCoin, want)
	}
}

func TestUnlockService_Unlock_FreeWhenXPThresholdMet(t *testing.T) {
	profileRepo := memory.NewProfileRepository([]profile.Profile{
		{UserID: "veteran", XP: 20000, CorpsCoin: 50},
	})
	svc := NewUnlockService(profileRepo, memory.NewSeasonSchedule("2026-wk8", 10), discardLogger())

	status, err := svc.Unlock(t.Context(), "veteran", "worldClass")
	if err != nil {
		t.Fatalf("unlock failed: %v", err)
	}
	if status.RequiresPayment || status.Cost != 0 {
		t.Fatalf("XP-qualified unlock should be free: %+v", status)
	}

	prof, _, _ := profileRepo.GetByUserID(t.Context(), "veteran")
	if prof.CorpsCoin != 50 {
		t.Fatalf("balance should be untouched: %d", prof.CorpsCoin)
	}
}

func TestUnlockService_Unlock_InsufficientProgress(t *testing.T) {
	svc, profileRepo := newUnlockService(8)

	_, err := svc.Unlock(t.Context(), "demo-rookie", "worldClass")
	if !errors.Is(err, gameclass.ErrInsufficientProgress) {
		t.Fatalf("expected ErrInsufficientProgress, got %v", err)
	}

	prof, _, _ := profileRepo.GetByUserID(t.Context(), "demo-rookie")
	if prof.CorpsCoin != 1200 {
		t.Fatalf("failed unlock must not touch the balance: %d", prof.CorpsCoin)
	}
}

func TestUnlockService_Unlock_Idempotent(t *testing.T) {
	svc, profileRepo := newUnlockService(8)

	if _, err := svc.Unlock(t.Context(), "demo-rookie", "aClass"); err != nil {
		t.Fatalf("first unlock failed: %v", err)
	}
	after, _, _ := profileRepo.GetByUserID(t.Context(), "demo-rookie")

	status, err := svc.Unlock(t.Context(), "demo-rookie", "aClass")
	if err != nil {
		t.Fatalf("repeat unlock failed: %v", err)
	}
	if !status.Unlocked {
		t.Fatalf("repeat unlock should report unlocked")
	}

	again, _, _ := profileRepo.GetByUserID(t.Context(), "demo-rookie")
	if again.CorpsCoin != after.CorpsCoin {
		t.Fatalf("repeat unlock must not debit again: got=%d want=%d", again.CorpsCoin, after.CorpsCoin)
	}
}

func TestUnlockService_UnknownProfile(t *testing.T) {
	svc, _ := newUnlockService(8)

	if _, err := svc.Registration(t.Context(), "ghost", "aClass"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
