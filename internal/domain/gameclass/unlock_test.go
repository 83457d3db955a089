package gameclass

import (
	"errors"
	"strings"
	"testing"
)

func TestCanRegister_XPThresholdGrantsFreeEntry(t *testing.T) {
	decision, err := CanRegister(10000, 0, ClassWorld, 8)
	if err != nil {
		t.Fatalf("can register failed: %v", err)
	}
	if !decision.CanRegister {
		t.Fatal("expected registration to be allowed")
	}
	if decision.RequiresPayment || decision.Cost != 0 {
		t.Fatalf("expected free entry, got cost=%d requiresPayment=%v", decision.Cost, decision.RequiresPayment)
	}
}

func TestCanRegister_CoinUnlockRequiresPayment(t *testing.T) {
	decision, err := CanRegister(0, 5000, ClassWorld, 8)
	if err != nil {
		t.Fatalf("can register failed: %v", err)
	}
	if !decision.CanRegister || !decision.RequiresPayment {
		t.Fatalf("expected paid registration, got %+v", decision)
	}
	if decision.Cost != 5000 {
		t.Fatalf("expected cost 5000, got %d", decision.Cost)
	}
}

func TestCanRegister_InsufficientProgressReportsShortfall(t *testing.T) {
	_, err := CanRegister(0, 1200, ClassWorld, 8)
	if !errors.Is(err, ErrInsufficientProgress) {
		t.Fatalf("expected ErrInsufficientProgress, got %v", err)
	}
	if !strings.Contains(err.Error(), "10000 more XP") || !strings.Contains(err.Error(), "3800 more CorpsCoin") {
		t.Fatalf("expected XP and coin shortfall in message, got %q", err.Error())
	}
}

func TestCanRegister_WindowClosedBeatsProgress(t *testing.T) {
	// Window check comes first even for users who could afford the class.
	_, err := CanRegister(99999, 99999, ClassWorld, 5)
	if !errors.Is(err, ErrRegistrationWindowClosed) {
		t.Fatalf("expected ErrRegistrationWindowClosed, got %v", err)
	}
}

func TestCanRegister_UnknownClass(t *testing.T) {
	_, err := CanRegister(0, 0, Class("superClass"), 10)
	if !errors.Is(err, ErrInvalidClass) {
		t.Fatalf("expected ErrInvalidClass, got %v", err)
	}
}

func TestCanRegister_MonotonicInXPAndCoin(t *testing.T) {
	// Increasing xp or coin can only turn a rejection into an acceptance.
	for _, class := range All() {
		base, baseErr := CanRegister(100, 100, class, 10)
		moreXP, moreXPErr := CanRegister(20000, 100, class, 10)
		moreCoin, moreCoinErr := CanRegister(100, 20000, class, 10)

		if base.CanRegister && baseErr == nil {
			if moreXPErr != nil || !moreXP.CanRegister {
				t.Fatalf("class %s: extra XP revoked an acceptance", class)
			}
			if moreCoinErr != nil || !moreCoin.CanRegister {
				t.Fatalf("class %s: extra coin revoked an acceptance", class)
			}
		}
		if moreXPErr != nil && baseErr == nil {
			t.Fatalf("class %s: more XP produced a rejection", class)
		}
		if moreCoinErr != nil && baseErr == nil {
			t.Fatalf("class %s: more coin produced a rejection", class)
		}
	}
}
