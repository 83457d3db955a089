package profile

import (
	"context"

	"github.com/fieldpass/fantasy-corps/internal/domain/gameclass"
)

// Repository is the profile store boundary. The CorpsCoin balance is the one
// resource mutated by several subsystems (purchases, auction settlement,
// class unlocks), so every debit or credit goes through AdjustBalance as a
// single atomic adjustment.
type Repository interface {
	GetByUserID(ctx context.Context, userID string) (Profile, bool, error)
	// AdjustBalance applies delta to the user's CorpsCoin atomically. A delta
	// that would take the balance below zero fails with ErrInsufficientFunds
	// and leaves the balance unchanged.
	AdjustBalance(ctx context.Context, userID string, delta int64) error
	// UnlockClass records a class unlock. Unlocks are one-time and never
	// reverted by this engine; repeating an unlock is a no-op.
	UnlockClass(ctx context.Context, userID string, class gameclass.Class) error
}
