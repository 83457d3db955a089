package roster

import "context"

// ClaimRepository persists accepted lineup claims per scoring period.
type ClaimRepository interface {
	// GetByFingerprint reports whether any user already claimed this exact
	// lineup in the period.
	GetByFingerprint(ctx context.Context, period, fingerprint string) (Claim, bool, error)
	GetByUser(ctx context.Context, period, userID string) (Claim, bool, error)
	// CountSubmissions returns how many accepted submissions the user has
	// made this period, for trade-limit enforcement.
	CountSubmissions(ctx context.Context, period, userID string) (int, error)
	// Upsert replaces the user's claim for the period atomically, releasing
	// the fingerprint of any superseded claim.
	Upsert(ctx context.Context, claim Claim) error
}
