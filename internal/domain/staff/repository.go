package staff

import (
	"context"

	"github.com/fieldpass/fantasy-corps/internal/domain/gameclass"
)

// CatalogSource supplies the published staff card catalog. The production
// implementation is the upstream staff directory feed; reads go through the
// marketplace cache.
type CatalogSource interface {
	FetchCatalog(ctx context.Context) ([]Card, error)
}

// Ledger tracks staff ownership and assignments.
type Ledger interface {
	GetOwned(ctx context.Context, ownerID, staffID string) (Owned, bool, error)
	ListOwnedByUser(ctx context.Context, ownerID string) ([]Owned, error)
	// Create records a new ownership with no assignment. Fails with
	// ErrAlreadyOwned if the owner already holds the card.
	Create(ctx context.Context, owned Owned) error
	// SetAssignment replaces the card's assignment atomically; nil clears it.
	SetAssignment(ctx context.Context, ownerID, staffID string, assignment *Assignment) error
	// Transfer moves ownership between users atomically, clearing any
	// assignment. Fails with ErrNotOwned if fromID does not hold the card.
	Transfer(ctx context.Context, staffID, fromID, toID string) error
	// AssignmentCounts returns, per corps class, how many of the owner's
	// staff are assigned to it. Consumers use this for the bonus cap.
	AssignmentCounts(ctx context.Context, ownerID string) (map[gameclass.Class]int, error)
}
