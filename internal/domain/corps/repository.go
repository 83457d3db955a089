package corps

import "context"

// Repository exposes the season corps catalog.
type Repository interface {
	List(ctx context.Context) ([]CatalogEntry, error)
	GetByIDs(ctx context.Context, corpsIDs []string) ([]CatalogEntry, error)
}
