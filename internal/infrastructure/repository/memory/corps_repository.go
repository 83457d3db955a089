package memory

import (
	"context"
	"sync"

	"github.com/fieldpass/fantasy-corps/internal/domain/corps"
)

type CorpsRepository struct {
	mu    sync.RWMutex
	items []corps.CatalogEntry
	byID  map[string]corps.CatalogEntry
}

func NewCorpsRepository(items []corps.CatalogEntry) *CorpsRepository {
	byID := make(map[string]corps.CatalogEntry, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return &CorpsRepository{
		items: append([]corps.CatalogEntry(nil), items...),
		byID:  byID,
	}
}

func (r *CorpsRepository) List(_ context.Context) ([]corps.CatalogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]corps.CatalogEntry(nil), r.items...), nil
}

func (r *CorpsRepository) GetByIDs(_ context.Context, corpsIDs []string) ([]corps.CatalogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]corps.CatalogEntry, 0, len(corpsIDs))
	for _, id := range corpsIDs {
		if entry, ok := r.byID[id]; ok {
			out = append(out, entry)
		}
	}
	return out, nil
}
