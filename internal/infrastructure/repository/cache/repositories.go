package cache

import (
	"context"
	"sort"
	"strings"

	"github.com/fieldpass/fantasy-corps/internal/domain/corps"
	basecache "github.com/fieldpass/fantasy-corps/internal/platform/cache"
)

// CorpsRepository is a read-through cache in front of a backing corps
// catalog. The catalog is fixed for a scoring period, so lineup validation
// reads dominate and rarely need to hit the backing store.
type CorpsRepository struct {
	next  corps.Repository
	cache *basecache.Store
}

var _ corps.Repository = (*CorpsRepository)(nil)

func NewCorpsRepository(next corps.Repository, cache *basecache.Store) *CorpsRepository {
	return &CorpsRepository{next: next, cache: cache}
}

func (r *CorpsRepository) List(ctx context.Context) ([]corps.CatalogEntry, error) {
	v, err := r.cache.GetOrLoad(ctx, "corps:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]corps.CatalogEntry(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]corps.CatalogEntry)
	return append([]corps.CatalogEntry(nil), items...), nil
}

func (r *CorpsRepository) GetByIDs(ctx context.Context, corpsIDs []string) ([]corps.CatalogEntry, error) {
	key := corpsByIDsKey(corpsIDs)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.GetByIDs(ctx, corpsIDs)
		if err != nil {
			return nil, err
		}
		return append([]corps.CatalogEntry(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]corps.CatalogEntry)
	return append([]corps.CatalogEntry(nil), items...), nil
}

func corpsByIDsKey(corpsIDs []string) string {
	ids := append([]string(nil), corpsIDs...)
	sort.Strings(ids)
	return "corps:ids:" + strings.Join(ids, ",")
}
