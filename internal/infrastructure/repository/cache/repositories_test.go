package cache

import (
	"context"
	"testing"
	"time"

	"github.com/fieldpass/fantasy-corps/internal/domain/corps"
	basecache "github.com/fieldpass/fantasy-corps/internal/platform/cache"
)

type countingCorpsRepo struct {
	listCalls  int
	byIDsCalls int
	items      []corps.CatalogEntry
}

func (r *countingCorpsRepo) List(context.Context) ([]corps.CatalogEntry, error) {
	r.listCalls++
	return r.items, nil
}

func (r *countingCorpsRepo) GetByIDs(_ context.Context, corpsIDs []string) ([]corps.CatalogEntry, error) {
	r.byIDsCalls++
	var out []corps.CatalogEntry
	for _, item := range r.items {
		for _, id := range corpsIDs {
			if item.ID == id {
				out = append(out, item)
			}
		}
	}
	return out, nil
}

func TestCorpsRepository_ListCachesBackingStore(t *testing.T) {
	backing := &countingCorpsRepo{items: []corps.CatalogEntry{
		{ID: "colts-2015", Name: "Colts 2015", PointValue: 8},
		{ID: "spirit-2000", Name: "Spirit 2000", PointValue: 9},
	}}
	repo := NewCorpsRepository(backing, basecache.NewStore(time.Minute))

	for i := 0; i < 3; i++ {
		items, err := repo.List(context.Background())
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(items))
		}
	}

	if backing.listCalls != 1 {
		t.Fatalf("expected a single backing list call, got %d", backing.listCalls)
	}
}

func TestCorpsRepository_GetByIDsKeyIgnoresOrder(t *testing.T) {
	backing := &countingCorpsRepo{items: []corps.CatalogEntry{
		{ID: "colts-2015", Name: "Colts 2015", PointValue: 8},
		{ID: "spirit-2000", Name: "Spirit 2000", PointValue: 9},
	}}
	repo := NewCorpsRepository(backing, basecache.NewStore(time.Minute))

	if _, err := repo.GetByIDs(context.Background(), []string{"spirit-2000", "colts-2015"}); err != nil {
		t.Fatalf("get by ids: %v", err)
	}
	if _, err := repo.GetByIDs(context.Background(), []string{"colts-2015", "spirit-2000"}); err != nil {
		t.Fatalf("get by ids: %v", err)
	}

	if backing.byIDsCalls != 1 {
		t.Fatalf("expected a single backing lookup, got %d", backing.byIDsCalls)
	}
}
