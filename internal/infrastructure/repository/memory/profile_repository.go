package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/fieldpass/fantasy-corps/internal/domain/gameclass"
	"github.com/fieldpass/fantasy-corps/internal/domain/profile"
)

type ProfileRepository struct {
	mu    sync.Mutex
	items map[string]profile.Profile
}

func NewProfileRepository(profiles []profile.Profile) *ProfileRepository {
	items := make(map[string]profile.Profile, len(profiles))
	for _, p := range profiles {
		items[p.UserID] = cloneProfile(p)
	}
	return &ProfileRepository{items: items}
}

func (r *ProfileRepository) GetByUserID(_ context.Context, userID string) (profile.Profile, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[userID]
	if !ok {
		return profile.Profile{}, false, nil
	}
	return cloneProfile(p), true, nil
}

func (r *ProfileRepository) AdjustBalance(_ context.Context, userID string, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[userID]
	if !ok {
		return fmt.Errorf("profile not found: %s", userID)
	}
	if p.CorpsCoin+delta < 0 {
		return fmt.Errorf("%w: balance=%d requested=%d", profile.ErrInsufficientFunds, p.CorpsCoin, -delta)
	}

	p.CorpsCoin += delta
	r.items[userID] = p
	return nil
}

func (r *ProfileRepository) UnlockClass(_ context.Context, userID string, class gameclass.Class) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[userID]
	if !ok {
		return fmt.Errorf("profile not found: %s", userID)
	}
	if p.UnlockedClasses == nil {
		p.UnlockedClasses = make(map[gameclass.Class]struct{})
	}
	p.UnlockedClasses[class] = struct{}{}
	r.items[userID] = p
	return nil
}

func cloneProfile(p profile.Profile) profile.Profile {
	copied := p
	copied.UnlockedClasses = make(map[gameclass.Class]struct{}, len(p.UnlockedClasses))
	for class := range p.UnlockedClasses {
		copied.UnlockedClasses[class] = struct{}{}
	}
	return copied
}
