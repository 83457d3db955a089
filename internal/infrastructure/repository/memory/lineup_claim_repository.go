package memory

import (
	"context"
	"sync"

	"github.com/fieldpass/fantasy-corps/internal/domain/roster"
)

type LineupClaimRepository struct {
	mu sync.Mutex
	// byUser holds the active claim per user and period; byFingerprint
	// indexes the same claims for duplicate detection.
	byUser        map[string]roster.Claim
	byFingerprint map[string]string
	submissions   map[string]int
}

func NewLineupClaimRepository() *LineupClaimRepository {
	return &LineupClaimRepository{
		byUser:        make(map[string]roster.Claim),
		byFingerprint: make(map[string]string),
		submissions:   make(map[string]int),
	}
}

func claimKey(period, userID string) string {
	return period + "::" + userID
}

func fingerprintKey(period, fingerprint string) string {
	return period + "::" + fingerprint
}

func (r *LineupClaimRepository) GetByFingerprint(_ context.Context, period, fingerprint string) (roster.Claim, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userKey, ok := r.byFingerprint[fingerprintKey(period, fingerprint)]
	if !ok {
		return roster.Claim{}, false, nil
	}
	return r.byUser[userKey], true, nil
}

func (r *LineupClaimRepository) GetByUser(_ context.Context, period, userID string) (roster.Claim, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	claim, ok := r.byUser[claimKey(period, userID)]
	if !ok {
		return roster.Claim{}, false, nil
	}
	return claim, true, nil
}

func (r *LineupClaimRepository) CountSubmissions(_ context.Context, period, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.submissions[claimKey(period, userID)], nil
}

func (r *LineupClaimRepository) Upsert(_ context.Context, claim roster.Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	userKey := claimKey(claim.Period, claim.UserID)
	if previous, ok := r.byUser[userKey]; ok {
		delete(r.byFingerprint, fingerprintKey(previous.Period, previous.Fingerprint))
	}

	r.byUser[userKey] = claim
	r.byFingerprint[fingerprintKey(claim.Period, claim.Fingerprint)] = userKey
	r.submissions[userKey]++
	return nil
}
