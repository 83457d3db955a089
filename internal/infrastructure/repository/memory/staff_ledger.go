package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/fieldpass/fantasy-corps/internal/domain/gameclass"
	"github.com/fieldpass/fantasy-corps/internal/domain/staff"
)

type StaffLedger struct {
	mu    sync.Mutex
	items map[string]staff.Owned
}

func NewStaffLedger() *StaffLedger {
	return &StaffLedger{items: make(map[string]staff.Owned)}
}

func ownedKey(ownerID, staffID string) string {
	return ownerID + "::" + staffID
}

func (r *StaffLedger) GetOwned(_ context.Context, ownerID, staffID string) (staff.Owned, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	owned, ok := r.items[ownedKey(ownerID, staffID)]
	if !ok {
		return staff.Owned{}, false, nil
	}
	return cloneOwned(owned), true, nil
}

func (r *StaffLedger) ListOwnedByUser(_ context.Context, ownerID string) ([]staff.Owned, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []staff.Owned
	for _, owned := range r.items {
		if owned.OwnerID == ownerID {
			out = append(out, cloneOwned(owned))
		}
	}
	return out, nil
}

func (r *StaffLedger) Create(_ context.Context, owned staff.Owned) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ownedKey(owned.OwnerID, owned.StaffID)
	if _, exists := r.items[key]; exists {
		return fmt.Errorf("%w: staff=%s", staff.ErrAlreadyOwned, owned.StaffID)
	}

	owned.AssignedTo = nil
	r.items[key] = cloneOwned(owned)
	return nil
}

func (r *StaffLedger) SetAssignment(_ context.Context, ownerID, staffID string, assignment *staff.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ownedKey(ownerID, staffID)
	owned, ok := r.items[key]
	if !ok {
		return fmt.Errorf("%w: staff=%s", staff.ErrNotOwned, staffID)
	}

	if assignment == nil {
		owned.AssignedTo = nil
	} else {
		copied := *assignment
		owned.AssignedTo = &copied
	}
	r.items[key] = owned
	return nil
}

func (r *StaffLedger) Transfer(_ context.Context, staffID, fromID, toID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	fromKey := ownedKey(fromID, staffID)
	owned, ok := r.items[fromKey]
	if !ok {
		return fmt.Errorf("%w: staff=%s owner=%s", staff.ErrNotOwned, staffID, fromID)
	}
	toKey := ownedKey(toID, staffID)
	if _, exists := r.items[toKey]; exists {
		return fmt.Errorf("%w: staff=%s owner=%s", staff.ErrAlreadyOwned, staffID, toID)
	}

	delete(r.items, fromKey)
	owned.OwnerID = toID
	owned.AssignedTo = nil
	r.items[toKey] = owned
	return nil
}

func (r *StaffLedger) AssignmentCounts(_ context.Context, ownerID string) (map[gameclass.Class]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[gameclass.Class]int)
	for _, owned := range r.items {
		if owned.OwnerID == ownerID && owned.AssignedTo != nil {
			counts[owned.AssignedTo.Class]++
		}
	}
	return counts, nil
}

func cloneOwned(o staff.Owned) staff.Owned {
	copied := o
	if o.AssignedTo != nil {
		assignment := *o.AssignedTo
		copied.AssignedTo = &assignment
	}
	return copied
}
