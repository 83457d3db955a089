package roster

import (
	"errors"
	"fmt"
	"sort"

	"github.com/fieldpass/fantasy-corps/internal/domain/caption"
)

var (
	ErrIncompleteLineup        = errors.New("lineup is incomplete")
	ErrMissingCaptions         = errors.New("lineup is missing required captions")
	ErrDuplicateCorpsSelection = errors.New("corps selected in more than one caption")
	ErrBudgetExceeded          = errors.New("lineup point budget exceeded")
	ErrDuplicateLineupClaimed  = errors.New("identical lineup already claimed this period")
	ErrTradeLimitExceeded      = errors.New("lineup change limit reached for this period")
)

// Validate checks a lineup against the class point budget. Checks run in a
// fixed order and stop at the first failure: slot count, slot identity, corps
// uniqueness, then budget. It returns the exact point total on success.
// Pure function; the interactive validate endpoint and the trusted submit
// path share this single implementation.
func Validate(lineup Lineup, budget int64) (int64, error) {
	if len(lineup) != caption.RequiredCount {
		return 0, fmt.Errorf("%w: expected %d captions, got %d", ErrIncompleteLineup, caption.RequiredCount, len(lineup))
	}

	var missing []string
	for _, slot := range caption.AllSlots() {
		if _, ok := lineup[slot]; !ok {
			missing = append(missing, slot.String())
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return 0, fmt.Errorf("%w: %v", ErrMissingCaptions, missing)
	}

	seen := make(map[string]caption.Slot, len(lineup))
	var total int64
	for _, slot := range caption.AllSlots() {
		pick := lineup[slot]
		if pick.CorpsID == "" {
			return 0, fmt.Errorf("%w: empty corps in caption %s", ErrIncompleteLineup, slot)
		}
		if prev, ok := seen[pick.CorpsID]; ok {
			return 0, fmt.Errorf("%w: corps %s in captions %s and %s", ErrDuplicateCorpsSelection, pick.CorpsID, prev, slot)
		}
		seen[pick.CorpsID] = slot
		total += pick.PointValue
	}

	if total > budget {
		return 0, fmt.Errorf("%w: budget=%d total=%d over by %d", ErrBudgetExceeded, budget, total, total-budget)
	}

	return total, nil
}
