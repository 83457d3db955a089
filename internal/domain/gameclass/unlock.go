package gameclass

import (
	"errors"
	"fmt"
)

var (
	ErrRegistrationWindowClosed = errors.New("registration window closed for class")
	ErrInsufficientProgress     = errors.New("insufficient progress to unlock class")
)

// Decision is the outcome of a registration gate check. When RequiresPayment
// is set the caller must debit Cost from the user balance as a separate,
// explicit step; CanRegister itself never mutates state.
type Decision struct {
	CanRegister     bool
	Cost            int64
	RequiresPayment bool
}

// CanRegister decides whether a user may register for a class given their XP,
// CorpsCoin balance, and the weeks left in the season.
func CanRegister(xp, corpsCoin int64, class Class, weeksRemaining int) (Decision, error) {
	params, ok := paramsByClass[class]
	if !ok {
		return Decision{}, fmt.Errorf("%w: %s", ErrInvalidClass, class)
	}

	if weeksRemaining < params.lockWeeks {
		return Decision{}, fmt.Errorf(
			"%w: %s closes %d weeks before season end, %d remaining",
			ErrRegistrationWindowClosed, class, params.lockWeeks, weeksRemaining,
		)
	}

	if xp >= params.requiredXP {
		return Decision{CanRegister: true}, nil
	}

	if corpsCoin >= params.unlockCost {
		return Decision{CanRegister: true, Cost: params.unlockCost, RequiresPayment: true}, nil
	}

	return Decision{}, fmt.Errorf(
		"%w: need %d more XP or %d more CorpsCoin",
		ErrInsufficientProgress, params.requiredXP-xp, params.unlockCost-corpsCoin,
	)
}
