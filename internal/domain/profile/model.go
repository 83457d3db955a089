package profile

import (
	"errors"

	"github.com/fieldpass/fantasy-corps/internal/domain/gameclass"
)

var ErrInsufficientFunds = errors.New("insufficient CorpsCoin balance")

// Profile holds the per-user progression and currency state this engine
// reads and adjusts. Authentication and profile CRUD live elsewhere.
type Profile struct {
	UserID          string
	XP              int64
	CorpsCoin       int64
	UnlockedClasses map[gameclass.Class]struct{}
}

func (p Profile) HasUnlocked(class gameclass.Class) bool {
	_, ok := p.UnlockedClasses[class]
	return ok
}
