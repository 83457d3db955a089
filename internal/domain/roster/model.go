package roster

import (
	"time"

	"github.com/fieldpass/fantasy-corps/internal/domain/caption"
	"github.com/fieldpass/fantasy-corps/internal/domain/gameclass"
)

// Pick is one drafted corps filling one caption slot.
type Pick struct {
	Slot       caption.Slot
	CorpsID    string
	PointValue int64
}

// Lineup maps each caption slot to the corps drafted for it.
type Lineup map[caption.Slot]Pick

// Claim records one user's accepted lineup for a scoring period.
// The fingerprint makes identical lineups detectable across users.
type Claim struct {
	UserID      string
	Class       gameclass.Class
	Period      string
	Fingerprint string
	TotalValue  int64
	SubmittedAt time.Time
}
