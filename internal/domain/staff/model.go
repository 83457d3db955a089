package staff

import (
	"errors"
	"time"

	"github.com/fieldpass/fantasy-corps/internal/domain/caption"
	"github.com/fieldpass/fantasy-corps/internal/domain/gameclass"
)

var (
	ErrAlreadyOwned            = errors.New("staff already owned")
	ErrNotOwned                = errors.New("staff not owned by user")
	ErrAlreadyListedForAuction = errors.New("staff is listed in an open auction")
)

// Card is a marketplace staff card. Immutable once published.
type Card struct {
	ID           string
	Name         string
	Caption      caption.Slot
	YearInducted int
	BaseValue    int64
	Biography    string
}

// Assignment ties an owned staff card to one corps the owner controls.
type Assignment struct {
	Class     gameclass.Class
	CorpsName string
}

// Owned is one user's copy of a staff card, with its optional assignment.
type Owned struct {
	StaffID          string
	OwnerID          string
	CurrentValue     int64
	AssignedTo       *Assignment
	SeasonsCompleted int
	PurchasedAt      time.Time
}

// MaxBonusStaffPerCorps caps how many assigned staff count toward the scoring
// bonus (1% each). The cap is enforced by consumers of assignment data; the
// ledger only has to expose per-corps counts.
const MaxBonusStaffPerCorps = 5
