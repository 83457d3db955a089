package gameclass

import "errors"

var ErrInvalidClass = errors.New("unknown competition class")

// Class is a competition tier with its own point budget and unlock threshold.
type Class string

const (
	ClassSoundSport Class = "soundSport"
	ClassA          Class = "aClass"
	ClassOpen       Class = "openClass"
	ClassWorld      Class = "worldClass"
)

type classParams struct {
	pointBudget int64
	requiredXP  int64
	unlockCost  int64
	lockWeeks   int
}

var paramsByClass = map[Class]classParams{
	ClassSoundSport: {pointBudget: 90, requiredXP: 0, unlockCost: 0, lockWeeks: 0},
	ClassA:          {pointBudget: 60, requiredXP: 500, unlockCost: 1000, lockWeeks: 4},
	ClassOpen:       {pointBudget: 120, requiredXP: 2500, unlockCost: 2500, lockWeeks: 5},
	ClassWorld:      {pointBudget: 150, requiredXP: 10000, unlockCost: 5000, lockWeeks: 6},
}

func All() []Class {
	return []Class{ClassSoundSport, ClassA, ClassOpen, ClassWorld}
}

func (c Class) Valid() bool {
	_, ok := paramsByClass[c]
	return ok
}

func (c Class) String() string {
	return string(c)
}

// Parse returns the class matching value, or ErrInvalidClass.
func Parse(value string) (Class, error) {
	c := Class(value)
	if !c.Valid() {
		return "", ErrInvalidClass
	}
	return c, nil
}

// PointBudget is the lineup point ceiling for the class.
func PointBudget(c Class) (int64, error) {
	p, ok := paramsByClass[c]
	if !ok {
		return 0, ErrInvalidClass
	}
	return p.pointBudget, nil
}

// RequiredXP is the experience threshold that unlocks the class for free.
func RequiredXP(c Class) int64 {
	return paramsByClass[c].requiredXP
}

// UnlockCost is the one-time CorpsCoin price for unlocking below the XP threshold.
func UnlockCost(c Class) int64 {
	return paramsByClass[c].unlockCost
}

// LockWeeks is how many weeks before season end registration closes.
// Higher-commitment classes lock out late entrants first.
func LockWeeks(c Class) int {
	return paramsByClass[c].lockWeeks
}
