package caption

// Slot is one of the eight judged performance captions a lineup must fill.
type Slot string

const (
	SlotGE1 Slot = "GE1"
	SlotGE2 Slot = "GE2"
	SlotVP  Slot = "VP"
	SlotVA  Slot = "VA"
	SlotCG  Slot = "CG"
	SlotB   Slot = "B"
	SlotMA  Slot = "MA"
	SlotP   Slot = "P"
)

// Category groups caption slots for scoring display.
type Category string

const (
	CategoryGeneralEffect Category = "general_effect"
	CategoryVisual        Category = "visual"
	CategoryMusic         Category = "music"
)

var categoryBySlot = map[Slot]Category{
	SlotGE1: CategoryGeneralEffect,
	SlotGE2: CategoryGeneralEffect,
	SlotVP:  CategoryVisual,
	SlotVA:  CategoryVisual,
	SlotCG:  CategoryVisual,
	SlotB:   CategoryMusic,
	SlotMA:  CategoryMusic,
	SlotP:   CategoryMusic,
}

// canonicalOrder fixes the slot order used for fingerprints and display.
var canonicalOrder = []Slot{SlotGE1, SlotGE2, SlotVP, SlotVA, SlotCG, SlotB, SlotMA, SlotP}

// RequiredCount is the number of slots every complete lineup fills.
const RequiredCount = 8

func AllSlots() []Slot {
	return append([]Slot(nil), canonicalOrder...)
}

func (s Slot) Valid() bool {
	_, ok := categoryBySlot[s]
	return ok
}

func (s Slot) Category() Category {
	return categoryBySlot[s]
}

func (s Slot) String() string {
	return string(s)
}

// Parse returns the slot matching value, or false for unknown captions.
func Parse(value string) (Slot, bool) {
	s := Slot(value)
	if !s.Valid() {
		return "", false
	}
	return s, true
}
