package roster

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/fieldpass/fantasy-corps/internal/domain/caption"
)

func TestFingerprint_CanonicalOrderIndependentOfInsertion(t *testing.T) {
	forward := make(Lineup)
	backward := make(Lineup)

	slots := caption.AllSlots()
	for i, slot := range slots {
		pick := Pick{Slot: slot, CorpsID: fmt.Sprintf("corps-%02d", i+1)}
		forward[slot] = pick
	}
	for i := len(slots) - 1; i >= 0; i-- {
		backward[slots[i]] = forward[slots[i]]
	}

	if Fingerprint(forward) != Fingerprint(backward) {
		t.Fatal("fingerprint depends on insertion order")
	}
}

func TestFingerprint_FormatAndEmptySlots(t *testing.T) {
	lineup := Lineup{
		caption.SlotGE1: {Slot: caption.SlotGE1, CorpsID: "blue-devils-2014"},
	}

	decoded, err := base64.StdEncoding.DecodeString(Fingerprint(lineup))
	if err != nil {
		t.Fatalf("fingerprint is not valid base64: %v", err)
	}

	got := string(decoded)
	want := "GE1:blue-devils-2014|GE2:none|VP:none|VA:none|CG:none|B:none|MA:none|P:none"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFingerprint_SingleSlotChangeChangesFingerprint(t *testing.T) {
	base := fullLineup()

	for _, slot := range caption.AllSlots() {
		changed := make(Lineup, len(base))
		for s, p := range base {
			changed[s] = p
		}
		pick := changed[slot]
		pick.CorpsID = pick.CorpsID + "-alt"
		changed[slot] = pick

		if Fingerprint(base) == Fingerprint(changed) {
			t.Fatalf("changing slot %s did not change the fingerprint", slot)
		}
	}
}

func TestFingerprint_NoAccidentalCollisionsAcrossCatalog(t *testing.T) {
	// Rotate a catalog of 500 corps ids through the GE1 slot.
	seen := make(map[string]string, 500)
	for i := 0; i < 500; i++ {
		lineup := fullLineup()
		pick := lineup[caption.SlotGE1]
		pick.CorpsID = fmt.Sprintf("catalog-corps-%03d", i)
		lineup[caption.SlotGE1] = pick

		fp := Fingerprint(lineup)
		if prev, ok := seen[fp]; ok {
			t.Fatalf("collision between %q and %s", prev, pick.CorpsID)
		}
		seen[fp] = pick.CorpsID
	}
}

func TestFingerprint_SeparatorSafeCorpsIDs(t *testing.T) {
	lineup := fullLineup()
	pick := lineup[caption.SlotGE1]
	pick.CorpsID = strings.ReplaceAll(pick.CorpsID, "corps", "corps name with spaces")
	lineup[caption.SlotGE1] = pick

	if _, err := base64.StdEncoding.DecodeString(Fingerprint(lineup)); err != nil {
		t.Fatalf("fingerprint is not valid base64: %v", err)
	}
}
