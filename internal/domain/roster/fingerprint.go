package roster

import (
	"encoding/base64"

	"github.com/valyala/bytebufferpool"

	"github.com/fieldpass/fantasy-corps/internal/domain/caption"
)

const fingerprintSeparator = "|"

// Fingerprint encodes a lineup as a stable, insertion-order-independent
// string: each slot in canonical order as "{slot}:{corpsID|none}", joined and
// base64 encoded. Equality of fingerprints implies equality of lineups; this
// is not a cryptographic hash.
func Fingerprint(lineup Lineup) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for i, slot := range caption.AllSlots() {
		if i > 0 {
			_, _ = buf.WriteString(fingerprintSeparator)
		}
		_, _ = buf.WriteString(slot.String())
		_, _ = buf.WriteString(":")

		if pick, ok := lineup[slot]; ok && pick.CorpsID != "" {
			_, _ = buf.WriteString(pick.CorpsID)
		} else {
			_, _ = buf.WriteString("none")
		}
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}
