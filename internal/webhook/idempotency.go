package webhook

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResolveKey derives the idempotency key a record is stored under.
//
// When the payload carried a transaction id the key is that id, so every
// redelivery of the same business transaction collapses onto one document.
// Without a transaction id a synthetic key is minted from the receive time
// plus a random suffix; such writes are unique per delivery but cannot be
// deduplicated across retries, which the caller should surface (synthetic
// returns true).
func ResolveKey(rec *Record) (key string, synthetic bool) {
	if rec.TransactionID != nil && *rec.TransactionID != "" {
		return *rec.TransactionID, false
	}
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0][:6]
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), suffix), true
}
