package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hooksink-lab/hooksink/internal/webhook"
)

// ErrNotFound is returned when no document exists under the requested key.
var ErrNotFound = errors.New("event document not found")

// StoredEvent is a persisted webhook document as read back from the store.
// Doc is the raw JSON of the normalized record, returned verbatim so the
// preserved payload survives a round trip untouched.
type StoredEvent struct {
	ID         string          `json:"id"`
	ReceivedAt time.Time       `json:"receivedAt"`
	Doc        json.RawMessage `json:"doc"`
}

// DocumentStore persists normalized webhook records keyed by their
// idempotency key.
type DocumentStore interface {
	// UpsertEvent merge-writes the record under key and returns the
	// server-assigned receive timestamp for this write. Creating a new
	// document and redelivering an existing one are the same operation;
	// the write is atomic per document and the timestamp is monotonically
	// non-decreasing across retries of the same key.
	UpsertEvent(ctx context.Context, key string, rec *webhook.Record) (time.Time, error)

	// GetEvent fetches one document by idempotency key.
	// Returns ErrNotFound when absent.
	GetEvent(ctx context.Context, key string) (*StoredEvent, error)

	// ListRecent returns up to limit documents, newest first.
	ListRecent(ctx context.Context, limit int) ([]*StoredEvent, error)
}
