package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/hooksink-lab/hooksink/internal/core/storage"
	"github.com/hooksink-lab/hooksink/internal/webhook"
)

// marshalRecordJSON marshals the normalized record into the jsonb document
// column. Pointer fields marshal as explicit nulls, which is load-bearing:
// downstream queries rely on every field being present.
func marshalRecordJSON(rec *webhook.Record) ([]byte, error) {
	docJSON, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	return docJSON, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanStoredEvent scans a database row into a StoredEvent. Compatible with
// both sql.Row (single) and sql.Rows (multiple). The doc column is kept as
// raw JSON so the preserved payload is returned byte-for-byte.
func scanStoredEvent(row scanner) (*storage.StoredEvent, error) {
	var evt storage.StoredEvent
	var docJSON []byte

	if err := row.Scan(&evt.ID, &evt.ReceivedAt, &docJSON); err != nil {
		return nil, err
	}

	evt.Doc = json.RawMessage(docJSON)
	return &evt, nil
}
