package postgres

// SQL for the webhook_events document collection.

const (
	// queryUpsertEvent merge-writes a document under its idempotency key.
	// The write is a single atomic statement, which is the only concurrency
	// protection redeliveries need — there is no read-modify-write.
	//
	// On conflict:
	//   - doc is a field-level jsonb merge; the incoming schemaVersion is
	//     stripped so the stored tag stays fixed at first write,
	//   - received_at is refreshed with GREATEST so it is monotonically
	//     non-decreasing even if clocks wobble,
	//   - the indexed columns track the latest delivery.
	queryUpsertEvent = `
		INSERT INTO webhook_events (
			id, provider, event, transaction_id, schema_version, received_at, doc
		)
		VALUES ($1, $2, $3, $4, $5, now(), $6)
		ON CONFLICT (id) DO UPDATE SET
			provider = EXCLUDED.provider,
			event = EXCLUDED.event,
			transaction_id = EXCLUDED.transaction_id,
			received_at = GREATEST(webhook_events.received_at, now()),
			doc = webhook_events.doc || (EXCLUDED.doc - 'schemaVersion')
		RETURNING received_at
	`

	// queryGetEvent fetches one document by idempotency key.
	queryGetEvent = `
		SELECT id, received_at, doc
		FROM webhook_events
		WHERE id = $1
	`

	// queryListRecent fetches the newest documents for operator inspection.
	queryListRecent = `
		SELECT id, received_at, doc
		FROM webhook_events
		ORDER BY received_at DESC, id
		LIMIT $1
	`
)
