package webhook

import "github.com/shopspring/decimal"

const (
	// ProviderName tags every stored document with the event source.
	ProviderName = "hotmart"

	// CurrentSchemaVersion is stamped on first write and never rewritten
	// for an existing document.
	CurrentSchemaVersion = 1

	// DefaultCurrency is used when the payload carries no currency at all.
	DefaultCurrency = "BRL"
)

// Money is a decimal monetary value that marshals as a bare JSON number
// (decimal.Decimal marshals as a quoted string by default, which would
// change the document shape).
type Money struct {
	decimal.Decimal
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

// Product identifies what was sold. Both fields are nullable.
type Product struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}

// Buyer identifies who paid. All fields are nullable; Email is stored
// lower-cased and never as an empty string.
type Buyer struct {
	ID      *string `json:"id"`
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Country *string `json:"country"`
}

// Payment describes how the purchase was paid.
type Payment struct {
	Method       *string `json:"method"`
	Installments *int64  `json:"installments"`
}

// Record is the fixed-shape document derived from an arbitrarily-shaped
// inbound payload. Every nullable field marshals as an explicit JSON null
// rather than being absent, so downstream queries can rely on field
// presence.
//
// The authoritative server-side write timestamp (receivedAt) is assigned by
// the persistence layer, not carried here. ReceivedAtISO is the best-effort
// wall-clock snapshot taken when the request arrived.
type Record struct {
	Provider        string  `json:"provider"`
	ReceivedAtISO   string  `json:"receivedAtISO"`
	HeaderAuthValid bool    `json:"headerAuthValid"`
	Event           *string `json:"event"`
	Status          *string `json:"status"`
	TransactionID   *string `json:"transactionId"`
	Product         Product `json:"product"`
	Buyer           Buyer   `json:"buyer"`
	Amount          *Money  `json:"amount"`
	Currency        string  `json:"currency"`
	Payment         Payment `json:"payment"`
	OccurrenceDate  *string `json:"occurrenceDate"`

	// Raw is the entire original payload, preserved verbatim for forensic
	// replay. It must never be mutated or stripped.
	Raw map[string]any `json:"raw"`

	SchemaVersion int `json:"schemaVersion"`
}
