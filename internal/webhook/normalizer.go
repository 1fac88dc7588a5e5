package webhook

import (
	"strings"

	"github.com/shopspring/decimal"
)

// fieldPath addresses one nested location inside the untrusted payload.
type fieldPath []string

// Resolution chains per field, most specific nested location first. The
// first path that yields a usable value wins; the rest are never looked at.
// Hotmart has shipped several payload layouts over the years, so each field
// tolerates the known variants.
var (
	eventPaths         = []fieldPath{{"event"}, {"status"}}
	statusPaths        = []fieldPath{{"status"}}
	transactionPaths   = []fieldPath{{"purchase", "transaction"}, {"transaction"}, {"purchase", "transaction_id"}}
	productIDPaths     = []fieldPath{{"product", "id"}, {"product", "ucode"}}
	productNamePaths   = []fieldPath{{"product", "name"}}
	buyerIDPaths       = []fieldPath{{"buyer", "id"}}
	buyerNamePaths     = []fieldPath{{"buyer", "name"}}
	buyerEmailPaths    = []fieldPath{{"buyer", "email"}}
	buyerCountryPaths  = []fieldPath{{"buyer", "country"}}
	amountPaths        = []fieldPath{{"purchase", "value"}, {"price", "value"}, {"value"}}
	currencyPaths      = []fieldPath{{"purchase", "currency"}, {"price", "currency"}}
	methodPaths        = []fieldPath{{"purchase", "payment", "method"}, {"payment", "method"}}
	installmentsPaths  = []fieldPath{{"purchase", "installments"}, {"payment", "installments"}}
	occurrencePaths    = []fieldPath{{"purchase", "approved_date"}, {"purchase", "transaction_date"}, {"creation_date"}}
)

// Normalize maps an arbitrarily-shaped inbound payload into a Record. It is
// a pure function and never fails: every lookup is fallible, and anything
// missing resolves to an explicit null or a documented default.
//
// The payload may wrap the actual event under a nested "data" field; when it
// does, field resolution runs against that inner object, except for the
// top-level event tag which is always tried first.
func Normalize(payload map[string]any) *Record {
	if payload == nil {
		payload = map[string]any{}
	}
	data := payload
	if nested, ok := payload["data"]; ok && truthy(nested) {
		// A wrapper that is present but not an object still hides the
		// root fields; only an absent or falsy "data" exposes the root.
		inner, _ := nested.(map[string]any)
		if inner == nil {
			inner = map[string]any{}
		}
		data = inner
	}

	rec := &Record{
		Provider:        ProviderName,
		HeaderAuthValid: true,
		Currency:        DefaultCurrency,
		Raw:             payload,
		SchemaVersion:   CurrentSchemaVersion,
	}

	// The event tag may live at the root even when everything else is
	// wrapped under data.
	if ev := firstString(payload, []fieldPath{{"event"}}); ev != nil {
		rec.Event = ev
	} else {
		rec.Event = firstString(data, eventPaths)
	}
	rec.Status = firstString(data, statusPaths)
	rec.TransactionID = firstString(data, transactionPaths)

	rec.Product.ID = firstString(data, productIDPaths)
	rec.Product.Name = firstString(data, productNamePaths)

	rec.Buyer.ID = firstString(data, buyerIDPaths)
	rec.Buyer.Name = firstString(data, buyerNamePaths)
	rec.Buyer.Email = normalizeEmail(firstString(data, buyerEmailPaths))
	rec.Buyer.Country = firstString(data, buyerCountryPaths)

	rec.Amount = resolveAmount(data)
	if cur := firstString(data, currencyPaths); cur != nil {
		rec.Currency = *cur
	}

	rec.Payment.Method = firstString(data, methodPaths)
	rec.Payment.Installments = firstInt(data, installmentsPaths)

	rec.OccurrenceDate = firstString(data, occurrencePaths)

	return rec
}

// resolveAmount picks the first present value from the amount chain and
// parses it as a decimal. A value that legitimately parses to zero is kept
// as zero; only a missing or unparseable value becomes null, so free
// promotional transactions stay distinguishable from garbage.
func resolveAmount(data map[string]any) *Money {
	v, ok := firstValue(data, amountPaths)
	if !ok {
		return nil
	}
	d, ok := coerceDecimal(v)
	if !ok {
		return nil
	}
	return &Money{d}
}

// truthy applies JavaScript truthiness to decoded JSON values: null, false,
// 0 and "" are falsy, everything else (empty objects included) is truthy.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	}
	return true
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	lowered := strings.ToLower(strings.TrimSpace(*email))
	if lowered == "" {
		return nil
	}
	return &lowered
}

// dig walks one path through nested maps. JSON nulls and wrong-typed
// intermediate nodes both count as absent.
func dig(m map[string]any, path fieldPath) (any, bool) {
	var cur any = m
	for _, key := range path {
		node, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = node[key]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

// firstValue evaluates a resolution chain and returns the first present,
// non-null value.
func firstValue(m map[string]any, chain []fieldPath) (any, bool) {
	for _, path := range chain {
		if v, ok := dig(m, path); ok {
			return v, true
		}
	}
	return nil, false
}

// firstString resolves a chain to a string. JSON numbers are stringified
// (Hotmart sends numeric product ids and epoch-millis dates); empty strings
// count as absent so the record never stores "".
func firstString(m map[string]any, chain []fieldPath) *string {
	for _, path := range chain {
		v, ok := dig(m, path)
		if !ok {
			continue
		}
		if s, ok := coerceString(v); ok {
			return &s
		}
	}
	return nil
}

func firstInt(m map[string]any, chain []fieldPath) *int64 {
	v, ok := firstValue(m, chain)
	if !ok {
		return nil
	}
	d, ok := coerceDecimal(v)
	if !ok {
		return nil
	}
	n := d.IntPart()
	return &n
}

func coerceString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		trimmed := strings.TrimSpace(val)
		return trimmed, trimmed != ""
	case float64:
		return decimal.NewFromFloat(val).String(), true
	case int:
		return decimal.NewFromInt(int64(val)).String(), true
	case int64:
		return decimal.NewFromInt(val).String(), true
	}
	return "", false
}

// coerceDecimal converts the numeric types JSON decoding can produce.
// JSON numbers unmarshal to float64 in Go; NewFromFloat converts that to an
// exact decimal representation.
func coerceDecimal(v any) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val), true
	case float32:
		return decimal.NewFromFloat(float64(val)), true
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int64:
		return decimal.NewFromInt(val), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(val))
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	}
	return decimal.Decimal{}, false
}
