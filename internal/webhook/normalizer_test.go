package webhook

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	return payload
}

func TestNormalize_EmptyObject(t *testing.T) {
	payload := map[string]any{}
	rec := Normalize(payload)

	require.Equal(t, ProviderName, rec.Provider)
	require.True(t, rec.HeaderAuthValid)
	require.Equal(t, CurrentSchemaVersion, rec.SchemaVersion)
	require.Equal(t, DefaultCurrency, rec.Currency)

	require.Nil(t, rec.Event)
	require.Nil(t, rec.Status)
	require.Nil(t, rec.TransactionID)
	require.Nil(t, rec.Product.ID)
	require.Nil(t, rec.Product.Name)
	require.Nil(t, rec.Buyer.ID)
	require.Nil(t, rec.Buyer.Name)
	require.Nil(t, rec.Buyer.Email)
	require.Nil(t, rec.Buyer.Country)
	require.Nil(t, rec.Amount)
	require.Nil(t, rec.Payment.Method)
	require.Nil(t, rec.Payment.Installments)
	require.Nil(t, rec.OccurrenceDate)

	require.Equal(t, payload, rec.Raw)
}

func TestNormalize_NilPayload(t *testing.T) {
	rec := Normalize(nil)
	require.NotNil(t, rec.Raw)
	require.Equal(t, DefaultCurrency, rec.Currency)
}

func TestNormalize_PurchaseApproved(t *testing.T) {
	payload := mustParse(t, `{
		"event": "PURCHASE_APPROVED",
		"data": {
			"purchase": {"transaction": "TX1", "value": "99.90", "currency": "BRL"},
			"buyer": {"email": "A@B.com"}
		}
	}`)

	rec := Normalize(payload)

	require.NotNil(t, rec.Event)
	require.Equal(t, "PURCHASE_APPROVED", *rec.Event)
	require.NotNil(t, rec.TransactionID)
	require.Equal(t, "TX1", *rec.TransactionID)
	require.NotNil(t, rec.Amount)
	require.True(t, rec.Amount.Equal(decimal.RequireFromString("99.9")))
	require.Equal(t, "BRL", rec.Currency)
	require.NotNil(t, rec.Buyer.Email)
	require.Equal(t, "a@b.com", *rec.Buyer.Email)
}

func TestNormalize_NestedAndRootEquivalent(t *testing.T) {
	nested := mustParse(t, `{
		"event": "PURCHASE_APPROVED",
		"data": {
			"purchase": {"transaction": "TX9", "value": 10.5, "currency": "USD"},
			"buyer": {"id": "B1", "name": "Ana", "email": "ana@x.com", "country": "BR"},
			"product": {"id": 123, "name": "Course"}
		}
	}`)
	root := mustParse(t, `{
		"event": "PURCHASE_APPROVED",
		"purchase": {"transaction": "TX9", "value": 10.5, "currency": "USD"},
		"buyer": {"id": "B1", "name": "Ana", "email": "ana@x.com", "country": "BR"},
		"product": {"id": 123, "name": "Course"}
	}`)

	a := Normalize(nested)
	b := Normalize(root)

	// Raw necessarily differs; every normalized field must not.
	a.Raw, b.Raw = nil, nil
	require.Equal(t, a, b)
}

func TestNormalize_FieldResolutionOrder(t *testing.T) {
	t.Run("event falls back to data status", func(t *testing.T) {
		rec := Normalize(mustParse(t, `{"data": {"status": "REFUNDED"}}`))
		require.NotNil(t, rec.Event)
		require.Equal(t, "REFUNDED", *rec.Event)
		require.NotNil(t, rec.Status)
		require.Equal(t, "REFUNDED", *rec.Status)
	})

	t.Run("transaction id alternates", func(t *testing.T) {
		rec := Normalize(mustParse(t, `{"data": {"transaction": "T2"}}`))
		require.Equal(t, "T2", *rec.TransactionID)

		rec = Normalize(mustParse(t, `{"data": {"purchase": {"transaction_id": "T3"}}}`))
		require.Equal(t, "T3", *rec.TransactionID)

		// Most specific location wins.
		rec = Normalize(mustParse(t, `{"data": {"transaction": "T2", "purchase": {"transaction": "T1"}}}`))
		require.Equal(t, "T1", *rec.TransactionID)
	})

	t.Run("product id falls back to ucode and stringifies numbers", func(t *testing.T) {
		rec := Normalize(mustParse(t, `{"data": {"product": {"ucode": "abc-1"}}}`))
		require.Equal(t, "abc-1", *rec.Product.ID)

		rec = Normalize(mustParse(t, `{"data": {"product": {"id": 4321, "name": "Ebook"}}}`))
		require.Equal(t, "4321", *rec.Product.ID)
		require.Equal(t, "Ebook", *rec.Product.Name)
	})

	t.Run("occurrence date prefers approval date", func(t *testing.T) {
		rec := Normalize(mustParse(t, `{"data": {
			"creation_date": "2026-01-01",
			"purchase": {"approved_date": "2026-01-03", "transaction_date": "2026-01-02"}
		}}`))
		require.Equal(t, "2026-01-03", *rec.OccurrenceDate)

		rec = Normalize(mustParse(t, `{"data": {
			"creation_date": "2026-01-01",
			"purchase": {"transaction_date": "2026-01-02"}
		}}`))
		require.Equal(t, "2026-01-02", *rec.OccurrenceDate)

		rec = Normalize(mustParse(t, `{"data": {"creation_date": 1767225600000}}`))
		require.Equal(t, "1767225600000", *rec.OccurrenceDate)
	})

	t.Run("payment chains", func(t *testing.T) {
		rec := Normalize(mustParse(t, `{"data": {
			"purchase": {"payment": {"method": "PIX"}, "installments": 3},
			"payment": {"method": "CARD", "installments": 12}
		}}`))
		require.Equal(t, "PIX", *rec.Payment.Method)
		require.Equal(t, int64(3), *rec.Payment.Installments)

		rec = Normalize(mustParse(t, `{"data": {"payment": {"method": "CARD", "installments": 12}}}`))
		require.Equal(t, "CARD", *rec.Payment.Method)
		require.Equal(t, int64(12), *rec.Payment.Installments)
	})

	t.Run("currency falls back through price to default", func(t *testing.T) {
		rec := Normalize(mustParse(t, `{"data": {"price": {"currency": "EUR"}}}`))
		require.Equal(t, "EUR", rec.Currency)

		rec = Normalize(mustParse(t, `{"data": {"purchase": {"value": 1}}}`))
		require.Equal(t, DefaultCurrency, rec.Currency)
	})
}

func TestNormalize_Amount(t *testing.T) {
	t.Run("zero is preserved, not nulled", func(t *testing.T) {
		rec := Normalize(mustParse(t, `{"data": {"purchase": {"value": 0}}}`))
		require.NotNil(t, rec.Amount)
		require.True(t, rec.Amount.IsZero())
	})

	t.Run("unparseable becomes null", func(t *testing.T) {
		rec := Normalize(mustParse(t, `{"data": {"purchase": {"value": "free"}}}`))
		require.Nil(t, rec.Amount)

		rec = Normalize(mustParse(t, `{"data": {"value": true}}`))
		require.Nil(t, rec.Amount)
	})

	t.Run("first present value wins even when a later one parses", func(t *testing.T) {
		rec := Normalize(mustParse(t, `{"data": {"purchase": {"value": "n/a"}, "price": {"value": 5}}}`))
		require.Nil(t, rec.Amount)
	})

	t.Run("fallback chain", func(t *testing.T) {
		rec := Normalize(mustParse(t, `{"data": {"price": {"value": "12.34"}}}`))
		require.True(t, rec.Amount.Equal(decimal.RequireFromString("12.34")))

		rec = Normalize(mustParse(t, `{"data": {"value": 7}}`))
		require.True(t, rec.Amount.Equal(decimal.NewFromInt(7)))
	})
}

func TestNormalize_Email(t *testing.T) {
	rec := Normalize(mustParse(t, `{"data": {"buyer": {"email": "  MiXeD@Case.COM "}}}`))
	require.Equal(t, "mixed@case.com", *rec.Buyer.Email)

	rec = Normalize(mustParse(t, `{"data": {"buyer": {"email": ""}}}`))
	require.Nil(t, rec.Buyer.Email)
}

func TestNormalize_DataWrapperShapes(t *testing.T) {
	t.Run("non-object data hides the root fields", func(t *testing.T) {
		rec := Normalize(mustParse(t, `{"data": "x", "status": "REFUNDED", "purchase": {"transaction": "T1"}}`))
		require.Nil(t, rec.Status)
		require.Nil(t, rec.TransactionID)
	})

	t.Run("null data exposes the root", func(t *testing.T) {
		rec := Normalize(mustParse(t, `{"data": null, "status": "REFUNDED"}`))
		require.NotNil(t, rec.Status)
		require.Equal(t, "REFUNDED", *rec.Status)
	})

	t.Run("falsy scalar data exposes the root", func(t *testing.T) {
		for _, raw := range []string{
			`{"data": "", "status": "S"}`,
			`{"data": 0, "status": "S"}`,
			`{"data": false, "status": "S"}`,
		} {
			rec := Normalize(mustParse(t, raw))
			require.NotNil(t, rec.Status, raw)
			require.Equal(t, "S", *rec.Status, raw)
		}
	})

	t.Run("empty object data is a real wrapper", func(t *testing.T) {
		rec := Normalize(mustParse(t, `{"data": {}, "status": "S"}`))
		require.Nil(t, rec.Status)
	})

	t.Run("root event survives a non-object wrapper", func(t *testing.T) {
		rec := Normalize(mustParse(t, `{"event": "PING", "data": [1, 2]}`))
		require.NotNil(t, rec.Event)
		require.Equal(t, "PING", *rec.Event)
	})
}

func TestNormalize_DeepNullSafety(t *testing.T) {
	// Wrong-typed intermediate nodes and JSON nulls must never panic.
	rec := Normalize(mustParse(t, `{
		"event": null,
		"data": {
			"purchase": "not-an-object",
			"buyer": null,
			"product": {"id": null}
		}
	}`))
	require.Nil(t, rec.Event)
	require.Nil(t, rec.TransactionID)
	require.Nil(t, rec.Product.ID)
	require.Nil(t, rec.Buyer.Email)
}

func TestRecord_MarshalShape(t *testing.T) {
	payload := mustParse(t, `{
		"event": "PURCHASE_APPROVED",
		"data": {"purchase": {"transaction": "TX1", "value": "99.90"}}
	}`)
	rec := Normalize(payload)

	out, err := json.Marshal(rec)
	require.NoError(t, err)

	// Amount must be a bare JSON number, nullable fields explicit nulls.
	require.Contains(t, string(out), `"amount":99.9`)
	require.Contains(t, string(out), `"status":null`)
	require.Contains(t, string(out), `"occurrenceDate":null`)
	require.Contains(t, string(out), `"email":null`)
}

func TestRecord_RawRoundTrip(t *testing.T) {
	payload := mustParse(t, `{
		"event": "PURCHASE_APPROVED",
		"extra": {"deep": [1, 2, {"x": null}]},
		"data": {"purchase": {"transaction": "TX1", "value": 99.9}}
	}`)
	rec := Normalize(payload)

	out, err := json.Marshal(rec)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	require.Equal(t, payload, doc["raw"])
}
