package money_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stephendolan/chartmogul-cli/internal/money"
)

func TestNormalizeRecognizedFields(t *testing.T) {
	fields := []string{
		"mrr", "arr", "arpa", "asp", "ltv",
		"activity_mrr", "activity_arr", "activity_mrr_movement",
		"activity-mrr", "activity-arr", "activity-mrr-movement",
		"new-biz", "expansion", "contraction", "churn", "reactivation",
	}

	for _, field := range fields {
		got := money.Normalize(map[string]any{field: 1500.0})
		assert.Equal(t, map[string]any{field: 15.0}, got, "field %s", field)
	}
}

func TestNormalizeStripsCentsSuffix(t *testing.T) {
	got := money.Normalize(map[string]any{
		"amount_in_cents":          10050.0,
		"discount_amount_in_cents": 500.0,
		"tax_amount_in_cents":      99.0,
		"custom_fee_in_cents":      100.0,
	})

	assert.Equal(t, map[string]any{
		"amount":          100.5,
		"discount_amount": 5.0,
		"tax_amount":      0.99,
		"custom_fee":      1.0,
	}, got)
}

func TestNormalizeLeavesOtherFields(t *testing.T) {
	in := map[string]any{
		"name":     "Acme",
		"quantity": 3.0,
		"active":   true,
		"uuid":     "cus_123",
	}
	assert.Equal(t, in, money.Normalize(in))
}

func TestNormalizeStrippedKeyCollision(t *testing.T) {
	// Stripping the suffix lands on an existing plain key; the converted
	// monetary value wins regardless of map iteration order.
	got := money.Normalize(map[string]any{
		"amount_in_cents": 10050.0,
		"amount":          "gross",
	})
	assert.Equal(t, map[string]any{"amount": 100.5}, got)
}

func TestNormalizeNonNumericMonetaryName(t *testing.T) {
	// A field with a monetary name but non-numeric value passes through.
	in := map[string]any{"mrr": "n/a", "amount_in_cents": nil}
	assert.Equal(t, in, money.Normalize(in))
}

func TestNormalizeNil(t *testing.T) {
	assert.Nil(t, money.Normalize(nil))
}

func TestNormalizeScalars(t *testing.T) {
	assert.Equal(t, "hello", money.Normalize("hello"))
	assert.Equal(t, 42.0, money.Normalize(42.0))
	assert.Equal(t, true, money.Normalize(true))
}

func TestNormalizeNested(t *testing.T) {
	in := map[string]any{
		"entries": []any{
			map[string]any{"date": "2024-01-01", "mrr": 10000.0},
			map[string]any{"date": "2024-02-01", "mrr": 12000.0},
		},
	}

	got := money.Normalize(in)

	assert.Equal(t, map[string]any{
		"entries": []any{
			map[string]any{"date": "2024-01-01", "mrr": 100.0},
			map[string]any{"date": "2024-02-01", "mrr": 120.0},
		},
	}, got)
}

func TestNormalizeArrayElementWise(t *testing.T) {
	got := money.Normalize([]any{
		map[string]any{"mrr": 100.0},
		"plain",
		nil,
	})
	assert.Equal(t, []any{map[string]any{"mrr": 1.0}, "plain", nil}, got)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := map[string]any{"mrr": 1500.0, "nested": map[string]any{"ltv": 200.0}}
	_ = money.Normalize(in)
	assert.Equal(t, 1500.0, in["mrr"])
	assert.Equal(t, 200.0, in["nested"].(map[string]any)["ltv"])
}

func TestNormalizeAppliedTwiceDoubleDivides(t *testing.T) {
	// Normalization is deliberately not idempotent; the pipeline must run it
	// exactly once.
	once := money.Normalize(map[string]any{"mrr": 1500.0})
	twice := money.Normalize(once)

	m, ok := once.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 15.0, m["mrr"])

	m2, ok := twice.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 0.15, m2["mrr"])
}

func TestNormalizeIntValues(t *testing.T) {
	got := money.Normalize(map[string]any{"mrr": 250})
	assert.Equal(t, map[string]any{"mrr": 2.5}, got)
}
