package enrich_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stephendolan/chartmogul-cli/internal/enrich"
)

// fakeFetcher serves canned customers and records how often each UUID was
// requested.
type fakeFetcher struct {
	mu        sync.Mutex
	customers map[string]map[string]any
	failing   map[string]bool
	calls     map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		customers: make(map[string]map[string]any),
		failing:   make(map[string]bool),
		calls:     make(map[string]int),
	}
}

func (f *fakeFetcher) Customer(_ context.Context, uuid string) (any, error) {
	f.mu.Lock()
	f.calls[uuid]++
	f.mu.Unlock()

	if f.failing[uuid] {
		return nil, fmt.Errorf("fetch %s: boom", uuid)
	}
	customer, ok := f.customers[uuid]
	if !ok {
		return nil, fmt.Errorf("fetch %s: not found", uuid)
	}
	return map[string]any(customer), nil
}

func activityPage(entries ...map[string]any) map[string]any {
	raw := make([]any, len(entries))
	for i, e := range entries {
		raw[i] = e
	}
	return map[string]any{
		"entries":  raw,
		"has_more": false,
		"per_page": 200.0,
		"page":     1.0,
	}
}

func entryAt(t *testing.T, page any, i int) map[string]any {
	t.Helper()
	entries, ok := page.(map[string]any)["entries"].([]any)
	require.True(t, ok)
	require.Greater(t, len(entries), i)
	entry, ok := entries[i].(map[string]any)
	require.True(t, ok)
	return entry
}

func TestActivitiesComputesTenure(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.customers["cus_1"] = map[string]any{
		"uuid":           "cus_1",
		"customer-since": "2024-01-01T00:00:00Z",
	}

	page := activityPage(map[string]any{
		"customer-uuid": "cus_1",
		"date":          "2024-07-01T00:00:00Z",
		"type":          "expansion",
	})

	got := enrich.New(fetcher).Activities(context.Background(), page)

	entry := entryAt(t, got, 0)
	assert.Equal(t, "2024-01-01T00:00:00Z", entry["customer-since"])
	// 182 days = 15,724,800,000 ms; / 2,629,800,000 ms rounds to 6 months.
	assert.Equal(t, 6, entry["customer-tenure-months"])
	assert.Equal(t, "expansion", entry["type"])
}

func TestActivitiesUnderscoredSinceFallback(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.customers["cus_1"] = map[string]any{
		"uuid":           "cus_1",
		"customer_since": "2023-06-15",
	}

	page := activityPage(map[string]any{"customer-uuid": "cus_1", "date": "2023-06-15"})
	got := enrich.New(fetcher).Activities(context.Background(), page)

	entry := entryAt(t, got, 0)
	assert.Equal(t, "2023-06-15", entry["customer-since"])
	assert.Equal(t, 0, entry["customer-tenure-months"])
}

func TestActivitiesPrefersHyphenatedSince(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.customers["cus_1"] = map[string]any{
		"customer-since": "2024-01-01",
		"customer_since": "2010-01-01",
	}

	page := activityPage(map[string]any{"customer-uuid": "cus_1", "date": "2024-01-01"})
	entry := entryAt(t, enrich.New(fetcher).Activities(context.Background(), page), 0)
	assert.Equal(t, "2024-01-01", entry["customer-since"])
}

func TestActivitiesFetchFailureDegrades(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.customers["cus_ok"] = map[string]any{"customer-since": "2024-01-01"}
	fetcher.failing["cus_bad"] = true

	page := activityPage(
		map[string]any{"customer-uuid": "cus_bad", "date": "2024-03-01", "type": "churn"},
		map[string]any{"customer-uuid": "cus_ok", "date": "2024-03-01", "type": "expansion"},
	)

	got := enrich.New(fetcher).Activities(context.Background(), page)

	// Failed customer: entry survives, in order, without enrichment fields.
	first := entryAt(t, got, 0)
	assert.Equal(t, "churn", first["type"])
	assert.NotContains(t, first, "customer-since")
	assert.NotContains(t, first, "customer-tenure-months")

	// 60 days -> 1.97 average months -> rounds to 2.
	second := entryAt(t, got, 1)
	assert.Equal(t, 2, second["customer-tenure-months"])
}

func TestActivitiesNoSinceDateOmitsFields(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.customers["cus_1"] = map[string]any{"uuid": "cus_1", "name": "Acme"}

	page := activityPage(map[string]any{"customer-uuid": "cus_1", "date": "2024-03-01"})
	entry := entryAt(t, enrich.New(fetcher).Activities(context.Background(), page), 0)

	assert.NotContains(t, entry, "customer-since")
	assert.NotContains(t, entry, "customer-tenure-months")
}

func TestActivitiesFetchesEachCustomerOnce(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.customers["cus_1"] = map[string]any{"customer-since": "2024-01-01"}
	fetcher.customers["cus_2"] = map[string]any{"customer-since": "2024-01-01"}

	page := activityPage(
		map[string]any{"customer-uuid": "cus_1", "date": "2024-02-01"},
		map[string]any{"customer-uuid": "cus_2", "date": "2024-02-01"},
		map[string]any{"customer-uuid": "cus_1", "date": "2024-03-01"},
		map[string]any{"customer-uuid": "", "date": "2024-03-01"},
		map[string]any{"date": "2024-03-01"},
	)

	enrich.New(fetcher).Activities(context.Background(), page)

	assert.Equal(t, map[string]int{"cus_1": 1, "cus_2": 1}, fetcher.calls)
}

func TestActivitiesPreservesPageMetadata(t *testing.T) {
	fetcher := newFakeFetcher()
	page := activityPage(map[string]any{"customer-uuid": "cus_1", "date": "2024-03-01"})
	page["has_more"] = true
	page["total_pages"] = 7.0

	got, ok := enrich.New(fetcher).Activities(context.Background(), page).(map[string]any)
	require.True(t, ok)

	assert.Equal(t, true, got["has_more"])
	assert.Equal(t, 7.0, got["total_pages"])
	assert.Equal(t, 200.0, got["per_page"])
}

func TestActivitiesDoesNotMutateInput(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.customers["cus_1"] = map[string]any{"customer-since": "2024-01-01"}

	entry := map[string]any{"customer-uuid": "cus_1", "date": "2024-06-01"}
	page := activityPage(entry)

	enrich.New(fetcher).Activities(context.Background(), page)

	assert.NotContains(t, entry, "customer-tenure-months")
}

func TestActivitiesNonPageShapesPassThrough(t *testing.T) {
	e := enrich.New(newFakeFetcher())

	assert.Nil(t, e.Activities(context.Background(), nil))
	assert.Equal(t, "x", e.Activities(context.Background(), "x"))

	noEntries := map[string]any{"summary": "none"}
	assert.Equal(t, noEntries, e.Activities(context.Background(), noEntries))
}

func TestActivitiesTenureRounding(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.customers["cus_1"] = map[string]any{"customer-since": "2024-01-01"}

	// 46 days = 3,974,400,000 ms -> 1.51 months -> rounds to 2.
	page := activityPage(map[string]any{"customer-uuid": "cus_1", "date": "2024-02-16"})
	entry := entryAt(t, enrich.New(fetcher).Activities(context.Background(), page), 0)
	assert.Equal(t, 2, entry["customer-tenure-months"])
}
