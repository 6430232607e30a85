// Package enrich augments activity pages with derived customer-tenure data
// joined from per-customer lookups.
package enrich

import (
	"context"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// avgMonthMillis is the mean Gregorian month (30.44 days) in milliseconds.
// Tenure is a fixed-length-month approximation, not calendar arithmetic.
const avgMonthMillis = 2_629_800_000

// defaultFetchConcurrency bounds the per-customer fetch fan-out.
const defaultFetchConcurrency = 8

// Activity field names read and written by the enricher.
const (
	fieldCustomerUUID = "customer-uuid"
	fieldActivityDate = "date"
	fieldSince        = "customer-since"
	fieldSinceAlt     = "customer_since"
	fieldTenure       = "customer-tenure-months"
)

// CustomerFetcher retrieves a single customer record as decoded JSON.
// Implemented by api.Client.
type CustomerFetcher interface {
	Customer(ctx context.Context, uuid string) (any, error)
}

// Enricher joins customer tenure data onto activity pages. Per-customer fetch
// failures degrade that customer to "missing" instead of failing the batch;
// they are reported only on the debug log.
type Enricher struct {
	fetcher     CustomerFetcher
	logger      *zap.Logger
	concurrency int
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithLogger sets the diagnostic logger for discarded fetch failures.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Enricher) { e.logger = logger }
}

// WithConcurrency sets the fetch fan-out limit.
func WithConcurrency(n int) Option {
	return func(e *Enricher) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// New creates an Enricher backed by the given customer fetcher.
func New(fetcher CustomerFetcher, opts ...Option) *Enricher {
	e := &Enricher{
		fetcher:     fetcher,
		logger:      zap.NewNop(),
		concurrency: defaultFetchConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Activities returns a copy of an activities page whose entries carry
// customer-since and customer-tenure-months fields where the referenced
// customer could be fetched and has a since date. Entry order and all
// pagination metadata are preserved. Pages without an entries list are
// returned unchanged.
func (e *Enricher) Activities(ctx context.Context, page any) any {
	pageObj, ok := page.(map[string]any)
	if !ok {
		return page
	}
	entries, ok := pageObj["entries"].([]any)
	if !ok {
		return page
	}

	customers := e.fetchCustomers(ctx, distinctCustomerUUIDs(entries))

	enriched := make([]any, len(entries))
	for i, item := range entries {
		enriched[i] = enrichEntry(item, customers)
	}

	out := make(map[string]any, len(pageObj))
	for key, val := range pageObj {
		out[key] = val
	}
	out["entries"] = enriched
	return out
}

// distinctCustomerUUIDs collects the distinct non-empty customer references
// across a page's entries.
func distinctCustomerUUIDs(entries []any) []string {
	seen := make(map[string]struct{})
	var uuids []string
	for _, item := range entries {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		uuid, _ := entry[fieldCustomerUUID].(string)
		if uuid == "" {
			continue
		}
		if _, dup := seen[uuid]; dup {
			continue
		}
		seen[uuid] = struct{}{}
		uuids = append(uuids, uuid)
	}
	return uuids
}

// fetchCustomers fans out one fetch per distinct customer and keeps the
// successes. Failures are dropped; partial enrichment is preferred over total
// failure.
func (e *Enricher) fetchCustomers(ctx context.Context, uuids []string) map[string]map[string]any {
	byUUID := make(map[string]map[string]any, len(uuids))
	if len(uuids) == 0 {
		return byUUID
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for _, uuid := range uuids {
		g.Go(func() error {
			raw, err := e.fetcher.Customer(gctx, uuid)
			if err != nil {
				e.logger.Debug("customer fetch failed during enrichment",
					zap.String("customer_uuid", uuid), zap.Error(err))
				return nil
			}
			customer, ok := raw.(map[string]any)
			if !ok {
				return nil
			}
			mu.Lock()
			byUUID[uuid] = customer
			mu.Unlock()
			return nil
		})
	}

	// Workers never return an error; Wait is just the join point.
	_ = g.Wait()
	return byUUID
}

// enrichEntry returns a copy of an activity entry with tenure fields added
// when its customer and since date are known. Non-object entries pass through.
func enrichEntry(item any, customers map[string]map[string]any) any {
	entry, ok := item.(map[string]any)
	if !ok {
		return item
	}

	out := make(map[string]any, len(entry)+2)
	for key, val := range entry {
		out[key] = val
	}

	uuid, _ := entry[fieldCustomerUUID].(string)
	customer, ok := customers[uuid]
	if !ok {
		return out
	}

	since := customerSince(customer)
	if since == "" {
		return out
	}
	out[fieldSince] = since

	sinceTime, ok := parseTime(since)
	if !ok {
		return out
	}
	activityDate, _ := entry[fieldActivityDate].(string)
	activityTime, ok := parseTime(activityDate)
	if !ok {
		return out
	}

	months := float64(activityTime.Sub(sinceTime).Milliseconds()) / avgMonthMillis
	out[fieldTenure] = int(math.Round(months))
	return out
}

// customerSince reads the customer's since date, preferring the hyphenated
// field name and falling back to the underscored one.
func customerSince(customer map[string]any) string {
	if s, _ := customer[fieldSince].(string); s != "" {
		return s
	}
	s, _ := customer[fieldSinceAlt].(string)
	return s
}

func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
