// Package testutil provides a fake ChartMogul API server for tests. It
// serves the subset of the v1 API the CLI talks to, backed by seeded
// in-memory stores, and can simulate auth failures, rate limiting, and
// per-customer errors.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/stephendolan/chartmogul-cli/pkg/store"
)

// TestAPIKey is the API key the fake server accepts.
const TestAPIKey = "cm_test_api_key"

// APIServer is a fake ChartMogul API over httptest.
type APIServer struct {
	*httptest.Server

	Customers  *store.Store[map[string]any]
	Activities *store.Store[map[string]any]

	mu            sync.Mutex
	rateLimited   bool
	failCustomers map[string]int
	metrics       map[string]any
	requests      map[string]int
}

// NewAPIServer starts a fake ChartMogul API server. It is shut down when the
// test finishes.
func NewAPIServer(t *testing.T) *APIServer {
	t.Helper()

	s := &APIServer{
		Customers:     store.New[map[string]any](),
		Activities:    store.New[map[string]any](),
		failCustomers: make(map[string]int),
		requests:      make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/ping", s.withAuth(s.handlePing))
	mux.HandleFunc("GET /v1/account", s.withAuth(s.handleAccount))
	mux.HandleFunc("GET /v1/customers", s.withAuth(s.handleListCustomers))
	mux.HandleFunc("GET /v1/customers/search", s.withAuth(s.handleSearchCustomers))
	mux.HandleFunc("GET /v1/customers/{uuid}", s.withAuth(s.handleGetCustomer))
	mux.HandleFunc("GET /v1/customers/{uuid}/activities", s.withAuth(s.handleCustomerActivities))
	mux.HandleFunc("GET /v1/customers/{uuid}/subscriptions", s.withAuth(s.handleCustomerSubscriptions))
	mux.HandleFunc("GET /v1/activities", s.withAuth(s.handleListActivities))
	mux.HandleFunc("GET /v1/metrics/{metric}", s.withAuth(s.handleMetrics))
	mux.HandleFunc("GET /v1/data_sources", s.withAuth(s.handleDataSources))

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// SetRateLimited makes every subsequent request return HTTP 429.
func (s *APIServer) SetRateLimited(limited bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rateLimited = limited
}

// FailCustomer makes GET /v1/customers/{uuid} return the given status.
func (s *APIServer) FailCustomer(uuid string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCustomers[uuid] = status
}

// SetMetrics replaces the payload served by /v1/metrics/{metric}.
func (s *APIServer) SetMetrics(payload map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = payload
}

// Requests returns how many times the given path was served.
func (s *APIServer) Requests(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[path]
}

// SeedCustomer stores a customer, assigning a UUID when the fields carry
// none, and returns the UUID.
func (s *APIServer) SeedCustomer(fields map[string]any) string {
	id, _ := fields["uuid"].(string)
	if id == "" {
		id = "cus_" + uuid.NewString()
		fields["uuid"] = id
	}
	s.Customers.Set(id, fields)
	return id
}

// SeedActivity stores an activity, assigning a UUID when the fields carry
// none, and returns the UUID.
func (s *APIServer) SeedActivity(fields map[string]any) string {
	id, _ := fields["uuid"].(string)
	if id == "" {
		id = "act_" + uuid.NewString()
		fields["uuid"] = id
	}
	s.Activities.Set(id, fields)
	return id
}

func (s *APIServer) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.URL.Path]++
		limited := s.rateLimited
		s.mu.Unlock()

		if limited {
			w.Header().Set("Retry-After", "30")
			writeJSON(w, http.StatusTooManyRequests, map[string]any{
				"error":   "too_many_requests",
				"message": "Rate limit exceeded",
			})
			return
		}

		user, _, ok := r.BasicAuth()
		if !ok || user != TestAPIKey {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"error":   "unauthorized",
				"message": "Invalid API key",
			})
			return
		}
		next(w, r)
	}
}

func (s *APIServer) handlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": "pong!"})
}

func (s *APIServer) handleAccount(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":          "Test Account",
		"currency":      "USD",
		"time_zone":     "UTC",
		"week_start_on": "monday",
	})
}

func (s *APIServer) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Customers.Paginate(pageParams(r)))
}

func (s *APIServer) handleSearchCustomers(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	var entries []any
	for _, c := range s.Customers.List() {
		if c["email"] == email {
			entries = append(entries, c)
		}
	}
	if entries == nil {
		entries = []any{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries, "has_more": false})
}

func (s *APIServer) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("uuid")

	s.mu.Lock()
	failStatus := s.failCustomers[id]
	s.mu.Unlock()
	if failStatus != 0 {
		writeJSON(w, failStatus, map[string]any{"message": "simulated failure"})
		return
	}

	customer, ok := s.Customers.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":   "not_found",
			"message": "Customer not found",
		})
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (s *APIServer) handleCustomerActivities(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("uuid")
	matching := store.New[map[string]any]()
	for _, a := range s.Activities.List() {
		if a["customer-uuid"] == id {
			matching.Set(a["uuid"].(string), a)
		}
	}
	writeJSON(w, http.StatusOK, matching.Paginate(pageParams(r)))
}

func (s *APIServer) handleCustomerSubscriptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"entries": []any{}, "has_more": false})
}

func (s *APIServer) handleListActivities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Activities.Paginate(pageParams(r)))
}

func (s *APIServer) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	payload := s.metrics
	s.mu.Unlock()

	if payload == nil {
		payload = map[string]any{
			"entries": []any{
				map[string]any{"date": "2024-01-31", "mrr": 10000},
				map[string]any{"date": "2024-02-29", "mrr": 12000},
			},
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *APIServer) handleDataSources(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"data_sources": []any{
			map[string]any{"uuid": "ds_test", "name": "Test Source", "system": "Import API", "status": "import_complete"},
		},
	})
}

func pageParams(r *http.Request) (page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	return page, perPage
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
