// Package store provides a generic, thread-safe, in-memory collection with
// ChartMogul-style page-number pagination. It backs the fake API server used
// in tests.
package store

import (
	"sync"
)

// Store is a generic, thread-safe, in-memory store for objects of type T,
// keyed by UUID and listed in insertion order.
type Store[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

// New creates an empty Store.
func New[T any]() *Store[T] {
	return &Store[T]{items: make(map[string]T)}
}

// Set stores an item under the given UUID. Overwriting preserves the item's
// position in insertion order.
func (s *Store[T]) Set(uuid string, item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[uuid]; !exists {
		s.order = append(s.order, uuid)
	}
	s.items[uuid] = item
}

// Get retrieves an item by UUID.
func (s *Store[T]) Get(uuid string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[uuid]
	return item, ok
}

// Delete removes an item by UUID. Returns true if the item existed.
func (s *Store[T]) Delete(uuid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[uuid]; !exists {
		return false
	}
	delete(s.items, uuid)
	for i, id := range s.order {
		if id == uuid {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns all items in insertion order.
func (s *Store[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

// Count returns the number of stored items.
func (s *Store[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Reset removes all items.
func (s *Store[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]T)
	s.order = nil
}

// Page is a ChartMogul-style paginated listing.
type Page[T any] struct {
	Entries    []T  `json:"entries"`
	HasMore    bool `json:"has_more"`
	PerPage    int  `json:"per_page"`
	Page       int  `json:"page"`
	TotalPages int  `json:"total_pages"`
}

// Paginate returns the given 1-based page of items. perPage <= 0 returns
// everything on page 1.
func (s *Store[T]) Paginate(page, perPage int) Page[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.order)
	if perPage <= 0 {
		perPage = total
		if perPage == 0 {
			perPage = 1
		}
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	entries := make([]T, 0, end-start)
	for _, id := range s.order[start:end] {
		entries = append(entries, s.items[id])
	}

	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}

	return Page[T]{
		Entries:    entries,
		HasMore:    end < total,
		PerPage:    perPage,
		Page:       page,
		TotalPages: totalPages,
	}
}
