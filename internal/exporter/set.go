package exporter

import (
	"context"
	"fmt"

	"bpexport/internal/domain"
)

// Entry is a registered exporter.
type Entry struct {
	Key          string   `json:"key"`
	FriendlyName string   `json:"friendly_name"`
	Callback     Callback `json:"-"`
}

// Middleware wraps the callback registered under key.
type Middleware func(key string, next Callback) Callback

// Set maps exporter keys to callbacks, preserving registration order.
// It is not safe for concurrent modification; build it before serving.
type Set struct {
	entries []Entry
	index   map[string]int
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{index: make(map[string]int)}
}

// Add registers cb under key unless another registrant already claimed it.
func (s *Set) Add(key, friendlyName string, cb Callback) bool {
	if _, taken := s.index[key]; taken {
		return false
	}
	s.index[key] = len(s.entries)
	s.entries = append(s.entries, Entry{Key: key, FriendlyName: friendlyName, Callback: cb})
	return true
}

// Has reports whether key is registered.
func (s *Set) Has(key string) bool {
	_, ok := s.index[key]
	return ok
}

// Get returns the entry registered under key.
func (s *Set) Get(key string) (Entry, bool) {
	i, ok := s.index[key]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Entries returns the registered exporters in registration order.
func (s *Set) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of registered exporters.
func (s *Set) Len() int {
	return len(s.entries)
}

// Use wraps every registered callback with mw, outermost last.
func (s *Set) Use(mw ...Middleware) {
	for i := range s.entries {
		for _, m := range mw {
			s.entries[i].Callback = m(s.entries[i].Key, s.entries[i].Callback)
		}
	}
}

// Call invokes the exporter registered under key.
func (s *Set) Call(ctx context.Context, key, email string, page int) (Page, error) {
	e, ok := s.Get(key)
	if !ok {
		return Page{}, fmt.Errorf("%w: %s", domain.ErrUnknownExporter, key)
	}
	return e.Callback(ctx, email, page)
}

// named prefixes errors returned by cb with the exporter key.
func named(key string, cb Callback) Callback {
	return func(ctx context.Context, email string, page int) (Page, error) {
		p, err := cb(ctx, email, page)
		if err != nil {
			return Page{}, fmt.Errorf("%s: %w", key, err)
		}
		return p, nil
	}
}
