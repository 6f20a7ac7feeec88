package server

import (
	"fmt"
	"sort"
	"sync"

	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/match"
)

// entry serializes every call into one match.
type entry struct {
	mu sync.Mutex
	m  *match.Match
}

func (e *entry) with(fn func(m *match.Match) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.m)
}

// Registry holds the running matches by id.
type Registry struct {
	mu      sync.RWMutex
	matches map[string]*entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{matches: make(map[string]*entry)}
}

// Add registers m under its id, replacing any match with the same id.
func (r *Registry) Add(m *match.Match) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches[m.ID()] = &entry{m: m}
}

func (r *Registry) get(id string) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.matches[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMatchNotFound, id)
	}
	return e, nil
}

// With runs fn on the match with the given id while holding its lock.
func (r *Registry) With(id string, fn func(m *match.Match) error) error {
	e, err := r.get(id)
	if err != nil {
		return err
	}
	return e.with(fn)
}

// Remove drops a match.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrMatchNotFound, id)
	}
	delete(r.matches, id)
	return nil
}

// IDs returns the ids of all running matches, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.matches))
	for id := range r.matches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
