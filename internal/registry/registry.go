// Package registry maps (category, name) pairs to session factories.
package registry

import (
	"errors"
	"fmt"

	"github.com/san-kum/physbox/internal/session"
)

// Capacity is the maximum number of entries a Registry holds.
const Capacity = 256

var (
	// ErrCapacityExceeded is returned when registering into a full table.
	ErrCapacityExceeded = errors.New("registry: capacity exceeded")

	// ErrNotFound indicates an index or name with no entry.
	ErrNotFound = errors.New("registry: session not found")
)

// Factory builds a fresh session. The caller owns the result.
type Factory func() (*session.Session, error)

type Entry struct {
	Category string
	Name     string
	Factory  Factory
}

// Registry is an append-only table of session factories.
type Registry struct {
	entries []Entry
	index   map[slotKey]int
}

func New() *Registry {
	return &Registry{index: make(map[slotKey]int)}
}

// slotKey identifies an entry. Category and name stay separate so that a
// slash inside either cannot make two pairs collide.
type slotKey struct{ category, name string }

// label is the display form "category/name".
func label(category, name string) string { return category + "/" + name }

// Register appends an entry and returns its slot. Registering an existing
// (category, name) pair returns the original slot and keeps its factory.
func (r *Registry) Register(category, name string, factory Factory) (int, error) {
	if factory == nil {
		return -1, fmt.Errorf("registry: nil factory for %s", label(category, name))
	}
	if i, ok := r.index[slotKey{category, name}]; ok {
		return i, nil
	}
	if len(r.entries) >= Capacity {
		return -1, fmt.Errorf("%w: %s", ErrCapacityExceeded, label(category, name))
	}
	r.entries = append(r.entries, Entry{Category: category, Name: name, Factory: factory})
	i := len(r.entries) - 1
	r.index[slotKey{category, name}] = i
	return i, nil
}

// Enumerate returns the entries in registration order.
func (r *Registry) Enumerate() []Entry {
	return append([]Entry(nil), r.entries...)
}

func (r *Registry) Len() int { return len(r.entries) }

func (r *Registry) Entry(i int) (Entry, error) {
	if i < 0 || i >= len(r.entries) {
		return Entry{}, fmt.Errorf("%w: index %d", ErrNotFound, i)
	}
	return r.entries[i], nil
}

// Lookup resolves a slot by category and name. An empty category matches the
// first entry with that name.
func (r *Registry) Lookup(category, name string) (int, error) {
	if category != "" {
		if i, ok := r.index[slotKey{category, name}]; ok {
			return i, nil
		}
		return -1, fmt.Errorf("%w: %s", ErrNotFound, label(category, name))
	}
	for i, e := range r.entries {
		if e.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Create runs the factory stored at slot i.
func (r *Registry) Create(i int) (*session.Session, error) {
	e, err := r.Entry(i)
	if err != nil {
		return nil, err
	}
	s, err := e.Factory()
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label(e.Category, e.Name), err)
	}
	return s, nil
}

// ListNames returns "category/name" for every entry.
func (r *Registry) ListNames() []string {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, label(e.Category, e.Name))
	}
	return names
}
