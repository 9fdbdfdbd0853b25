package factory

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

var (
	ErrDuplicateID = errors.New("duplicate id")
	ErrUnknownID   = errors.New("unknown id")
	ErrNilCreator  = errors.New("nil creator")
)

// Creator builds a fresh, caller-owned product.
type Creator[P any] func() P

// Registry maps identifiers to zero-argument creators.
// Entries are meant to be registered once at startup (usually from init) and only read afterwards.
// Entries cannot be replaced or removed.
type Registry[ID comparable, P any] struct {
	mu       sync.RWMutex
	creators map[ID]Creator[P]
}

// New returns an empty registry.
func New[ID comparable, P any]() *Registry[ID, P] {
	return &Registry[ID, P]{
		creators: make(map[ID]Creator[P]),
	}
}

// Register binds id to creator. It fails with ErrDuplicateID if id is already bound,
// leaving the existing creator in place.
func (r *Registry[ID, P]) Register(id ID, creator Creator[P]) error {
	if creator == nil {
		return fmt.Errorf("%w for %v", ErrNilCreator, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.creators[id]; exists {
		return fmt.Errorf("%w: %v", ErrDuplicateID, id)
	}
	r.creators[id] = creator
	return nil
}

// MustRegister is like Register but panics on failure. Intended for init-time registration.
func (r *Registry[ID, P]) MustRegister(id ID, creator Creator[P]) {
	if err := r.Register(id, creator); err != nil {
		panic(fmt.Sprintf("factory: %v", err))
	}
}

// Create invokes the creator bound to id. Every call returns a new product.
func (r *Registry[ID, P]) Create(id ID) (P, error) {
	r.mu.RLock()
	creator := r.creators[id]
	r.mu.RUnlock()

	if creator == nil {
		var zero P
		return zero, fmt.Errorf("%w: %v", ErrUnknownID, id)
	}
	return creator(), nil
}

func (r *Registry[ID, P]) Contains(id ID) bool {
	r.mu.RLock()
	_, ok := r.creators[id]
	r.mu.RUnlock()
	return ok
}

// IDs returns a snapshot of the registered identifiers in no particular order.
func (r *Registry[ID, P]) IDs() []ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Collect(maps.Keys(r.creators))
}

func (r *Registry[ID, P]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.creators)
}
