package lessonstore

import (
	"context"
	"sync"
)

// Binding exposes a preference's current value to a UI layer. It starts
// unset, loads on demand, and then holds the last-loaded value. It does not
// subscribe to changes: a write from another code path is not visible until
// the next Load. That staleness is accepted, not accidental.
type Binding[T any] struct {
	store  Store
	name   string
	def    T
	decode func(string) (T, error)

	mu     sync.Mutex
	loaded bool
	value  T
}

// NewBinding creates a binding for an arbitrarily named preference with a
// caller-supplied codec.
func NewBinding[T any](store Store, name string, def T, decode func(string) (T, error)) *Binding[T] {
	return &Binding[T]{store: store, name: name, def: def, decode: decode}
}

// BindPreference creates a binding from a registered descriptor. The binding
// shares the descriptor's name, default, and decode rule but no mutable
// state.
func BindPreference[T any](store Store, p Pref[T]) *Binding[T] {
	return NewBinding(store, p.name, p.def, p.decode)
}

// Load fetches the current value through ReadPreference and caches it.
func (b *Binding[T]) Load(ctx context.Context) (T, error) {
	v, err := ReadPreference(ctx, b.store, b.name, b.def, b.decode)
	if err != nil {
		var zero T
		return zero, err
	}
	b.mu.Lock()
	b.value = v
	b.loaded = true
	b.mu.Unlock()
	return v, nil
}

// Value returns the last-loaded value; ok is false before the first
// successful Load.
func (b *Binding[T]) Value() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value, b.loaded
}
