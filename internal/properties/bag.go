package properties

import "errors"

// ErrNilStore is returned when a bag is constructed without a backing store.
var ErrNilStore = errors.New("properties: nil store")

// Bag is a read-only, type-scoped view over a producer-owned Store.
// It holds a non-owning reference: a bag must not be used past the
// teardown of the engine that owns the backing store.
//
// Lookups are soft. A missing name or a kind mismatch yields the
// caller's default (or the canonical zero default), never an error, so
// producers can add or drop properties without breaking consumers.
type Bag struct {
	store Store
}

// NewBag wraps an existing store. A nil store is a contract violation.
func NewBag(store Store) (*Bag, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	return &Bag{store: store}, nil
}

// HasString reports whether name is present with a string value.
// A name stored under another kind reports false.
func (b *Bag) HasString(name string) bool { return b.store.ContainsString(name) }

// HasInt reports whether name is present with an int value.
func (b *Bag) HasInt(name string) bool { return b.store.ContainsInt(name) }

// HasBool reports whether name is present with a bool value.
func (b *Bag) HasBool(name string) bool { return b.store.ContainsBool(name) }

// GetString returns the string stored under name, or "" when absent or
// stored under another kind.
func (b *Bag) GetString(name string) string { return b.GetStringOr(name, "") }

// GetStringOr returns the string stored under name, or def when absent
// or stored under another kind.
func (b *Bag) GetStringOr(name, def string) string { return b.store.GetString(name, def) }

// GetInt returns the int stored under name, or 0 when absent or stored
// under another kind.
func (b *Bag) GetInt(name string) int { return b.GetIntOr(name, 0) }

// GetIntOr returns the int stored under name, or def when absent or
// stored under another kind.
func (b *Bag) GetIntOr(name string, def int) int { return b.store.GetInt(name, def) }

// GetBool returns the bool stored under name, or false when absent or
// stored under another kind.
func (b *Bag) GetBool(name string) bool { return b.GetBoolOr(name, false) }

// GetBoolOr returns the bool stored under name, or def when absent or
// stored under another kind.
func (b *Bag) GetBoolOr(name string, def bool) bool { return b.store.GetBool(name, def) }
