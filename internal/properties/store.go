package properties

// Store is the producer-side handle behind a property bag. The
// recognition engine owns the store and populates it while assembling a
// raw result; the bag that wraps it never mutates it.
type Store interface {
	// ContainsString reports whether name is present with a string
	// value. A name stored under another kind reports false. Same
	// contract for the int and bool variants.
	ContainsString(name string) bool
	ContainsInt(name string) bool
	ContainsBool(name string) bool

	// GetString returns the value stored under name, or def when the
	// name is absent or holds a different kind. Same contract for the
	// int and bool variants.
	GetString(name, def string) string
	GetInt(name string, def int) int
	GetBool(name string, def bool) bool
}

// MapStore is an in-memory Store backed by a map of tagged values.
// Setters replace any previous value regardless of its kind, so a name
// carries exactly one kind at a time. Once a bag wraps the store it
// must be treated as frozen.
//
// Not safe for concurrent mutation; engines populate it from a single
// goroutine before handing the result out.
type MapStore struct {
	values map[string]Value
}

// NewMapStore creates an empty store.
func NewMapStore() *MapStore {
	return &MapStore{values: make(map[string]Value)}
}

// SetString stores a string value under name.
func (m *MapStore) SetString(name, v string) { m.values[name] = String(v) }

// SetInt stores an int value under name.
func (m *MapStore) SetInt(name string, v int) { m.values[name] = Int(v) }

// SetBool stores a bool value under name.
func (m *MapStore) SetBool(name string, v bool) { m.values[name] = Bool(v) }

// Len returns the number of stored entries.
func (m *MapStore) Len() int { return len(m.values) }

func (m *MapStore) ContainsString(name string) bool {
	v, ok := m.values[name]
	return ok && v.Kind() == KindString
}

func (m *MapStore) ContainsInt(name string) bool {
	v, ok := m.values[name]
	return ok && v.Kind() == KindInt
}

func (m *MapStore) ContainsBool(name string) bool {
	v, ok := m.values[name]
	return ok && v.Kind() == KindBool
}

func (m *MapStore) GetString(name, def string) string {
	if v, ok := m.values[name]; ok {
		if s, ok := v.AsString(); ok {
			return s
		}
	}
	return def
}

func (m *MapStore) GetInt(name string, def int) int {
	if v, ok := m.values[name]; ok {
		if i, ok := v.AsInt(); ok {
			return i
		}
	}
	return def
}

func (m *MapStore) GetBool(name string, def bool) bool {
	if v, ok := m.values[name]; ok {
		if b, ok := v.AsBool(); ok {
			return b
		}
	}
	return def
}
