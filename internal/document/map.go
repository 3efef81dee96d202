package document

import "slices"

// Entry is a single key/value pair of a Map together with the comments
// attached to it in the source file.
type Entry struct {
	Key   string
	Value any
	// Comments are full-line comments that precede the entry, including the
	// leading "#".
	Comments []string
	// Inline is a comment on the same line as the entry, including the "#".
	Inline string
}

// Map is a string-keyed mapping that remembers insertion order.
type Map struct {
	keys    []string
	entries map[string]*Entry

	// Comments precede the map itself (a TOML table header or the head of a
	// YAML document).
	Comments []string
	// Inline is a comment on the TOML table header line.
	Inline string
	// Trailer holds comments after the last entry.
	Trailer []string
	// InlineStyle marks a TOML inline table rather than a [table] section.
	InlineStyle bool
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{entries: make(map[string]*Entry)}
}

// MapOf builds a map from alternating key/value arguments. It panics if a
// key is not a string, which is a programming error in the caller.
func MapOf(kv ...any) *Map {
	if len(kv)%2 != 0 {
		panic("document.MapOf: odd number of arguments")
	}
	m := NewMap()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic("document.MapOf: key is not a string")
		}
		m.Set(key, kv[i+1])
	}
	return m
}

func (m *Map) init() {
	if m.entries == nil {
		m.entries = make(map[string]*Entry)
	}
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.entries[key]
	return ok
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	return e.Value, true
}

// Entry returns the entry for key, or nil.
func (m *Map) Entry(key string) *Entry {
	if m == nil {
		return nil
	}
	return m.entries[key]
}

// Entries returns the entries in order. The entries are shared with the map.
func (m *Map) Entries() []*Entry {
	if m == nil {
		return nil
	}
	out := make([]*Entry, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.entries[k])
	}
	return out
}

// Set stores value under key. An existing key keeps its position and
// comments; a new key is appended.
func (m *Map) Set(key string, value any) {
	m.init()
	value = Normalize(value)
	if e, ok := m.entries[key]; ok {
		e.Value = value
		return
	}
	m.keys = append(m.keys, key)
	m.entries[key] = &Entry{Key: key, Value: value}
}

// SetDefault stores value under key only if the key is absent, and returns
// whatever is stored afterwards.
func (m *Map) SetDefault(key string, value any) any {
	if v, ok := m.Get(key); ok {
		return v
	}
	m.Set(key, value)
	v, _ := m.Get(key)
	return v
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key string) bool {
	if !m.Has(key) {
		return false
	}
	delete(m.entries, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
	return true
}

// Clear removes every entry but keeps the map's own comments.
func (m *Map) Clear() {
	m.keys = nil
	m.entries = make(map[string]*Entry)
}

// Update copies every entry of other into m, in other's order.
func (m *Map) Update(other *Map) {
	for _, e := range other.Entries() {
		m.Set(e.Key, Clone(e.Value))
	}
}
