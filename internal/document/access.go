package document

// GetOrCreateMap returns the mapping stored under key, inserting an empty
// one if the key is absent. A present key holding anything other than a
// mapping is a TypeMismatchError; nothing is coerced. In TOML a new mapping
// is written as an inline table.
func GetOrCreateMap(container *Map, key string) (*Map, error) {
	if !container.Has(key) {
		m := NewMap()
		m.InlineStyle = true
		container.Set(key, m)
	}
	return asMap(container, key)
}

func asMap(container *Map, key string) (*Map, error) {
	v, _ := container.Get(key)
	m, ok := v.(*Map)
	if !ok {
		return nil, &TypeMismatchError{Key: key, Want: "mapping", Got: KindOf(v)}
	}
	return m, nil
}

// GetOrCreateTable is GetOrCreateMap for TOML sections: a newly created
// table is written as a [key] section rather than an inline table.
func GetOrCreateTable(container *Map, key string) (*Map, error) {
	if !container.Has(key) {
		container.Set(key, NewMap())
	}
	return asMap(container, key)
}

// GetOrCreateSeq returns the sequence stored under key, inserting an empty
// one if absent. An array of tables is a different kind and is rejected.
func GetOrCreateSeq(container *Map, key string) (*Seq, error) {
	v := container.SetDefault(key, NewSeq())
	s, ok := v.(*Seq)
	if !ok {
		return nil, &TypeMismatchError{Key: key, Want: "sequence", Got: KindOf(v)}
	}
	return s, nil
}

// GetOrCreateTableSeq returns the TOML array of tables stored under key,
// inserting an empty one if absent.
func GetOrCreateTableSeq(container *Map, key string) (*TableSeq, error) {
	v := container.SetDefault(key, NewTableSeq())
	t, ok := v.(*TableSeq)
	if !ok {
		return nil, &TypeMismatchError{Key: key, Want: "array of tables", Got: KindOf(v)}
	}
	return t, nil
}

// GetPath walks container through keys, creating tables on the way.
func GetPath(container *Map, keys ...string) (*Map, error) {
	current := container
	for _, k := range keys {
		next, err := GetOrCreateTable(current, k)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}
