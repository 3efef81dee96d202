package document

// IsPartialMatch reports whether partial is contained in full: both must be
// mappings and every key of partial must be present in full with an equal
// value. Nested mappings are compared with the same rule, anything else
// with Equal. Keys of full that partial does not mention are ignored, so
// {} matches every mapping while {"a": 1} does not match {}.
func IsPartialMatch(partial, full any) bool {
	p, ok := partial.(*Map)
	if !ok || p == nil {
		return false
	}
	f, ok := full.(*Map)
	if !ok || f == nil {
		return false
	}
	for _, e := range p.Entries() {
		other, ok := f.Get(e.Key)
		if !ok {
			return false
		}
		_, pm := e.Value.(*Map)
		_, fm := other.(*Map)
		if pm && fm {
			if !IsPartialMatch(e.Value, other) {
				return false
			}
			continue
		}
		if !Equal(e.Value, other) {
			return false
		}
	}
	return true
}

// FindUniquePartialMatch returns the one element of seq that partial
// matches. It fails with a *MatchError wrapping ErrNotFound when nothing
// matches and ErrAmbiguousMatch when more than one element does.
func FindUniquePartialMatch(seq Sequence, partial *Map) (*Map, error) {
	var first, second *Map
	for i := range seq.Len() {
		item := seq.At(i)
		if !IsPartialMatch(partial, item) {
			continue
		}
		if first == nil {
			first = item.(*Map)
			continue
		}
		second = item.(*Map)
		break
	}
	switch {
	case first == nil:
		return nil, &MatchError{Partial: partial, Candidates: seq, err: ErrNotFound}
	case second != nil:
		return nil, &MatchError{Partial: partial, Candidates: seq, First: first, Second: second, err: ErrAmbiguousMatch}
	}
	return first, nil
}
