package edit

import (
	"slices"
	"strings"
)

// ModificationSet is the set of workspace-relative paths written during a
// run. Its size decides the process exit code.
type ModificationSet struct {
	paths map[string]struct{}
}

// NewModificationSet returns an empty set.
func NewModificationSet() *ModificationSet {
	return &ModificationSet{paths: make(map[string]struct{})}
}

// Add records path.
func (s *ModificationSet) Add(path string) {
	if s.paths == nil {
		s.paths = make(map[string]struct{})
	}
	s.paths[path] = struct{}{}
}

// Contains reports whether path was recorded.
func (s *ModificationSet) Contains(path string) bool {
	_, ok := s.paths[path]
	return ok
}

// Len returns the number of recorded paths.
func (s *ModificationSet) Len() int {
	return len(s.paths)
}

// Sorted returns the recorded paths in lexical order.
func (s *ModificationSet) Sorted() []string {
	out := make([]string, 0, len(s.paths))
	for p := range s.paths {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

func (s *ModificationSet) String() string {
	return strings.Join(s.Sorted(), ", ")
}
