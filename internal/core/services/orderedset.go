package services

// orderedSet keeps the first-occurrence order of inserted strings.
// It is not safe for concurrent use; each call builds its own.
type orderedSet struct {
	index map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{index: make(map[string]struct{})}
}

// Add inserts v and reports whether it was new.
func (s *orderedSet) Add(v string) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// Items returns the inserted values in first-occurrence order.
// The result is never nil.
func (s *orderedSet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

