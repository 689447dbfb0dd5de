package promo

// codeSet implements CodeSet with a plain map. Sets are built once during
// loading and never mutated afterwards, so reads need no locking.
type codeSet struct {
	codes map[string]struct{}
}

// NewCodeSet creates an empty code set with the given capacity hint.
func NewCodeSet(capacity int) *codeSet {
	return &codeSet{codes: make(map[string]struct{}, capacity)}
}

func (s *codeSet) Contains(code string) bool {
	_, ok := s.codes[code]
	return ok
}

func (s *codeSet) Size() int {
	return len(s.codes)
}

// Add inserts a code. Only valid during loading, before the set is shared.
func (s *codeSet) Add(code string) {
	s.codes[code] = struct{}{}
}
