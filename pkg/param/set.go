package param

// Set is an ordered name -> Quantity mapping. Insertion order is the
// iteration order, which keeps tie discovery and free-vector layout
// deterministic across runs.
type Set struct {
	names []string
	vals  map[string]Quantity
}

// NewSet returns an empty ordered set.
func NewSet() *Set {
	return &Set{vals: make(map[string]Quantity)}
}

// Add appends a named quantity. Re-adding an existing name replaces
// the value in place without changing its position.
func (s *Set) Add(name string, q Quantity) {
	if _, ok := s.vals[name]; !ok {
		s.names = append(s.names, name)
	}
	s.vals[name] = q
}

// Get returns the quantity stored under name.
func (s *Set) Get(name string) (Quantity, bool) {
	q, ok := s.vals[name]
	return q, ok
}

// Has reports whether name is present.
func (s *Set) Has(name string) bool {
	_, ok := s.vals[name]
	return ok
}

// Names returns the insertion-ordered names. The returned slice is a
// copy.
func (s *Set) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of entries.
func (s *Set) Len() int { return len(s.names) }

// Each invokes fn for every entry in insertion order, stopping at the
// first error.
func (s *Set) Each(fn func(name string, q Quantity) error) error {
	for _, name := range s.names {
		if err := fn(name, s.vals[name]); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a shallow copy sharing the quantity handles.
func (s *Set) Clone() *Set {
	out := NewSet()
	for _, name := range s.names {
		out.Add(name, s.vals[name])
	}
	return out
}
