package param

import "fmt"

// ErrMissingValue is returned when a required quantity is absent from
// both the flat vector and the fixed table.
type ErrMissingValue struct {
	Name string
}

func (e ErrMissingValue) Error() string {
	return fmt.Sprintf("no value supplied for parameter %s", e.Name)
}

// ErrUnknownTieMember is returned when a tie group references a raw
// name that is no longer present after a structural edit.
type ErrUnknownTieMember struct {
	Tie    string
	Member string
}

func (e ErrUnknownTieMember) Error() string {
	return fmt.Sprintf("tie %s references unknown parameter %s", e.Tie, e.Member)
}

// ErrInconsistentTieValue is returned when members of a tie group
// carry diverged values. Ties are an equivalence class; divergence is
// a caller error in composite construction and is never repaired
// silently.
type ErrInconsistentTieValue struct {
	Tie    string
	Member string
	First  string
}

func (e ErrInconsistentTieValue) Error() string {
	return fmt.Sprintf("tie %s: parameters %s and %s are not equal", e.Tie, e.Member, e.First)
}

// ErrInconsistentTie is returned when a tie links a fixed handle to a
// free handle. Neither side's status wins; the declaration itself is
// contradictory.
type ErrInconsistentTie struct {
	Tie    string
	Member string
}

func (e ErrInconsistentTie) Error() string {
	return fmt.Sprintf("tie %s links fixed and free parameters (member %s)", e.Tie, e.Member)
}

// ErrUnrecognizedCoordinates is returned by spatial transforms given
// neither a 3-vector nor three separate scalars.
type ErrUnrecognizedCoordinates struct {
	Op  string
	Got int
}

func (e ErrUnrecognizedCoordinates) Error() string {
	return fmt.Sprintf("cannot interpret %s coordinates: got %d values, want 3", e.Op, e.Got)
}
