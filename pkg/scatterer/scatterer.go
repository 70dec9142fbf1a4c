// Package scatterer models the geometry and optics of scattering
// bodies as trees of named quantities. A primitive (Sphere) or a
// Composite of children exposes one ordered name -> quantity view and
// can be rebuilt from a flat map of values, which is the surface the
// fitting layer flattens into its free-parameter vector.
package scatterer

import (
	"fmt"

	"holofit/pkg/param"
)

// Scatterer is the capability shared by primitives and composites.
// Implementations must return a fresh object from FromParameters and
// the spatial transforms; receivers are never mutated.
type Scatterer interface {
	// Parameters returns the ordered named quantities of the body.
	// Composite implementations namespace child entries as
	// "<child-index>:<raw-name>", recursively, and re-validate tie
	// consistency on every read.
	Parameters() (*param.Set, error)

	// FromParameters rebuilds the body with the supplied values.
	// Names absent from vals keep their current quantity. When
	// overwrite is false, values supplied for fixed quantities are
	// ignored; when true they replace the stored fixed value.
	FromParameters(vals map[string]param.Quantity, overwrite bool) (Scatterer, error)

	// Center returns the body's center, evaluated to concrete
	// coordinates.
	Center() Vector

	// Translated returns a copy displaced by the given coordinates:
	// either three scalars or an unpacked 3-vector.
	Translated(coords ...float64) (Scatterer, error)

	// Rotated returns a copy rotated by zyz Euler angles about its
	// center.
	Rotated(angles ...float64) (Scatterer, error)

	// Contains reports whether the point lies inside the body.
	Contains(p Vector) bool

	// IndexAt returns the refractive index at the point, or false if
	// the body does not classify it.
	IndexAt(p Vector) (complex128, bool)
}

// ErrInvalidScatterer is returned for malformed primitive
// construction.
type ErrInvalidScatterer struct {
	Kind   string
	Reason string
}

func (e ErrInvalidScatterer) Error() string {
	return fmt.Sprintf("invalid scatterer of type %s: %s", e.Kind, e.Reason)
}

// coords3 interprets variadic transform arguments, enforcing the
// three-scalar form.
func coords3(op string, vals []float64) (Vector, error) {
	if len(vals) != 3 {
		return Vector{}, param.ErrUnrecognizedCoordinates{Op: op, Got: len(vals)}
	}
	return Vector{vals[0], vals[1], vals[2]}, nil
}
