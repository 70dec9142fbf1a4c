package scatterer

import (
	"fmt"

	"holofit/pkg/param"
)

// Slot names of a sphere, in parameter order.
const (
	slotCenter0 = "center.0"
	slotCenter1 = "center.1"
	slotCenter2 = "center.2"
	slotIndex   = "n"
	slotRadius  = "r"
)

// Sphere is a homogeneous spherical scatterer. N is the refractive
// index (scalar or complex), R the radius, and Cen the three center
// coordinates. Each slot holds a literal or a shared parameter handle.
type Sphere struct {
	N   param.Quantity
	R   param.Quantity
	Cen [3]param.Quantity
}

// Literal3 wraps concrete coordinates as literal quantities, for
// spheres whose position is not fitted.
func Literal3(v Vector) [3]param.Quantity {
	return [3]param.Quantity{param.Number(v[0]), param.Number(v[1]), param.Number(v[2])}
}

// NewSphere validates and constructs a sphere.
func NewSphere(n, r param.Quantity, center [3]param.Quantity) (*Sphere, error) {
	s := &Sphere{N: n, R: r, Cen: center}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sphere) validate() error {
	if s.N == nil || s.R == nil {
		return ErrInvalidScatterer{Kind: "Sphere", Reason: "n and r must be specified"}
	}
	for i, c := range s.Cen {
		if c == nil {
			return ErrInvalidScatterer{Kind: "Sphere", Reason: fmt.Sprintf("center.%d must be specified", i)}
		}
	}
	if r := param.EvalReal(s.R); r <= 0 {
		return ErrInvalidScatterer{Kind: "Sphere", Reason: fmt.Sprintf("r specified as %v, r must be positive", r)}
	}
	return nil
}

// Parameters returns the sphere's named quantities in slot order.
func (s *Sphere) Parameters() (*param.Set, error) {
	set := param.NewSet()
	set.Add(slotCenter0, s.Cen[0])
	set.Add(slotCenter1, s.Cen[1])
	set.Add(slotCenter2, s.Cen[2])
	set.Add(slotIndex, s.N)
	set.Add(slotRadius, s.R)
	return set, nil
}

// FromParameters rebuilds the sphere with supplied slot values. Free
// slots take the provided value; fixed parameters and literals are
// replaced only when overwrite is set.
func (s *Sphere) FromParameters(vals map[string]param.Quantity, overwrite bool) (Scatterer, error) {
	replace := func(cur param.Quantity, name string) param.Quantity {
		v, ok := vals[name]
		if !ok {
			return cur
		}
		if param.IsFree(cur) || overwrite {
			return v
		}
		return cur
	}
	out := &Sphere{
		N: replace(s.N, slotIndex),
		R: replace(s.R, slotRadius),
		Cen: [3]param.Quantity{
			replace(s.Cen[0], slotCenter0),
			replace(s.Cen[1], slotCenter1),
			replace(s.Cen[2], slotCenter2),
		},
	}
	if err := out.validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Center evaluates the center coordinates.
func (s *Sphere) Center() Vector {
	return Vector{
		param.EvalReal(s.Cen[0]),
		param.EvalReal(s.Cen[1]),
		param.EvalReal(s.Cen[2]),
	}
}

// Translated returns a copy displaced by the given coordinates. The
// center collapses to concrete values; index and radius keep their
// handles.
func (s *Sphere) Translated(coords ...float64) (Scatterer, error) {
	delta, err := coords3("translation", coords)
	if err != nil {
		return nil, err
	}
	c := s.Center().Add(delta)
	return &Sphere{N: s.N, R: s.R, Cen: Literal3(c)}, nil
}

// Rotated returns a copy. A homogeneous sphere is rotation invariant
// about its own center, so only the angle arity is checked.
func (s *Sphere) Rotated(angles ...float64) (Scatterer, error) {
	if _, err := coords3("rotation", angles); err != nil {
		return nil, err
	}
	out := *s
	return &out, nil
}

// Contains reports whether p lies inside the sphere.
func (s *Sphere) Contains(p Vector) bool {
	return p.Sub(s.Center()).Norm() <= param.EvalReal(s.R)
}

// IndexAt returns the refractive index at p when contained.
func (s *Sphere) IndexAt(p Vector) (complex128, bool) {
	if !s.Contains(p) {
		return 0, false
	}
	return param.Eval(s.N), true
}
