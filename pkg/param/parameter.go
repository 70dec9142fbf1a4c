// Package param defines the leaf quantities of a fit: free and fixed
// scalar parameters, complex pairs, and the ordered sets of named
// quantities that scatterers expose. Parameters are shared by handle:
// two named slots holding the same *Parameter are tied, two slots
// holding merely equal values are not.
package param

// Parameter is a named scalar quantity. A free parameter carries a
// default guess varied by the optimizer; a fixed parameter carries a
// stored value (Limit) that never enters the free vector.
type Parameter struct {
	Name  string
	Fixed bool
	Guess float64
	Limit float64
}

// NewFree returns a free parameter with the given default guess.
func NewFree(name string, guess float64) *Parameter {
	return &Parameter{Name: name, Guess: guess}
}

// NewFixed returns a fixed parameter. Guess and Limit are both set to
// value so that fixed tables recorded from either field agree.
func NewFixed(name string, value float64) *Parameter {
	return &Parameter{Name: name, Fixed: true, Guess: value, Limit: value}
}

// Value returns the parameter's current concrete value: the stored
// fixed value for fixed parameters, the default guess otherwise.
func (p *Parameter) Value() float64 {
	if p.Fixed {
		return p.Limit
	}
	return p.Guess
}

func (p *Parameter) isQuantity() {}

// ComplexParameter presents a pair of scalar parameters as one
// complex-valued named quantity. Sub-names derive from the base name
// as <name>.real and <name>.imag.
type ComplexParameter struct {
	Name string
	Real *Parameter
	Imag *Parameter
}

// NewComplex builds a complex parameter from its two halves. The
// halves keep their own fixed/free status; one half may be fixed while
// the other is free.
func NewComplex(name string, re, im *Parameter) *ComplexParameter {
	return &ComplexParameter{Name: name, Real: re, Imag: im}
}

// RealSuffix and ImagSuffix are the derived sub-name suffixes of a
// complex split in flat-vector keys.
const (
	RealSuffix = ".real"
	ImagSuffix = ".imag"
)

// RealName returns the derived name of the real half.
func (c *ComplexParameter) RealName() string { return c.Name + RealSuffix }

// ImagName returns the derived name of the imaginary half.
func (c *ComplexParameter) ImagName() string { return c.Name + ImagSuffix }

// Value returns the current concrete complex value.
func (c *ComplexParameter) Value() complex128 {
	return complex(c.Real.Value(), c.Imag.Value())
}

func (c *ComplexParameter) isQuantity() {}
