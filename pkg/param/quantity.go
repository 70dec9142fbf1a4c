package param

// Quantity is a value occupying a named slot of a scatterer: a plain
// number, a complex number, or a free/fixed parameter handle. The
// variant is sealed; tie discovery relies on handle identity of the
// parameter kinds and deliberately excludes the literal kinds, so two
// coincidentally equal numbers never alias.
type Quantity interface {
	isQuantity()
}

// Number is a literal scalar slot value, never fitted.
type Number float64

func (Number) isQuantity() {}

// ComplexNumber is a literal complex slot value, never fitted.
type ComplexNumber complex128

func (ComplexNumber) isQuantity() {}

// Eval returns the current concrete value of a quantity as a complex
// number: literals evaluate to themselves, fixed parameters to their
// stored value, free parameters to their default guess.
func Eval(q Quantity) complex128 {
	switch v := q.(type) {
	case Number:
		return complex(float64(v), 0)
	case ComplexNumber:
		return complex128(v)
	case *Parameter:
		return complex(v.Value(), 0)
	case *ComplexParameter:
		return v.Value()
	}
	return 0
}

// EvalReal returns the real part of Eval. Geometry code uses it for
// slots that are scalar by construction.
func EvalReal(q Quantity) float64 {
	return real(Eval(q))
}

// SameHandle reports whether two quantities are the identical shared
// parameter handle. Literal kinds never share a handle.
func SameHandle(a, b Quantity) bool {
	switch av := a.(type) {
	case *Parameter:
		bv, ok := b.(*Parameter)
		return ok && av == bv
	case *ComplexParameter:
		bv, ok := b.(*ComplexParameter)
		return ok && av == bv
	}
	return false
}

// Equal reports value equality between two quantities: identical
// handles, equal literals, or parameters with identical fields. It is
// the comparison used by tie consistency checks, where members joined
// by explicit declaration may be distinct handles carrying equal
// values.
func Equal(a, b Quantity) bool {
	if a == nil || b == nil {
		return a == b
	}
	if SameHandle(a, b) {
		return true
	}
	switch av := a.(type) {
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case ComplexNumber:
		bv, ok := b.(ComplexNumber)
		return ok && av == bv
	case *Parameter:
		bv, ok := b.(*Parameter)
		return ok && av.Fixed == bv.Fixed && av.Guess == bv.Guess && av.Limit == bv.Limit
	case *ComplexParameter:
		bv, ok := b.(*ComplexParameter)
		return ok && Equal(av.Real, bv.Real) && Equal(av.Imag, bv.Imag)
	}
	return false
}

// IsFree reports whether the quantity contributes at least one free
// scalar to the fit vector.
func IsFree(q Quantity) bool {
	switch v := q.(type) {
	case *Parameter:
		return !v.Fixed
	case *ComplexParameter:
		return !v.Real.Fixed || !v.Imag.Fixed
	}
	return false
}
