package fit

import (
	"fmt"

	"holofit/pkg/param"
	"holofit/pkg/scatterer"
)

// Parametrizer is a bidirectional mapping between a flat named-value
// vector and a constructed scatterer.
type Parametrizer interface {
	// Parameters returns the ordered free parameters; their order is
	// the optimizer vector order.
	Parameters() []*param.Parameter
	// MakeFrom builds a scatterer from flat free-parameter values,
	// drawing fixed quantities from storage.
	MakeFrom(flat map[string]float64) (scatterer.Scatterer, error)
	// Guess builds the scatterer from every free parameter's default.
	Guess() (scatterer.Scatterer, error)
}

// MakeFunc constructs a scatterer from resolved argument values.
// Scalar arguments arrive with zero imaginary part.
type MakeFunc func(args map[string]complex128) (scatterer.Scatterer, error)

// Parametrization describes free parameters explicitly: a construction
// function, the argument names it accepts, and the named quantities
// that fill them.
type Parametrization struct {
	makeFn MakeFunc
	args   []string
	free   []*param.Parameter
	fixed  map[string]float64
}

// NewParametrization splits each complex quantity into renamed halves,
// records fixed parameters in the fixed table, and collects free
// parameters in declaration order, skipping exact-handle duplicates.
func NewParametrization(makeFn MakeFunc, args []string, quantities ...param.Quantity) (*Parametrization, error) {
	p := &Parametrization{
		makeFn: makeFn,
		args:   append([]string(nil), args...),
		fixed:  make(map[string]float64),
	}
	for _, q := range quantities {
		switch v := q.(type) {
		case *param.Parameter:
			if err := p.add(v, v.Name); err != nil {
				return nil, err
			}
		case *param.ComplexParameter:
			if err := p.add(v.Real, v.RealName()); err != nil {
				return nil, err
			}
			if err := p.add(v.Imag, v.ImagName()); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("parametrization quantities must be parameters, got %T", q)
		}
	}
	return p, nil
}

func (p *Parametrization) add(par *param.Parameter, name string) error {
	par.Name = name
	if par.Fixed {
		p.fixed[name] = par.Guess
		return nil
	}
	for _, existing := range p.free {
		if existing == par {
			return nil
		}
		if existing.Name == name {
			return fmt.Errorf("duplicate free parameter name %s", name)
		}
	}
	p.free = append(p.free, par)
	return nil
}

// Parameters returns the ordered free parameters.
func (p *Parametrization) Parameters() []*param.Parameter {
	return append([]*param.Parameter(nil), p.free...)
}

// MakeFrom resolves every construction argument from the flat map and
// the fixed table and invokes the construction function. Complex
// arguments combine <arg>.real / <arg>.imag halves; either half may
// come from the fixed table.
func (p *Parametrization) MakeFrom(flat map[string]float64) (scatterer.Scatterer, error) {
	resolved := make(map[string]complex128, len(p.args))
	for _, arg := range p.args {
		re, reFlat := flat[arg+param.RealSuffix]
		im, imFlat := flat[arg+param.ImagSuffix]
		reFix, reFixed := p.fixed[arg+param.RealSuffix]
		imFix, imFixed := p.fixed[arg+param.ImagSuffix]
		switch {
		case reFlat && imFlat:
			resolved[arg] = complex(re, im)
		case reFixed && imFlat:
			resolved[arg] = complex(reFix, im)
		case reFlat && imFixed:
			resolved[arg] = complex(re, imFix)
		case reFixed && imFixed:
			resolved[arg] = complex(reFix, imFix)
		default:
			if v, ok := flat[arg]; ok {
				resolved[arg] = complex(v, 0)
			} else if v, ok := p.fixed[arg]; ok {
				resolved[arg] = complex(v, 0)
			} else {
				return nil, param.ErrMissingValue{Name: arg}
			}
		}
	}
	return p.makeFn(resolved)
}

// Guess builds the scatterer from every free parameter's own default.
func (p *Parametrization) Guess() (scatterer.Scatterer, error) {
	flat := make(map[string]float64, len(p.free))
	for _, par := range p.free {
		flat[par.Name] = par.Guess
	}
	return p.MakeFrom(flat)
}
