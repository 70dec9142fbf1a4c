package fit

import (
	"fmt"

	"holofit/pkg/param"
	"holofit/pkg/scatterer"
)

// DefaultAlphaName is assigned to an unnamed free amplitude.
const DefaultAlphaName = "alpha"

// Model binds a parametrized scatterer, an optional global amplitude,
// and a scattering theory into a pure cost function.
type Model struct {
	scatterer Parametrizer
	theory    Theory
	overlay   *SchemaOverlay
	alpha     *param.Parameter
}

// ModelOption configures optional model fields.
type ModelOption func(*Model)

// WithAlpha sets the global amplitude. An unnamed parameter is named
// "alpha".
func WithAlpha(a *param.Parameter) ModelOption {
	return func(m *Model) {
		if a != nil && a.Name == "" {
			a.Name = DefaultAlphaName
		}
		m.alpha = a
	}
}

// WithSchemaOverlay sets metadata overrides applied to fitted data
// before theory evaluation.
func WithSchemaOverlay(o SchemaOverlay) ModelOption {
	return func(m *Model) {
		m.overlay = &o
	}
}

// NewModel builds a model from an existing parametrization.
func NewModel(p Parametrizer, theory Theory, opts ...ModelOption) *Model {
	m := &Model{scatterer: p, theory: theory}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewScattererModel wraps a bare scatterer in a ParameterizedObject
// and builds a model from it.
func NewScattererModel(s scatterer.Scatterer, theory Theory, opts ...ModelOption) (*Model, error) {
	po, err := NewParameterizedObject(s)
	if err != nil {
		return nil, err
	}
	return NewModel(po, theory, opts...), nil
}

// Scatterer returns the model's parametrization.
func (m *Model) Scatterer() Parametrizer { return m.scatterer }

// Parameters returns the scatterer's free parameters plus the
// amplitude, when the amplitude is itself free.
func (m *Model) Parameters() []*param.Parameter {
	out := m.scatterer.Parameters()
	if m.alpha != nil && !m.alpha.Fixed {
		out = append(out, m.alpha)
	}
	return out
}

// ParameterNames returns the ordered free-vector names.
func (m *Model) ParameterNames() []string {
	pars := m.Parameters()
	out := make([]string, len(pars))
	for i, p := range pars {
		out[i] = p.Name
	}
	return out
}

func (m *Model) alphaName() string {
	if m.alpha != nil && m.alpha.Name != "" {
		return m.alpha.Name
	}
	return DefaultAlphaName
}

// GetAlpha resolves the amplitude for one evaluation: the flat value
// when supplied, the amplitude's own guess or fixed value otherwise,
// and exactly 1.0 when no amplitude was configured.
func (m *Model) GetAlpha(flat map[string]float64) float64 {
	if v, ok := flat[m.alphaName()]; ok {
		return v
	}
	if m.alpha == nil {
		return 1.0
	}
	return m.alpha.Value()
}

// GetSchema shallow-copies the data's schema and applies the overlay.
func (m *Model) GetSchema(data Data) Schema {
	schema := data.Schema
	if m.overlay != nil {
		schema = m.overlay.Apply(schema)
	}
	return schema
}

// CostFunc returns a pure closure over a schema computed once. Each
// call resolves the scatterer from the flat values, evaluates the
// theory, and returns the residual prediction - observation.
func (m *Model) CostFunc(data Data) func(flat map[string]float64) ([]float64, error) {
	schema := m.GetSchema(data)
	return func(flat map[string]float64) ([]float64, error) {
		s, err := m.scatterer.MakeFrom(flat)
		if err != nil {
			return nil, err
		}
		pred, err := m.theory(s, schema, m.GetAlpha(flat))
		if err != nil {
			return nil, err
		}
		if len(pred) != len(data.Values) {
			return nil, fmt.Errorf("prediction length %d does not match data length %d", len(pred), len(data.Values))
		}
		res := make([]float64, len(pred))
		for i := range pred {
			res[i] = pred[i] - data.Values[i]
		}
		return res, nil
	}
}

// VectorCostFunc binds the optimizer boundary: a pure function from
// an ordered flat-value vector, in Parameters() order, to the residual
// vector.
func (m *Model) VectorCostFunc(data Data) func(x []float64) ([]float64, error) {
	names := m.ParameterNames()
	cost := m.CostFunc(data)
	return func(x []float64) ([]float64, error) {
		if len(x) != len(names) {
			return nil, fmt.Errorf("got %d values for %d parameters", len(x), len(names))
		}
		flat := make(map[string]float64, len(names))
		for i, name := range names {
			flat[name] = x[i]
		}
		return cost(flat)
	}
}

// GuessVector returns the free-parameter defaults in Parameters()
// order, the optimizer's starting point.
func (m *Model) GuessVector() []float64 {
	pars := m.Parameters()
	out := make([]float64, len(pars))
	for i, p := range pars {
		out[i] = p.Guess
	}
	return out
}

// GuessPrediction evaluates the theory at the parametrization's guess.
func (m *Model) GuessPrediction(data Data) ([]float64, error) {
	s, err := m.scatterer.Guess()
	if err != nil {
		return nil, err
	}
	alpha := 1.0
	if m.alpha != nil {
		alpha = m.alpha.Value()
	}
	return m.theory(s, m.GetSchema(data), alpha)
}
