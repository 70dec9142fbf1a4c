// Package fit flattens nested scatterer models into a single ordered
// free-parameter vector and binds them, together with an optional
// global amplitude and a scattering theory, into pure cost functions
// for an external nonlinear optimizer.
package fit

import (
	"holofit/pkg/scatterer"
)

// Schema carries the detector metadata a theory needs to compute a
// prediction: grid shape, pixel spacing, illumination wavelength,
// medium refractive index, and polarization.
type Schema struct {
	Shape             [2]int     `json:"shape"`
	Spacing           float64    `json:"spacing"`
	Wavelength        float64    `json:"wavelength"`
	MediumIndex       float64    `json:"medium_index"`
	Polarization      [2]float64 `json:"polarization"`
	UseRandomFraction float64    `json:"use_random_fraction,omitempty"`
}

// SchemaOverlay holds optional overrides applied to a data schema
// before theory evaluation. Nil fields leave the data's own metadata
// untouched.
type SchemaOverlay struct {
	Spacing           *float64
	Wavelength        *float64
	MediumIndex       *float64
	Polarization      *[2]float64
	UseRandomFraction *float64
}

// Apply returns schema with every non-nil overlay field overridden.
func (o SchemaOverlay) Apply(schema Schema) Schema {
	if o.Spacing != nil {
		schema.Spacing = *o.Spacing
	}
	if o.Wavelength != nil {
		schema.Wavelength = *o.Wavelength
	}
	if o.MediumIndex != nil {
		schema.MediumIndex = *o.MediumIndex
	}
	if o.Polarization != nil {
		schema.Polarization = *o.Polarization
	}
	if o.UseRandomFraction != nil {
		schema.UseRandomFraction = *o.UseRandomFraction
	}
	return schema
}

// Data is an observed hologram: a schema plus the flattened sample
// values.
type Data struct {
	Schema
	Values []float64 `json:"values"`
}

// Theory computes a predicted hologram for a concrete scatterer under
// the given schema, scaled by the amplitude. It is an opaque,
// potentially expensive external operation.
type Theory func(s scatterer.Scatterer, schema Schema, scaling float64) ([]float64, error)

// Optimizer is the boundary to the external fit driver: it minimizes
// a residual-vector cost function starting from the guess vector and
// returns the fitted vector and the iteration count. The module ships
// no optimizer implementation.
type Optimizer interface {
	Minimize(cost func(x []float64) ([]float64, error), guess []float64) (fitted []float64, iterations int, err error)
}
