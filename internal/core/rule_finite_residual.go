package core

import (
	"context"
	"fmt"
	"math"
)

// NewFiniteResidualRule blocks recording fit results whose residual is
// NaN or infinite.
func NewFiniteResidualRule() Rule {
	return finiteResidualRule{}
}

type finiteResidualRule struct{}

func (finiteResidualRule) Name() string { return "finite_residual" }

func (finiteResidualRule) Evaluate(_ context.Context, _ TransactionView, changes []Change) (Result, error) {
	res := Result{}
	for _, change := range changes {
		if change.After == nil {
			continue
		}
		r := change.After
		if math.IsNaN(r.Residual) || math.IsInf(r.Residual, 0) {
			res.Violations = append(res.Violations, Violation{
				Rule:     "finite_residual",
				Severity: SeverityBlock,
				Message:  fmt.Sprintf("fit %s for model %s has non-finite residual", r.ID, r.Model),
				ResultID: r.ID,
			})
		}
		for name, v := range r.Parameters {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				res.Violations = append(res.Violations, Violation{
					Rule:     "finite_residual",
					Severity: SeverityBlock,
					Message:  fmt.Sprintf("fit %s parameter %s is non-finite", r.ID, name),
					ResultID: r.ID,
				})
			}
		}
	}
	return res, nil
}
