package core

import (
	"context"
	"fmt"
)

// NewConvergedIterationsRule warns when a result claims convergence
// without recording any optimizer iterations.
func NewConvergedIterationsRule() Rule {
	return convergedIterationsRule{}
}

type convergedIterationsRule struct{}

func (convergedIterationsRule) Name() string { return "converged_iterations" }

func (convergedIterationsRule) Evaluate(_ context.Context, _ TransactionView, changes []Change) (Result, error) {
	res := Result{}
	for _, change := range changes {
		if change.After == nil {
			continue
		}
		r := change.After
		if r.Converged && r.Iterations <= 0 {
			res.Violations = append(res.Violations, Violation{
				Rule:     "converged_iterations",
				Severity: SeverityWarn,
				Message:  fmt.Sprintf("fit %s converged with no recorded iterations", r.ID),
				ResultID: r.ID,
			})
		}
	}
	return res, nil
}
