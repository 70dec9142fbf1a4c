// Package results defines the fit-result records produced by the
// fitting service and the persistence and rule interfaces durable
// backends implement.
package results

import "time"

// FitResult records one completed (or attempted) fit.
type FitResult struct {
	ID           string             `json:"id"`
	Model        string             `json:"model"`
	DatasetKey   string             `json:"dataset_key,omitempty"`
	Parameters   map[string]float64 `json:"parameters"`
	InitialGuess map[string]float64 `json:"initial_guess,omitempty"`
	Residual     float64            `json:"residual"`
	Converged    bool               `json:"converged"`
	Iterations   int                `json:"iterations"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// Severity determines commit behavior when a rule fires.
type Severity string

const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn records a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Action indicates the type of modification performed.
type Action string

const (
	// ActionCreate indicates a result was recorded.
	ActionCreate Action = "create"
	// ActionUpdate indicates a result was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Change captures one mutation inside a transaction, for rule
// evaluation.
type Change struct {
	Action Action
	Before *FitResult
	After  *FitResult
}

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	ResultID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
