package results

import (
	"context"
	"errors"
	"testing"
)

type staticRule struct {
	name string
	res  Result
	err  error
}

func (r staticRule) Name() string { return r.name }

func (r staticRule) Evaluate(ctx context.Context, view TransactionView, changes []Change) (Result, error) {
	return r.res, r.err
}

func TestResultMergeAndHasBlocking(t *testing.T) {
	var combined Result
	combined.Merge(Result{})
	if combined.Violations != nil {
		t.Fatalf("merging an empty result must not allocate")
	}

	combined.Merge(Result{Violations: []Violation{{Rule: "a", Severity: SeverityWarn}}})
	if combined.HasBlocking() {
		t.Fatalf("warnings must not block")
	}

	combined.Merge(Result{Violations: []Violation{{Rule: "b", Severity: SeverityBlock}}})
	if !combined.HasBlocking() || len(combined.Violations) != 2 {
		t.Fatalf("unexpected merged result %+v", combined)
	}
}

func TestRulesEngineAggregates(t *testing.T) {
	engine := NewRulesEngine()
	engine.Register(staticRule{name: "warn", res: Result{Violations: []Violation{{Rule: "warn", Severity: SeverityWarn}}}})
	engine.Register(staticRule{name: "block", res: Result{Violations: []Violation{{Rule: "block", Severity: SeverityBlock}}}})

	res, err := engine.Evaluate(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(res.Violations) != 2 || !res.HasBlocking() {
		t.Fatalf("unexpected aggregate %+v", res)
	}
}

func TestRulesEngineStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	engine := NewRulesEngine()
	engine.Register(staticRule{name: "ok", res: Result{Violations: []Violation{{Rule: "ok", Severity: SeverityWarn}}}})
	engine.Register(staticRule{name: "bad", err: boom})

	res, err := engine.Evaluate(context.Background(), nil, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected rule error, got %v", err)
	}
	if len(res.Violations) != 0 {
		t.Fatalf("partial results must not leak on error: %+v", res)
	}
}

func TestRuleViolationError(t *testing.T) {
	err := RuleViolationError{Result: Result{Violations: []Violation{{Rule: "finite_residual", Severity: SeverityBlock}}}}
	if err.Error() != "transaction blocked by rules" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
