package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	blobmemory "holofit/internal/infra/blob/memory"
	"holofit/pkg/fit"
	"holofit/pkg/param"
	"holofit/pkg/results"
	"holofit/pkg/scatterer"
)

// flatFieldTheory predicts a uniform field proportional to the sphere
// radius, enough to drive one-parameter fits deterministically.
func flatFieldTheory(s scatterer.Scatterer, schema fit.Schema, scaling float64) ([]float64, error) {
	sphere, ok := s.(*scatterer.Sphere)
	if !ok {
		return nil, fmt.Errorf("unsupported scatterer %T", s)
	}
	n := schema.Shape[0] * schema.Shape[1]
	r := param.EvalReal(sphere.R)
	out := make([]float64, n)
	for i := range out {
		out[i] = scaling * r
	}
	return out, nil
}

type stubOptimizer struct {
	fitted     []float64
	iterations int
	err        error
}

func (o stubOptimizer) Minimize(cost func([]float64) ([]float64, error), guess []float64) ([]float64, int, error) {
	if o.err != nil {
		return nil, 0, o.err
	}
	if o.fitted != nil {
		return o.fitted, o.iterations, nil
	}
	return guess, o.iterations, nil
}

func testModel(t *testing.T, rGuess float64) *fit.Model {
	t.Helper()
	s, err := scatterer.NewSphere(
		param.NewFixed("n", 1.59),
		param.NewFree("r", rGuess),
		scatterer.Literal3(scatterer.Vector{0, 0, 5}),
	)
	if err != nil {
		t.Fatalf("new sphere: %v", err)
	}
	model, err := fit.NewScattererModel(s, flatFieldTheory)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return model
}

func testData() fit.Data {
	return fit.Data{
		Schema: fit.Schema{Shape: [2]int{1, 2}, Spacing: 0.1, Wavelength: 0.66, MediumIndex: 1.33},
		Values: []float64{0.8, 0.8},
	}
}

func TestRunFitRecordsResult(t *testing.T) {
	svc := NewInMemoryService(NewDefaultRulesEngine())
	model := testModel(t, 0.5)

	record, res, err := svc.RunFit(context.Background(), model, testData(),
		stubOptimizer{fitted: []float64{0.8}, iterations: 7},
		FitRequest{ModelName: "single-sphere", DatasetID: "run-1"})
	if err != nil {
		t.Fatalf("run fit: %v", err)
	}
	if res.HasBlocking() {
		t.Fatalf("unexpected blocking violations: %+v", res.Violations)
	}
	if record.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if record.Parameters["r"] != 0.8 {
		t.Fatalf("unexpected fitted parameters %+v", record.Parameters)
	}
	if record.InitialGuess["r"] != 0.5 {
		t.Fatalf("unexpected guess %+v", record.InitialGuess)
	}
	if record.Residual > 1e-12 {
		t.Fatalf("expected zero residual, got %g", record.Residual)
	}
	if !record.Converged || record.Iterations != 7 {
		t.Fatalf("unexpected convergence state: %+v", record)
	}
	if record.DatasetKey != "datasets/run-1.json" {
		t.Fatalf("unexpected dataset key %s", record.DatasetKey)
	}

	stored, err := svc.GetResult(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if stored.Model != "single-sphere" {
		t.Fatalf("unexpected stored model %s", stored.Model)
	}
}

func TestRunFitOptimizerErrorNotRecorded(t *testing.T) {
	svc := NewInMemoryService(NewDefaultRulesEngine())
	model := testModel(t, 0.5)

	_, _, err := svc.RunFit(context.Background(), model, testData(),
		stubOptimizer{err: errors.New("did not converge")}, FitRequest{ModelName: "m"})
	if err == nil {
		t.Fatalf("expected optimizer error")
	}
	if got := svc.ListResults(context.Background()); len(got) != 0 {
		t.Fatalf("expected no stored results, got %d", len(got))
	}
}

func TestRunFitBlockedByRules(t *testing.T) {
	svc := NewInMemoryService(NewDefaultRulesEngine())
	model := testModel(t, 0.5)

	_, res, err := svc.RunFit(context.Background(), model, testData(),
		stubOptimizer{fitted: []float64{math.NaN()}}, FitRequest{ModelName: "m"})
	if err == nil {
		t.Fatalf("expected rule violation")
	}
	var violation results.RuleViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected RuleViolationError, got %T", err)
	}
	if !res.HasBlocking() {
		t.Fatalf("expected blocking result")
	}
	if got := svc.ListResults(context.Background()); len(got) != 0 {
		t.Fatalf("blocked result must not persist")
	}
}

func TestRunFitRequiresOptimizer(t *testing.T) {
	svc := NewInMemoryService(nil)
	model := testModel(t, 0.5)
	if _, _, err := svc.RunFit(context.Background(), model, testData(), nil, FitRequest{}); err == nil {
		t.Fatalf("expected error for nil optimizer")
	}
}

func TestDatasetRoundTripThroughService(t *testing.T) {
	svc := NewInMemoryService(nil, WithBlobStore(blobmemory.New()))
	ctx := context.Background()

	if err := svc.SaveDataset(ctx, "run-1", testData()); err != nil {
		t.Fatalf("save dataset: %v", err)
	}
	data, err := svc.LoadDataset(ctx, "run-1")
	if err != nil {
		t.Fatalf("load dataset: %v", err)
	}
	if len(data.Values) != 2 || data.Schema.Wavelength != 0.66 {
		t.Fatalf("dataset mismatch: %+v", data)
	}

	ids, err := svc.ListDatasets(ctx)
	if err != nil {
		t.Fatalf("list datasets: %v", err)
	}
	if len(ids) != 1 || ids[0] != "run-1" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestDatasetOperationsRequireBlobStore(t *testing.T) {
	svc := NewInMemoryService(nil)
	ctx := context.Background()
	if err := svc.SaveDataset(ctx, "x", testData()); err == nil {
		t.Fatalf("expected save error without blob store")
	}
	if _, err := svc.LoadDataset(ctx, "x"); err == nil {
		t.Fatalf("expected load error without blob store")
	}
	if _, err := svc.ListDatasets(ctx); err == nil {
		t.Fatalf("expected list error without blob store")
	}
}
