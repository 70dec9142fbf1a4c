package core

import (
	"context"
	"fmt"
	"math"
	"time"

	"holofit/internal/adapters/datasets"
	blobcore "holofit/internal/infra/blob/core"
	"holofit/internal/infra/persistence/memory"
	"holofit/pkg/fit"
)

// Service runs fits and records their results transactionally. Dataset
// payloads go to the blob store; result records go to the persistent
// store where the rules engine vets them before commit.
type Service struct {
	store    PersistentStore
	datasets *datasets.Repository
	metrics  MetricsRecorder
	tracer   Tracer
	nowFn    func() time.Time
}

// ServiceOption configures optional service collaborators.
type ServiceOption func(*Service)

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTracer sets the tracer.
func WithTracer(t Tracer) ServiceOption {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithBlobStore attaches a blob store for dataset persistence.
func WithBlobStore(b blobcore.Store) ServiceOption {
	return func(s *Service) {
		if b != nil {
			s.datasets = datasets.NewRepository(b)
		}
	}
}

// NewService constructs a service backed by the supplied store.
func NewService(store PersistentStore, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		metrics: noopMetrics{},
		tracer:  noopTracer{},
		nowFn:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService creates a service and in-memory store with the
// given rules engine.
func NewInMemoryService(engine *RulesEngine, opts ...ServiceOption) *Service {
	return NewService(memory.NewStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore {
	return s.store
}

func (s *Service) observe(ctx context.Context, operation string) func(error) {
	start := s.nowFn()
	ctx, span := s.tracer.Start(ctx, operation)
	return func(err error) {
		span.End(err)
		s.metrics.Observe(ctx, operation, err == nil, s.nowFn().Sub(start))
	}
}

// FitRequest names a fit run and optionally links it to a stored
// dataset.
type FitRequest struct {
	ModelName string
	DatasetID string
}

// RunFit minimizes the model's residual against the data and records
// the outcome. The optimizer's failure is returned as an error without
// recording a result; a blocking rule violation also fails the run.
func (s *Service) RunFit(ctx context.Context, model *fit.Model, data fit.Data, optimizer fit.Optimizer, req FitRequest) (FitResult, Result, error) {
	done := s.observe(ctx, "run_fit")
	record, res, err := s.runFit(ctx, model, data, optimizer, req)
	done(err)
	return record, res, err
}

func (s *Service) runFit(ctx context.Context, model *fit.Model, data fit.Data, optimizer fit.Optimizer, req FitRequest) (FitResult, Result, error) {
	if optimizer == nil {
		return FitResult{}, Result{}, fmt.Errorf("optimizer required")
	}
	names := model.ParameterNames()
	guess := model.GuessVector()
	cost := model.VectorCostFunc(data)

	fitted, iterations, err := optimizer.Minimize(cost, guess)
	if err != nil {
		return FitResult{}, Result{}, fmt.Errorf("minimize: %w", err)
	}
	if len(fitted) != len(names) {
		return FitResult{}, Result{}, fmt.Errorf("optimizer returned %d values for %d parameters", len(fitted), len(names))
	}

	residuals, err := cost(fitted)
	if err != nil {
		return FitResult{}, Result{}, fmt.Errorf("evaluate fitted parameters: %w", err)
	}
	record := FitResult{
		Model:        req.ModelName,
		DatasetKey:   datasetKey(req.DatasetID),
		Parameters:   zipValues(names, fitted),
		InitialGuess: zipValues(names, guess),
		Residual:     norm(residuals),
		Converged:    true,
		Iterations:   iterations,
	}

	var saved FitResult
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		var err error
		saved, err = tx.CreateResult(record)
		return err
	})
	if err != nil {
		return FitResult{}, res, err
	}
	return saved, res, nil
}

// GetResult retrieves a stored fit result by ID.
func (s *Service) GetResult(ctx context.Context, id string) (FitResult, error) {
	done := s.observe(ctx, "get_result")
	record, ok := s.store.GetResult(id)
	var err error
	if !ok {
		err = fmt.Errorf("fit result %s not found", id)
	}
	done(err)
	return record, err
}

// ListResults returns all stored fit results ordered by ID.
func (s *Service) ListResults(ctx context.Context) []FitResult {
	done := s.observe(ctx, "list_results")
	out := s.store.ListResults()
	done(nil)
	return out
}

// SaveDataset stores a hologram dataset in the configured blob store.
func (s *Service) SaveDataset(ctx context.Context, id string, data fit.Data) error {
	done := s.observe(ctx, "save_dataset")
	err := s.saveDataset(ctx, id, data)
	done(err)
	return err
}

func (s *Service) saveDataset(ctx context.Context, id string, data fit.Data) error {
	if s.datasets == nil {
		return fmt.Errorf("no blob store configured")
	}
	_, err := s.datasets.Save(ctx, id, data)
	return err
}

// LoadDataset fetches a stored hologram dataset.
func (s *Service) LoadDataset(ctx context.Context, id string) (fit.Data, error) {
	done := s.observe(ctx, "load_dataset")
	data, err := s.loadDataset(ctx, id)
	done(err)
	return data, err
}

func (s *Service) loadDataset(ctx context.Context, id string) (fit.Data, error) {
	if s.datasets == nil {
		return fit.Data{}, fmt.Errorf("no blob store configured")
	}
	return s.datasets.Load(ctx, id)
}

// ListDatasets returns the IDs of stored datasets.
func (s *Service) ListDatasets(ctx context.Context) ([]string, error) {
	done := s.observe(ctx, "list_datasets")
	if s.datasets == nil {
		err := fmt.Errorf("no blob store configured")
		done(err)
		return nil, err
	}
	ids, err := s.datasets.List(ctx)
	done(err)
	return ids, err
}

func datasetKey(id string) string {
	if id == "" {
		return ""
	}
	return datasets.Key(id)
}

func zipValues(names []string, values []float64) map[string]float64 {
	out := make(map[string]float64, len(names))
	for i, name := range names {
		out[name] = values[i]
	}
	return out
}

func norm(residuals []float64) float64 {
	var sum float64
	for _, r := range residuals {
		sum += r * r
	}
	return math.Sqrt(sum)
}
