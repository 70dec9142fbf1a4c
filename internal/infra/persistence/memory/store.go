// Package memory provides an in-memory implementation of the
// fit-result persistence store used for tests and ephemeral
// environments.
package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"holofit/pkg/results"
)

// Compile-time contract assertion ensuring memory.Store adheres to the
// results persistence interface.
var _ results.PersistentStore = (*Store)(nil)

type (
	// FitResult aliases results.FitResult for in-memory persistence
	// operations.
	FitResult = results.FitResult
	// Change aliases results.Change captured in transactions.
	Change = results.Change
	// Result aliases results.Result summarizing rule evaluation.
	Result = results.Result
	// RulesEngine aliases results.RulesEngine used to evaluate rules.
	RulesEngine = results.RulesEngine
	// Transaction aliases results.Transaction representing a mutable
	// unit of work.
	Transaction = results.Transaction
	// TransactionView aliases results.TransactionView providing
	// read-only state.
	TransactionView = results.TransactionView
)

type memoryState struct {
	results map[string]FitResult
}

// Snapshot captures a point-in-time clone of the store state.
type Snapshot struct {
	Results map[string]FitResult `json:"results"`
}

func newMemoryState() memoryState {
	return memoryState{results: make(map[string]FitResult)}
}

func cloneResult(r FitResult) FitResult {
	out := r
	if r.Parameters != nil {
		out.Parameters = make(map[string]float64, len(r.Parameters))
		for k, v := range r.Parameters {
			out.Parameters[k] = v
		}
	}
	if r.InitialGuess != nil {
		out.InitialGuess = make(map[string]float64, len(r.InitialGuess))
		for k, v := range r.InitialGuess {
			out.InitialGuess[k] = v
		}
	}
	return out
}

func (s memoryState) clone() memoryState {
	out := newMemoryState()
	for k, v := range s.results {
		out.results[k] = cloneResult(v)
	}
	return out
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	snap := Snapshot{Results: make(map[string]FitResult, len(state.results))}
	for k, v := range state.results {
		snap.Results[k] = cloneResult(v)
	}
	return snap
}

func memoryStateFromSnapshot(snapshot Snapshot) memoryState {
	state := newMemoryState()
	for k, v := range snapshot.Results {
		if v.ID == "" {
			v.ID = k
		}
		state.results[k] = cloneResult(v)
	}
	return state
}

// Store is a mutex-guarded in-memory result store with transactional
// semantics and rule evaluation on commit.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules
// engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = results.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(snapshot)
}

// RulesEngine exposes the currently configured engine.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

type transaction struct {
	store   *Store
	state   memoryState
	changes []Change
	now     time.Time
}

type transactionView struct {
	state *memoryState
}

func newTransactionView(state *memoryState) TransactionView {
	return transactionView{state: state}
}

// ListResults returns all results within the snapshot, ordered by ID.
func (v transactionView) ListResults() []FitResult {
	out := make([]FitResult, 0, len(v.state.results))
	for _, r := range v.state.results {
		out = append(out, cloneResult(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FindResult retrieves a result by ID from the snapshot.
func (v transactionView) FindResult(id string) (FitResult, bool) {
	r, ok := v.state.results[id]
	if !ok {
		return FitResult{}, false
	}
	return cloneResult(r), true
}

// RunInTransaction executes fn within a transactional copy of the
// store state, evaluating rules before commit. Blocking violations
// abort the commit.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, results.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	return fn(newTransactionView(&snapshot))
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(&tx.state)
}

// CreateResult stores a new fit result, assigning an ID when absent.
func (tx *transaction) CreateResult(r FitResult) (FitResult, error) {
	if r.ID == "" {
		r.ID = tx.store.newID()
	}
	if _, exists := tx.state.results[r.ID]; exists {
		return FitResult{}, fmt.Errorf("fit result %s already exists", r.ID)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = tx.now
	}
	r.UpdatedAt = tx.now
	tx.state.results[r.ID] = cloneResult(r)
	after := cloneResult(r)
	tx.recordChange(Change{Action: results.ActionCreate, After: &after})
	return cloneResult(r), nil
}

// UpdateResult mutates an existing result via the mutator.
func (tx *transaction) UpdateResult(id string, mutator func(*FitResult) error) (FitResult, error) {
	cur, ok := tx.state.results[id]
	if !ok {
		return FitResult{}, fmt.Errorf("fit result %s not found", id)
	}
	before := cloneResult(cur)
	next := cloneResult(cur)
	if err := mutator(&next); err != nil {
		return FitResult{}, err
	}
	next.ID = id
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = tx.now
	tx.state.results[id] = cloneResult(next)
	after := cloneResult(next)
	tx.recordChange(Change{Action: results.ActionUpdate, Before: &before, After: &after})
	return cloneResult(next), nil
}

// DeleteResult removes a result record.
func (tx *transaction) DeleteResult(id string) error {
	cur, ok := tx.state.results[id]
	if !ok {
		return fmt.Errorf("fit result %s not found", id)
	}
	before := cloneResult(cur)
	delete(tx.state.results, id)
	tx.recordChange(Change{Action: results.ActionDelete, Before: &before})
	return nil
}

// GetResult retrieves a result by ID.
func (s *Store) GetResult(id string) (FitResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.state.results[id]
	if !ok {
		return FitResult{}, false
	}
	return cloneResult(r), true
}

// ListResults returns all stored results, ordered by ID.
func (s *Store) ListResults() []FitResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]FitResult, 0, len(s.state.results))
	for _, r := range s.state.results {
		out = append(out, cloneResult(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
