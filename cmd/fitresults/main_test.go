package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"holofit/internal/core"
	"holofit/pkg/results"
)

func seedStore(t *testing.T, path string) results.FitResult {
	t.Helper()
	t.Setenv("HOLOFIT_STORAGE_DRIVER", "sqlite")
	t.Setenv("HOLOFIT_SQLITE_PATH", path)
	store, err := core.OpenPersistentStore(nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	var created results.FitResult
	if _, err := store.RunInTransaction(context.Background(), func(tx results.Transaction) error {
		created, err = tx.CreateResult(results.FitResult{
			ID:         "fit-1",
			Model:      "single-sphere",
			Parameters: map[string]float64{"r": 0.5},
		})
		return err
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return created
}

func TestRunListsResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fits.db")
	seedStore(t, path)

	var stdout, stderr bytes.Buffer
	if code := run(nil, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	var listed []results.FitResult
	if err := json.Unmarshal(stdout.Bytes(), &listed); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != "fit-1" {
		t.Fatalf("unexpected output %s", stdout.String())
	}
}

func TestRunSingleResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fits.db")
	seedStore(t, path)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-id", "fit-1"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), `"single-sphere"`) {
		t.Fatalf("unexpected output %s", stdout.String())
	}

	stdout.Reset()
	stderr.Reset()
	if code := run([]string{"-id", "absent"}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "not found") {
		t.Fatalf("expected not-found message, got %s", stderr.String())
	}
}

func TestRunBadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-bogus"}, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
}
