package datasets

import (
	"context"
	"testing"

	"holofit/internal/infra/blob/memory"
	"holofit/pkg/fit"
)

func sampleData() fit.Data {
	return fit.Data{
		Schema: fit.Schema{
			Shape:       [2]int{2, 2},
			Spacing:     0.1,
			Wavelength:  0.66,
			MediumIndex: 1.33,
		},
		Values: []float64{1, 2, 3, 4},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	repo := NewRepository(memory.New())
	ctx := context.Background()

	info, err := repo.Save(ctx, "run-1", sampleData())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if info.Key != "datasets/run-1.json" {
		t.Fatalf("unexpected key %s", info.Key)
	}
	if info.ContentType != "application/json" {
		t.Fatalf("unexpected content type %s", info.ContentType)
	}

	got, err := repo.Load(ctx, "run-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Schema.Shape != [2]int{2, 2} || got.Schema.Wavelength != 0.66 {
		t.Fatalf("schema mismatch: %+v", got.Schema)
	}
	if len(got.Values) != 4 || got.Values[3] != 4 {
		t.Fatalf("values mismatch: %v", got.Values)
	}
}

func TestSaveRejectsDuplicateAndEmptyID(t *testing.T) {
	repo := NewRepository(memory.New())
	ctx := context.Background()

	if _, err := repo.Save(ctx, "", sampleData()); err == nil {
		t.Fatalf("expected empty id error")
	}
	if _, err := repo.Save(ctx, "run-1", sampleData()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := repo.Save(ctx, "run-1", sampleData()); err == nil {
		t.Fatalf("expected duplicate error")
	}
}

func TestListAndDelete(t *testing.T) {
	repo := NewRepository(memory.New())
	ctx := context.Background()
	for _, id := range []string{"b", "a"} {
		if _, err := repo.Save(ctx, id, sampleData()); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	ids, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("unexpected ids %v", ids)
	}

	existed, err := repo.Delete(ctx, "a")
	if err != nil || !existed {
		t.Fatalf("delete: existed=%v err=%v", existed, err)
	}
	if _, err := repo.Load(ctx, "a"); err == nil {
		t.Fatalf("expected load failure after delete")
	}
}

func TestIDFromKey(t *testing.T) {
	cases := []struct {
		key string
		id  string
		ok  bool
	}{
		{"datasets/run-1.json", "run-1", true},
		{"datasets/.json", "", false},
		{"results/run-1.json", "", false},
		{"datasets/run-1.csv", "", false},
	}
	for _, tc := range cases {
		id, ok := IDFromKey(tc.key)
		if ok != tc.ok || id != tc.id {
			t.Fatalf("IDFromKey(%q) = %q,%v want %q,%v", tc.key, id, ok, tc.id, tc.ok)
		}
	}
}
