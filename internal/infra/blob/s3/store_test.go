package s3

import (
	"context"
	"io"
	"strings"
	"testing"

	"holofit/internal/infra/blob/core"
)

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected bucket required error")
	}
}

func TestOpenFromEnvRequiresBucket(t *testing.T) {
	t.Setenv("HOLOFIT_BLOB_S3_BUCKET", "")
	if _, err := OpenFromEnv(context.Background()); err == nil {
		t.Fatalf("expected env error")
	}
}

func TestMockRoundTrip(t *testing.T) {
	store := NewMockForTests()
	ctx := context.Background()

	if store.Driver() != core.DriverS3 {
		t.Fatalf("unexpected driver %s", store.Driver())
	}

	info, err := store.Put(ctx, "datasets/holo.json", strings.NewReader("payload"), core.PutOptions{ContentType: "application/json"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "datasets/holo.json" {
		t.Fatalf("unexpected info: %+v", info)
	}

	if _, err := store.Put(ctx, "datasets/holo.json", strings.NewReader("other"), core.PutOptions{}); err == nil {
		t.Fatalf("expected duplicate key error")
	}

	got, rc, err := store.Get(ctx, "datasets/holo.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "payload" {
		t.Fatalf("unexpected body %q", body)
	}
	if got.ContentType != "application/json" {
		t.Fatalf("unexpected content type %q", got.ContentType)
	}

	infos, err := store.List(ctx, "datasets/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 1 || infos[0].Key != "datasets/holo.json" {
		t.Fatalf("unexpected listing: %+v", infos)
	}

	existed, err := store.Delete(ctx, "datasets/holo.json")
	if err != nil || !existed {
		t.Fatalf("delete: existed=%v err=%v", existed, err)
	}
	if _, err := store.Head(ctx, "datasets/holo.json"); err == nil {
		t.Fatalf("expected head failure after delete")
	}
}
