// Package datasets stores recorded holograms and their detector
// schemas as JSON blobs so fits can be replayed against the data that
// produced them.
package datasets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"holofit/internal/infra/blob/core"
	"holofit/pkg/fit"
)

const (
	keyPrefix   = "datasets/"
	keySuffix   = ".json"
	contentType = "application/json"
)

// Repository persists fit.Data records in a blob store.
type Repository struct {
	store core.Store
}

// NewRepository wraps a blob store.
func NewRepository(store core.Store) *Repository {
	return &Repository{store: store}
}

// Key maps a dataset ID to its blob key.
func Key(id string) string { return keyPrefix + id + keySuffix }

// IDFromKey recovers the dataset ID from a blob key.
func IDFromKey(key string) (string, bool) {
	if !strings.HasPrefix(key, keyPrefix) || !strings.HasSuffix(key, keySuffix) {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(key, keyPrefix), keySuffix)
	if id == "" {
		return "", false
	}
	return id, true
}

// Save encodes the dataset as JSON and stores it under its ID.
// Datasets are immutable: saving an existing ID is an error.
func (r *Repository) Save(ctx context.Context, id string, data fit.Data) (core.Info, error) {
	if strings.TrimSpace(id) == "" {
		return core.Info{}, fmt.Errorf("dataset id required")
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return core.Info{}, fmt.Errorf("encode dataset %s: %w", id, err)
	}
	info, err := r.store.Put(ctx, Key(id), bytes.NewReader(payload), core.PutOptions{
		ContentType: contentType,
		Metadata:    map[string]string{"dataset_id": id},
	})
	if err != nil {
		return core.Info{}, fmt.Errorf("store dataset %s: %w", id, err)
	}
	return info, nil
}

// Load fetches and decodes the dataset stored under id.
func (r *Repository) Load(ctx context.Context, id string) (fit.Data, error) {
	_, rc, err := r.store.Get(ctx, Key(id))
	if err != nil {
		return fit.Data{}, fmt.Errorf("load dataset %s: %w", id, err)
	}
	defer func() { _ = rc.Close() }()
	payload, err := io.ReadAll(rc)
	if err != nil {
		return fit.Data{}, fmt.Errorf("read dataset %s: %w", id, err)
	}
	var data fit.Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return fit.Data{}, fmt.Errorf("decode dataset %s: %w", id, err)
	}
	return data, nil
}

// List returns the IDs of all stored datasets.
func (r *Repository) List(ctx context.Context) ([]string, error) {
	infos, err := r.store.List(ctx, keyPrefix)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(infos))
	for _, info := range infos {
		if id, ok := IDFromKey(info.Key); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Delete removes the dataset, returning true when it existed.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	return r.store.Delete(ctx, Key(id))
}
