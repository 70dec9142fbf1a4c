package core

import (
	"context"
	"fmt"
	"os"

	blobcore "holofit/internal/infra/blob/core"
	blobfs "holofit/internal/infra/blob/fs"
	blobmemory "holofit/internal/infra/blob/memory"
	blobs3 "holofit/internal/infra/blob/s3"
	"holofit/internal/infra/persistence/memory"
	"holofit/internal/infra/persistence/postgres"
	"holofit/internal/infra/persistence/sqlite"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// OpenPersistentStore selects a backend using environment variables.
// Defaults to sqlite when unset.
//
//	HOLOFIT_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	HOLOFIT_SQLITE_PATH: path to sqlite file (default ./holofit.db)
//	HOLOFIT_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenPersistentStore(engine *RulesEngine) (PersistentStore, error) {
	driver := os.Getenv("HOLOFIT_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(engine), nil
	case StorageSQLite:
		path := os.Getenv("HOLOFIT_SQLITE_PATH")
		return sqlite.NewStore(path, engine)
	case StoragePostgres:
		dsn := os.Getenv("HOLOFIT_POSTGRES_DSN")
		return postgres.NewStore(dsn, engine)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// OpenBlobStore selects a blob backend using environment variables.
//
//	HOLOFIT_BLOB_DRIVER: fs|s3|memory (default fs)
//	HOLOFIT_BLOB_FS_ROOT: directory root when driver=fs (default ./blobdata)
//	(S3 specific variables documented in the s3 package)
func OpenBlobStore(ctx context.Context) (blobcore.Store, error) {
	driver := os.Getenv("HOLOFIT_BLOB_DRIVER")
	if driver == "" {
		driver = string(blobcore.DriverFilesystem)
	}
	switch blobcore.Driver(driver) {
	case blobcore.DriverFilesystem:
		root := os.Getenv("HOLOFIT_BLOB_FS_ROOT")
		return blobfs.New(root)
	case blobcore.DriverS3:
		return blobs3.OpenFromEnv(ctx)
	case blobcore.DriverMemory:
		return blobmemory.New(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
