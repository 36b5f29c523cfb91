// Package memorystorage implements the storage interface entirely in memory.
// It reuses the jsondb cache without persisting anything on Close.
package memorystorage

import (
	"context"

	"github.com/patric-chuzhbe/linkboard/internal/db/jsondb"
)

// MemoryStorage keeps all records in memory; Close discards them.
type MemoryStorage struct {
	*jsondb.JSONDB
}

// New returns an empty in-memory storage.
func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		JSONDB: &jsondb.JSONDB{
			Cache: jsondb.NewCache(),
		},
	}, nil
}

func (theStorage *MemoryStorage) Close() error {
	return nil
}

func (theStorage *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}
