// Package storage is the file-backed byte store used to persist saves.
package storage

import (
	"context"
	"sync/atomic"

	"github.com/rotisserie/eris"
)

var (
	ErrNotFound   = eris.New("storage key not found")
	ErrInvalidKey = eris.New("invalid storage key")
)

// Storage reads and writes whole values by key. Writes are atomic: a reader
// sees either the old or the new value, never a mix.
type Storage interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// List returns the keys of the values stored directly under dir, sorted.
	List(ctx context.Context, dir string) ([]string, error)

	Statistics() Statistics
}

// Statistics counts completed operations.
type Statistics struct {
	Reads   uint64
	Writes  uint64
	Deletes uint64
}

type counters struct {
	reads   atomic.Uint64
	writes  atomic.Uint64
	deletes atomic.Uint64
}

func (c *counters) snapshot() Statistics {
	return Statistics{
		Reads:   c.reads.Load(),
		Writes:  c.writes.Load(),
		Deletes: c.deletes.Load(),
	}
}
