package db

import (
	"context"
	"time"
)

// Store is the database facade used by repositories.
//
//nolint:interfacebloat // facade -- consumers use narrow sub-interfaces
type Store interface {
	Pinger
	KVStore
	KeyStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SetItem holds a single key+value pair for pipelined SET.
type SetItem struct {
	Key   string
	Value []byte
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetMulti(ctx context.Context, items []SetItem) error
	// GetMulti returns values in key order; missing keys yield nil entries.
	GetMulti(ctx context.Context, keys []string) ([][]byte, error)
}

// KeyStore provides key lifecycle operations.
type KeyStore interface {
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}
