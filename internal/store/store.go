// Package store is the key-value persistence layer underneath the account,
// note and session repositories.
//
// A Store maps string keys to string values. Every operation is atomic for a
// single key; there are no transactions spanning keys. I/O failures are
// returned to the caller as-is (wrapped with context) and never retried.
//
// Drivers:
//
//   - memory   in-process map, used by tests and ephemeral runs
//   - sqlite   local file via modernc.org/sqlite, schema managed by goose
//   - couchdb  one document per key via kivik
//   - redis    GET/SET/DEL via go-redis
//   - postgres kv_store table via pgx
//
// Open selects a driver from config.StoreConfig.
package store

import (
	"context"
	"errors"
)

var ErrUnknownDriver = errors.New("unknown store driver")

type Store interface {
	// Get returns the value stored under key. found is false when the key is
	// absent; that is not an error.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key succeeds.
	Remove(ctx context.Context, key string) error
	Close() error
}
