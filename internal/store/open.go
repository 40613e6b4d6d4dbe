package store

import (
	"context"
	"fmt"
	"strings"

	"pocketnotes/internal/config"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverCouchDB  = "couchdb"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Open returns the Store for cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		s, err := OpenSQLite(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverCouchDB:
		s, err := OpenCouch(ctx, cfg.CouchDB.URL(), cfg.CouchDB.Name)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverRedis:
		s, err := OpenRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverPostgres:
		s, err := OpenPostgres(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
