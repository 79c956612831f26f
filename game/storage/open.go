package storage

import (
	"context"
	"fmt"
	"path/filepath"
)

// Supported drivers
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Driver string
	// Path is a directory for the file driver and a database file for sqlite.
	// A directory given to sqlite gets quickplay.db appended.
	Path string
	DSN  string
}

// Open returns the Store selected by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverFile, "":
		path := opts.Path
		if path == "" {
			path = "data"
		}
		return NewFileStore(path)
	case DriverSQLite:
		path := opts.Path
		if path == "" {
			path = "data"
		}
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "quickplay.db")
		}
		return OpenSQLite(ctx, path)
	case DriverPostgres:
		return OpenPostgres(ctx, opts.DSN)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, opts.Driver)
	}
}
