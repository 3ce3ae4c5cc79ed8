// Package store persists transformed projects to SQLite or PostgreSQL.
package store

import (
	"context"
	"fmt"

	"github.com/vvka-141/cdmload/pkg/cdm"
)

// Open opens the backend named by config.Backend.
func Open(ctx context.Context, config cdm.StoreConfig) (cdm.Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Backend {
	case cdm.BackendSQLite:
		return OpenSQLite(ctx, config.Path)
	case cdm.BackendPostgres:
		conn := *config.Connection
		return OpenPostgres(ctx, &conn)
	default:
		return nil, fmt.Errorf("unknown backend %q: %w", config.Backend, cdm.ErrInvalidConfig)
	}
}

var _ cdm.StoreOpener = Open
