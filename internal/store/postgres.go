package store

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/cdmload/internal/db"
	"github.com/vvka-141/cdmload/pkg/cdm"
)

// PostgresStore keeps the projects table in a PostgreSQL warehouse.
type PostgresStore struct {
	pool    *pgxpool.Pool
	closer  io.Closer
	version string
	insert  string
}

// OpenPostgres connects with the connector matching config.AuthMethod.
func OpenPostgres(ctx context.Context, config *cdm.ConnectionConfig) (*PostgresStore, error) {
	if config.AppName == "" {
		config.AppName = "cdmload"
	}

	connector, err := db.NewConnector(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}

	pool, err := connector.Connect(ctx)
	if err != nil {
		closeConnector(connector)
		return nil, fmt.Errorf("%w: %w", cdm.ErrConnectionFailed, err)
	}

	s, err := NewPostgresStore(ctx, pool)
	if err != nil {
		closeConnector(connector)
		return nil, err
	}
	if c, ok := connector.(io.Closer); ok {
		s.closer = c
	}
	return s, nil
}

// NewPostgresStore wraps an established pool. The store owns the pool.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	var version string
	if err := pool.QueryRow(ctx, "SHOW server_version").Scan(&version); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to query server version: %w: %w", cdm.ErrConnectionFailed, err)
	}

	return &PostgresStore{
		pool:    pool,
		version: version,
		insert:  insertSQL(dollar),
	}, nil
}

func closeConnector(c db.Connector) {
	if closer, ok := c.(io.Closer); ok {
		_ = closer.Close()
	}
}

func (s *PostgresStore) Describe() string {
	return "PostgreSQL version " + s.version
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createTableSQL()); err != nil {
		return fmt.Errorf("failed to create table %s: %w: %w", cdm.TableName, cdm.ErrSchemaFailed, err)
	}
	return nil
}

func (s *PostgresStore) InsertProject(ctx context.Context, p cdm.Project) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, s.insert, pgValues(p)...)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to insert project %s: %w: %w", p.ProjectID, cdm.ErrInsertFailed, err)
	}
	return nil
}

// ListProjects orders by ctid. Rows are never updated or deleted,
// so physical order is insertion order.
func (s *PostgresStore) ListProjects(ctx context.Context) ([]cdm.Project, error) {
	rows, err := s.pool.Query(ctx, selectSQL("ctid"))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []cdm.Project
	for rows.Next() {
		p, err := scanPostgres(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// pgValues binds dates as pgtype.Date.
func pgValues(p cdm.Project) []any {
	values := p.Values()
	for i, v := range values {
		if d, ok := v.(cdm.Date); ok {
			values[i] = pgtype.Date{Time: d.Time, Valid: true}
		}
	}
	return values
}

// scanPostgres reads ids as text and dates as pgtype.Date, then converts them.
func scanPostgres(row pgx.Row) (cdm.Project, error) {
	var p cdm.Project
	targets := p.ScanTargets()

	ids := make(map[int]*string)
	dates := make(map[int]*pgtype.Date)
	for i, t := range targets {
		switch t.(type) {
		case *uuid.UUID:
			ids[i] = new(string)
			targets[i] = ids[i]
		case *cdm.Date:
			dates[i] = new(pgtype.Date)
			targets[i] = dates[i]
		}
	}

	if err := row.Scan(targets...); err != nil {
		return cdm.Project{}, fmt.Errorf("failed to scan project: %w", err)
	}

	fields := p.ScanTargets()
	for i, s := range ids {
		id, err := uuid.Parse(*s)
		if err != nil {
			return cdm.Project{}, fmt.Errorf("invalid id %q in column %s: %w", *s, cdm.ProjectColumns[i], err)
		}
		*fields[i].(*uuid.UUID) = id
	}
	for i, d := range dates {
		if d.Valid {
			*fields[i].(*cdm.Date) = cdm.DateOf(d.Time)
		}
	}
	return p, nil
}

var _ cdm.Store = (*PostgresStore)(nil)
