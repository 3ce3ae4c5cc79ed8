package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vvka-141/cdmload/pkg/cdm"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the projects table in a local database file.
type SQLiteStore struct {
	db      *sql.DB
	version string
	insert  string
}

// OpenSQLite opens (creating if needed) the database file at path.
// The parent directory must exist; a path that cannot be opened fails here.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w: %w", path, cdm.ErrConnectionFailed, err)
	}

	// A single writer connection; commits are serialized anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open %s: %w: %w", path, cdm.ErrConnectionFailed, err)
	}

	var version string
	if err := db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to query sqlite version: %w: %w", cdm.ErrConnectionFailed, err)
	}

	return &SQLiteStore{
		db:      db,
		version: version,
		insert:  insertSQL(questionMark),
	}, nil
}

func (s *SQLiteStore) Describe() string {
	return "SQLite version " + s.version
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL()); err != nil {
		return fmt.Errorf("failed to create table %s: %w: %w", cdm.TableName, cdm.ErrSchemaFailed, err)
	}
	return nil
}

func (s *SQLiteStore) InsertProject(ctx context.Context, p cdm.Project) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w: %w", cdm.ErrInsertFailed, err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, ignoreDone(tx.Rollback()))
		}
	}()

	if _, err = tx.ExecContext(ctx, s.insert, p.Values()...); err != nil {
		return fmt.Errorf("failed to insert project %s: %w: %w", p.ProjectID, cdm.ErrInsertFailed, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit project %s: %w: %w", p.ProjectID, cdm.ErrInsertFailed, err)
	}
	return nil
}

func (s *SQLiteStore) ListProjects(ctx context.Context) ([]cdm.Project, error) {
	rows, err := s.db.QueryContext(ctx, selectSQL("rowid"))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []cdm.Project
	for rows.Next() {
		var p cdm.Project
		if err := rows.Scan(p.ScanTargets()...); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func ignoreDone(err error) error {
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

var _ cdm.Store = (*SQLiteStore)(nil)
