package cdm

import "context"

// Store is the storage gateway for the projects table.
// A Store is opened once per run and shared by every operation;
// it is not required to be safe for concurrent use.
type Store interface {
	// Describe returns a short engine description for the connection status line,
	// e.g. "SQLite version 3.46.0".
	Describe() string

	// EnsureSchema creates the projects table if it does not exist.
	EnsureSchema(ctx context.Context) error

	// InsertProject writes one row and commits it before returning.
	InsertProject(ctx context.Context, p Project) error

	// ListProjects returns every stored row in insertion order.
	ListProjects(ctx context.Context) ([]Project, error)

	// Close releases the underlying connection.
	Close() error
}

// StoreOpener opens a Store for the given configuration.
// A non-nil error always means no Store was opened.
type StoreOpener func(ctx context.Context, config StoreConfig) (Store, error)

// Ingester runs the whole CSV-to-table load.
type Ingester interface {
	// Ingest loads config.CSVPath into the configured store.
	// The returned result is non-nil whenever the store was opened,
	// even if a later stage failed.
	Ingest(ctx context.Context, config IngestConfig) (*IngestResult, error)
}

// ProjectPrinter writes the final dump of the projects table.
type ProjectPrinter interface {
	PrintProjects(projects []Project) error
}
