package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/vvka-141/cdmload/internal/csvsource"
	"github.com/vvka-141/cdmload/internal/dateparse"
	"github.com/vvka-141/cdmload/internal/transform"
	"github.com/vvka-141/cdmload/pkg/cdm"
)

// IngestService implements cdm.Ingester.
// Not safe for concurrent Ingest calls on the same instance.
type IngestService struct {
	openStore cdm.StoreOpener
	printer   cdm.ProjectPrinter
	logger    cdm.Logger
	newID     transform.IDGenerator
}

// NewIngestService wires the ingestion workflow.
// Panics on nil dependencies: those are programmer errors caught at startup.
func NewIngestService(openStore cdm.StoreOpener, printer cdm.ProjectPrinter, logger cdm.Logger) *IngestService {
	if openStore == nil {
		panic("openStore cannot be nil")
	}
	if printer == nil {
		panic("printer cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &IngestService{
		openStore: openStore,
		printer:   printer,
		logger:    logger,
		newID:     uuid.New,
	}
}

// WithIDGenerator replaces the warehouse project id source. Used by tests.
func (s *IngestService) WithIDGenerator(newID transform.IDGenerator) *IngestService {
	s.newID = newID
	return s
}

// Ingest connects, ensures the schema, loads every CSV row and optionally
// prints the table back. The store is closed before returning.
func (s *IngestService) Ingest(ctx context.Context, config cdm.IngestConfig) (result *cdm.IngestResult, err error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	orgUID := config.OrgUID
	if orgUID == uuid.Nil {
		orgUID = uuid.New()
	}
	s.logger.Verbose("Organization id for this run: %s", orgUID)

	st, err := s.openStore(ctx, config.Store)
	if err != nil {
		s.logger.Error("%v", err)
		s.logger.Error("Cannot connect to the database!")
		return nil, err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close store: %w", closeErr))
			return
		}
		s.logger.Info("Database connection closed.")
	}()

	result = &cdm.IngestResult{OrgUID: orgUID, Engine: st.Describe()}
	s.logger.Info("Successful connection with %s", result.Engine)

	if schemaErr := st.EnsureSchema(ctx); schemaErr != nil {
		// Not fatal here: the first insert reports the failure.
		s.logger.Error("%v", schemaErr)
		result.SchemaErr = schemaErr
	} else {
		s.logger.Info("Tables created successfully.")
	}

	parser := dateparse.New(s.logger, dateparse.WithStrictYears(config.StrictDates))
	transformer := transform.New(orgUID, parser, s.newID)

	loadErr := s.load(ctx, st, transformer, config.CSVPath, result)
	result.DateFailures = transformer.DateFailures()
	if loadErr != nil {
		return result, loadErr
	}
	s.logger.Verbose("Inserted %d project(s), %d unparseable date(s)", result.Inserted, result.DateFailures)

	if config.Dump {
		projects, err := st.ListProjects(ctx)
		if err != nil {
			return result, fmt.Errorf("failed to read back projects: %w", err)
		}
		result.Projects = projects
		if err := s.printer.PrintProjects(projects); err != nil {
			return result, fmt.Errorf("failed to print projects: %w", err)
		}
	}

	return result, nil
}

func (s *IngestService) load(ctx context.Context, st cdm.Store, t *transform.Transformer, path string, result *cdm.IngestResult) error {
	src, err := csvsource.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	if missing := src.Missing(transform.RequiredColumns); len(missing) > 0 {
		return fmt.Errorf("%s lacks columns %q: %w", path, missing, cdm.ErrMissingColumn)
	}

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("ingestion interrupted after %d row(s): %w", result.Inserted, err)
		}

		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		project, err := t.Transform(rec)
		if err != nil {
			return fmt.Errorf("line %d: %w", src.Line(), err)
		}

		if err := st.InsertProject(ctx, project); err != nil {
			return fmt.Errorf("line %d: %w", src.Line(), err)
		}
		result.Inserted++
	}
}

// Dump prints every row of an existing store.
func (s *IngestService) Dump(ctx context.Context, config cdm.StoreConfig) (projects []cdm.Project, err error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	st, err := s.openStore(ctx, config)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close store: %w", closeErr))
		}
	}()
	s.logger.Verbose("Connected with %s", st.Describe())

	projects, err = st.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	if err := s.printer.PrintProjects(projects); err != nil {
		return projects, fmt.Errorf("failed to print projects: %w", err)
	}
	return projects, nil
}

var _ cdm.Ingester = (*IngestService)(nil)
