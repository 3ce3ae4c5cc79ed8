package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vvka-141/cdmload/internal/transform"
	"github.com/vvka-141/cdmload/pkg/cdm"
)

type mockStore struct {
	schemaErr error
	insertErr error
	listErr   error
	closeErr  error

	projects []cdm.Project
	closed   bool
	calls    []string
}

func (m *mockStore) Describe() string { return "Mock version 1" }

func (m *mockStore) EnsureSchema(context.Context) error {
	m.calls = append(m.calls, "schema")
	return m.schemaErr
}

func (m *mockStore) InsertProject(_ context.Context, p cdm.Project) error {
	m.calls = append(m.calls, "insert")
	if m.insertErr != nil {
		return m.insertErr
	}
	m.projects = append(m.projects, p)
	return nil
}

func (m *mockStore) ListProjects(context.Context) ([]cdm.Project, error) {
	m.calls = append(m.calls, "list")
	return m.projects, m.listErr
}

func (m *mockStore) Close() error {
	m.calls = append(m.calls, "close")
	m.closed = true
	return m.closeErr
}

func openerFor(st cdm.Store, err error) cdm.StoreOpener {
	return func(context.Context, cdm.StoreConfig) (cdm.Store, error) {
		if err != nil {
			return nil, err
		}
		return st, nil
	}
}

type mockPrinter struct {
	printed [][]cdm.Project
	err     error
}

func (m *mockPrinter) PrintProjects(projects []cdm.Project) error {
	m.printed = append(m.printed, projects)
	return m.err
}

type recordingLogger struct {
	info   []string
	errors []string
}

func (l *recordingLogger) Verbose(format string, args ...interface{}) {}

func (l *recordingLogger) Info(format string, args ...interface{}) {
	l.info = append(l.info, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Error(format string, args ...interface{}) {
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) joined() string {
	return strings.Join(append(append([]string{}, l.info...), l.errors...), "\n")
}

// row returns a CSV record with every required column filled.
func row(projectID, validationStart, registration string) map[string]string {
	return map[string]string{
		transform.ColumnProjectID:        projectID,
		transform.ColumnTitle:            "Project " + projectID,
		transform.ColumnDOE:              "DNV",
		transform.ColumnSector:           "1",
		transform.ColumnType:             "PA",
		transform.ColumnClassification:   "Wind",
		transform.ColumnStatus:           "Registered",
		transform.ColumnMethodologies:    "ACM0002",
		transform.ColumnValidationStart:  validationStart,
		transform.ColumnRegistrationDate: registration,
	}
}

func writeCSV(t *testing.T, header []string, rows ...map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), cdm.DefaultCSVPath)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create csv: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for _, r := range rows {
		fields := make([]string, len(header))
		for i, h := range header {
			fields[i] = r[h]
		}
		if err := w.Write(fields); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush csv: %v", err)
	}
	return path
}
