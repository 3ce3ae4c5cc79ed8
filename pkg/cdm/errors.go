package cdm

import (
	"errors"
	"strings"
)

// Sentinel errors for the failure classes of an ingestion run.
// Callers distinguish them with errors.Is().
//
// Example usage:
//
//	_, err := ingester.Ingest(ctx, config)
//	if errors.Is(err, cdm.ErrMissingColumn) {
//	    // the CSV export has an unexpected header
//	}
var (
	// ErrUsage indicates wrong command-line arguments.
	ErrUsage = errors.New("usage error")

	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates the store could not be opened.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrSchemaFailed indicates the projects table could not be created.
	ErrSchemaFailed = errors.New("schema creation failed")

	// ErrInputFailed indicates the CSV file could not be opened or read.
	ErrInputFailed = errors.New("input unreadable")

	// ErrMissingColumn indicates a CSV record lacks a required column.
	ErrMissingColumn = errors.New("missing column")

	// ErrInsertFailed indicates a project row could not be written.
	ErrInsertFailed = errors.New("insert failed")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrUsage):
		return ExitUsageError
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrMissingColumn):
		return ExitMissingColumn
	case errors.Is(err, ErrInputFailed):
		return ExitInputError
	case errors.Is(err, ErrSchemaFailed), errors.Is(err, ErrInsertFailed):
		return ExitStoreError
	}

	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
