package cdm

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Ingestion completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration
	ExitConnectionError = 11 // Failed to open the store
	ExitStoreError      = 13 // Schema creation or insert failed
	ExitInputError      = 14 // CSV file missing or unreadable
	ExitMissingColumn   = 15 // CSV header lacks a required column
)

// Values written into every project row regardless of the source record.
const (
	// CurrentRegistry fills both currentRegistry and registryOfOrigin.
	CurrentRegistry = "UNFCCC CDM"

	// UnitMetric is the unit all CDM issuances are reported in.
	UnitMetric = "tCO2"

	// ProjectLinkPrefix is joined with the source project identifier to build projectLink.
	ProjectLinkPrefix = "https://cdm.unfccc.int/Projects/Validation/DB/"
)

const (
	// DefaultDatabasePath is the SQLite file written when no other target is configured.
	DefaultDatabasePath = "cdm_database.db"

	// DefaultCSVPath is the CDM activities export read when no path is given.
	DefaultCSVPath = "CDM Activities.csv"

	// DefaultTimeout bounds a whole ingestion run.
	// It protects against hung connections, not slow inserts.
	DefaultTimeout = 10 * time.Minute

	// DefaultPostgresPort is used when a warehouse connection names no port.
	DefaultPostgresPort = 5432

	// TableName is the only table this tool writes.
	TableName = "projects"
)
