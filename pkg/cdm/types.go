package cdm

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the ISO form dates are stored in.
const DateLayout = "2006-01-02"

// Date is a nullable calendar date with no time-of-day or zone.
type Date struct {
	Time  time.Time
	Valid bool
}

// NewDate returns a valid Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Valid: true}
}

// DateOf strips the clock and zone from t.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// String returns the ISO date, or "" when the date is null.
func (d Date) String() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(DateLayout)
}

// Value implements driver.Valuer. Dates are stored as ISO text.
func (d Date) Value() (driver.Value, error) {
	if !d.Valid {
		return nil, nil
	}
	return d.Time.Format(DateLayout), nil
}

// Scan implements sql.Scanner.
// It accepts time values and ISO text, with or without a trailing clock.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) scanText(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*d = Date{}
		return nil
	}
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("cannot scan %q into Date: %w", s, err)
	}
	*d = DateOf(t)
	return nil
}

// ProjectColumns lists the projects table columns in insert order.
// Project.Values returns its fields in exactly this order.
var ProjectColumns = []string{
	"warehouseProjectId",
	"orgUid",
	"currentRegistry",
	"projectId",
	"originProjectId",
	"registryOfOrigin",
	"program",
	"projectName",
	"projectLink",
	"projectDeveloper",
	"sector",
	"projectType",
	"projectTags",
	"coveredByNDC",
	"ndcInformation",
	"projectStatus",
	"projectStatusDate",
	"unitMetric",
	"methodology",
	"methodology2",
	"validationBody",
	"validationDate",
	"timeStaged",
	"description",
	"createdAt",
	"updatedAt",
}

// Project is one CDM project activity as stored in the warehouse.
// Pointer fields are data the CDM export does not carry and stay nil.
type Project struct {
	WarehouseProjectID uuid.UUID
	OrgUID             uuid.UUID
	CurrentRegistry    string
	ProjectID          string
	OriginProjectID    *string
	RegistryOfOrigin   string
	Program            *string
	ProjectName        string
	ProjectLink        string
	ProjectDeveloper   string
	Sector             string
	ProjectType        string
	ProjectTags        string
	CoveredByNDC       *string
	NDCInformation     *string
	ProjectStatus      string
	ProjectStatusDate  Date
	UnitMetric         string
	Methodology        string
	Methodology2       *string
	ValidationBody     string
	ValidationDate     Date
	TimeStaged         *string
	Description        *string
	CreatedAt          Date
	UpdatedAt          Date
}

// Values returns the row tuple in ProjectColumns order.
// Null fields are nil; valid dates are Date values.
func (p *Project) Values() []any {
	return []any{
		p.WarehouseProjectID.String(),
		p.OrgUID.String(),
		p.CurrentRegistry,
		p.ProjectID,
		optional(p.OriginProjectID),
		p.RegistryOfOrigin,
		optional(p.Program),
		p.ProjectName,
		p.ProjectLink,
		p.ProjectDeveloper,
		p.Sector,
		p.ProjectType,
		p.ProjectTags,
		optional(p.CoveredByNDC),
		optional(p.NDCInformation),
		p.ProjectStatus,
		dateValue(p.ProjectStatusDate),
		p.UnitMetric,
		p.Methodology,
		optional(p.Methodology2),
		p.ValidationBody,
		dateValue(p.ValidationDate),
		optional(p.TimeStaged),
		optional(p.Description),
		dateValue(p.CreatedAt),
		dateValue(p.UpdatedAt),
	}
}

// ScanTargets returns pointers to every field in ProjectColumns order,
// suitable for rows.Scan.
func (p *Project) ScanTargets() []any {
	return []any{
		&p.WarehouseProjectID,
		&p.OrgUID,
		&p.CurrentRegistry,
		&p.ProjectID,
		&p.OriginProjectID,
		&p.RegistryOfOrigin,
		&p.Program,
		&p.ProjectName,
		&p.ProjectLink,
		&p.ProjectDeveloper,
		&p.Sector,
		&p.ProjectType,
		&p.ProjectTags,
		&p.CoveredByNDC,
		&p.NDCInformation,
		&p.ProjectStatus,
		&p.ProjectStatusDate,
		&p.UnitMetric,
		&p.Methodology,
		&p.Methodology2,
		&p.ValidationBody,
		&p.ValidationDate,
		&p.TimeStaged,
		&p.Description,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
}

func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func dateValue(d Date) any {
	if !d.Valid {
		return nil
	}
	return d
}

// Backend names a storage engine.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// ParseBackend maps a user-supplied name to a Backend.
// The empty string selects SQLite.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sqlite", "sqlite3":
		return BackendSQLite, nil
	case "postgres", "postgresql", "pg":
		return BackendPostgres, nil
	default:
		return "", fmt.Errorf("unknown backend %q (want sqlite or postgres): %w", s, ErrInvalidConfig)
	}
}

// AuthMethod represents the type of authentication used for a PostgreSQL warehouse.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// ParseAuthMethod maps a config file value such as "aws" to an AuthMethod.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "password":
		return AuthMethodStandard, nil
	case "aws", "aws-iam", "awsiam":
		return AuthMethodAWSIAM, nil
	case "google", "google-iam", "gcp":
		return AuthMethodGoogleIAM, nil
	case "azure", "entra", "azure-entra-id":
		return AuthMethodAzureEntraID, nil
	default:
		return AuthMethodStandard, fmt.Errorf("auth method %q: %w", s, ErrUnsupportedAuthMethod)
	}
}

// ConnectionConfig represents parsed PostgreSQL warehouse connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	AuthMethod AuthMethod

	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	AWSRegion      string
	GoogleInstance string

	// If all three Azure fields are set, Service Principal authentication is used.
	// Otherwise DefaultAzureCredential is used.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// StoreConfig selects and addresses the storage backend.
type StoreConfig struct {
	Backend Backend

	// Path is the SQLite database file.
	Path string

	// Connection is required for BackendPostgres.
	Connection *ConnectionConfig
}

// Validate checks the selected backend has what it needs.
func (c *StoreConfig) Validate() error {
	switch c.Backend {
	case BackendSQLite:
		if c.Path == "" {
			return fmt.Errorf("sqlite database path is required: %w", ErrInvalidConfig)
		}
	case BackendPostgres:
		if c.Connection == nil {
			return fmt.Errorf("postgres backend requires a connection: %w", ErrInvalidConfig)
		}
		if c.Connection.Database == "" {
			return fmt.Errorf("postgres database name is required: %w", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("unknown backend %q: %w", c.Backend, ErrInvalidConfig)
	}
	return nil
}

// IngestConfig contains all parameters needed for one ingestion run.
type IngestConfig struct {
	// CSVPath is the CDM activities export to read.
	CSVPath string

	// Store addresses the warehouse.
	Store StoreConfig

	// OrgUID is the organization identifier stamped on every row of the run.
	// uuid.Nil asks the ingester to mint a fresh one.
	OrgUID uuid.UUID

	// StrictDates rejects four-digit years, as the legacy loader did.
	StrictDates bool

	// Dump reads every row back after loading.
	Dump bool

	// Timeout is the global timeout for the entire run.
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the IngestConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *IngestConfig) Validate() error {
	var errs []error

	if c.CSVPath == "" {
		errs = append(errs, fmt.Errorf("CSVPath is required: %w", ErrInvalidConfig))
	}

	if err := c.Store.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// IngestResult summarizes a run.
type IngestResult struct {
	OrgUID uuid.UUID

	// Engine is the store's Describe() output.
	Engine string

	// Inserted counts committed rows.
	Inserted int

	// SchemaErr is set when the table could not be created; the run continued.
	SchemaErr error

	// DateFailures counts date fields that were present but unparseable.
	DateFailures int

	// Projects holds the table contents read back after loading, when requested.
	Projects []Project
}
