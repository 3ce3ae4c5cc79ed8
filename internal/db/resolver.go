package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/cdmload/internal/config"
	"github.com/vvka-141/cdmload/pkg/cdm"
)

// ConnFlags represents warehouse connection parameters from CLI flags.
//
// Note: Password is NOT included as a CLI flag for security reasons.
// Use $PGPASSWORD or a connection string with an embedded password.
type ConnFlags struct {
	ConnString string
	Host       string
	Port       int
	Username   string
	Database   string
	SSLMode    string

	AWSRegion      string
	GoogleInstance string
	Azure          bool
	AzureTenantID  string
	AzureClientID  string
}

// hasGranular reports whether any host-level flag was given.
// Database is excluded: it may override the database of a connection string.
func (f *ConnFlags) hasGranular() bool {
	return f.Host != "" || f.Port != 0 || f.Username != "" || f.SSLMode != ""
}

// EnvVars represents PostgreSQL standard and cloud SDK environment variables.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	CDMLOAD_CONNECTION_STRING string
	DATABASE_URL              string

	PGHOST     string
	PGPORT     string
	PGUSER     string
	PGPASSWORD string
	PGDATABASE string
	PGSSLMODE  string

	AWS_REGION string

	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string
}

// LoadFromEnvironment loads PostgreSQL and cloud provider environment variables.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		CDMLOAD_CONNECTION_STRING: os.Getenv("CDMLOAD_CONNECTION_STRING"),
		DATABASE_URL:              os.Getenv("DATABASE_URL"),
		PGHOST:                    os.Getenv("PGHOST"),
		PGPORT:                    os.Getenv("PGPORT"),
		PGUSER:                    os.Getenv("PGUSER"),
		PGPASSWORD:                os.Getenv("PGPASSWORD"),
		PGDATABASE:                os.Getenv("PGDATABASE"),
		PGSSLMODE:                 os.Getenv("PGSSLMODE"),
		AWS_REGION:                os.Getenv("AWS_REGION"),
		AZURE_TENANT_ID:           os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:           os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET:       os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

// ResolveConnection resolves warehouse connection parameters with this precedence:
//
//  1. --connection flag
//  2. $CDMLOAD_CONNECTION_STRING, then $DATABASE_URL, when no host-level flags are set
//  3. Granular flags > PG* environment variables > cdmload.yaml > defaults
//
// The database flag overrides the database of a connection string.
// The auth method comes from cloud flags, then cdmload.yaml.
func ResolveConnection(flags *ConnFlags, env *EnvVars, file *config.ConnectionConfig) (*cdm.ConnectionConfig, error) {
	if flags == nil {
		flags = &ConnFlags{}
	}
	if env == nil {
		env = &EnvVars{}
	}
	if file == nil {
		file = &config.ConnectionConfig{}
	}

	if flags.ConnString != "" && flags.hasGranular() {
		return nil, fmt.Errorf(
			"cannot specify both --connection and granular flags (--pg-host, --pg-port, --pg-user, --pg-sslmode): %w",
			cdm.ErrInvalidConfig,
		)
	}

	connString := flags.ConnString
	if connString == "" && !flags.hasGranular() {
		connString = env.CDMLOAD_CONNECTION_STRING
		if connString == "" {
			connString = env.DATABASE_URL
		}
	}

	var cfg *cdm.ConnectionConfig
	var err error
	if connString != "" {
		cfg, err = ParseConnectionString(connString)
		if err != nil {
			return nil, fmt.Errorf("invalid connection string: %w: %w", cdm.ErrInvalidConfig, err)
		}
		if cfg.Password == "" {
			cfg.Password = env.PGPASSWORD
		}
	} else {
		cfg, err = resolveGranular(flags, env, file)
		if err != nil {
			return nil, err
		}
	}

	if flags.Database != "" {
		cfg.Database = flags.Database
	}

	if err := applyAuth(cfg, flags, env, file); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveGranular(flags *ConnFlags, env *EnvVars, file *config.ConnectionConfig) (*cdm.ConnectionConfig, error) {
	cfg := newDefaultConfig()

	cfg.Host = firstNonEmpty(flags.Host, env.PGHOST, file.Host, cfg.Host)
	cfg.Username = firstNonEmpty(flags.Username, env.PGUSER, file.Username)
	cfg.Database = firstNonEmpty(flags.Database, env.PGDATABASE, file.Database)
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, env.PGSSLMODE, file.SSLMode, cfg.SSLMode)
	cfg.Password = env.PGPASSWORD

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case env.PGPORT != "":
		port, err := strconv.Atoi(env.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid PGPORT %q: %w", env.PGPORT, cdm.ErrInvalidConfig)
		}
		cfg.Port = port
	case file.Port != 0:
		cfg.Port = file.Port
	}

	return cfg, nil
}

func applyAuth(cfg *cdm.ConnectionConfig, flags *ConnFlags, env *EnvVars, file *config.ConnectionConfig) error {
	method, err := cdm.ParseAuthMethod(file.AuthMethod)
	if err != nil {
		return err
	}

	chosen := 0
	if flags.AWSRegion != "" {
		method = cdm.AuthMethodAWSIAM
		chosen++
	}
	if flags.GoogleInstance != "" {
		method = cdm.AuthMethodGoogleIAM
		chosen++
	}
	if flags.Azure || flags.AzureTenantID != "" || flags.AzureClientID != "" {
		method = cdm.AuthMethodAzureEntraID
		chosen++
	}
	if chosen > 1 {
		return fmt.Errorf("choose one of --aws-region, --google-instance or --azure: %w", cdm.ErrInvalidConfig)
	}

	cfg.AuthMethod = method
	switch method {
	case cdm.AuthMethodAWSIAM:
		cfg.AWSRegion = firstNonEmpty(flags.AWSRegion, env.AWS_REGION, file.AWSRegion)
	case cdm.AuthMethodGoogleIAM:
		cfg.GoogleInstance = firstNonEmpty(flags.GoogleInstance, file.GoogleInstance)
	case cdm.AuthMethodAzureEntraID:
		cfg.AzureTenantID = firstNonEmpty(flags.AzureTenantID, env.AZURE_TENANT_ID, file.AzureTenantID)
		cfg.AzureClientID = firstNonEmpty(flags.AzureClientID, env.AZURE_CLIENT_ID, file.AzureClientID)
		// Client secret only comes from the environment.
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
