package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vvka-141/cdmload/internal/config"
	"github.com/vvka-141/cdmload/internal/db"
	"github.com/vvka-141/cdmload/pkg/cdm"
)

// storeFlags holds the flags shared by every command that opens the store.
type storeFlags struct {
	configPath string
	database   string
	backend    string

	connection string
	pgHost     string
	pgPort     int
	pgUser     string
	pgDatabase string
	pgSSLMode  string

	awsRegion      string
	googleInstance string
	azure          bool
	azureTenantID  string
	azureClientID  string
}

func addStoreFlags(cmd *cobra.Command, f *storeFlags) {
	cmd.Flags().StringVar(&f.configPath, "config", "",
		"Path to cdmload.yaml (default: ./cdmload.yaml when present)")
	cmd.Flags().StringVarP(&f.database, "database", "d", "",
		"SQLite database file\n"+
			"Precedence: --database > $CDMLOAD_DATABASE > cdmload.yaml > "+cdm.DefaultDatabasePath)
	cmd.Flags().StringVar(&f.backend, "backend", "",
		"Storage backend: sqlite|postgres\n"+
			"Precedence: --backend > $CDMLOAD_BACKEND > cdmload.yaml > sqlite (postgres when --connection is set)")

	cmd.Flags().StringVar(&f.connection, "connection", "",
		"PostgreSQL connection string (URI or keyword/value format).\n"+
			"Mutually exclusive with --pg-host, --pg-port, --pg-user and --pg-sslmode.\n"+
			"Alternative: $CDMLOAD_CONNECTION_STRING or $DATABASE_URL.\n"+
			"Example: postgresql://ingest@localhost:5432/warehouse")
	cmd.Flags().StringVar(&f.pgHost, "pg-host", "", "PostgreSQL server host (default: $PGHOST or localhost)")
	cmd.Flags().IntVar(&f.pgPort, "pg-port", 0, "PostgreSQL server port (default: $PGPORT or 5432)")
	cmd.Flags().StringVar(&f.pgUser, "pg-user", "", "PostgreSQL user (default: $PGUSER)")
	cmd.Flags().StringVar(&f.pgDatabase, "pg-database", "",
		"PostgreSQL database (overrides the connection string, default: $PGDATABASE)")
	cmd.Flags().StringVar(&f.pgSSLMode, "pg-sslmode", "",
		"SSL mode: disable|allow|prefer|require|verify-ca|verify-full (default: prefer, or $PGSSLMODE)")

	cmd.Flags().StringVar(&f.awsRegion, "aws-region", "",
		"Enable AWS RDS IAM authentication in this region (overrides $AWS_REGION)")
	cmd.Flags().StringVar(&f.googleInstance, "google-instance", "",
		"Enable Google Cloud SQL IAM authentication for project:region:instance")
	cmd.Flags().BoolVar(&f.azure, "azure", false,
		"Enable Azure Entra ID authentication\n"+
			"Uses DefaultAzureCredential chain (Managed Identity, Azure CLI, etc.)")
	cmd.Flags().StringVar(&f.azureTenantID, "azure-tenant-id", "",
		"Azure AD tenant/directory ID (overrides $AZURE_TENANT_ID)")
	cmd.Flags().StringVar(&f.azureClientID, "azure-client-id", "",
		"Azure AD application/client ID (overrides $AZURE_CLIENT_ID)")

	_ = cmd.RegisterFlagCompletionFunc("backend", completeFrom(backends))
	_ = cmd.RegisterFlagCompletionFunc("pg-sslmode", completeFrom(sslModes))
}

// loadFileConfig reads --config, or ./cdmload.yaml if it exists.
// An explicit --config that does not exist is an error.
func loadFileConfig(path string) (*config.FileConfig, error) {
	var (
		cfg *config.FileConfig
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(".")
		if errors.Is(err, config.ErrConfigNotFound) {
			return &config.FileConfig{}, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w: %w", config.ConfigFileName, cdm.ErrInvalidConfig, err)
	}
	return cfg, nil
}

// resolveStoreConfig applies flag > environment > cdmload.yaml > default.
func resolveStoreConfig(f *storeFlags, file *config.FileConfig, verbose bool) (cdm.StoreConfig, error) {
	backendName := firstNonEmpty(f.backend, os.Getenv("CDMLOAD_BACKEND"), file.Backend)
	if backendName == "" && f.connection != "" {
		backendName = string(cdm.BackendPostgres)
	}
	backend, err := cdm.ParseBackend(backendName)
	if err != nil {
		return cdm.StoreConfig{}, err
	}

	storeCfg := cdm.StoreConfig{Backend: backend}

	switch backend {
	case cdm.BackendSQLite:
		storeCfg.Path = firstNonEmpty(f.database, os.Getenv("CDMLOAD_DATABASE"), file.Database, cdm.DefaultDatabasePath)
		if verbose {
			fmt.Fprintf(os.Stderr, "[VERBOSE] Store: sqlite %s\n", storeCfg.Path)
		}

	case cdm.BackendPostgres:
		connFlags := &db.ConnFlags{
			ConnString:     f.connection,
			Host:           f.pgHost,
			Port:           f.pgPort,
			Username:       f.pgUser,
			Database:       f.pgDatabase,
			SSLMode:        f.pgSSLMode,
			AWSRegion:      f.awsRegion,
			GoogleInstance: f.googleInstance,
			Azure:          f.azure,
			AzureTenantID:  f.azureTenantID,
			AzureClientID:  f.azureClientID,
		}
		conn, err := db.ResolveConnection(connFlags, db.LoadFromEnvironment(), &file.Connection)
		if err != nil {
			return cdm.StoreConfig{}, err
		}
		storeCfg.Connection = conn

		if verbose {
			fmt.Fprintf(os.Stderr, "[VERBOSE] Connection resolved: %s\n", db.Redacted(conn))
			fmt.Fprintf(os.Stderr, "  Host: %s\n", conn.Host)
			fmt.Fprintf(os.Stderr, "  Port: %d\n", conn.Port)
			fmt.Fprintf(os.Stderr, "  User: %s\n", conn.Username)
			fmt.Fprintf(os.Stderr, "  Database: %s\n", conn.Database)
			fmt.Fprintf(os.Stderr, "  SSL Mode: %s\n", conn.SSLMode)
			fmt.Fprintf(os.Stderr, "  Auth Method: %s\n", conn.AuthMethod)
		}
	}

	return storeCfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
