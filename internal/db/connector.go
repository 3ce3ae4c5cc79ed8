package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/cdmload/pkg/cdm"
)

// Pool settings for a single-writer batch load.
const (
	DefaultMaxConns        = 2
	DefaultMinConns        = 1
	DefaultMaxConnIdleTime = 10 * time.Minute
)

// Connector opens a PostgreSQL connection pool.
// Connectors holding extra resources also implement io.Closer.
type Connector interface {
	Connect(ctx context.Context) (*pgxpool.Pool, error)
}

func configurePool(poolConfig *pgxpool.Config) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
}

// StandardConnector authenticates with username and password.
// A failed attempt is reported as is; the loader never retries.
type StandardConnector struct {
	config *cdm.ConnectionConfig
}

func NewStandardConnector(config *cdm.ConnectionConfig) *StandardConnector {
	return &StandardConnector{config: config}
}

// Connect establishes a connection pool and pings the server once.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	return openPool(ctx, c.config)
}

// poolOption adjusts a parsed pool config before the pool is created.
type poolOption func(*pgxpool.Config)

func openPool(ctx context.Context, config *cdm.ConnectionConfig, opts ...poolOption) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(BuildConnectionString(config))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	configurePool(poolConfig)
	for _, opt := range opts {
		opt(poolConfig)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, wrapConnectionError(err, config.Host, config.Port, config.Database)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, wrapConnectionError(err, config.Host, config.Port, config.Database)
	}

	return pool, nil
}

// NewConnector picks the Connector matching config.AuthMethod.
func NewConnector(config *cdm.ConnectionConfig) (Connector, error) {
	switch config.AuthMethod {
	case cdm.AuthMethodStandard:
		return NewStandardConnector(config), nil
	case cdm.AuthMethodAWSIAM:
		return newAWSConnector(config)
	case cdm.AuthMethodGoogleIAM:
		return newGoogleConnector(config)
	case cdm.AuthMethodAzureEntraID:
		return newAzureConnector(config)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, cdm.ErrUnsupportedAuthMethod)
	}
}

// wrapConnectionError adds a hint to the most common pgx connection failures.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`connection refused to %s

Possible causes:
  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong host or port

Original error: %w`, addr, host, port, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return fmt.Errorf(`cannot resolve host "%s"

Original error: %w`, host, err)

	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf(`password authentication failed for database "%s"

Possible causes:
  - Wrong password (check $PGPASSWORD or the connection string)
  - Wrong username

Original error: %w`, database, err)

	case strings.Contains(errStr, "does not exist"):
		return fmt.Errorf(`database "%s" does not exist

To create it:
  createdb %s

Original error: %w`, database, database, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`connection timed out to %s

Original error: %w`, addr, err)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		return fmt.Errorf(`SSL/TLS connection error (check sslmode)

Original error: %w`, err)

	default:
		return fmt.Errorf("failed to connect to database: %w", err)
	}
}

func newAWSConnector(config *cdm.ConnectionConfig) (Connector, error) {
	tokenProvider, err := NewAWSIAMTokenProvider(config)
	if err != nil {
		return nil, err
	}
	return NewTokenBasedConnector(config, tokenProvider, "AWS IAM"), nil
}

func newGoogleConnector(config *cdm.ConnectionConfig) (Connector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires --google-instance (project:region:instance): %w", cdm.ErrInvalidConfig)
	}
	if config.Username == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires a username: %w", cdm.ErrInvalidConfig)
	}

	return NewGoogleCloudSQLConnector(config), nil
}

// newAzureConnector uses Service Principal credentials when all three are set,
// otherwise the DefaultAzureCredential chain.
func newAzureConnector(config *cdm.ConnectionConfig) (Connector, error) {
	var tokenProvider TokenProvider
	var err error

	if config.AzureTenantID != "" && config.AzureClientID != "" && config.AzureClientSecret != "" {
		tokenProvider, err = NewAzureServicePrincipalProvider(
			config.AzureTenantID,
			config.AzureClientID,
			config.AzureClientSecret,
		)
	} else {
		tokenProvider, err = NewAzureDefaultCredentialProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure token provider: %w", err)
	}

	return NewTokenBasedConnector(config, tokenProvider, "Azure"), nil
}
