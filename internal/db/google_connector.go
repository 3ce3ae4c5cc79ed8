package db

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/cdmload/pkg/cdm"
)

// GoogleCloudSQLConnector dials a Cloud SQL instance through cloudsqlconn
// with IAM database authentication. The dialer encrypts the link itself,
// so the PostgreSQL session runs with sslmode=disable.
type GoogleCloudSQLConnector struct {
	config *cdm.ConnectionConfig
	dialer *cloudsqlconn.Dialer
}

// NewGoogleCloudSQLConnector expects config.GoogleInstance as project:region:instance.
func NewGoogleCloudSQLConnector(config *cdm.ConnectionConfig) *GoogleCloudSQLConnector {
	return &GoogleCloudSQLConnector{config: config}
}

func (c *GoogleCloudSQLConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloud SQL dialer for %s: %w", c.config.GoogleInstance, err)
	}

	// The instance name is not a valid URI host; the dialer ignores the address anyway.
	target := *c.config
	target.Host = "localhost"
	target.Password = ""
	target.SSLMode = "disable"

	pool, err := openPool(ctx, &target, func(pc *pgxpool.Config) {
		pc.ConnConfig.LookupFunc = func(_ context.Context, host string) ([]string, error) {
			return []string{host}, nil
		}
		pc.ConnConfig.DialFunc = func(ctx context.Context, _, _ string) (net.Conn, error) {
			return dialer.Dial(ctx, c.config.GoogleInstance)
		}
	})
	if err != nil {
		_ = dialer.Close()
		return nil, err
	}

	c.dialer = dialer
	return pool, nil
}

// Close releases the dialer. Call it after the pool is closed.
func (c *GoogleCloudSQLConnector) Close() error {
	if c.dialer == nil {
		return nil
	}
	err := c.dialer.Close()
	c.dialer = nil
	return err
}
