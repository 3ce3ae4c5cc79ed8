// Package testinfra provides PostgreSQL fixtures for integration tests.
package testinfra

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// DefaultPostgresImage is used unless CDMLOAD_TEST_PG_IMAGE names another tag.
const DefaultPostgresImage = "postgres:17-alpine"

// PostgresContainer is a running warehouse server and its superuser DSN.
type PostgresContainer struct {
	*postgres.PostgresContainer
	ConnString string
}

// StartPostgres runs a throwaway PostgreSQL server without TLS.
// The server is shared by a whole test binary and reaped by testcontainers.
func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	image := os.Getenv("CDMLOAD_TEST_PG_IMAGE")
	if image == "" {
		image = DefaultPostgresImage
	}

	ctr, err := postgres.Run(ctx, image,
		postgres.WithUsername("cdmload"),
		postgres.WithPassword("cdmload"),
		postgres.WithDatabase("warehouse"),
		testcontainers.WithWaitStrategy(
			// The entrypoint restarts the server once after init.
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", image, err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("container connection string: %w", err)
	}

	return &PostgresContainer{PostgresContainer: ctr, ConnString: connStr}, nil
}
