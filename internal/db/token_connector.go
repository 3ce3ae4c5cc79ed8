package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/cdmload/pkg/cdm"
)

// TokenBasedConnector authenticates with a cloud token (AWS IAM, Azure Entra ID)
// passed as the password.
type TokenBasedConnector struct {
	config        *cdm.ConnectionConfig
	tokenProvider TokenProvider
	providerName  string

	// Warn receives a message when the token is close to expiry. Nil discards it.
	Warn func(format string, args ...any)
}

func NewTokenBasedConnector(config *cdm.ConnectionConfig, tokenProvider TokenProvider, providerName string) *TokenBasedConnector {
	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		providerName:  providerName,
	}
}

func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	token, expiresOn, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire %s token: %w", c.providerName, err)
	}

	if remaining := time.Until(expiresOn); remaining < 5*time.Minute && c.Warn != nil {
		c.Warn("%s token expires in %v", c.providerName, remaining.Round(time.Second))
	}

	configWithToken := *c.config
	configWithToken.Password = token

	return openPool(ctx, &configWithToken)
}
