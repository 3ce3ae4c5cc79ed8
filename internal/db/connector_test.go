package db

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/cdmload/pkg/cdm"
)

type mockTokenProvider struct {
	token     string
	expiresOn time.Time
	err       error
	calls     int
}

func (m *mockTokenProvider) GetToken(context.Context) (string, time.Time, error) {
	m.calls++
	if m.err != nil {
		return "", time.Time{}, m.err
	}
	return m.token, m.expiresOn, nil
}

func (m *mockTokenProvider) String() string { return "mockTokenProvider" }

func TestNewConnector(t *testing.T) {
	t.Run("standard", func(t *testing.T) {
		c, err := NewConnector(&cdm.ConnectionConfig{AuthMethod: cdm.AuthMethodStandard})
		require.NoError(t, err)
		assert.IsType(t, &StandardConnector{}, c)
	})

	t.Run("aws requires region", func(t *testing.T) {
		_, err := NewConnector(&cdm.ConnectionConfig{Host: "h", Port: 5432, Username: "u", AuthMethod: cdm.AuthMethodAWSIAM})
		require.Error(t, err)
		assert.ErrorIs(t, err, cdm.ErrInvalidConfig)
	})

	t.Run("aws", func(t *testing.T) {
		c, err := NewConnector(&cdm.ConnectionConfig{Host: "h", Port: 5432, Username: "u", AWSRegion: "eu-west-1", AuthMethod: cdm.AuthMethodAWSIAM})
		require.NoError(t, err)
		assert.IsType(t, &TokenBasedConnector{}, c)
	})

	t.Run("aws token provider defaults port", func(t *testing.T) {
		p, err := NewAWSIAMTokenProvider(&cdm.ConnectionConfig{Host: "db.rds.local", Username: "ingest", AWSRegion: "us-east-1"})
		require.NoError(t, err)
		assert.Equal(t, "rds-iam(ingest@db.rds.local:5432, us-east-1)", p.String())
	})

	t.Run("google requires instance", func(t *testing.T) {
		_, err := NewConnector(&cdm.ConnectionConfig{Username: "u", AuthMethod: cdm.AuthMethodGoogleIAM})
		assert.ErrorIs(t, err, cdm.ErrInvalidConfig)
	})

	t.Run("google", func(t *testing.T) {
		c, err := NewConnector(&cdm.ConnectionConfig{Username: "u", GoogleInstance: "p:r:i", AuthMethod: cdm.AuthMethodGoogleIAM})
		require.NoError(t, err)
		assert.IsType(t, &GoogleCloudSQLConnector{}, c)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := NewConnector(&cdm.ConnectionConfig{AuthMethod: cdm.AuthMethod(99)})
		assert.ErrorIs(t, err, cdm.ErrUnsupportedAuthMethod)
	})
}

func TestTokenBasedConnector_TokenError(t *testing.T) {
	provider := &mockTokenProvider{err: errors.New("no credentials")}
	c := NewTokenBasedConnector(&cdm.ConnectionConfig{Host: "h", Port: 5432}, provider, "Mock")

	_, err := c.Connect(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to acquire Mock token")
	assert.Equal(t, 1, provider.calls, "no retry on failure")
}

func TestTokenBasedConnector_WarnsOnShortExpiry(t *testing.T) {
	provider := &mockTokenProvider{token: "tok", expiresOn: time.Now().Add(time.Minute)}
	c := NewTokenBasedConnector(&cdm.ConnectionConfig{Host: "127.0.0.1", Port: 1, ConnectTimeout: time.Second}, provider, "Mock")

	var warned string
	c.Warn = func(format string, args ...any) { warned = fmt.Sprintf(format, args...) }

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := c.Connect(ctx)

	assert.Error(t, err, "nothing listens on port 1")
	assert.Contains(t, warned, "Mock token expires in")
}

func TestWrapConnectionError(t *testing.T) {
	tests := []struct {
		name         string
		errMsg       string
		wantContains string
	}{
		{"connection refused", "dial tcp 127.0.0.1:5432: connection refused", "connection refused to db:5432"},
		{"no such host", "lookup db: no such host", `cannot resolve host "db"`},
		{"password", `password authentication failed for user "u"`, `password authentication failed for database "warehouse"`},
		{"missing database", `database "warehouse" does not exist`, "createdb warehouse"},
		{"timeout", "i/o timeout", "connection timed out to db:5432"},
		{"tls", "tls: handshake failure", "SSL/TLS connection error"},
		{"other", "boom", "failed to connect to database"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := errors.New(tt.errMsg)
			err := wrapConnectionError(orig, "db", 5432, "warehouse")
			assert.Contains(t, err.Error(), tt.wantContains)
			assert.ErrorIs(t, err, orig)
		})
	}
}
