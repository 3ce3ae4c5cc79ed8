package db

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/rds/auth"
	"github.com/vvka-141/cdmload/pkg/cdm"
)

// rdsTokenLifetime is how long an RDS IAM token stays valid.
const rdsTokenLifetime = 15 * time.Minute

// AWSIAMTokenProvider signs RDS IAM tokens with the default AWS credential chain.
// The chain is resolved on the first GetToken call and reused afterwards.
type AWSIAMTokenProvider struct {
	endpoint string // host:port
	region   string
	username string

	credentials aws.CredentialsProvider
}

// NewAWSIAMTokenProvider validates the RDS target of conn.
func NewAWSIAMTokenProvider(conn *cdm.ConnectionConfig) (*AWSIAMTokenProvider, error) {
	switch {
	case conn.Host == "":
		return nil, fmt.Errorf("AWS IAM auth requires the RDS endpoint host: %w", cdm.ErrInvalidConfig)
	case conn.AWSRegion == "":
		return nil, fmt.Errorf("AWS IAM auth requires a region (use --aws-region or $AWS_REGION): %w", cdm.ErrInvalidConfig)
	case conn.Username == "":
		return nil, fmt.Errorf("AWS IAM auth requires the database username: %w", cdm.ErrInvalidConfig)
	}

	port := conn.Port
	if port == 0 {
		port = cdm.DefaultPostgresPort
	}
	return &AWSIAMTokenProvider{
		endpoint: fmt.Sprintf("%s:%d", conn.Host, port),
		region:   conn.AWSRegion,
		username: conn.Username,
	}, nil
}

func (p *AWSIAMTokenProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	if p.credentials == nil {
		cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(p.region))
		if err != nil {
			return "", time.Time{}, fmt.Errorf("failed to load AWS config: %w", err)
		}
		p.credentials = cfg.Credentials
	}

	token, err := auth.BuildAuthToken(ctx, p.endpoint, p.region, p.username, p.credentials)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign RDS auth token for %s: %w", p.endpoint, err)
	}
	return token, time.Now().Add(rdsTokenLifetime), nil
}

func (p *AWSIAMTokenProvider) String() string {
	return fmt.Sprintf("rds-iam(%s@%s, %s)", p.username, p.endpoint, p.region)
}
