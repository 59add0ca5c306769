package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// ProviderConfig holds the connection settings of a module run.
type ProviderConfig struct {
	Region          string
	Endpoint        string // LocalStack or custom endpoint
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Profile         string
	RoleARN         string
}

// LoadConfig builds an AWS SDK config from the provider settings. Static
// credentials win over a named profile; the default chain is used otherwise.
func (p *ProviderConfig) LoadConfig(ctx context.Context) (aws.Config, error) {
	logger := log.FromContext(ctx)

	configOptions := []func(*config.LoadOptions) error{
		config.WithRegion(p.Region),
	}

	if p.AccessKeyID != "" && p.SecretAccessKey != "" {
		configOptions = append(configOptions, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(p.AccessKeyID, p.SecretAccessKey, p.SessionToken),
		))
	} else if p.Profile != "" {
		configOptions = append(configOptions, config.WithSharedConfigProfile(p.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if p.Endpoint != "" {
		cfg.BaseEndpoint = aws.String(p.Endpoint)
	}

	if p.RoleARN != "" {
		logger.V(1).Info("Assuming role", "roleARN", p.RoleARN)
		provider := stscreds.NewAssumeRoleProvider(sts.NewFromConfig(cfg), p.RoleARN)
		cfg.Credentials = aws.NewCredentialsCache(provider)
	}

	return cfg, nil
}
