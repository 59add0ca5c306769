package cli

import (
	"os"

	awsprovider "apigw-modules/pkg/aws"
	"apigw-modules/pkg/module"
)

const defaultRegion = "us-east-1"

// NewProviderConfigFromEnv builds the provider config from the standard AWS
// environment variables.
func NewProviderConfigFromEnv() *awsprovider.ProviderConfig {
	return &awsprovider.ProviderConfig{
		Region:          getEnvOrDefault("AWS_REGION", getEnvOrDefault("AWS_DEFAULT_REGION", defaultRegion)),
		Endpoint:        os.Getenv("AWS_ENDPOINT_URL"),
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Profile:         os.Getenv("AWS_PROFILE"),
	}
}

// NewProviderConfig merges the connection params of a module over the
// environment.
func NewProviderConfig(params module.ConnectionParams) *awsprovider.ProviderConfig {
	cfg := NewProviderConfigFromEnv()

	if params.Region != "" {
		cfg.Region = params.Region
	}
	if params.EndpointURL != "" {
		cfg.Endpoint = params.EndpointURL
	}
	switch {
	case params.AccessKey != "":
		cfg.AccessKeyID = params.AccessKey
		cfg.SecretAccessKey = params.SecretKey
		cfg.SessionToken = params.SecurityToken
	case params.Profile != "":
		// An explicit profile wins over static credentials from the environment.
		cfg.AccessKeyID = ""
		cfg.SecretAccessKey = ""
		cfg.SessionToken = ""
	}
	if params.Profile != "" {
		cfg.Profile = params.Profile
	}
	cfg.RoleARN = params.AssumeRoleARN

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
