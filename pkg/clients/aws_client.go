package clients

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"

	awsapigw "apigw-modules/internal/adapters/aws/apigateway"
	awsnlb "apigw-modules/internal/adapters/aws/nlb"
	"apigw-modules/internal/ports"
	apigwuc "apigw-modules/internal/usecases/apigateway"
	awsprovider "apigw-modules/pkg/aws"
	"apigw-modules/pkg/retry"
)

// AWSClientFactory creates use cases backed by AWS SDK clients
type AWSClientFactory struct {
	policy retry.Policy
}

// NewAWSClientFactory creates a new factory. Every repository it builds
// retries with policy.
func NewAWSClientFactory(policy retry.Policy) *AWSClientFactory {
	return &AWSClientFactory{
		policy: policy,
	}
}

// GetAWSConfig creates AWS config from the provider settings
func (f *AWSClientFactory) GetAWSConfig(ctx context.Context, provider *awsprovider.ProviderConfig) (aws.Config, error) {
	awsConfig, err := provider.LoadConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to get AWS config: %w", err)
	}
	return awsConfig, nil
}

// GetVpcLinkUseCase creates the VPC link use case. Target validation uses
// the ELBv2 client of the same account and region.
func (f *AWSClientFactory) GetVpcLinkUseCase(ctx context.Context, provider *awsprovider.ProviderConfig) (ports.VpcLinkUseCase, error) {
	awsConfig, err := f.GetAWSConfig(ctx, provider)
	if err != nil {
		return nil, err
	}

	vpcLinkRepo := awsapigw.NewRepository(awsConfig, f.policy)
	nlbRepo := awsnlb.NewRepository(awsConfig, f.policy)

	return apigwuc.NewVpcLinkUseCase(vpcLinkRepo, apigwuc.WithTargetRepository(nlbRepo)), nil
}

// GetMethodUseCase creates the method facts use case
func (f *AWSClientFactory) GetMethodUseCase(ctx context.Context, provider *awsprovider.ProviderConfig) (ports.MethodUseCase, error) {
	awsConfig, err := f.GetAWSConfig(ctx, provider)
	if err != nil {
		return nil, err
	}

	return apigwuc.NewMethodUseCase(awsapigw.NewRepository(awsConfig, f.policy)), nil
}
