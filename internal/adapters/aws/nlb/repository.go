package nlb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awselbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"

	"apigw-modules/internal/domain/nlb"
	"apigw-modules/pkg/metrics"
	"apigw-modules/pkg/retry"
)

// Client is the subset of the ELBv2 client used by Repository.
type Client interface {
	DescribeLoadBalancers(ctx context.Context, params *awselbv2.DescribeLoadBalancersInput, optFns ...func(*awselbv2.Options)) (*awselbv2.DescribeLoadBalancersOutput, error)
}

// Repository handles load balancer lookups using AWS SDK
type Repository struct {
	client Client
	retry  retry.Policy
}

// NewRepository creates a new NLB repository
func NewRepository(cfg aws.Config, policy retry.Policy) *Repository {
	client := awselbv2.NewFromConfig(cfg, func(o *awselbv2.Options) {
		o.Retryer = aws.NopRetryer{}
	})
	return NewRepositoryWithClient(client, policy)
}

// NewRepositoryWithClient creates a repository on top of an existing client.
func NewRepositoryWithClient(client Client, policy retry.Policy) *Repository {
	return &Repository{client: client, retry: policy}
}

// Describe retrieves the load balancers behind arns
func (r *Repository) Describe(ctx context.Context, arns []string) ([]*nlb.LoadBalancer, error) {
	input := &awselbv2.DescribeLoadBalancersInput{
		LoadBalancerArns: arns,
	}

	var output *awselbv2.DescribeLoadBalancersOutput
	err := r.retry.Do(ctx, "DescribeLoadBalancers", func(ctx context.Context) error {
		recorder := metrics.NewAWSAPIMetricsRecorder(metrics.ServiceELBv2, "DescribeLoadBalancers")
		var err error
		output, err = r.client.DescribeLoadBalancers(ctx, input)
		if err != nil {
			recorder.RecordError(err)
			return err
		}
		recorder.RecordSuccess()
		return nil
	})
	if err != nil {
		var notFound *types.LoadBalancerNotFoundException
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %s", nlb.ErrLoadBalancerNotFound, aws.ToString(notFound.Message))
		}
		return nil, fmt.Errorf("failed to describe load balancers: %w", err)
	}

	lbs := make([]*nlb.LoadBalancer, 0, len(output.LoadBalancers))
	for _, lbData := range output.LoadBalancers {
		lb := &nlb.LoadBalancer{
			LoadBalancerName: aws.ToString(lbData.LoadBalancerName),
			LoadBalancerARN:  aws.ToString(lbData.LoadBalancerArn),
			DNSName:          aws.ToString(lbData.DNSName),
			Type:             string(lbData.Type),
			Scheme:           string(lbData.Scheme),
			VpcID:            aws.ToString(lbData.VpcId),
		}
		if lbData.State != nil {
			lb.State = string(lbData.State.Code)
		}
		lbs = append(lbs, lb)
	}

	return lbs, nil
}
