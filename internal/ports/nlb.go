package ports

import (
	"context"

	"apigw-modules/internal/domain/nlb"
)

// NLBRepository defines the interface for load balancer lookups
type NLBRepository interface {
	// Describe returns the load balancers for arns. An unknown ARN yields an
	// error wrapping nlb.ErrLoadBalancerNotFound.
	Describe(ctx context.Context, arns []string) ([]*nlb.LoadBalancer, error)
}
