package nlb

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLoadBalancerARN = errors.New("load balancer ARN cannot be empty")
	ErrNotNetworkLoadBalancer = errors.New("load balancer is not a network load balancer")
	ErrLoadBalancerNotFound   = errors.New("load balancer not found")
	ErrLoadBalancerNotActive  = errors.New("load balancer is not active or provisioning")
)

const (
	TypeNetwork     = "network"
	TypeApplication = "application"

	StateActive       = "active"
	StateProvisioning = "provisioning"
	StateFailed       = "failed"
)

// LoadBalancer represents an Elastic Load Balancing v2 load balancer that a
// VPC link may target.
type LoadBalancer struct {
	LoadBalancerName string
	LoadBalancerARN  string
	DNSName          string
	Type             string
	Scheme           string
	State            string
	VpcID            string
}

// IsNetwork returns true if the load balancer is a Network Load Balancer
func (lb *LoadBalancer) IsNetwork() bool {
	return lb.Type == TypeNetwork
}

// IsActive returns true if the NLB is active
func (lb *LoadBalancer) IsActive() bool {
	return lb.State == StateActive
}

// IsProvisioning returns true if the NLB is being provisioned
func (lb *LoadBalancer) IsProvisioning() bool {
	return lb.State == StateProvisioning
}

// IsFailed returns true if the NLB failed to provision
func (lb *LoadBalancer) IsFailed() bool {
	return lb.State == StateFailed
}

// CheckTarget reports whether lb can back a VPC link: a network load
// balancer that is active or still provisioning.
func (lb *LoadBalancer) CheckTarget() error {
	if lb.LoadBalancerARN == "" {
		return ErrInvalidLoadBalancerARN
	}
	if !lb.IsNetwork() {
		return ErrNotNetworkLoadBalancer
	}
	if lb.IsFailed() || !(lb.IsActive() || lb.IsProvisioning()) {
		return fmt.Errorf("%w: state %q", ErrLoadBalancerNotActive, lb.State)
	}
	return nil
}
