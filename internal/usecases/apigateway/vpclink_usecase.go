package apigateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"k8s.io/utils/clock"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"apigw-modules/internal/domain/apigateway"
	"apigw-modules/internal/domain/nlb"
	"apigw-modules/internal/ports"
	"apigw-modules/pkg/drift"
	"apigw-modules/pkg/metrics"
)

// DefaultPollInterval is the pause between status lookups while waiting.
const DefaultPollInterval = 5 * time.Second

type VpcLinkUseCase struct {
	repo         ports.VpcLinkRepository
	targets      ports.NLBRepository
	detector     drift.Detector
	clock        clock.Clock
	pollInterval time.Duration
}

// Option configures a VpcLinkUseCase.
type Option func(*VpcLinkUseCase)

// WithTargetRepository enables load balancer checks for specs that ask for them.
func WithTargetRepository(targets ports.NLBRepository) Option {
	return func(uc *VpcLinkUseCase) { uc.targets = targets }
}

// WithClock replaces the clock used for polling.
func WithClock(c clock.Clock) Option {
	return func(uc *VpcLinkUseCase) { uc.clock = c }
}

// WithPollInterval replaces DefaultPollInterval.
func WithPollInterval(d time.Duration) Option {
	return func(uc *VpcLinkUseCase) { uc.pollInterval = d }
}

func NewVpcLinkUseCase(repo ports.VpcLinkRepository, opts ...Option) *VpcLinkUseCase {
	uc := &VpcLinkUseCase{
		repo:         repo,
		detector:     drift.NewDetector(drift.DefaultConfig()),
		clock:        clock.RealClock{},
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// SyncVpcLink makes sure a VPC link for spec exists, creating one if needed,
// and optionally waits for a new link to become AVAILABLE.
func (uc *VpcLinkUseCase) SyncVpcLink(ctx context.Context, spec *apigateway.VpcLinkSpec, wait apigateway.WaitOptions) (*apigateway.ReconcileResult, error) {
	wait.SetDefaults()
	if err := wait.Validate(); err != nil {
		return nil, err
	}

	result, err := uc.Reconcile(ctx, spec, wait.Timeout)
	if err != nil {
		return nil, err
	}
	if !result.Changed || !wait.Enabled {
		return result, nil
	}

	status, link, err := uc.AwaitStatus(ctx, result.Link.ID, apigateway.TerminalAvailable, wait.Timeout)
	if err != nil {
		return nil, err
	}
	if status != apigateway.TerminalAvailable {
		return nil, waitError(result.Link.ID, status)
	}

	result.Link = link
	return result, nil
}

// Reconcile looks for an existing link with the same targets and reuses it,
// or creates a new one. A same-name FAILED link is replaced when
// spec.RecreateFailed is set; deleteTimeout bounds the wait for it to go away.
func (uc *VpcLinkUseCase) Reconcile(ctx context.Context, spec *apigateway.VpcLinkSpec, deleteTimeout time.Duration) (*apigateway.ReconcileResult, error) {
	logger := log.FromContext(ctx).WithValues("vpcLink", spec.Name)

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	links, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var replace *apigateway.VpcLink
	for _, link := range links {
		if !link.HasTargets(spec.TargetARNs) {
			continue
		}

		if link.Name != spec.Name {
			return nil, fmt.Errorf("%w: %s", apigateway.ErrDifferentName, link.Name)
		}

		if !link.IsFailed() {
			logger.Info("VPC link already exists", "id", link.ID, "status", link.Status)
			return &apigateway.ReconcileResult{
				Link:     link,
				Changed:  false,
				Warnings: uc.detectDrift(ctx, spec, link),
			}, nil
		}

		if !spec.RecreateFailed {
			return nil, fmt.Errorf("%w: %s (%s)", apigateway.ErrFailedExists, link.Name, link.ID)
		}

		replace = link
		break
	}

	if spec.ValidateTargets {
		if err := uc.validateTargets(ctx, spec.TargetARNs); err != nil {
			return nil, err
		}
	}

	if replace != nil {
		logger.Info("Replacing failed VPC link", "id", replace.ID, "statusMessage", replace.StatusMessage)
		if err := uc.replaceFailed(ctx, replace.ID, deleteTimeout); err != nil {
			return nil, err
		}
	}

	logger.Info("Creating VPC link", "targets", spec.TargetARNs)
	created, err := uc.repo.Create(ctx, spec)
	if err != nil {
		return nil, err
	}
	logger.Info("VPC link created", "id", created.ID, "status", created.Status)

	return &apigateway.ReconcileResult{Link: created, Changed: true}, nil
}

// DeleteVpcLink deletes the link with id. A link that is already gone is
// reported as unchanged.
func (uc *VpcLinkUseCase) DeleteVpcLink(ctx context.Context, id string, wait apigateway.WaitOptions) (bool, error) {
	logger := log.FromContext(ctx).WithValues("id", id)

	if id == "" {
		return false, apigateway.ErrInvalidID
	}
	wait.SetDefaults()
	if err := wait.Validate(); err != nil {
		return false, err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apigateway.ErrNotFound) {
			logger.Info("VPC link already deleted")
			return false, nil
		}
		return false, err
	}
	logger.Info("VPC link deleted")

	if !wait.Enabled {
		return true, nil
	}

	status, _, err := uc.AwaitStatus(ctx, id, apigateway.TerminalNotFound, wait.Timeout)
	if err != nil {
		return true, err
	}
	if status != apigateway.TerminalNotFound {
		return true, waitError(id, status)
	}
	return true, nil
}

// ListVpcLinks returns every VPC link in the account and region.
func (uc *VpcLinkUseCase) ListVpcLinks(ctx context.Context) ([]*apigateway.VpcLink, error) {
	return uc.repo.List(ctx)
}

func (uc *VpcLinkUseCase) replaceFailed(ctx context.Context, id string, timeout time.Duration) error {
	if err := uc.repo.Delete(ctx, id); err != nil && !errors.Is(err, apigateway.ErrNotFound) {
		return err
	}

	status, err := uc.awaitDeleted(ctx, id, timeout)
	if err != nil {
		return err
	}
	if status != apigateway.TerminalNotFound {
		return waitError(id, status)
	}
	return nil
}

func (uc *VpcLinkUseCase) detectDrift(ctx context.Context, spec *apigateway.VpcLinkSpec, link *apigateway.VpcLink) []string {
	if uc.detector == nil {
		return nil
	}

	desired := map[string]interface{}{"description": spec.Description}
	if spec.Tags != nil {
		desired["tags"] = spec.Tags
	}
	actual := map[string]interface{}{
		"description": link.Description,
		"tags":        link.Tags,
	}

	return uc.detector.DetectDrift(ctx, desired, actual, metrics.ResourceVpcLink, link.ID).Warnings()
}

func (uc *VpcLinkUseCase) validateTargets(ctx context.Context, arns []string) error {
	if uc.targets == nil {
		log.FromContext(ctx).V(1).Info("No load balancer repository configured, skipping target validation")
		return nil
	}

	lbs, err := uc.targets.Describe(ctx, arns)
	if err != nil {
		if errors.Is(err, nlb.ErrLoadBalancerNotFound) {
			return fmt.Errorf("%w: %w", apigateway.ErrValidation, err)
		}
		return &apigateway.TransportError{Op: "describe target load balancers", Err: err}
	}

	byARN := make(map[string]*nlb.LoadBalancer, len(lbs))
	for _, lb := range lbs {
		byARN[lb.LoadBalancerARN] = lb
	}
	for _, arn := range arns {
		lb, ok := byARN[arn]
		if !ok {
			return fmt.Errorf("%w: target %s: %w", apigateway.ErrValidation, arn, nlb.ErrLoadBalancerNotFound)
		}
		if err := lb.CheckTarget(); err != nil {
			return fmt.Errorf("%w: target %s: %w", apigateway.ErrValidation, arn, err)
		}
	}
	return nil
}

func waitError(id string, status apigateway.TerminalStatus) error {
	kind := apigateway.ErrTimeout
	switch status {
	case apigateway.TerminalFailed:
		kind = apigateway.ErrLinkFailed
	case apigateway.TerminalNotFound:
		kind = apigateway.ErrNotFound
	}
	return fmt.Errorf("VPC link status: %s (%s): %w", status, id, kind)
}
