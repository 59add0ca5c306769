package apigateway

import (
	"context"
	"errors"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"apigw-modules/internal/domain/apigateway"
	"apigw-modules/pkg/metrics"
)

// AwaitStatus polls the link with id until it reaches target, fails,
// disappears, or timeout elapses. FAILED and NOT_FOUND end the wait whatever
// the target is. Lookup errors other than not-found abort the wait.
//
// The returned link is the last one observed and is nil when the link is gone.
func (uc *VpcLinkUseCase) AwaitStatus(ctx context.Context, id string, target apigateway.TerminalStatus, timeout time.Duration) (apigateway.TerminalStatus, *apigateway.VpcLink, error) {
	return uc.poll(ctx, id, target, timeout, true)
}

// awaitDeleted polls a link that is being deleted until it is gone. Until
// then the link may still report its previous status, FAILED or DELETING, so
// only NOT_FOUND or the deadline end the wait.
func (uc *VpcLinkUseCase) awaitDeleted(ctx context.Context, id string, timeout time.Duration) (apigateway.TerminalStatus, error) {
	status, _, err := uc.poll(ctx, id, apigateway.TerminalNotFound, timeout, false)
	return status, err
}

func (uc *VpcLinkUseCase) poll(ctx context.Context, id string, target apigateway.TerminalStatus, timeout time.Duration, failedIsTerminal bool) (apigateway.TerminalStatus, *apigateway.VpcLink, error) {
	logger := log.FromContext(ctx).WithValues("id", id, "target", target)
	recorder := metrics.NewWaitMetricsRecorder(metrics.ResourceVpcLink, uc.clock.Now())

	done := func(status apigateway.TerminalStatus, link *apigateway.VpcLink) (apigateway.TerminalStatus, *apigateway.VpcLink, error) {
		recorder.RecordDone(string(status), uc.clock.Now())
		logger.Info("Finished waiting for VPC link", "status", status)
		return status, link, nil
	}

	var last *apigateway.VpcLink
	deadline := uc.clock.Now().Add(timeout)
	for uc.clock.Now().Before(deadline) {
		link, err := uc.repo.Get(ctx, id)
		if err != nil {
			if errors.Is(err, apigateway.ErrNotFound) {
				recorder.RecordPoll(string(apigateway.TerminalNotFound))
				return done(apigateway.TerminalNotFound, nil)
			}
			return "", last, err
		}
		last = link
		recorder.RecordPoll(link.Status)

		switch {
		case failedIsTerminal && link.IsFailed():
			return done(apigateway.TerminalFailed, link)
		case link.Status == string(target):
			return done(target, link)
		}

		if err := ctx.Err(); err != nil {
			return "", last, err
		}
		logger.V(1).Info("Waiting for VPC link", "status", link.Status)
		uc.clock.Sleep(uc.pollInterval)
	}

	return done(apigateway.TerminalTimeout, last)
}
