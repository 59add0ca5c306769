package metrics

import (
	"errors"
	"slices"
	"time"

	"github.com/aws/smithy-go"
)

// ============================================
// Module Run Metrics Recorder
// ============================================

// ModuleRunRecorder helps record module run metrics consistently.
// Usage:
//
//	recorder := metrics.NewModuleRunRecorder(metrics.ModuleVpcLink)
//	result, err := run(ctx)
//	if err != nil {
//	  recorder.RecordError(string(apigateway.KindOf(err)))
//	} else {
//	  recorder.RecordSuccess(result.Changed)
//	}
type ModuleRunRecorder struct {
	module    string
	startTime time.Time
}

// NewModuleRunRecorder creates a new module run recorder.
// It automatically starts timing the run.
func NewModuleRunRecorder(module string) *ModuleRunRecorder {
	return &ModuleRunRecorder{
		module:    module,
		startTime: time.Now(),
	}
}

// RecordSuccess records a successful run.
func (r *ModuleRunRecorder) RecordSuccess(changed bool) {
	result := ResultUnchanged
	if changed {
		result = ResultChanged
	}

	ModuleRunsTotal.WithLabelValues(r.module, result).Inc()
	ModuleRunDuration.WithLabelValues(r.module).Observe(time.Since(r.startTime).Seconds())
}

// RecordError records a failed run with its error kind.
func (r *ModuleRunRecorder) RecordError(errorKind string) {
	ModuleRunsTotal.WithLabelValues(r.module, ResultError).Inc()
	ModuleRunDuration.WithLabelValues(r.module).Observe(time.Since(r.startTime).Seconds())
	ModuleRunErrors.WithLabelValues(r.module, errorKind).Inc()
}

// ============================================
// AWS API Metrics Recorder
// ============================================

// AWSAPIMetricsRecorder helps record AWS API call metrics consistently.
// Usage:
//
//	recorder := metrics.NewAWSAPIMetricsRecorder(metrics.ServiceAPIGateway, "GetVpcLinks")
//	output, err := r.client.GetVpcLinks(ctx, input)
//	if err != nil {
//	  recorder.RecordError(err)
//	  return err
//	}
//	recorder.RecordSuccess()
type AWSAPIMetricsRecorder struct {
	service   string
	operation string
	startTime time.Time
}

// NewAWSAPIMetricsRecorder creates a new AWS API metrics recorder.
// It automatically starts timing the API call.
func NewAWSAPIMetricsRecorder(service, operation string) *AWSAPIMetricsRecorder {
	return &AWSAPIMetricsRecorder{
		service:   service,
		operation: operation,
		startTime: time.Now(),
	}
}

// RecordSuccess records a successful AWS API call.
func (a *AWSAPIMetricsRecorder) RecordSuccess() {
	duration := time.Since(a.startTime).Seconds()

	AWSAPICallsTotal.WithLabelValues(a.service, a.operation, ResultSuccess).Inc()
	AWSAPICallDuration.WithLabelValues(a.service, a.operation).Observe(duration)
}

// RecordError records a failed AWS API call.
// It extracts the AWS error code from the error and records it.
func (a *AWSAPIMetricsRecorder) RecordError(err error) {
	duration := time.Since(a.startTime).Seconds()

	errorCode := extractAWSErrorCode(err)

	AWSAPICallsTotal.WithLabelValues(a.service, a.operation, ResultError).Inc()
	AWSAPICallDuration.WithLabelValues(a.service, a.operation).Observe(duration)
	AWSAPIErrors.WithLabelValues(a.service, a.operation, errorCode).Inc()

	if isThrottlingError(errorCode) {
		AWSAPIThrottles.WithLabelValues(a.service, a.operation).Inc()
	}
}

// RecordRetry records that operation is about to be retried.
func RecordRetry(operation string) {
	AWSAPIRetries.WithLabelValues(operation).Inc()
}

// extractAWSErrorCode extracts the AWS error code from an error.
// Returns "Unknown" if the error is not an AWS error.
func extractAWSErrorCode(err error) string {
	if err == nil {
		return "Unknown"
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}

	return "Unknown"
}

var throttlingCodes = []string{
	"Throttling",
	"ThrottlingException",
	"RequestLimitExceeded",
	"TooManyRequestsException",
	"ProvisionedThroughputExceededException",
	"RequestThrottled",
}

// isThrottlingError checks if an error code represents throttling.
func isThrottlingError(errorCode string) bool {
	return slices.Contains(throttlingCodes, errorCode)
}

// ============================================
// Wait Metrics Recorder
// ============================================

// WaitMetricsRecorder records status polling for one wait.
type WaitMetricsRecorder struct {
	resourceType string
	startTime    time.Time
}

// NewWaitMetricsRecorder starts timing a wait. now comes from the caller's
// clock so fake clocks produce matching durations.
func NewWaitMetricsRecorder(resourceType string, now time.Time) *WaitMetricsRecorder {
	return &WaitMetricsRecorder{
		resourceType: resourceType,
		startTime:    now,
	}
}

// RecordPoll records one status lookup.
func (w *WaitMetricsRecorder) RecordPoll(status string) {
	WaitPollsTotal.WithLabelValues(w.resourceType, status).Inc()
}

// RecordDone records the terminal status of the wait.
func (w *WaitMetricsRecorder) RecordDone(terminalStatus string, now time.Time) {
	WaitDuration.WithLabelValues(w.resourceType, terminalStatus).Observe(now.Sub(w.startTime).Seconds())
}

// ============================================
// Drift Detection Metrics Recorder
// ============================================

// DriftMetricsRecorder helps record drift detection metrics.
type DriftMetricsRecorder struct {
	resourceType string
}

// NewDriftMetricsRecorder creates a new drift detection metrics recorder.
func NewDriftMetricsRecorder(resourceType string) *DriftMetricsRecorder {
	return &DriftMetricsRecorder{resourceType: resourceType}
}

// RecordDriftDetected records that a drift was detected.
func (d *DriftMetricsRecorder) RecordDriftDetected(severity string) {
	DriftDetectedTotal.WithLabelValues(d.resourceType, severity).Inc()
}
