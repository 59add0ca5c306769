// Package metrics provides Prometheus metrics for observability of module runs.
//
// This package exposes metrics about:
// - Module run outcomes and duration
// - AWS API call performance, errors and retries
// - VPC link status polling
// - Drift found on reused VPC links
//
// Metrics live in a private Registry. A run is a short-lived process, so
// nothing is served over HTTP; WriteTextfile dumps the registry in the
// node_exporter textfile format instead.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every metric in this package.
var Registry = prometheus.NewRegistry()

var (
	// ============================================
	// Module Run Metrics
	// ============================================

	// ModuleRunsTotal tracks module invocations per module and result.
	// Labels: module (vpc_link, method_facts, vpc_links_facts), result (changed, unchanged, error)
	ModuleRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apigw_module_runs_total",
			Help: "Total number of module runs per module and result",
		},
		[]string{"module", "result"},
	)

	// ModuleRunDuration tracks the duration of module runs in seconds.
	// Labels: module
	ModuleRunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "apigw_module_run_duration_seconds",
			Help:    "Duration of module runs in seconds",
			Buckets: []float64{.1, .5, 1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"module"},
	)

	// ModuleRunErrors tracks failed module runs by error kind.
	// Labels: module, error_kind (validation, conflict, transport, not_found, timeout, link_failed)
	ModuleRunErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apigw_module_run_errors_total",
			Help: "Total number of failed module runs by error kind",
		},
		[]string{"module", "error_kind"},
	)

	// ============================================
	// AWS API Metrics
	// ============================================

	// AWSAPICallsTotal tracks the total number of AWS API calls.
	// Labels: service (APIGateway, ELBv2), operation (GetVpcLinks, CreateVpcLink, etc.), result (success, error)
	AWSAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apigw_aws_api_calls_total",
			Help: "Total number of AWS API calls by service, operation, and result",
		},
		[]string{"service", "operation", "result"},
	)

	// AWSAPICallDuration tracks the duration of AWS API calls in seconds.
	// Labels: service, operation
	AWSAPICallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "apigw_aws_api_call_duration_seconds",
			Help:    "Duration of AWS API calls in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"service", "operation"},
	)

	// AWSAPIErrors tracks the total number of AWS API errors.
	// Labels: service, operation, error_code (NotFoundException, TooManyRequestsException, etc.)
	AWSAPIErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apigw_aws_api_errors_total",
			Help: "Total number of AWS API errors by service, operation, and error code",
		},
		[]string{"service", "operation", "error_code"},
	)

	// AWSAPIThrottles tracks the number of AWS API throttling events.
	// Labels: service, operation
	AWSAPIThrottles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apigw_aws_api_throttles_total",
			Help: "Total number of AWS API throttling events (rate limit exceeded)",
		},
		[]string{"service", "operation"},
	)

	// AWSAPIRetries tracks retries scheduled by the retry policy.
	// Labels: operation
	AWSAPIRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apigw_aws_api_retries_total",
			Help: "Total number of AWS API call retries",
		},
		[]string{"operation"},
	)

	// ============================================
	// Wait Metrics
	// ============================================

	// WaitPollsTotal tracks status lookups made while waiting.
	// Labels: resource_type, status (observed remote status)
	WaitPollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apigw_wait_polls_total",
			Help: "Total number of status polls while waiting for a resource",
		},
		[]string{"resource_type", "status"},
	)

	// WaitDuration tracks how long waits took, by terminal status.
	// Labels: resource_type, terminal_status (AVAILABLE, FAILED, NOT_FOUND, TIMEOUT)
	WaitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "apigw_wait_duration_seconds",
			Help:    "Duration of status waits in seconds",
			Buckets: []float64{5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"resource_type", "terminal_status"},
	)

	// ============================================
	// Drift Detection Metrics
	// ============================================

	// DriftDetectedTotal tracks drift found between desired and reused resources.
	// Labels: resource_type, severity (high, medium, low)
	DriftDetectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apigw_drift_detected_total",
			Help: "Total number of configuration drifts detected by severity",
		},
		[]string{"resource_type", "severity"},
	)
)

func init() {
	Registry.MustRegister(
		ModuleRunsTotal,
		ModuleRunDuration,
		ModuleRunErrors,
	)

	Registry.MustRegister(
		AWSAPICallsTotal,
		AWSAPICallDuration,
		AWSAPIErrors,
		AWSAPIThrottles,
		AWSAPIRetries,
	)

	Registry.MustRegister(
		WaitPollsTotal,
		WaitDuration,
	)

	Registry.MustRegister(DriftDetectedTotal)
}

// WriteTextfile writes the registry to path in the Prometheus text format.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

// Module names for the module label
const (
	ModuleVpcLink       = "vpc_link"
	ModuleVpcLinksFacts = "vpc_links_facts"
	ModuleMethodFacts   = "method_facts"
)

// Common AWS service names for standardized service labels
const (
	ServiceAPIGateway = "APIGateway"
	ServiceELBv2      = "ELBv2"
)

// Common resource types
const (
	ResourceVpcLink = "VpcLink"
)

// Common module run results
const (
	ResultSuccess   = "success"
	ResultError     = "error"
	ResultChanged   = "changed"
	ResultUnchanged = "unchanged"
)
