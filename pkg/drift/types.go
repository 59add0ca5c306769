// Package drift compares the desired configuration of a resource with what
// AWS reports for it.
//
// Modules never change a resource they reuse, so drift here is reported
// rather than healed: a VPC link found by its targets keeps its description
// and tags, and any difference is surfaced to the caller as a warning.
package drift

import (
	"fmt"
	"time"
)

// Severity represents the severity level of a detected drift.
type Severity string

const (
	// SeverityHigh indicates critical drift that affects functionality or security
	SeverityHigh Severity = "high"

	// SeverityMedium indicates important drift that should be addressed
	SeverityMedium Severity = "medium"

	// SeverityLow indicates minor drift that has minimal impact
	SeverityLow Severity = "low"
)

var severityRank = map[Severity]int{
	SeverityLow:    1,
	SeverityMedium: 2,
	SeverityHigh:   3,
}

// DriftItem represents a single detected drift between desired and actual state.
type DriftItem struct {
	// Field is the path of the field that has drifted (e.g., "tags.Environment")
	Field string

	// Desired is the value given in the module arguments
	Desired interface{}

	// Actual is the current value in AWS
	Actual interface{}

	Severity Severity

	Message string

	DetectedAt time.Time
}

// Config contains configuration for drift detection.
type Config struct {
	// Enabled determines if drift detection is active
	Enabled bool

	// IgnoreFields is a list of field paths that are allowed to drift
	// Examples: "tags.aws:*", "statusMessage"
	IgnoreFields []string

	// FieldSeverity assigns a severity to a top-level field. Fields not
	// listed are SeverityLow.
	FieldSeverity map[string]Severity

	// SeverityThreshold - only drifts at or above this severity are reported
	SeverityThreshold Severity
}

// DefaultConfig returns the configuration used for reused VPC links.
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		IgnoreFields: []string{"tags.aws:*"},
		FieldSeverity: map[string]Severity{
			"description": SeverityLow,
			"tags":        SeverityMedium,
		},
		SeverityThreshold: SeverityLow,
	}
}

// ShouldIgnoreField checks if a field should be ignored based on ignore patterns.
func (c *Config) ShouldIgnoreField(field string) bool {
	for _, pattern := range c.IgnoreFields {
		if matchPattern(field, pattern) {
			return true
		}
	}
	return false
}

// severityFor returns the severity of a drift at path, keyed by its first
// path segment.
func (c *Config) severityFor(path string) Severity {
	root := path
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			root = path[:i]
			break
		}
	}
	if s, ok := c.FieldSeverity[root]; ok {
		return s
	}
	return SeverityLow
}

// matchPattern performs simple wildcard matching (trailing *).
func matchPattern(s, pattern string) bool {
	if pattern == "*" {
		return true
	}
	if pattern == s {
		return true
	}

	// Simple prefix matching for patterns like "tags.*" or "aws:*"
	if len(pattern) > 0 && pattern[len(pattern)-1] == '*' {
		prefix := pattern[:len(pattern)-1]
		if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
			return true
		}
	}

	return false
}

// Result contains the results of a drift detection run.
type Result struct {
	// HasDrift indicates if any drift was detected
	HasDrift bool

	// Drifts is the list of detected drift items, sorted by field
	Drifts []DriftItem

	// CheckedAt is when the drift check was performed
	CheckedAt time.Time

	// ResourceType identifies the type of resource checked (e.g., "VpcLink")
	ResourceType string

	// ResourceID is the AWS resource identifier
	ResourceID string
}

// Count returns the number of drifts with the given severity.
func (r *Result) Count(severity Severity) int {
	count := 0
	for _, d := range r.Drifts {
		if d.Severity == severity {
			count++
		}
	}
	return count
}

// Warnings renders one line per drift, suitable for module warnings.
func (r *Result) Warnings() []string {
	if !r.HasDrift {
		return nil
	}
	warnings := make([]string, 0, len(r.Drifts))
	for _, d := range r.Drifts {
		warnings = append(warnings, fmt.Sprintf("%s %s: %s (desired=%v, actual=%v)",
			r.ResourceType, r.ResourceID, d.Message, d.Desired, d.Actual))
	}
	return warnings
}

// String returns a summary of the drift detection result.
func (r *Result) String() string {
	if !r.HasDrift {
		return fmt.Sprintf("No drift detected for %s %s", r.ResourceType, r.ResourceID)
	}
	return fmt.Sprintf("Detected %d drift(s) for %s %s (high: %d, medium: %d, low: %d)",
		len(r.Drifts), r.ResourceType, r.ResourceID,
		r.Count(SeverityHigh), r.Count(SeverityMedium), r.Count(SeverityLow))
}
