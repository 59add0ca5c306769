package apigateway

import (
	"slices"
	"time"
)

// Remote VPC link statuses.
const (
	VpcLinkStatusAvailable = "AVAILABLE"
	VpcLinkStatusPending   = "PENDING"
	VpcLinkStatusFailed    = "FAILED"
)

const (
	StatePresent = "present"
	StateAbsent  = "absent"

	DefaultWaitTimeout = 300 * time.Second
	MaxWaitTimeout     = 24 * time.Hour
)

// TerminalStatus is the outcome of waiting on a VPC link.
type TerminalStatus string

const (
	TerminalAvailable TerminalStatus = "AVAILABLE"
	TerminalFailed    TerminalStatus = "FAILED"
	TerminalNotFound  TerminalStatus = "NOT_FOUND"
	TerminalTimeout   TerminalStatus = "TIMEOUT"
)

// VpcLink is a VPC link as reported by API Gateway.
type VpcLink struct {
	ID            string
	Name          string
	Description   string
	TargetARNs    []string
	Status        string
	StatusMessage string
	Tags          map[string]string
}

// HasTargets reports whether the link targets exactly arns, in order.
func (l *VpcLink) HasTargets(arns []string) bool {
	return slices.Equal(l.TargetARNs, arns)
}

// IsAvailable returns true if the link can route traffic
func (l *VpcLink) IsAvailable() bool {
	return l.Status == VpcLinkStatusAvailable
}

// IsFailed returns true if the link failed to provision
func (l *VpcLink) IsFailed() bool {
	return l.Status == VpcLinkStatusFailed
}

// VpcLinkSpec is the desired state of a VPC link.
type VpcLinkSpec struct {
	Name        string
	Description string
	TargetARNs  []string
	Tags        map[string]string

	// RecreateFailed deletes a same-name FAILED link and creates a new one
	// instead of reporting a conflict.
	RecreateFailed bool
	// ValidateTargets checks that every target is a network load balancer
	// before creating.
	ValidateTargets bool
}

// Validate validates the VPC link configuration
func (s *VpcLinkSpec) Validate() error {
	if s.Name == "" {
		return ErrInvalidName
	}
	if len(s.TargetARNs) == 0 {
		return ErrInvalidTargets
	}
	for _, arn := range s.TargetARNs {
		if arn == "" {
			return ErrInvalidTargets
		}
	}
	return nil
}

// WaitOptions controls polling after a create or delete.
type WaitOptions struct {
	Enabled bool
	Timeout time.Duration
}

// SetDefaults fills in the default timeout.
func (w *WaitOptions) SetDefaults() {
	if w.Timeout == 0 {
		w.Timeout = DefaultWaitTimeout
	}
}

// Validate validates the wait configuration
func (w *WaitOptions) Validate() error {
	if w.Enabled && w.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if w.Timeout > MaxWaitTimeout {
		return ErrTimeoutTooLong
	}
	return nil
}

// ReconcileResult is the outcome of driving a VPC link to present.
type ReconcileResult struct {
	Link     *VpcLink
	Changed  bool
	Warnings []string
}
