// Package module implements the Ansible-style module contract: arguments in,
// one JSON document out.
package module

import (
	"fmt"
	"slices"
	"strings"

	"apigw-modules/internal/domain/apigateway"
)

// Params is implemented by every module's parameter struct.
type Params interface {
	SetDefaults()
	Validate() error
	Connection() ConnectionParams
}

// ConnectionParams are accepted by every module.
type ConnectionParams struct {
	Region        string `yaml:"region"`
	EndpointURL   string `yaml:"endpoint_url"`
	AccessKey     string `yaml:"aws_access_key"`
	SecretKey     string `yaml:"aws_secret_key"`
	SecurityToken string `yaml:"security_token"`
	Profile       string `yaml:"profile"`
	AssumeRoleARN string `yaml:"assume_role_arn"`
}

// Connection returns the connection params of a module's arguments.
func (c ConnectionParams) Connection() ConnectionParams { return c }

// MethodFactsParams are the arguments of the method-facts module.
type MethodFactsParams struct {
	ConnectionParams `yaml:",inline"`

	RestAPIID  string `yaml:"rest_api_id"`
	ResourceID string `yaml:"resource_id"`
	HTTPMethod string `yaml:"http_method"`
}

func (p *MethodFactsParams) SetDefaults() {}

func (p *MethodFactsParams) Validate() error {
	var missing []string
	if p.RestAPIID == "" {
		missing = append(missing, "rest_api_id")
	}
	if p.ResourceID == "" {
		missing = append(missing, "resource_id")
	}
	if p.HTTPMethod == "" {
		missing = append(missing, "http_method")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required arguments: %s", apigateway.ErrValidation, strings.Join(missing, ", "))
	}
	return checkChoice("http_method", p.HTTPMethod, apigateway.HTTPMethods)
}

// VpcLinkParams are the arguments of the vpc-link module.
type VpcLinkParams struct {
	ConnectionParams `yaml:",inline"`

	Name            string            `yaml:"name"`
	TargetARNs      []string          `yaml:"target_arns"`
	Description     string            `yaml:"description"`
	State           string            `yaml:"state"`
	ID              string            `yaml:"id"`
	Tags            map[string]string `yaml:"tags"`
	Wait            bool              `yaml:"wait"`
	WaitTimeout     *int              `yaml:"wait_timeout"`
	RecreateFailed  *bool             `yaml:"recreate_failed"`
	ValidateTargets bool              `yaml:"validate_targets"`
}

func (p *VpcLinkParams) SetDefaults() {
	if p.State == "" {
		p.State = apigateway.StatePresent
	}
	if p.WaitTimeout == nil {
		timeout := int(apigateway.DefaultWaitTimeout.Seconds())
		p.WaitTimeout = &timeout
	}
	if p.RecreateFailed == nil {
		recreate := true
		p.RecreateFailed = &recreate
	}
}

func (p *VpcLinkParams) Validate() error {
	if err := checkChoice("state", p.State, []string{apigateway.StatePresent, apigateway.StateAbsent}); err != nil {
		return err
	}

	var missing []string
	switch p.State {
	case apigateway.StatePresent:
		if p.Name == "" {
			missing = append(missing, "name")
		}
		if len(p.TargetARNs) == 0 {
			missing = append(missing, "target_arns")
		}
	case apigateway.StateAbsent:
		if p.ID == "" {
			missing = append(missing, "id")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: state is %s but all of the following are missing: %s",
			apigateway.ErrValidation, p.State, strings.Join(missing, ", "))
	}

	if p.WaitTimeout != nil && *p.WaitTimeout <= 0 {
		return apigateway.ErrInvalidTimeout
	}
	if p.WaitTimeout != nil && *p.WaitTimeout > int(apigateway.MaxWaitTimeout.Seconds()) {
		return apigateway.ErrTimeoutTooLong
	}
	return nil
}

// VpcLinksFactsParams are the arguments of the vpc-links-facts module.
type VpcLinksFactsParams struct {
	ConnectionParams `yaml:",inline"`
}

func (p *VpcLinksFactsParams) SetDefaults() {}

func (p *VpcLinksFactsParams) Validate() error { return nil }

func checkChoice(param, value string, choices []string) error {
	if slices.Contains(choices, value) {
		return nil
	}
	return fmt.Errorf("%w: value of %s must be one of: %s, got: %s",
		apigateway.ErrValidation, param, strings.Join(choices, ", "), value)
}
