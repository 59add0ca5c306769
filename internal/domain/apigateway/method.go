package apigateway

import "slices"

// HTTPMethods lists the accepted values of MethodQuery.HTTPMethod.
var HTTPMethods = []string{"GET", "PUT", "POST", "DELETE", "PATCH", "HEAD", "ANY", "OPTIONS"}

// MethodQuery identifies a method on a REST API resource.
type MethodQuery struct {
	RestAPIID  string
	ResourceID string
	HTTPMethod string
}

// Validate validates the method lookup parameters
func (q MethodQuery) Validate() error {
	if q.RestAPIID == "" {
		return ErrInvalidRestAPIID
	}
	if q.ResourceID == "" {
		return ErrInvalidResourceID
	}
	if !slices.Contains(HTTPMethods, q.HTTPMethod) {
		return ErrInvalidHTTPMethod
	}
	return nil
}

// Method is the configuration of a REST API method. Attributes holds the
// document returned by API Gateway with its remote field names.
type Method struct {
	MethodQuery
	Attributes map[string]interface{}
}
