package module

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/aws/smithy-go"

	"apigw-modules/internal/domain/apigateway"
)

// PreservedKeys hold user data rather than field names, so their inner keys
// are never converted.
var PreservedKeys = []string{
	"tags",
	"requestParameters",
	"requestModels",
	"requestTemplates",
	"responseParameters",
	"responseModels",
	"responseTemplates",
	"RequestParameters",
	"RequestModels",
	"RequestTemplates",
	"ResponseParameters",
	"ResponseModels",
	"ResponseTemplates",
}

// Result is the success document of a module run. Msg holds the resource
// document with its remote field names; Exit converts them.
type Result struct {
	Changed  bool                   `json:"changed"`
	Msg      map[string]interface{} `json:"msg"`
	Warnings []string               `json:"warnings,omitempty"`
}

// Failure is the error document of a module run.
type Failure struct {
	Failed    bool         `json:"failed"`
	Msg       string       `json:"msg"`
	ErrorKind string       `json:"error_kind,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail carries the remote error code when the failure came from AWS.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Exit writes res to w as a single JSON document. This is the one place
// where remote field names become snake_case.
func Exit(w io.Writer, res *Result) error {
	out := *res
	out.Msg = SnakeCaseKeys(res.Msg, PreservedKeys...)
	if out.Msg == nil {
		out.Msg = map[string]interface{}{}
	}
	return json.NewEncoder(w).Encode(out)
}

// Fail writes the failure document for err to w.
func Fail(w io.Writer, err error) error {
	return json.NewEncoder(w).Encode(NewFailure(err))
}

// NewFailure builds the failure document for err.
func NewFailure(err error) *Failure {
	f := &Failure{
		Failed:    true,
		Msg:       err.Error(),
		ErrorKind: string(apigateway.KindOf(err)),
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		f.Error = &ErrorDetail{
			Code:    apiErr.ErrorCode(),
			Message: apiErr.ErrorMessage(),
		}
	}
	return f
}
