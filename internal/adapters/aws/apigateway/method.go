package apigateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsapigw "github.com/aws/aws-sdk-go-v2/service/apigateway"

	"apigw-modules/internal/domain/apigateway"
)

// GetMethod retrieves the configuration of a REST API method
func (r *Repository) GetMethod(ctx context.Context, query apigateway.MethodQuery) (*apigateway.Method, error) {
	input := &awsapigw.GetMethodInput{
		RestApiId:  aws.String(query.RestAPIID),
		ResourceId: aws.String(query.ResourceID),
		HttpMethod: aws.String(query.HTTPMethod),
	}

	var output *awsapigw.GetMethodOutput
	err := r.call(ctx, "GetMethod", func(ctx context.Context) error {
		var err error
		output, err = r.client.GetMethod(ctx, input)
		return err
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("method %s on %s/%s: %w: %w", query.HTTPMethod, query.RestAPIID, query.ResourceID, apigateway.ErrNotFound, err)
		}
		return nil, &apigateway.TransportError{Op: "get method", Err: err}
	}

	attrs, err := methodDocument(output)
	if err != nil {
		return nil, err
	}

	return &apigateway.Method{MethodQuery: query, Attributes: attrs}, nil
}

// methodDocument flattens the SDK output into a generic document keyed by
// the SDK field names. Unset fields are dropped.
func methodDocument(output *awsapigw.GetMethodOutput) (map[string]interface{}, error) {
	data, err := json.Marshal(output)
	if err != nil {
		return nil, fmt.Errorf("failed to encode method: %w", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode method: %w", err)
	}

	delete(doc, "ResultMetadata")
	return pruneNulls(doc), nil
}

func pruneNulls(doc map[string]interface{}) map[string]interface{} {
	for k, v := range doc {
		switch val := v.(type) {
		case nil:
			delete(doc, k)
		case map[string]interface{}:
			doc[k] = pruneNulls(val)
		case []interface{}:
			for i, item := range val {
				if m, ok := item.(map[string]interface{}); ok {
					val[i] = pruneNulls(m)
				}
			}
		}
	}
	return doc
}
