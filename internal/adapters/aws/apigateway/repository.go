package apigateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsapigw "github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/apigateway/types"

	"apigw-modules/internal/domain/apigateway"
	"apigw-modules/pkg/metrics"
	"apigw-modules/pkg/retry"
)

// listPageSize is the largest page GetVpcLinks accepts.
const listPageSize = 500

// Client is the subset of the API Gateway client used by Repository.
type Client interface {
	CreateVpcLink(ctx context.Context, params *awsapigw.CreateVpcLinkInput, optFns ...func(*awsapigw.Options)) (*awsapigw.CreateVpcLinkOutput, error)
	GetVpcLink(ctx context.Context, params *awsapigw.GetVpcLinkInput, optFns ...func(*awsapigw.Options)) (*awsapigw.GetVpcLinkOutput, error)
	GetVpcLinks(ctx context.Context, params *awsapigw.GetVpcLinksInput, optFns ...func(*awsapigw.Options)) (*awsapigw.GetVpcLinksOutput, error)
	DeleteVpcLink(ctx context.Context, params *awsapigw.DeleteVpcLinkInput, optFns ...func(*awsapigw.Options)) (*awsapigw.DeleteVpcLinkOutput, error)
	GetMethod(ctx context.Context, params *awsapigw.GetMethodInput, optFns ...func(*awsapigw.Options)) (*awsapigw.GetMethodOutput, error)
}

// Repository handles API Gateway VPC link and method operations
type Repository struct {
	client Client
	retry  retry.Policy
}

// NewRepository creates a new API Gateway repository. The SDK retryer is
// disabled; policy is the only retry layer.
func NewRepository(cfg aws.Config, policy retry.Policy) *Repository {
	client := awsapigw.NewFromConfig(cfg, func(o *awsapigw.Options) {
		o.Retryer = aws.NopRetryer{}
	})
	return NewRepositoryWithClient(client, policy)
}

// NewRepositoryWithClient creates a repository on top of an existing client.
func NewRepositoryWithClient(client Client, policy retry.Policy) *Repository {
	return &Repository{client: client, retry: policy}
}

// List returns every VPC link, following pagination.
func (r *Repository) List(ctx context.Context) ([]*apigateway.VpcLink, error) {
	var links []*apigateway.VpcLink
	var position *string

	for {
		input := &awsapigw.GetVpcLinksInput{
			Limit:    aws.Int32(listPageSize),
			Position: position,
		}

		var output *awsapigw.GetVpcLinksOutput
		err := r.call(ctx, "GetVpcLinks", func(ctx context.Context) error {
			var err error
			output, err = r.client.GetVpcLinks(ctx, input)
			return err
		})
		if err != nil {
			return nil, &apigateway.TransportError{Op: "list VPC links", Err: err}
		}

		for i := range output.Items {
			links = append(links, fromSDK(&output.Items[i]))
		}

		if aws.ToString(output.Position) == "" || aws.ToString(output.Position) == aws.ToString(position) {
			return links, nil
		}
		position = output.Position
	}
}

// Create creates a new VPC link
func (r *Repository) Create(ctx context.Context, spec *apigateway.VpcLinkSpec) (*apigateway.VpcLink, error) {
	input := &awsapigw.CreateVpcLinkInput{
		Name:       aws.String(spec.Name),
		TargetArns: spec.TargetARNs,
	}
	if spec.Description != "" {
		input.Description = aws.String(spec.Description)
	}
	if len(spec.Tags) > 0 {
		input.Tags = spec.Tags
	}

	var output *awsapigw.CreateVpcLinkOutput
	err := r.call(ctx, "CreateVpcLink", func(ctx context.Context) error {
		var err error
		output, err = r.client.CreateVpcLink(ctx, input)
		return err
	})
	if err != nil {
		return nil, &apigateway.TransportError{Op: "create VPC link", Err: err}
	}

	return &apigateway.VpcLink{
		ID:            aws.ToString(output.Id),
		Name:          aws.ToString(output.Name),
		Description:   aws.ToString(output.Description),
		TargetARNs:    output.TargetArns,
		Status:        string(output.Status),
		StatusMessage: aws.ToString(output.StatusMessage),
		Tags:          output.Tags,
	}, nil
}

// Get retrieves a VPC link by id
func (r *Repository) Get(ctx context.Context, id string) (*apigateway.VpcLink, error) {
	var output *awsapigw.GetVpcLinkOutput
	err := r.call(ctx, "GetVpcLink", func(ctx context.Context) error {
		var err error
		output, err = r.client.GetVpcLink(ctx, &awsapigw.GetVpcLinkInput{VpcLinkId: aws.String(id)})
		return err
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("VPC link %s: %w: %w", id, apigateway.ErrNotFound, err)
		}
		return nil, &apigateway.TransportError{Op: "get VPC link " + id, Err: err}
	}

	return &apigateway.VpcLink{
		ID:            aws.ToString(output.Id),
		Name:          aws.ToString(output.Name),
		Description:   aws.ToString(output.Description),
		TargetARNs:    output.TargetArns,
		Status:        string(output.Status),
		StatusMessage: aws.ToString(output.StatusMessage),
		Tags:          output.Tags,
	}, nil
}

// Delete deletes a VPC link
func (r *Repository) Delete(ctx context.Context, id string) error {
	err := r.call(ctx, "DeleteVpcLink", func(ctx context.Context) error {
		_, err := r.client.DeleteVpcLink(ctx, &awsapigw.DeleteVpcLinkInput{VpcLinkId: aws.String(id)})
		return err
	})
	if err != nil {
		if isNotFoundError(err) {
			return fmt.Errorf("VPC link %s: %w: %w", id, apigateway.ErrNotFound, err)
		}
		return &apigateway.TransportError{Op: "delete VPC link " + id, Err: err}
	}
	return nil
}

// call runs one API operation under the retry policy, recording metrics for
// every attempt.
func (r *Repository) call(ctx context.Context, operation string, fn func(context.Context) error) error {
	return r.retry.Do(ctx, operation, func(ctx context.Context) error {
		recorder := metrics.NewAWSAPIMetricsRecorder(metrics.ServiceAPIGateway, operation)
		if err := fn(ctx); err != nil {
			recorder.RecordError(err)
			return err
		}
		recorder.RecordSuccess()
		return nil
	})
}

func fromSDK(item *types.VpcLink) *apigateway.VpcLink {
	return &apigateway.VpcLink{
		ID:            aws.ToString(item.Id),
		Name:          aws.ToString(item.Name),
		Description:   aws.ToString(item.Description),
		TargetARNs:    item.TargetArns,
		Status:        string(item.Status),
		StatusMessage: aws.ToString(item.StatusMessage),
		Tags:          item.Tags,
	}
}

func isNotFoundError(err error) bool {
	var nf *types.NotFoundException
	return errors.As(err, &nf)
}
