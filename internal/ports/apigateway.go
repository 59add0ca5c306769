// Package ports define as interfaces de portas seguindo Clean Architecture.
//
// Este package contém as abstrações que desacoplam a lógica de negócio das
// implementações concretas, permitindo testabilidade e flexibilidade.
package ports

import (
	"context"

	"apigw-modules/internal/domain/apigateway"
)

// VpcLinkRepository defines the interface for API Gateway VPC link operations
type VpcLinkRepository interface {
	// List returns every VPC link in the account and region.
	List(ctx context.Context) ([]*apigateway.VpcLink, error)
	Create(ctx context.Context, spec *apigateway.VpcLinkSpec) (*apigateway.VpcLink, error)
	// Get returns an error wrapping apigateway.ErrNotFound when id is unknown.
	Get(ctx context.Context, id string) (*apigateway.VpcLink, error)
	Delete(ctx context.Context, id string) error
}

// MethodRepository defines the interface for REST API method lookups
type MethodRepository interface {
	GetMethod(ctx context.Context, query apigateway.MethodQuery) (*apigateway.Method, error)
}

// VpcLinkUseCase defines the use case interface for VPC link operations
type VpcLinkUseCase interface {
	SyncVpcLink(ctx context.Context, spec *apigateway.VpcLinkSpec, wait apigateway.WaitOptions) (*apigateway.ReconcileResult, error)
	DeleteVpcLink(ctx context.Context, id string, wait apigateway.WaitOptions) (bool, error)
	ListVpcLinks(ctx context.Context) ([]*apigateway.VpcLink, error)
}

// MethodUseCase defines the use case interface for method facts
type MethodUseCase interface {
	GetMethod(ctx context.Context, query apigateway.MethodQuery) (*apigateway.Method, error)
}
