package apigateway

import (
	"context"

	"apigw-modules/internal/domain/apigateway"
	"apigw-modules/internal/ports"
)

type MethodUseCase struct {
	repo ports.MethodRepository
}

func NewMethodUseCase(repo ports.MethodRepository) *MethodUseCase {
	return &MethodUseCase{repo: repo}
}

// GetMethod returns the configuration of one REST API method.
func (uc *MethodUseCase) GetMethod(ctx context.Context, query apigateway.MethodQuery) (*apigateway.Method, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return uc.repo.GetMethod(ctx, query)
}
