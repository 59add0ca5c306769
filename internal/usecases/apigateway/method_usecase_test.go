package apigateway_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"apigw-modules/internal/domain/apigateway"
	usecase "apigw-modules/internal/usecases/apigateway"
)

type fakeMethodRepository struct {
	method *apigateway.Method
	err    error
	calls  []apigateway.MethodQuery
}

func (f *fakeMethodRepository) GetMethod(_ context.Context, query apigateway.MethodQuery) (*apigateway.Method, error) {
	f.calls = append(f.calls, query)
	return f.method, f.err
}

var _ = Describe("MethodUseCase", func() {
	var (
		repo  *fakeMethodRepository
		uc    *usecase.MethodUseCase
		query apigateway.MethodQuery
	)

	BeforeEach(func() {
		repo = &fakeMethodRepository{}
		uc = usecase.NewMethodUseCase(repo)
		query = apigateway.MethodQuery{RestAPIID: "a1b2c3", ResourceID: "r1", HTTPMethod: "GET"}
	})

	It("returns the method from the repository", func() {
		repo.method = &apigateway.Method{
			MethodQuery: query,
			Attributes:  map[string]interface{}{"HttpMethod": "GET", "AuthorizationType": "NONE"},
		}

		method, err := uc.GetMethod(context.Background(), query)

		Expect(err).NotTo(HaveOccurred())
		Expect(method.Attributes).To(HaveKeyWithValue("AuthorizationType", "NONE"))
		Expect(repo.calls).To(ConsistOf(query))
	})

	It("validates the query before calling the repository", func() {
		query.HTTPMethod = "FETCH"

		_, err := uc.GetMethod(context.Background(), query)

		Expect(errors.Is(err, apigateway.ErrValidation)).To(BeTrue())
		Expect(repo.calls).To(BeEmpty())
	})

	It("passes not-found errors through", func() {
		repo.err = apigateway.ErrNotFound

		_, err := uc.GetMethod(context.Background(), query)

		Expect(errors.Is(err, apigateway.ErrNotFound)).To(BeTrue())
	})
})
