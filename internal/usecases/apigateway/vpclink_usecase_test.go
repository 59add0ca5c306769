package apigateway_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"apigw-modules/internal/domain/apigateway"
	"apigw-modules/internal/domain/nlb"
	usecase "apigw-modules/internal/usecases/apigateway"
)

var _ = Describe("VpcLinkUseCase", func() {
	var (
		ctx    context.Context
		repo   *fakeVpcLinkRepository
		clk    *sleepCounter
		uc     *usecase.VpcLinkUseCase
		spec   *apigateway.VpcLinkSpec
		noWait apigateway.WaitOptions
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &fakeVpcLinkRepository{}
		clk = newSleepCounter()
		uc = usecase.NewVpcLinkUseCase(repo, usecase.WithClock(clk))
		spec = &apigateway.VpcLinkSpec{
			Name:           "mylink",
			TargetARNs:     []string{"arnA"},
			RecreateFailed: true,
		}
		noWait = apigateway.WaitOptions{}
	})

	Describe("SyncVpcLink", func() {
		It("creates a link when none matches the targets", func() {
			repo.links = []*apigateway.VpcLink{{ID: "vl-other", Name: "other", TargetARNs: []string{"arnB"}, Status: "AVAILABLE"}}

			result, err := uc.SyncVpcLink(ctx, spec, noWait)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Changed).To(BeTrue())
			Expect(result.Link.ID).NotTo(BeEmpty())
			Expect(result.Link.Name).To(Equal("mylink"))
			Expect(repo.createCalls).To(Equal(1))
			Expect(clk.sleeps).To(BeEmpty())
		})

		It("is idempotent", func() {
			first, err := uc.SyncVpcLink(ctx, spec, noWait)
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Changed).To(BeTrue())

			second, err := uc.SyncVpcLink(ctx, spec, noWait)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Changed).To(BeFalse())
			Expect(second.Link).To(Equal(first.Link))
			Expect(repo.createCalls).To(Equal(1))
		})

		It("fails with a conflict when the targets belong to a differently named link", func() {
			repo.links = []*apigateway.VpcLink{{ID: "vl-x", Name: "x", TargetARNs: []string{"arnA"}, Status: "AVAILABLE"}}
			spec.Name = "y"

			_, err := uc.SyncVpcLink(ctx, spec, noWait)

			Expect(errors.Is(err, apigateway.ErrConflict)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("VPC link for target arns already exists with the different name: x"))
			Expect(repo.createCalls).To(BeZero())
		})

		It("only matches targets in the same order", func() {
			repo.links = []*apigateway.VpcLink{{ID: "vl-x", Name: "x", TargetARNs: []string{"arnB", "arnA"}, Status: "AVAILABLE"}}
			spec.TargetARNs = []string{"arnA", "arnB"}

			result, err := uc.SyncVpcLink(ctx, spec, noWait)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Changed).To(BeTrue())
		})

		It("reports drift on a reused link without changing it", func() {
			repo.links = []*apigateway.VpcLink{{
				ID:          "vl-1",
				Name:        "mylink",
				Description: "old",
				TargetARNs:  []string{"arnA"},
				Status:      "AVAILABLE",
			}}
			spec.Description = "new"

			result, err := uc.SyncVpcLink(ctx, spec, noWait)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Changed).To(BeFalse())
			Expect(result.Warnings).To(ConsistOf(ContainSubstring("description differs")))
			Expect(repo.createCalls).To(BeZero())
		})

		It("does not wait on a reused link", func() {
			repo.links = []*apigateway.VpcLink{{ID: "vl-1", Name: "mylink", TargetARNs: []string{"arnA"}, Status: "PENDING"}}

			result, err := uc.SyncVpcLink(ctx, spec, apigateway.WaitOptions{Enabled: true})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Changed).To(BeFalse())
			Expect(repo.getCalls).To(BeZero())
		})

		Context("when a same-name link is FAILED", func() {
			BeforeEach(func() {
				repo.links = []*apigateway.VpcLink{{ID: "vl-old", Name: "mylink", TargetARNs: []string{"arnA"}, Status: "FAILED"}}
			})

			It("replaces it by default", func() {
				repo.statuses = []string{"DELETING", "NOT_FOUND"}

				result, err := uc.SyncVpcLink(ctx, spec, noWait)

				Expect(err).NotTo(HaveOccurred())
				Expect(result.Changed).To(BeTrue())
				Expect(repo.deleteCalls).To(Equal([]string{"vl-old"}))
				Expect(repo.createCalls).To(Equal(1))
				Expect(result.Link.ID).NotTo(Equal("vl-old"))
				Expect(clk.sleeps).To(HaveLen(1))
			})

			It("keeps waiting while the deleted link still reports FAILED", func() {
				repo.statuses = []string{"FAILED", "FAILED", "NOT_FOUND"}

				result, err := uc.SyncVpcLink(ctx, spec, noWait)

				Expect(err).NotTo(HaveOccurred())
				Expect(result.Changed).To(BeTrue())
				Expect(repo.deleteCalls).To(Equal([]string{"vl-old"}))
				Expect(repo.createCalls).To(Equal(1))
				Expect(clk.sleeps).To(HaveLen(2))
			})

			It("times out when the failed link never goes away", func() {
				repo.statuses = []string{"FAILED"}

				_, err := uc.SyncVpcLink(ctx, spec, apigateway.WaitOptions{Timeout: 12 * time.Second})

				Expect(errors.Is(err, apigateway.ErrTimeout)).To(BeTrue())
				Expect(repo.createCalls).To(BeZero())
			})

			It("checks the targets before deleting the failed link", func() {
				targets := &fakeNLBRepository{lbs: []*nlb.LoadBalancer{{LoadBalancerARN: "arnA", Type: nlb.TypeApplication}}}
				uc = usecase.NewVpcLinkUseCase(repo, usecase.WithClock(clk), usecase.WithTargetRepository(targets))
				spec.ValidateTargets = true

				_, err := uc.SyncVpcLink(ctx, spec, noWait)

				Expect(errors.Is(err, apigateway.ErrValidation)).To(BeTrue())
				Expect(repo.deleteCalls).To(BeEmpty())
				Expect(repo.createCalls).To(BeZero())
			})

			It("fails with a conflict when recreation is disabled", func() {
				spec.RecreateFailed = false

				_, err := uc.SyncVpcLink(ctx, spec, noWait)

				Expect(errors.Is(err, apigateway.ErrFailedExists)).To(BeTrue())
				Expect(errors.Is(err, apigateway.ErrConflict)).To(BeTrue())
				Expect(repo.deleteCalls).To(BeEmpty())
				Expect(repo.createCalls).To(BeZero())
			})
		})

		It("waits for a new link to become AVAILABLE", func() {
			repo.statuses = []string{"PENDING", "PENDING", "AVAILABLE"}

			result, err := uc.SyncVpcLink(ctx, spec, apigateway.WaitOptions{Enabled: true, Timeout: 300 * time.Second})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Changed).To(BeTrue())
			Expect(result.Link.Status).To(Equal("AVAILABLE"))
			Expect(clk.sleeps).To(Equal([]time.Duration{5 * time.Second, 5 * time.Second}))
		})

		It("reports a FAILED link after create as an error", func() {
			repo.statuses = []string{"PENDING", "FAILED"}

			_, err := uc.SyncVpcLink(ctx, spec, apigateway.WaitOptions{Enabled: true})

			Expect(errors.Is(err, apigateway.ErrLinkFailed)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("VPC link status: FAILED"))
			Expect(repo.createCalls).To(Equal(1))
		})

		It("reports a timeout after create as an error", func() {
			_, err := uc.SyncVpcLink(ctx, spec, apigateway.WaitOptions{Enabled: true, Timeout: 12 * time.Second})

			Expect(errors.Is(err, apigateway.ErrTimeout)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("TIMEOUT"))
		})

		It("rejects an invalid spec before listing", func() {
			repo.listErr = errors.New("should not be called")
			spec.TargetARNs = nil

			_, err := uc.SyncVpcLink(ctx, spec, noWait)

			Expect(errors.Is(err, apigateway.ErrValidation)).To(BeTrue())
		})

		It("propagates listing errors without creating", func() {
			repo.listErr = &apigateway.TransportError{Op: "list VPC links", Err: errors.New("connection reset")}

			_, err := uc.SyncVpcLink(ctx, spec, noWait)

			Expect(errors.Is(err, apigateway.ErrTransport)).To(BeTrue())
			Expect(repo.createCalls).To(BeZero())
		})

		Context("with target validation", func() {
			var targets *fakeNLBRepository

			BeforeEach(func() {
				targets = &fakeNLBRepository{}
				uc = usecase.NewVpcLinkUseCase(repo, usecase.WithClock(clk), usecase.WithTargetRepository(targets))
				spec.ValidateTargets = true
			})

			It("creates the link when every target is a network load balancer", func() {
				targets.lbs = []*nlb.LoadBalancer{{LoadBalancerARN: "arnA", Type: nlb.TypeNetwork, State: nlb.StateActive}}

				result, err := uc.SyncVpcLink(ctx, spec, noWait)

				Expect(err).NotTo(HaveOccurred())
				Expect(result.Changed).To(BeTrue())
			})

			It("rejects an application load balancer", func() {
				targets.lbs = []*nlb.LoadBalancer{{LoadBalancerARN: "arnA", Type: nlb.TypeApplication}}

				_, err := uc.SyncVpcLink(ctx, spec, noWait)

				Expect(errors.Is(err, apigateway.ErrValidation)).To(BeTrue())
				Expect(errors.Is(err, nlb.ErrNotNetworkLoadBalancer)).To(BeTrue())
				Expect(repo.createCalls).To(BeZero())
			})

			It("rejects a failed network load balancer", func() {
				targets.lbs = []*nlb.LoadBalancer{{LoadBalancerARN: "arnA", Type: nlb.TypeNetwork, State: nlb.StateFailed}}

				_, err := uc.SyncVpcLink(ctx, spec, noWait)

				Expect(errors.Is(err, apigateway.ErrValidation)).To(BeTrue())
				Expect(errors.Is(err, nlb.ErrLoadBalancerNotActive)).To(BeTrue())
				Expect(repo.createCalls).To(BeZero())
			})

			It("rejects an unknown target", func() {
				targets.err = nlb.ErrLoadBalancerNotFound

				_, err := uc.SyncVpcLink(ctx, spec, noWait)

				Expect(errors.Is(err, apigateway.ErrValidation)).To(BeTrue())
				Expect(repo.createCalls).To(BeZero())
			})
		})
	})

	Describe("DeleteVpcLink", func() {
		BeforeEach(func() {
			repo.links = []*apigateway.VpcLink{{ID: "vl-1", Name: "mylink", TargetARNs: []string{"arnA"}, Status: "AVAILABLE"}}
		})

		It("deletes an existing link", func() {
			changed, err := uc.DeleteVpcLink(ctx, "vl-1", noWait)

			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeTrue())
			Expect(repo.deleteCalls).To(Equal([]string{"vl-1"}))
		})

		It("treats a missing link as already deleted", func() {
			changed, err := uc.DeleteVpcLink(ctx, "vl-missing", noWait)

			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeFalse())
		})

		It("requires an id", func() {
			_, err := uc.DeleteVpcLink(ctx, "", noWait)

			Expect(errors.Is(err, apigateway.ErrInvalidID)).To(BeTrue())
		})

		It("waits until the link is gone", func() {
			repo.statuses = []string{"DELETING", "AVAILABLE", "NOT_FOUND"}

			changed, err := uc.DeleteVpcLink(ctx, "vl-1", apigateway.WaitOptions{Enabled: true})

			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeTrue())
			Expect(clk.sleeps).To(HaveLen(2))
		})

		It("reports a timeout while deleting", func() {
			repo.statuses = []string{"DELETING"}

			changed, err := uc.DeleteVpcLink(ctx, "vl-1", apigateway.WaitOptions{Enabled: true, Timeout: 20 * time.Second})

			Expect(changed).To(BeTrue())
			Expect(errors.Is(err, apigateway.ErrTimeout)).To(BeTrue())
		})
	})

	Describe("ListVpcLinks", func() {
		It("returns links in listing order", func() {
			repo.links = []*apigateway.VpcLink{{ID: "vl-1"}, {ID: "vl-2"}}

			links, err := uc.ListVpcLinks(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(links).To(HaveLen(2))
			Expect(links[0].ID).To(Equal("vl-1"))
			Expect(links[1].ID).To(Equal("vl-2"))
		})
	})
})
