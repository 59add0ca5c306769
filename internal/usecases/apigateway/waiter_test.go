package apigateway_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"apigw-modules/internal/domain/apigateway"
	usecase "apigw-modules/internal/usecases/apigateway"
)

var _ = Describe("AwaitStatus", func() {
	var (
		ctx  context.Context
		repo *fakeVpcLinkRepository
		clk  *sleepCounter
		uc   *usecase.VpcLinkUseCase
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &fakeVpcLinkRepository{}
		clk = newSleepCounter()
		uc = usecase.NewVpcLinkUseCase(repo, usecase.WithClock(clk))
	})

	It("returns AVAILABLE once the link is available", func() {
		repo.statuses = []string{"PENDING", "PENDING", "AVAILABLE"}

		status, link, err := uc.AwaitStatus(ctx, "vl-1", apigateway.TerminalAvailable, 300*time.Second)

		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(Equal(apigateway.TerminalAvailable))
		Expect(link.Status).To(Equal("AVAILABLE"))
		Expect(clk.sleeps).To(Equal([]time.Duration{5 * time.Second, 5 * time.Second}))
		Expect(repo.getCalls).To(Equal(3))
	})

	It("returns without sleeping when the first lookup matches", func() {
		repo.statuses = []string{"AVAILABLE"}

		status, _, err := uc.AwaitStatus(ctx, "vl-1", apigateway.TerminalAvailable, 300*time.Second)

		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(Equal(apigateway.TerminalAvailable))
		Expect(clk.sleeps).To(BeEmpty())
	})

	It("returns TIMEOUT when the status never settles", func() {
		repo.statuses = []string{"PENDING"}

		status, link, err := uc.AwaitStatus(ctx, "vl-1", apigateway.TerminalAvailable, 12*time.Second)

		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(Equal(apigateway.TerminalTimeout))
		Expect(link.Status).To(Equal("PENDING"))
		Expect(clk.sleeps).To(HaveLen(3))
	})

	It("returns FAILED whatever the target is", func() {
		repo.statuses = []string{"DELETING", "FAILED"}

		status, link, err := uc.AwaitStatus(ctx, "vl-1", apigateway.TerminalNotFound, 300*time.Second)

		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(Equal(apigateway.TerminalFailed))
		Expect(link.IsFailed()).To(BeTrue())
	})

	It("returns NOT_FOUND once the link is gone", func() {
		repo.statuses = []string{"DELETING", "NOT_FOUND"}

		status, link, err := uc.AwaitStatus(ctx, "vl-1", apigateway.TerminalNotFound, 300*time.Second)

		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(Equal(apigateway.TerminalNotFound))
		Expect(link).To(BeNil())
		Expect(clk.sleeps).To(HaveLen(1))
	})

	It("returns NOT_FOUND while waiting for AVAILABLE", func() {
		repo.gone = true

		status, _, err := uc.AwaitStatus(ctx, "vl-1", apigateway.TerminalAvailable, 300*time.Second)

		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(Equal(apigateway.TerminalNotFound))
	})

	It("aborts on lookup errors", func() {
		repo.getErr = &apigateway.TransportError{Op: "get VPC link", Err: errors.New("connection refused")}

		_, _, err := uc.AwaitStatus(ctx, "vl-1", apigateway.TerminalAvailable, 300*time.Second)

		Expect(errors.Is(err, apigateway.ErrTransport)).To(BeTrue())
		Expect(repo.getCalls).To(Equal(1))
		Expect(clk.sleeps).To(BeEmpty())
	})

	It("honors a custom poll interval", func() {
		uc = usecase.NewVpcLinkUseCase(repo, usecase.WithClock(clk), usecase.WithPollInterval(time.Second))
		repo.statuses = []string{"PENDING", "AVAILABLE"}

		_, _, err := uc.AwaitStatus(ctx, "vl-1", apigateway.TerminalAvailable, 300*time.Second)

		Expect(err).NotTo(HaveOccurred())
		Expect(clk.sleeps).To(Equal([]time.Duration{time.Second}))
	})

	It("stops when the context is cancelled", func() {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		repo.statuses = []string{"PENDING"}

		_, _, err := uc.AwaitStatus(cancelled, "vl-1", apigateway.TerminalAvailable, 300*time.Second)

		Expect(err).To(MatchError(context.Canceled))
		Expect(clk.sleeps).To(BeEmpty())
	})
})
