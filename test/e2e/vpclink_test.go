package e2e_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("VPC link modules", Ordered, func() {
	var (
		name   string
		target string
		linkID string
	)

	BeforeAll(func() {
		name = uniqueName("e2e-vpclink")
		target = fakeNLBARN(name)
	})

	AfterAll(func() {
		deleteVpcLink(linkID)
	})

	It("creates the link and waits for it", func() {
		run := runModule("vpc-link",
			"--name", name,
			"--target-arns", target,
			"--description", "e2e test",
			"--wait",
			"--wait-timeout", fmt.Sprint(int(waitTimeout.Seconds())))

		Expect(run.ExitCode).To(BeZero(), "run failed: %v", run.Doc)
		Expect(run.Doc["changed"]).To(BeTrue())

		msg := run.Msg()
		Expect(msg["name"]).To(Equal(name))
		Expect(msg["target_arns"]).To(ConsistOf(target))
		Expect(msg["status"]).To(Equal("AVAILABLE"))
		linkID, _ = msg["id"].(string)
		Expect(linkID).NotTo(BeEmpty())
	})

	It("reuses the link on a second run", func() {
		run := runModule("vpc-link", "--name", name, "--target-arns", target, "--description", "e2e test")

		Expect(run.ExitCode).To(BeZero(), "run failed: %v", run.Doc)
		Expect(run.Doc["changed"]).To(BeFalse())
		Expect(run.Msg()["id"]).To(Equal(linkID))
	})

	It("rejects the same targets under a different name", func() {
		run := runModule("vpc-link", "--name", name+"-other", "--target-arns", target)

		Expect(run.ExitCode).To(Equal(1))
		Expect(run.Doc["error_kind"]).To(Equal("conflict"))
	})

	It("lists the link", func() {
		run := runModule("vpc-links-facts")

		Expect(run.ExitCode).To(BeZero(), "run failed: %v", run.Doc)
		items, ok := run.Msg()["items"].([]interface{})
		Expect(ok).To(BeTrue())

		var ids []interface{}
		for _, item := range items {
			ids = append(ids, item.(map[string]interface{})["id"])
		}
		Expect(ids).To(ContainElement(linkID))
	})

	It("deletes the link", func() {
		run := runModule("vpc-link", "--state", "absent", "--id", linkID, "--wait")

		Expect(run.ExitCode).To(BeZero(), "run failed: %v", run.Doc)
		Expect(run.Doc["changed"]).To(BeTrue())

		run = runModule("vpc-link", "--state", "absent", "--id", linkID)
		Expect(run.ExitCode).To(BeZero(), "run failed: %v", run.Doc)
		Expect(run.Doc["changed"]).To(BeFalse())
		linkID = ""
	})
})

var _ = Describe("method-facts module", func() {
	It("reports a missing REST API as not found", func() {
		run := runModule("method-facts",
			"--rest-api-id", "doesnotexist",
			"--resource-id", "abc123",
			"--http-method", "GET")

		Expect(run.ExitCode).To(Equal(1))
		Expect(run.Doc["error_kind"]).To(Equal("not_found"))
	})
})
