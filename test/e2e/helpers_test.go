package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"apigw-modules/pkg/cli"
)

const (
	// waitTimeout bounds create and delete waits
	waitTimeout = 5 * time.Minute
)

// moduleRun is the decoded output of one module invocation.
type moduleRun struct {
	ExitCode int
	Doc      map[string]interface{}
}

// Msg returns the msg document of a successful run.
func (r moduleRun) Msg() map[string]interface{} {
	msg, ok := r.Doc["msg"].(map[string]interface{})
	Expect(ok).To(BeTrue(), "msg is not a document: %v", r.Doc)
	return msg
}

// runModule runs one module through the CLI with the test connection flags.
func runModule(args ...string) moduleRun {
	if awsEndpoint != "" {
		args = append(args, "--endpoint-url", awsEndpoint)
	}
	if useLocalStack {
		args = append(args, "--aws-access-key", "test", "--aws-secret-key", "test")
	}

	var stdout, stderr bytes.Buffer
	code := cli.Execute(ctx, args, &stdout, &stderr, factory)
	GinkgoWriter.Printf("stderr:\n%s\n", stderr.String())

	var doc map[string]interface{}
	Expect(json.Unmarshal(stdout.Bytes(), &doc)).To(Succeed(), "stdout: %s", stdout.String())
	return moduleRun{ExitCode: code, Doc: doc}
}

// uniqueName generates a unique link name for testing
func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano()%100000)
}

// fakeNLBARN builds a load balancer ARN for LocalStack, which does not check
// that targets exist.
func fakeNLBARN(name string) string {
	return fmt.Sprintf("arn:aws:elasticloadbalancing:us-east-1:000000000000:loadbalancer/net/%s/50dc6c495c0c9188", name)
}

// deleteVpcLink removes a link left behind by a failed spec
func deleteVpcLink(id string) {
	if id == "" {
		return
	}
	run := runModule("vpc-link", "--state", "absent", "--id", id)
	Expect(run.ExitCode).To(BeZero(), "cleanup failed: %v", run.Doc)
}
