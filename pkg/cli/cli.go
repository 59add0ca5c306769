package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"apigw-modules/internal/domain/apigateway"
	"apigw-modules/internal/ports"
	awsprovider "apigw-modules/pkg/aws"
	"apigw-modules/pkg/clients"
	"apigw-modules/pkg/metrics"
	"apigw-modules/pkg/module"
	"apigw-modules/pkg/retry"
)

// UseCaseFactory builds use cases for one module run.
type UseCaseFactory interface {
	GetVpcLinkUseCase(ctx context.Context, provider *awsprovider.ProviderConfig) (ports.VpcLinkUseCase, error)
	GetMethodUseCase(ctx context.Context, provider *awsprovider.ProviderConfig) (ports.MethodUseCase, error)
}

// runner carries what every subcommand shares.
type runner struct {
	factory     UseCaseFactory
	stdout      io.Writer
	stderr      io.Writer
	zapOpts     zap.Options
	metricsFile string
	exitCode    int
}

// moduleFunc runs one module with loaded, defaulted and validated params.
type moduleFunc func(ctx context.Context, provider *awsprovider.ProviderConfig) (*module.Result, error)

// NewRootCommand builds the apigw command tree.
func NewRootCommand(factory UseCaseFactory, stdout, stderr io.Writer) (*cobra.Command, *int) {
	r := &runner{
		factory: factory,
		stdout:  stdout,
		stderr:  stderr,
	}

	root := &cobra.Command{
		Use:   "apigw",
		Short: "API Gateway automation modules",
		Long: `apigw runs one API Gateway automation module per invocation.
Arguments come from an args file (JSON or YAML, optionally wrapped in
ANSIBLE_MODULE_ARGS) and per-parameter flags; the result is written to
stdout as a single JSON document.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := zap.New(zap.UseFlagOptions(&r.zapOpts), zap.WriteTo(r.stderr))
			log.SetLogger(logger)
			cmd.SetContext(log.IntoContext(cmd.Context(), logger))
			return nil
		},
	}
	root.SetOut(stderr)
	root.SetErr(stderr)

	goFlags := flag.NewFlagSet("zap", flag.ContinueOnError)
	r.zapOpts.BindFlags(goFlags)
	root.PersistentFlags().AddGoFlagSet(goFlags)
	root.PersistentFlags().StringVar(&r.metricsFile, "metrics-file", "", "Write run metrics to this file in Prometheus text format")

	root.AddCommand(newMethodFactsCmd(r))
	root.AddCommand(newVpcLinkCmd(r))
	root.AddCommand(newVpcLinksFactsCmd(r))

	return root, &r.exitCode
}

// run loads params, executes fn and writes the result or failure document.
// Module failures are reported on stdout and through the exit code, never as
// a command error.
func (r *runner) run(cmd *cobra.Command, name string, params module.Params, args []string, fn moduleFunc) error {
	ctx := withRunLogger(cmd.Context(), name)
	logger := log.FromContext(ctx)
	recorder := metrics.NewModuleRunRecorder(name)
	defer r.writeMetrics(logger)

	res, err := r.execute(ctx, cmd, name, params, args, fn)
	if err != nil {
		logger.Error(err, "Module failed", "kind", apigateway.KindOf(err))
		recorder.RecordError(string(apigateway.KindOf(err)))
		r.exitCode = 1
		return module.Fail(r.stdout, err)
	}

	logger.Info("Module finished", "changed", res.Changed)
	recorder.RecordSuccess(res.Changed)
	return module.Exit(r.stdout, res)
}

func (r *runner) execute(ctx context.Context, cmd *cobra.Command, name string, params module.Params, args []string, fn moduleFunc) (*module.Result, error) {
	if path := argsFilePath(cmd, args); path != "" {
		if err := module.LoadArgsFile(path, name, params); err != nil {
			return nil, err
		}
	}
	if err := applyParamFlags(cmd.LocalNonPersistentFlags(), name, params); err != nil {
		return nil, err
	}

	params.SetDefaults()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return fn(ctx, NewProviderConfig(params.Connection()))
}

func (r *runner) writeMetrics(logger logr.Logger) {
	if r.metricsFile == "" {
		return
	}
	if err := metrics.WriteTextfile(r.metricsFile); err != nil {
		logger.Error(err, "Failed to write metrics file")
	}
}

// withRunLogger tags every log line of a run with the module and a run id.
func withRunLogger(ctx context.Context, name string) context.Context {
	logger := log.FromContext(ctx).WithValues("module", name, "runID", uuid.NewString())
	return log.IntoContext(ctx, logger)
}

func argsFilePath(cmd *cobra.Command, args []string) string {
	if path, _ := cmd.Flags().GetString("args-file"); path != "" {
		return path
	}
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// Execute runs the command line args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer, factory UseCaseFactory) int {
	root, exitCode := NewRootCommand(factory, stdout, stderr)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		// Flag and usage errors still produce a failure document.
		_ = module.Fail(stdout, fmt.Errorf("%w: %v", apigateway.ErrValidation, err))
		return 1
	}
	return *exitCode
}

// Main is the entry point of the apigw binary.
func Main() {
	factory := clients.NewAWSClientFactory(retry.DefaultPolicy())
	os.Exit(Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr, factory))
}
