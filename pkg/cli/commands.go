package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"apigw-modules/internal/domain/apigateway"
	awsprovider "apigw-modules/pkg/aws"
	"apigw-modules/pkg/mapper"
	"apigw-modules/pkg/metrics"
	"apigw-modules/pkg/module"
)

func newMethodFactsCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "method-facts [args-file]",
		Short: "Fetch the configuration of a REST API method",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := &module.MethodFactsParams{}
			return r.run(cmd, metrics.ModuleMethodFacts, params, args, func(ctx context.Context, provider *awsprovider.ProviderConfig) (*module.Result, error) {
				uc, err := r.factory.GetMethodUseCase(ctx, provider)
				if err != nil {
					return nil, err
				}

				method, err := uc.GetMethod(ctx, mapper.ParamsToDomainMethodQuery(params))
				if err != nil {
					return nil, err
				}
				return &module.Result{Changed: false, Msg: mapper.DomainToDocumentMethod(method)}, nil
			})
		},
	}

	flags := cmd.Flags()
	addCommonFlags(flags)
	flags.String("rest-api-id", "", "ID of the REST API")
	flags.String("resource-id", "", "ID of the resource")
	flags.String("http-method", "", "HTTP method (GET, PUT, POST, DELETE, PATCH, HEAD, ANY, OPTIONS)")

	return cmd
}

func newVpcLinkCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vpc-link [args-file]",
		Short: "Create or delete a VPC link for network load balancers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := &module.VpcLinkParams{}
			return r.run(cmd, metrics.ModuleVpcLink, params, args, func(ctx context.Context, provider *awsprovider.ProviderConfig) (*module.Result, error) {
				uc, err := r.factory.GetVpcLinkUseCase(ctx, provider)
				if err != nil {
					return nil, err
				}

				wait := mapper.ParamsToDomainWaitOptions(params)
				if params.State == apigateway.StateAbsent {
					changed, err := uc.DeleteVpcLink(ctx, params.ID, wait)
					if err != nil {
						return nil, err
					}
					return &module.Result{Changed: changed, Msg: mapper.DeletedVpcLinkDocument(params.ID)}, nil
				}

				result, err := uc.SyncVpcLink(ctx, mapper.ParamsToDomainVpcLinkSpec(params), wait)
				if err != nil {
					return nil, err
				}
				return &module.Result{
					Changed:  result.Changed,
					Msg:      mapper.DomainToDocumentVpcLink(result.Link),
					Warnings: result.Warnings,
				}, nil
			})
		},
	}

	flags := cmd.Flags()
	addCommonFlags(flags)
	flags.String("name", "", "Name of the VPC link")
	flags.StringSlice("target-arns", nil, "ARNs of the network load balancers")
	flags.String("description", "", "Description of the VPC link")
	flags.String("state", "", "Desired state (present or absent)")
	flags.String("id", "", "ID of the VPC link to delete")
	flags.StringToString("tags", nil, "Tags to apply on create")
	flags.Bool("wait", false, "Wait for the link to become AVAILABLE or be deleted")
	flags.Int("wait-timeout", 0, "Seconds to wait (default 300)")
	flags.Bool("recreate-failed", true, "Replace a FAILED link with the same name and targets")
	flags.Bool("validate-targets", false, "Check that every target is a network load balancer before creating")

	return cmd
}

func newVpcLinksFactsCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vpc-links-facts [args-file]",
		Short: "List the VPC links of the account and region",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := &module.VpcLinksFactsParams{}
			return r.run(cmd, metrics.ModuleVpcLinksFacts, params, args, func(ctx context.Context, provider *awsprovider.ProviderConfig) (*module.Result, error) {
				uc, err := r.factory.GetVpcLinkUseCase(ctx, provider)
				if err != nil {
					return nil, err
				}

				links, err := uc.ListVpcLinks(ctx)
				if err != nil {
					return nil, err
				}
				return &module.Result{Changed: false, Msg: mapper.DomainToDocumentVpcLinks(links)}, nil
			})
		},
	}

	addCommonFlags(cmd.Flags())

	return cmd
}

// addCommonFlags registers the args file and the connection params.
func addCommonFlags(flags *pflag.FlagSet) {
	flags.String("args-file", "", "Path to a JSON or YAML args file")
	flags.String("region", "", "AWS region")
	flags.String("endpoint-url", "", "AWS endpoint URL")
	flags.String("aws-access-key", "", "AWS access key ID")
	flags.String("aws-secret-key", "", "AWS secret access key")
	flags.String("security-token", "", "AWS session token")
	flags.String("profile", "", "AWS shared config profile")
	flags.String("assume-role-arn", "", "ARN of a role to assume")
}
