package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"apigw-modules/internal/domain/apigateway"
	"apigw-modules/pkg/module"
)

// applyParamFlags decodes every local flag set on the command line over
// params, so flags win over the args file. A flag replaces the file's value
// whole, maps included. Flag names are the param names
// with dashes.
func applyParamFlags(flags *pflag.FlagSet, name string, params module.Params) error {
	overrides := map[string]interface{}{}
	var keys []string

	var visitErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if !f.Changed || f.Name == "args-file" || visitErr != nil {
			return
		}
		value, err := flagValue(flags, f)
		if err != nil {
			visitErr = err
			return
		}
		if value != nil {
			key := strings.ReplaceAll(f.Name, "-", "_")
			overrides[key] = value
			keys = append(keys, key)
		}
	})
	if visitErr != nil {
		return fmt.Errorf("%w: %v", apigateway.ErrValidation, visitErr)
	}
	if len(overrides) == 0 {
		return nil
	}

	data, err := yaml.Marshal(overrides)
	if err != nil {
		return fmt.Errorf("failed to encode flag arguments: %w", err)
	}
	module.ResetArgs(params, keys...)
	return module.LoadArgs(data, name, params)
}

// flagValue returns the typed value of f, or nil for a type no module
// argument uses.
func flagValue(flags *pflag.FlagSet, f *pflag.Flag) (interface{}, error) {
	switch f.Value.Type() {
	case "string":
		return flags.GetString(f.Name)
	case "stringSlice":
		return flags.GetStringSlice(f.Name)
	case "stringToString":
		return flags.GetStringToString(f.Name)
	case "bool":
		return flags.GetBool(f.Name)
	case "int":
		return flags.GetInt(f.Name)
	default:
		return nil, nil
	}
}
