package module

import (
	"fmt"
	"os"
	"reflect"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"apigw-modules/internal/domain/apigateway"
)

// argsEnvelope is the wrapper Ansible writes around module arguments.
type argsEnvelope struct {
	Args *yaml.Node `yaml:"ANSIBLE_MODULE_ARGS"`
}

// LoadArgsFile reads module arguments from path into out.
func LoadArgsFile(path, moduleName string, out Params) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read args file: %w", err)
	}
	return LoadArgs(data, moduleName, out)
}

// LoadArgs decodes a JSON or YAML argument document into out. The document
// may be bare or wrapped in ANSIBLE_MODULE_ARGS. Keys starting with
// "_ansible_" are ignored; any other unknown key is rejected.
func LoadArgs(data []byte, moduleName string, out Params) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("%w: failed to parse module arguments: %v", apigateway.ErrValidation, err)
	}
	if len(root.Content) == 0 {
		return nil
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: module arguments must be a mapping", apigateway.ErrValidation)
	}

	var envelope argsEnvelope
	if err := doc.Decode(&envelope); err == nil && envelope.Args != nil {
		doc = envelope.Args
	}

	if err := checkSupported(doc, moduleName, supportedKeys(reflect.TypeOf(out))); err != nil {
		return err
	}
	if err := doc.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", apigateway.ErrValidation, err)
	}
	return nil
}

func checkSupported(doc *yaml.Node, moduleName string, supported []string) error {
	var unsupported []string
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key := doc.Content[i].Value
		if strings.HasPrefix(key, "_ansible_") || slices.Contains(supported, key) {
			continue
		}
		unsupported = append(unsupported, key)
	}
	if len(unsupported) == 0 {
		return nil
	}

	sort.Strings(unsupported)
	return fmt.Errorf("%w: Unsupported parameters for (%s) module: %s. Supported parameters include: %s",
		apigateway.ErrValidation, moduleName, strings.Join(unsupported, ", "), strings.Join(supported, ", "))
}

// ResetArgs zeroes the fields of out named by keys, so a following LoadArgs
// replaces their values instead of merging into maps already loaded.
func ResetArgs(out Params, keys ...string) {
	resetFields(reflect.ValueOf(out), keys)
}

func resetFields(v reflect.Value, keys []string) {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name, opts, _ := strings.Cut(t.Field(i).Tag.Get("yaml"), ",")
		if opts == "inline" {
			resetFields(v.Field(i), keys)
			continue
		}
		if slices.Contains(keys, name) && v.Field(i).CanSet() {
			v.Field(i).SetZero()
		}
	}
}

// supportedKeys lists the yaml keys of a params struct, following inlined
// embedded structs.
func supportedKeys(t reflect.Type) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	var keys []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, opts, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if opts == "inline" {
			keys = append(keys, supportedKeys(field.Type)...)
			continue
		}
		if name == "" || name == "-" {
			continue
		}
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}
