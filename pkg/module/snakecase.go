package module

import (
	"regexp"
	"slices"
	"strings"
)

var (
	pluralAcronym = regexp.MustCompile(`[A-Z]{3,}s$`)
	firstCap      = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	allCap        = regexp.MustCompile(`([a-z0-9])([A-Z]+)`)
)

// CamelToSnake converts a camelCase or PascalCase field name to snake_case.
// A trailing plural acronym is kept as one word, so "TargetARNs" becomes
// "target_arns" rather than "target_ar_ns".
func CamelToSnake(name string) string {
	s := pluralAcronym.ReplaceAllStringFunc(name, func(m string) string {
		return "_" + strings.ToLower(m)
	})
	if strings.HasPrefix(s, "_") && !strings.HasPrefix(name, "_") {
		s = s[1:]
	}
	s = firstCap.ReplaceAllString(s, "${1}_${2}")
	s = allCap.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(s)
}

// SnakeCaseKeys returns a copy of doc with every map key converted by
// CamelToSnake, descending into nested maps and lists. Values under a key in
// preserve (matched before conversion) keep their inner keys untouched.
func SnakeCaseKeys(doc map[string]interface{}, preserve ...string) map[string]interface{} {
	if doc == nil {
		return nil
	}

	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		if slices.Contains(preserve, k) {
			out[CamelToSnake(k)] = v
			continue
		}
		out[CamelToSnake(k)] = snakeCaseValue(v, preserve)
	}
	return out
}

func snakeCaseValue(v interface{}, preserve []string) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return SnakeCaseKeys(val, preserve...)
	case map[string]string:
		out := make(map[string]interface{}, len(val))
		for k, s := range val {
			out[CamelToSnake(k)] = s
		}
		return out
	case []map[string]interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = SnakeCaseKeys(item, preserve...)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = snakeCaseValue(item, preserve)
		}
		return out
	default:
		return v
	}
}
