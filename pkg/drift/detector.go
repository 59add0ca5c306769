package drift

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"apigw-modules/pkg/metrics"
)

// Detector defines the interface for detecting drift between desired and actual state.
type Detector interface {
	// DetectDrift compares the desired document with the actual one. Only
	// fields present in desired are checked; nested maps are compared key by
	// key in both directions.
	DetectDrift(ctx context.Context, desired, actual map[string]interface{}, resourceType, resourceID string) *Result
}

// detector is the default implementation of Detector.
type detector struct {
	config *Config
	now    func() time.Time
}

// NewDetector creates a new drift detector with the given configuration.
func NewDetector(config *Config) Detector {
	if config == nil {
		config = DefaultConfig()
	}
	return &detector{
		config: config,
		now:    time.Now,
	}
}

// DetectDrift implements the Detector interface.
func (d *detector) DetectDrift(ctx context.Context, desired, actual map[string]interface{}, resourceType, resourceID string) *Result {
	result := &Result{
		Drifts:       []DriftItem{},
		CheckedAt:    d.now(),
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}

	if !d.config.Enabled {
		return result
	}

	var drifts []DriftItem
	for field, want := range desired {
		drifts = append(drifts, d.compare(field, want, actual[field])...)
	}

	recorder := metrics.NewDriftMetricsRecorder(resourceType)
	for _, item := range drifts {
		if d.config.ShouldIgnoreField(item.Field) || !d.meetsThreshold(item.Severity) {
			continue
		}
		result.Drifts = append(result.Drifts, item)
		recorder.RecordDriftDetected(string(item.Severity))
	}

	sort.Slice(result.Drifts, func(i, j int) bool { return result.Drifts[i].Field < result.Drifts[j].Field })
	result.HasDrift = len(result.Drifts) > 0

	if result.HasDrift {
		log.FromContext(ctx).Info("Drift detected", "resourceType", resourceType, "resourceID", resourceID, "summary", result.String())
	}
	return result
}

func (d *detector) compare(path string, desired, actual interface{}) []DriftItem {
	desiredMap, desiredIsMap := asStringMap(desired)
	actualMap, actualIsMap := asStringMap(actual)

	if desiredIsMap && (actualIsMap || isEmpty(actual)) {
		var drifts []DriftItem
		for key, want := range desiredMap {
			fieldPath := path + "." + key
			got, ok := actualMap[key]
			if !ok {
				drifts = append(drifts, d.item(fieldPath, want, nil, fmt.Sprintf("%s is missing", fieldPath)))
				continue
			}
			if !valuesEqual(want, got) {
				drifts = append(drifts, d.item(fieldPath, want, got, fmt.Sprintf("%s differs", fieldPath)))
			}
		}
		for key, got := range actualMap {
			if _, ok := desiredMap[key]; !ok {
				fieldPath := path + "." + key
				drifts = append(drifts, d.item(fieldPath, nil, got, fmt.Sprintf("%s is not in the desired configuration", fieldPath)))
			}
		}
		return drifts
	}

	if valuesEqual(desired, actual) {
		return nil
	}
	return []DriftItem{d.item(path, desired, actual, fmt.Sprintf("%s differs", path))}
}

func (d *detector) item(path string, desired, actual interface{}, message string) DriftItem {
	return DriftItem{
		Field:      path,
		Desired:    desired,
		Actual:     actual,
		Severity:   d.config.severityFor(path),
		Message:    message,
		DetectedAt: d.now(),
	}
}

func (d *detector) meetsThreshold(s Severity) bool {
	if d.config.SeverityThreshold == "" {
		return true
	}
	return severityRank[s] >= severityRank[d.config.SeverityThreshold]
}

// asStringMap converts map[string]string and map[string]interface{} to a
// common form.
func asStringMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[string]string:
		out := make(map[string]interface{}, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	default:
		return nil, false
	}
}

// valuesEqual treats nil and empty values as equal, since AWS omits empty
// descriptions and tag sets.
func valuesEqual(a, b interface{}) bool {
	if isEmpty(a) && isEmpty(b) {
		return true
	}
	return reflect.DeepEqual(a, b)
}

func isEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Map, reflect.Slice:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
