package manifest

import "fmt"

// ResourceKind distinguishes the kinds of members that can participate in
// the dependency graph.
type ResourceKind string

const (
	KindModel     ResourceKind = "model"
	KindTest      ResourceKind = "test"
	KindSeed      ResourceKind = "seed"
	KindSnapshot  ResourceKind = "snapshot"
	KindOperation ResourceKind = "operation"
	KindAnalysis  ResourceKind = "analysis"
	KindSource    ResourceKind = "source"
	KindExposure  ResourceKind = "exposure"
)

// allKinds lists every valid kind, in display order.
var allKinds = []ResourceKind{
	KindModel,
	KindTest,
	KindSeed,
	KindSnapshot,
	KindOperation,
	KindAnalysis,
	KindSource,
	KindExposure,
}

// ParseKind converts a raw string into a ResourceKind, rejecting unknown values.
func ParseKind(raw string) (ResourceKind, error) {
	for _, k := range allKinds {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown resource type %q", raw)
}

// String returns the wire form of the kind.
func (k ResourceKind) String() string {
	return string(k)
}

// Executable reports whether members of this kind carry materializable
// content of their own. Sources and exposures are reference points in the
// graph rather than units of work.
func (k ResourceKind) Executable() bool {
	return k != KindSource && k != KindExposure
}

// UnmarshalYAML implements yaml.Unmarshaler with validation.
func (k *ResourceKind) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseKind(raw)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
