package labels

import (
	"strings"

	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// Standard label keys for Google Cloud resources.
const (
	// KeyTopology identifies which topology a resource belongs to
	KeyTopology = "psclink-topology"

	// KeySide identifies the producer or consumer half of the topology
	KeySide = "psclink-side"

	// KeyComponent identifies the role of the resource within the topology
	KeyComponent = "psclink-component"

	// KeyManagedBy identifies the management system
	KeyManagedBy = "psclink-managed-by"
)

// Component values
const (
	ComponentService      = "service"
	ComponentLoadBalancer = "load-balancer"
	ComponentEndpoint     = "endpoint"
)

// ManagedByPsclink is the value of KeyManagedBy on every resource.
const ManagedByPsclink = "psclink"

// maxValueLength is the Google Cloud limit for label values.
const maxValueLength = 63

// LabelBuilder provides a fluent interface for building resource labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a new label builder with the topology name pre-set.
func NewLabelBuilder(topology string) *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyTopology:  Sanitize(topology),
			KeyManagedBy: ManagedByPsclink,
		},
	}
}

// WithSide adds the side label (producer or consumer).
func (lb *LabelBuilder) WithSide(side string) *LabelBuilder {
	lb.labels[KeySide] = Sanitize(side)
	return lb
}

// WithComponent adds the component label.
func (lb *LabelBuilder) WithComponent(component string) *LabelBuilder {
	lb.labels[KeyComponent] = Sanitize(component)
	return lb
}

// Merge adds all labels from the provided map. User labels never override
// the psclink- keys.
func (lb *LabelBuilder) Merge(extra map[string]string) *LabelBuilder {
	for k, v := range extra {
		if strings.HasPrefix(k, "psclink-") {
			continue
		}
		lb.labels[k] = Sanitize(v)
	}
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}

// StringMap returns the labels as a Pulumi input.
func (lb *LabelBuilder) StringMap() pulumi.StringMap {
	return pulumi.ToStringMap(lb.Build())
}

// Sanitize lowercases a label value, replaces characters Google Cloud rejects
// with '-' and truncates it to 63 characters.
func Sanitize(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	out := b.String()
	if len(out) > maxValueLength {
		out = out[:maxValueLength]
	}
	return out
}
