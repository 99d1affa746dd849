package topology

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pulumi/pulumi/sdk/v3/go/common/resource"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/imamik/psclink/internal/config"
)

// mockIDSuffix marks identifiers handed out by the recorder, so that
// references between resources can be recognised when rendering.
const mockIDSuffix = "_id"

// PlannedResource is one resource as declared by the program.
type PlannedResource struct {
	Type       string         `json:"type"`
	Name       string         `json:"name"`
	Provider   string         `json:"provider,omitempty"`
	Properties map[string]any `json:"properties"`
	References []string       `json:"references,omitempty"`
}

// Recorder is a Pulumi mock monitor that remembers every registered
// resource. It answers with the inputs as outputs, plus placeholder values for
// the computed properties the program exports.
type Recorder struct {
	mu        sync.Mutex
	resources []pulumi.MockResourceArgs
}

// NewResource implements pulumi.MockResourceMonitor.
func (r *Recorder) NewResource(args pulumi.MockResourceArgs) (string, resource.PropertyMap, error) {
	if args.TypeToken != string(resource.RootStackType) {
		r.mu.Lock()
		r.resources = append(r.resources, args)
		r.mu.Unlock()
	}

	outputs := args.Inputs.Copy()
	if outputs == nil {
		outputs = resource.PropertyMap{}
	}
	outputs["selfLink"] = resource.NewStringProperty("https://www.googleapis.com/compute/v1/" + args.Name)

	switch args.TypeToken {
	case "gcp:cloudrunv2/service:Service":
		outputs["uri"] = resource.NewStringProperty("https://" + args.Name + ".run.app")
	case "gcp:compute/forwardingRule:ForwardingRule":
		if _, ok := outputs["ipAddress"]; !ok {
			outputs["ipAddress"] = resource.NewStringProperty("10.0.0.1")
		}
		outputs["pscConnectionId"] = resource.NewStringProperty(args.Name + "-connection")
		outputs["pscConnectionStatus"] = resource.NewStringProperty("PENDING")
	case "gcp:compute/address:Address":
		if _, ok := outputs["address"]; !ok {
			outputs["address"] = resource.NewStringProperty("10.0.0.2")
		}
	}

	return args.Name + mockIDSuffix, outputs, nil
}

// Call implements pulumi.MockResourceMonitor. The program invokes no
// functions.
func (r *Recorder) Call(args pulumi.MockCallArgs) (resource.PropertyMap, error) {
	return resource.PropertyMap{}, nil
}

// Resources returns the recorded resources sorted by name.
func (r *Recorder) Resources() []pulumi.MockResourceArgs {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]pulumi.MockResourceArgs, len(r.resources))
	copy(out, r.resources)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Find returns the recorded resource with the given type and name.
func (r *Recorder) Find(typeToken, name string) (pulumi.MockResourceArgs, bool) {
	for _, res := range r.Resources() {
		if res.TypeToken == typeToken && res.Name == name {
			return res, true
		}
	}
	return pulumi.MockResourceArgs{}, false
}

// Render runs the program for cfg against a Recorder and returns the planned
// resources, with references to other resources resolved to their names.
func Render(cfg *config.Config) ([]PlannedResource, error) {
	rec := &Recorder{}
	err := pulumi.RunErr(Define(cfg), pulumi.WithMocks("psclink", cfg.StackName(), rec))
	if err != nil {
		return nil, fmt.Errorf("failed to render topology: %w", err)
	}

	recorded := rec.Resources()
	refs := newReferenceIndex(recorded)

	planned := make([]PlannedResource, 0, len(recorded))
	for _, res := range recorded {
		p := PlannedResource{
			Type:     res.TypeToken,
			Name:     res.Name,
			Provider: providerName(res.Provider),
		}
		found := map[string]bool{}
		p.Properties = refs.resolve(res.Name, res.Inputs.Mappable(), found)
		for ref := range found {
			p.References = append(p.References, ref)
		}
		sort.Strings(p.References)
		planned = append(planned, p)
	}
	return planned, nil
}

// providerName extracts the provider's logical name from a provider
// reference of the form "<urn>::<id>".
func providerName(ref string) string {
	if ref == "" {
		return ""
	}
	urn := ref
	if i := strings.LastIndex(ref, "::"); i >= 0 {
		urn = ref[:i]
	}
	if i := strings.LastIndex(urn, "::"); i >= 0 {
		return urn[i+2:]
	}
	return urn
}

// referenceIndex recognises values that point at other recorded resources:
// recorder identifiers, compute self links and the "name" output of a
// resource, which the recorder echoes from its inputs.
type referenceIndex struct {
	names       map[string]bool
	outputNames map[string]string
}

func newReferenceIndex(recorded []pulumi.MockResourceArgs) *referenceIndex {
	idx := &referenceIndex{
		names:       make(map[string]bool, len(recorded)),
		outputNames: make(map[string]string, len(recorded)),
	}
	for _, res := range recorded {
		idx.names[res.Name] = true
	}
	for _, res := range recorded {
		v, ok := res.Inputs["name"]
		if !ok || !v.IsString() {
			continue
		}
		name := v.StringValue()
		// A resource whose logical name matches the value owns it; others
		// only echo it, like an IAM member naming its service.
		if owner, taken := idx.outputNames[name]; taken && owner == name {
			continue
		}
		idx.outputNames[name] = res.Name
	}
	return idx
}

// resolve walks a property value and replaces references with
// "ref:<name>", collecting the referenced names. References of a resource to
// itself are left as they are.
func (idx *referenceIndex) resolve(self string, v any, found map[string]bool) map[string]any {
	m, _ := idx.resolveValue(self, v, found).(map[string]any)
	return m
}

func (idx *referenceIndex) resolveValue(self string, v any, found map[string]bool) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = idx.resolveValue(self, item, found)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = idx.resolveValue(self, item, found)
		}
		return out
	case string:
		if name, ok := idx.referencedName(val); ok && name != self {
			found[name] = true
			return "ref:" + name
		}
		return val
	default:
		return val
	}
}

func (idx *referenceIndex) referencedName(s string) (string, bool) {
	if name, ok := strings.CutSuffix(s, mockIDSuffix); ok && idx.names[name] {
		return name, true
	}
	if name, ok := strings.CutPrefix(s, "https://www.googleapis.com/compute/v1/"); ok && idx.names[name] {
		return name, true
	}
	if name, ok := idx.outputNames[s]; ok {
		return name, true
	}
	return "", false
}
