package wizard

import "github.com/charmbracelet/huh"

// RegionOption represents a Google Cloud region offered by the wizard.
type RegionOption struct {
	Value       string
	Description string
}

// Regions contains the regions offered in the wizard. Any other region can
// be set in the written file.
var Regions = []RegionOption{
	{Value: "europe-west1", Description: "Belgium"},
	{Value: "europe-west3", Description: "Frankfurt, Germany"},
	{Value: "europe-west4", Description: "Netherlands"},
	{Value: "europe-north1", Description: "Finland"},
	{Value: "us-central1", Description: "Iowa, USA"},
	{Value: "us-east1", Description: "South Carolina, USA"},
	{Value: "us-west1", Description: "Oregon, USA"},
	{Value: "asia-southeast1", Description: "Singapore"},
}

// Connection preferences for the service attachment.
const (
	PreferenceManual    = "ACCEPT_MANUAL"
	PreferenceAutomatic = "ACCEPT_AUTOMATIC"
)

// ConnectionPreferenceOptions lists the supported acceptance modes.
var ConnectionPreferenceOptions = []huh.Option[string]{
	huh.NewOption("Manual (accept the consumer project only)", PreferenceManual),
	huh.NewOption("Automatic (accept any project)", PreferenceAutomatic),
}

// Default answers pre-filled in the forms.
const (
	DefaultRegion        = "europe-west1"
	DefaultImage         = "us-docker.pkg.dev/cloudrun/container/hello"
	DefaultProducerBlock = "10.10.0.0/16"
	DefaultConsumerBlock = "10.20.0.0/16"
)

// RegionsToOptions converts regions to huh options.
func RegionsToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(Regions))
	for i, r := range Regions {
		opts[i] = huh.NewOption(r.Value+" ("+r.Description+")", r.Value)
	}
	return opts
}
