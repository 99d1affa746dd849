// Package benchmarks provides timing estimates for topology resources.
package benchmarks

import (
	"time"
)

// DefaultTimings are typical create durations per resource type (seconds).
var DefaultTimings = map[string]int{
	"pulumi:providers:gcp":                                              1,
	"gcp:projects/service:Service":                                      45,
	"gcp:compute/network:Network":                                       25,
	"gcp:compute/subnetwork:Subnetwork":                                 20,
	"gcp:cloudrunv2/service:Service":                                    40,
	"gcp:cloudrunv2/serviceIamMember:ServiceIamMember":                  10,
	"gcp:compute/regionNetworkEndpointGroup:RegionNetworkEndpointGroup": 10,
	"gcp:compute/regionBackendService:RegionBackendService":             20,
	"gcp:compute/regionUrlMap:RegionUrlMap":                             10,
	"gcp:compute/regionTargetHttpProxy:RegionTargetHttpProxy":           10,
	"gcp:compute/forwardingRule:ForwardingRule":                         25,
	"gcp:compute/serviceAttachment:ServiceAttachment":                   20,
	"gcp:compute/address:Address":                                       10,
	"gcp:compute/firewall:Firewall":                                     15,
	"gcp:dns/managedZone:ManagedZone":                                   10,
	"gcp:dns/recordSet:RecordSet":                                       5,
}

// DefaultDuration is assumed for resource types without a benchmark.
const DefaultDuration = 15 * time.Second

// Concurrency approximates how many resources the engine works on at once.
const Concurrency = 4

// Step is one resource operation observed during an engine run. A zero
// Ended means the step is still in flight.
type Step struct {
	Type    string
	Started time.Time
	Ended   time.Time
}

// ExpectedDuration returns the benchmark duration for a resource type and
// whether one is known.
func ExpectedDuration(resourceType string) (time.Duration, bool) {
	secs, ok := DefaultTimings[resourceType]
	if !ok {
		return DefaultDuration, false
	}
	return time.Duration(secs) * time.Second, true
}

// EstimateRemaining returns the time left for the active steps plus the
// pending resource types, assuming Concurrency parallel operations.
func EstimateRemaining(pending []string, active []Step, now time.Time, scale float64) time.Duration {
	var longest time.Duration
	for _, s := range active {
		expected, _ := ExpectedDuration(s.Type)
		expected = time.Duration(float64(expected) * scale)
		if left := expected - now.Sub(s.Started); left > longest {
			longest = left
		}
	}

	var queued time.Duration
	for _, t := range pending {
		expected, _ := ExpectedDuration(t)
		queued += time.Duration(float64(expected) * scale)
	}

	return longest + queued/Concurrency
}

// PerformanceScale derives a speed multiplier from observed-vs-expected durations.
// Example: expected 20s, observed 30s => scale=1.5 (future ETAs are stretched by 50%).
func PerformanceScale(completed []Step) float64 {
	var expectedTotal time.Duration
	var actualTotal time.Duration

	for _, s := range completed {
		if s.Ended.IsZero() {
			continue
		}
		expected, ok := ExpectedDuration(s.Type)
		if !ok {
			continue
		}
		expectedTotal += expected
		actualTotal += s.Ended.Sub(s.Started)
	}

	if expectedTotal == 0 || actualTotal == 0 {
		return 1.0
	}

	scale := float64(actualTotal) / float64(expectedTotal)
	if scale < 0.6 {
		return 0.6
	}
	if scale > 3.0 {
		return 3.0
	}
	return scale
}

// TotalEstimate returns the estimated time to create the given resource types.
func TotalEstimate(types []string) time.Duration {
	return EstimateRemaining(types, nil, time.Time{}, 1.0)
}
