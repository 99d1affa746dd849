// Package prerequisites provides utilities for checking required client tools.
//
// The Pulumi engine is driven through its CLI, so the pulumi binary must be
// on PATH before any preview, apply or destroy.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool represents a client tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallURL provides a URL for installation instructions.
	InstallURL string

	// VersionArgs are passed to the binary to read its version.
	VersionArgs []string
}

// DefaultTools returns the tools every engine operation needs.
func DefaultTools() []Tool {
	return []Tool{
		{
			Name:        "pulumi",
			Required:    true,
			Description: "Provisioning engine that plans and applies the resource graph",
			InstallURL:  "https://www.pulumi.com/docs/install/",
			VersionArgs: []string{"version"},
		},
	}
}

// OptionalTools returns tools that are useful but not required.
func OptionalTools() []Tool {
	return []Tool{
		{
			Name:        "gcloud",
			Required:    false,
			Description: "Provides application default credentials and PSC connection debugging",
			InstallURL:  "https://cloud.google.com/sdk/docs/install",
			VersionArgs: []string{"version"},
		},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool    Tool
	Found   bool
	Path    string
	Version string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallURL))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Check verifies that the specified tools are available.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := lookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
			result.Version = getToolVersion(path, tool.VersionArgs)
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// CheckDefault checks the default required tools.
func CheckDefault() *CheckResults {
	return Check(DefaultTools())
}

// CheckAll checks all tools (default + optional).
func CheckAll() *CheckResults {
	defaults := DefaultTools()
	optional := OptionalTools()
	all := make([]Tool, 0, len(defaults)+len(optional))
	all = append(all, defaults...)
	all = append(all, optional...)
	return Check(all)
}

// getToolVersion returns the first line of the tool's version output, or
// an empty string when it cannot be determined.
func getToolVersion(path string, args []string) string {
	if len(args) == 0 {
		args = []string{"--version"}
	}
	// #nosec G204 - path comes from LookPath on a trusted Tool definition
	output, err := exec.Command(path, args...).Output()
	if err != nil {
		return ""
	}
	lines := strings.Split(string(output), "\n")
	return strings.TrimSpace(lines[0])
}
