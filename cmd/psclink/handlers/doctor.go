package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/imamik/psclink/internal/config"
	"github.com/imamik/psclink/internal/engine"
	s3state "github.com/imamik/psclink/internal/platform/s3"
	"github.com/imamik/psclink/internal/provisioning"
	"github.com/imamik/psclink/internal/ui/tui"
	"github.com/imamik/psclink/internal/util/async"
	"github.com/imamik/psclink/internal/util/netutil"
	"github.com/imamik/psclink/internal/util/prerequisites"
)

const (
	doctorProbeTimeout = 5 * time.Second

	envGoogleCredentials    = "GOOGLE_APPLICATION_CREDENTIALS"
	envGoogleCredentialsRaw = "GOOGLE_CREDENTIALS"
	envPassphraseFile       = "PULUMI_CONFIG_PASSPHRASE_FILE"

	gcsEndpoint = "https://storage.googleapis.com"
)

// Doctor sections.
const (
	sectionTools       = "Tools"
	sectionCredentials = "Credentials"
	sectionConfig      = "Configuration"
	sectionBackend     = "State backend"
)

// Factory function variables for doctor - can be replaced in tests.
var (
	// checkAllPrereqs checks required and optional tools.
	checkAllPrereqs = prerequisites.CheckAll

	// lookupEnv reads an environment variable.
	lookupEnv = os.LookupEnv

	// probeEndpoint checks that an endpoint URL accepts TCP connections.
	probeEndpoint = func(ctx context.Context, endpoint string) error {
		address, err := netutil.EndpointAddress(endpoint)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(ctx, doctorProbeTimeout)
		defer cancel()
		return netutil.Probe(ctx, address)
	}
)

// doctorReport is the JSON form of the doctor output.
type doctorReport struct {
	Healthy bool        `json:"healthy"`
	Checks  []tui.Check `json:"checks"`
}

// Doctor checks tools, credentials, the configuration and the reachability
// of the state backend. It fails when any check fails.
func Doctor(ctx context.Context, configPath string, jsonOutput bool) error {
	cfg, cfgChecks := configChecks(configPath)

	var toolResults, credResults, backendResults []tui.Check
	tasks := []async.Task{
		{Name: "tools", Func: func(context.Context) error {
			toolResults = toolChecks()
			return nil
		}},
		{Name: "credentials", Func: func(context.Context) error {
			credResults = credentialChecks(cfg)
			return nil
		}},
		{Name: "backend", Func: func(ctx context.Context) error {
			backendResults = backendChecks(ctx, cfg)
			return nil
		}},
	}
	if err := async.RunParallel(ctx, tasks); err != nil {
		return err
	}

	checks := make([]tui.Check, 0, len(toolResults)+len(credResults)+len(cfgChecks)+len(backendResults))
	checks = append(checks, toolResults...)
	checks = append(checks, credResults...)
	checks = append(checks, cfgChecks...)
	checks = append(checks, backendResults...)

	failed := 0
	for _, c := range checks {
		if c.Status == tui.CheckFailed {
			failed++
		}
	}

	if jsonOutput {
		data, err := json.MarshalIndent(doctorReport{Healthy: failed == 0, Checks: checks}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		fmt.Fprintln(stdout, string(data))
	} else {
		fmt.Fprint(stdout, tui.RenderDoctor("psclink doctor", checks))
	}

	if failed > 0 {
		return fmt.Errorf("%d doctor check(s) failed", failed)
	}
	return nil
}

func toolChecks() []tui.Check {
	var checks []tui.Check
	for _, r := range checkAllPrereqs().Results {
		c := tui.Check{Section: sectionTools, Name: r.Tool.Name}
		switch {
		case r.Found:
			c.Status = tui.CheckOK
			c.Detail = r.Path
			if r.Version != "" {
				c.Detail = r.Version
			}
		case r.Tool.Required:
			c.Status = tui.CheckFailed
			c.Detail = "not found, install from " + r.Tool.InstallURL
		default:
			c.Status = tui.CheckWarning
			c.Detail = "not found (optional), " + r.Tool.Description
		}
		checks = append(checks, c)
	}
	return checks
}

func credentialChecks(cfg *config.Config) []tui.Check {
	checks := []tui.Check{googleCredentials()}
	if cfg == nil {
		return checks
	}

	if cfg.Backend.SecretsProvider == config.DefaultSecretsProvider {
		c := tui.Check{Section: sectionCredentials, Name: "passphrase"}
		if hasEnv(engine.EnvPassphrase) || hasEnv(envPassphraseFile) {
			c.Status = tui.CheckOK
			c.Detail = "set"
		} else {
			c.Status = tui.CheckFailed
			c.Detail = engine.EnvPassphrase + " is required by the passphrase secrets provider"
		}
		checks = append(checks, c)
	}

	if cfg.BackendScheme() == "s3" {
		c := tui.Check{Section: sectionCredentials, Name: "state bucket keys"}
		if hasEnv(s3state.EnvAccessKey) && hasEnv(s3state.EnvSecretKey) {
			c.Status = tui.CheckOK
			c.Detail = s3state.EnvAccessKey
		} else {
			c.Status = tui.CheckWarning
			c.Detail = "not set, using the default AWS credential chain"
		}
		checks = append(checks, c)
	}

	return checks
}

func googleCredentials() tui.Check {
	c := tui.Check{Section: sectionCredentials, Name: "google credentials", Status: tui.CheckOK}
	if v, ok := lookupEnv(envGoogleCredentials); ok && v != "" {
		c.Detail = v
		return c
	}
	if hasEnv(envGoogleCredentialsRaw) {
		c.Detail = envGoogleCredentialsRaw
		return c
	}
	c.Status = tui.CheckWarning
	c.Detail = "no key configured, using application default credentials"
	return c
}

func hasEnv(key string) bool {
	v, ok := lookupEnv(key)
	return ok && v != ""
}

// configChecks loads the configuration and validates it. The returned config
// is nil when no usable file was found.
func configChecks(configPath string) (*config.Config, []tui.Check) {
	if configPath == "" {
		found, err := findConfigFile()
		if err != nil {
			return nil, []tui.Check{{Section: sectionConfig, Name: "config file", Status: tui.CheckWarning, Detail: err.Error()}}
		}
		configPath = found
	}

	cfg, err := loadConfigUnvalidated(configPath)
	if err != nil {
		return nil, []tui.Check{{Section: sectionConfig, Name: "config file", Status: tui.CheckFailed, Detail: err.Error()}}
	}

	checks := []tui.Check{{
		Section: sectionConfig,
		Name:    "config file",
		Status:  tui.CheckOK,
		Detail:  fmt.Sprintf("%s: %s in %s, stack %s", configPath, cfg.Name, cfg.Region, cfg.StackName()),
	}}

	for _, ve := range provisioning.Validate(cfg) {
		status := tui.CheckWarning
		if ve.IsError() {
			status = tui.CheckFailed
		}
		name := ve.Field
		if name == "" {
			name = "validation"
		}
		checks = append(checks, tui.Check{Section: sectionConfig, Name: name, Status: status, Detail: ve.Message})
	}

	return cfg, checks
}

func backendChecks(ctx context.Context, cfg *config.Config) []tui.Check {
	if cfg == nil {
		return nil
	}

	c := tui.Check{Section: sectionBackend, Name: "backend", Status: tui.CheckOK}
	var endpoint string
	switch cfg.BackendScheme() {
	case "":
		c.Detail = "engine default login"
		return []tui.Check{c}
	case "file":
		c.Detail = cfg.Backend.URL
		return []tui.Check{c}
	case "gs":
		endpoint = gcsEndpoint
	case "http", "https":
		endpoint = cfg.Backend.URL
	case "s3":
		opts := s3state.OptionsFromConfig(cfg)
		endpoint = opts.Endpoint
		if endpoint == "" {
			region := opts.Region
			if region == "" {
				region = s3state.DefaultRegion
			}
			endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", region)
		}
	default:
		c.Status = tui.CheckWarning
		c.Detail = "unknown scheme in " + cfg.Backend.URL
		return []tui.Check{c}
	}

	if err := probeEndpoint(ctx, endpoint); err != nil {
		c.Status = tui.CheckFailed
		c.Detail = fmt.Sprintf("%s unreachable: %v", endpoint, err)
	} else {
		c.Detail = fmt.Sprintf("%s reachable", endpoint)
	}
	return []tui.Check{c}
}
