package wizard

import (
	"context"
	"net/netip"
	"regexp"
	"strings"

	"github.com/charmbracelet/huh"
)

var (
	nameRegex    = regexp.MustCompile(`^[a-z](?:[a-z0-9-]{0,38}[a-z0-9])?$`)
	projectRegex = regexp.MustCompile(`^[a-z][a-z0-9-]{4,28}[a-z0-9]$`)
)

// runIdentityGroup prompts for topology name and region.
func runIdentityGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Topology Name").
				Description("Prefix for every resource name").
				Placeholder("orders").
				Value(&result.Name).
				Validate(validateName),
			huh.NewSelect[string]().
				Title("Region").
				Description("Region shared by the producer and consumer").
				Options(RegionsToOptions()...).
				Value(&result.Region),
		).Title("Topology"),
	).RunWithContext(ctx)
}

// runProjectsGroup prompts for the two projects.
func runProjectsGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Producer Project").
				Description("Project that runs the service and publishes it").
				Placeholder("acme-orders-prod").
				Value(&result.ProducerProject).
				Validate(validateProject),
			huh.NewInput().
				Title("Consumer Project").
				Description("Project that reaches the service through Private Service Connect").
				Placeholder("acme-shop-prod").
				Value(&result.ConsumerProject).
				Validate(validateProject),
		).Title("Projects"),
	).RunWithContext(ctx)
}

// runServiceGroup prompts for the container image and invokers.
func runServiceGroup(ctx context.Context, result *WizardResult) error {
	var invokersInput string

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Container Image").
				Description("Image deployed as the Cloud Run service").
				Value(&result.Image).
				Validate(validateImage),
			huh.NewInput().
				Title("Invokers (Optional)").
				Description("Comma-separated IAM members allowed to invoke the service").
				Placeholder("allUsers, serviceAccount:caller@acme.iam.gserviceaccount.com").
				Value(&invokersInput),
		).Title("Service"),
	).RunWithContext(ctx)

	if err != nil {
		return err
	}

	result.Invokers = parseList(invokersInput)
	return nil
}

// runNetworkGroup prompts for the address blocks.
func runNetworkGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Producer Address Block").
				Description("Frontend, proxy-only and PSC NAT /24 subnets are carved from this block").
				Value(&result.ProducerBlock).
				Validate(validateBlock),
			huh.NewInput().
				Title("Consumer Address Block").
				Description("The endpoint /24 subnet is carved from this block").
				Value(&result.ConsumerBlock).
				Validate(validateBlock),
		).Title("Network"),
	).RunWithContext(ctx)
}

// runConnectionGroup prompts for the attachment's connection preference.
func runConnectionGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Connection Acceptance").
				Options(ConnectionPreferenceOptions...).
				Value(&result.ConnectionPreference),
		).Title("Private Service Connect"),
	).RunWithContext(ctx)
}

// runDNSGroup prompts for the optional private DNS zone.
func runDNSGroup(ctx context.Context, result *WizardResult) error {
	result.DNSRecord = "api"

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Private DNS Domain (Optional)").
				Description("Zone in the consumer network, e.g. orders.internal. Leave empty to skip.").
				Value(&result.DNSDomain).
				Validate(validateDomain),
			huh.NewInput().
				Title("Record Name").
				Value(&result.DNSRecord),
		).Title("DNS"),
	).RunWithContext(ctx)
}

// runBackendGroup prompts for the state backend URL.
func runBackendGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("State Backend (Optional)").
				Description("file://, gs:// or s3:// URL. Leave empty to use the current pulumi login.").
				Value(&result.BackendURL),
		).Title("State"),
	).RunWithContext(ctx)
}

func validateName(s string) error {
	if s == "" {
		return errNameRequired
	}
	if !nameRegex.MatchString(s) || strings.Contains(s, "--") {
		return errNameInvalid
	}
	return nil
}

func validateProject(s string) error {
	if s == "" {
		return errProjectRequired
	}
	if !projectRegex.MatchString(s) {
		return errProjectInvalid
	}
	return nil
}

func validateImage(s string) error {
	if strings.TrimSpace(s) == "" {
		return errImageRequired
	}
	return nil
}

// validateBlock accepts IPv4 prefixes large enough for the default layout.
func validateBlock(s string) error {
	if s == "" {
		return errCIDRRequired
	}
	prefix, err := netip.ParsePrefix(s)
	if err != nil || !prefix.Addr().Is4() || prefix.Masked() != prefix || prefix.Bits() > 20 {
		return errCIDRInvalid
	}
	return nil
}

func validateDomain(s string) error {
	if s == "" {
		return nil
	}
	if !strings.HasSuffix(s, ".") || strings.HasPrefix(s, ".") || strings.Contains(s, " ") {
		return errDomainInvalid
	}
	return nil
}

// parseList parses a comma-separated list, dropping empty entries.
func parseList(input string) []string {
	parts := strings.Split(input, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
