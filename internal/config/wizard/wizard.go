package wizard

import (
	"context"
	"fmt"
)

// WizardResult holds all the answers from the interactive wizard.
type WizardResult struct {
	// Identity
	Name   string
	Region string

	// Projects
	ProducerProject string
	ConsumerProject string

	// Service
	Image    string
	Invokers []string

	// Address blocks the default subnets are carved from
	ProducerBlock string
	ConsumerBlock string

	// Connection
	ConnectionPreference string

	// Private DNS (optional, empty domain skips the zone)
	DNSDomain string
	DNSRecord string

	// State backend (optional, empty uses the engine's default login)
	BackendURL string
}

// RunWizard runs the interactive configuration wizard.
// If advanced is true, the connection, DNS and backend questions are shown.
// The context is used for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context, advanced bool) (*WizardResult, error) {
	result := &WizardResult{
		Region:               DefaultRegion,
		Image:                DefaultImage,
		ProducerBlock:        DefaultProducerBlock,
		ConsumerBlock:        DefaultConsumerBlock,
		ConnectionPreference: PreferenceManual,
	}

	if err := runIdentityGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("identity: %w", err)
	}

	if err := runProjectsGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("projects: %w", err)
	}

	if err := runServiceGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}

	if err := runNetworkGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("network: %w", err)
	}

	if advanced {
		if err := runConnectionGroup(ctx, result); err != nil {
			return nil, fmt.Errorf("connection: %w", err)
		}

		if err := runDNSGroup(ctx, result); err != nil {
			return nil, fmt.Errorf("dns: %w", err)
		}

		if err := runBackendGroup(ctx, result); err != nil {
			return nil, fmt.Errorf("backend: %w", err)
		}
	}

	return result, nil
}
