package wizard

import (
	"github.com/imamik/psclink/internal/config"
)

// BuildConfig converts wizard results to a complete Config.
func BuildConfig(result *WizardResult) (*config.Config, error) {
	cfg, err := config.DefaultConfig(
		result.Name,
		result.Region,
		result.ProducerProject,
		result.ConsumerProject,
		result.Image,
		result.ProducerBlock,
		result.ConsumerBlock,
	)
	if err != nil {
		return nil, err
	}

	if len(result.Invokers) > 0 {
		cfg.Producer.Service.Invokers = result.Invokers
	}

	if result.ConnectionPreference == PreferenceAutomatic {
		cfg.Producer.Attachment.ConnectionPreference = PreferenceAutomatic
		cfg.Producer.Attachment.AcceptProjects = nil
	}

	if result.DNSDomain != "" {
		cfg.Consumer.DNS = &config.DNSConfig{
			Domain: result.DNSDomain,
			Record: result.DNSRecord,
			TTL:    config.DefaultDNSTTL,
		}
	}

	if result.BackendURL != "" {
		cfg.Backend.URL = result.BackendURL
	}

	return cfg, nil
}
