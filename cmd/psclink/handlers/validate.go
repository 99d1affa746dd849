package handlers

import (
	"fmt"

	"github.com/imamik/psclink/internal/provisioning"
)

// Validate loads the configuration and reports every error and warning
// without contacting the engine.
func Validate(configPath string) error {
	if configPath == "" {
		found, err := findConfigFile()
		if err != nil {
			return fmt.Errorf("no config given and %w", err)
		}
		configPath = found
	}

	cfg, err := loadConfigUnvalidated(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	errs, warnings := provisioning.Split(provisioning.Validate(cfg))
	for _, w := range warnings {
		fmt.Fprintf(stdout, "  %s\n", w.Error())
	}
	for _, e := range errs {
		fmt.Fprintf(stdout, "  %s\n", e.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s has %d error(s)", configPath, len(errs))
	}

	fmt.Fprintf(stdout, "%s is valid (%d warning(s)): stack %s in %s\n", configPath, len(warnings), cfg.StackName(), cfg.Region)
	return nil
}
