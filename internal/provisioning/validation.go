package provisioning

import (
	"fmt"
	"slices"
	"strings"

	"github.com/imamik/psclink/internal/config"
	"github.com/imamik/psclink/internal/util/naming"
)

// Validation severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError represents a configuration validation error or warning.
type ValidationError struct {
	Field    string // Configuration field that failed validation
	Message  string // Human-readable error message
	Severity string // "error" or "warning"
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return fmt.Sprintf("[%s] %s", ve.Severity, ve.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", ve.Severity, ve.Field, ve.Message)
}

// IsError returns true if this is an error (not a warning).
func (ve ValidationError) IsError() bool {
	return ve.Severity == SeverityError
}

// ValidationPhase implements the Phase interface for pre-flight validation.
type ValidationPhase struct{}

// NewValidationPhase creates a new validation phase.
func NewValidationPhase() *ValidationPhase {
	return &ValidationPhase{}
}

// Name implements the Phase interface.
func (vp *ValidationPhase) Name() string {
	return "validation"
}

// Provision implements the Phase interface.
func (vp *ValidationPhase) Provision(ctx *Context) error {
	ctx.Observer.Printf("[Validation] Running pre-flight validation...")

	errs, warnings := Split(Validate(ctx.Config))

	for _, warning := range warnings {
		LogValidationWarning(ctx.Observer, warning.Field, warning.Message)
	}

	if len(errs) > 0 {
		errMsgs := make([]string, 0, len(errs))
		for _, e := range errs {
			errMsgs = append(errMsgs, e.Error())
		}
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(errMsgs, "\n  "))
	}

	ctx.Observer.Printf("[Validation] Validation passed")
	return nil
}

// Validate runs the configuration checks and the advisory checks and
// returns every error and warning.
func Validate(cfg *config.Config) []ValidationError {
	var out []ValidationError

	if err := cfg.Validate(); err != nil {
		for _, e := range unjoin(err) {
			out = append(out, ValidationError{Message: e.Error(), Severity: SeverityError})
		}
	}

	out = append(out, overlapWarnings(cfg, naming.SideProducer)...)
	out = append(out, overlapWarnings(cfg, naming.SideConsumer)...)

	if cfg.Producer.LoadBalancer.ProxySubnet == "" {
		out = append(out, ValidationError{
			Field:    "producer.load_balancer.proxy_subnet",
			Message:  "no proxy-only subnet referenced; the forwarding rule relies on one existing in the region",
			Severity: SeverityWarning,
		})
	}

	att := cfg.Producer.Attachment
	if att.ConnectionPreference == config.DefaultConnectionPreference && cfg.Consumer.Project != "" &&
		!slices.Contains(att.AcceptProjects, cfg.Consumer.Project) {
		out = append(out, ValidationError{
			Field:    "producer.attachment.accept_projects",
			Message:  fmt.Sprintf("consumer project %s is not accepted; the endpoint will stay pending", cfg.Consumer.Project),
			Severity: SeverityWarning,
		})
	}

	return out
}

// Split separates errors from warnings.
func Split(all []ValidationError) (errs, warnings []ValidationError) {
	for _, ve := range all {
		if ve.IsError() {
			errs = append(errs, ve)
		} else {
			warnings = append(warnings, ve)
		}
	}
	return errs, warnings
}

// overlapWarnings reports subnets of one VPC whose ranges overlap. The
// provider rejects them; reporting early saves a failed update.
func overlapWarnings(cfg *config.Config, side string) []ValidationError {
	var out []ValidationError
	subnets := cfg.Network(side).Subnets
	for i := 0; i < len(subnets); i++ {
		for j := i + 1; j < len(subnets); j++ {
			overlap, err := config.CIDROverlaps(subnets[i].CIDR, subnets[j].CIDR)
			if err != nil || !overlap {
				continue
			}
			out = append(out, ValidationError{
				Field: fmt.Sprintf("%s.network.subnets", side),
				Message: fmt.Sprintf("subnets %s (%s) and %s (%s) overlap",
					subnets[i].Name, subnets[i].CIDR, subnets[j].Name, subnets[j].CIDR),
				Severity: SeverityWarning,
			})
		}
	}
	return out
}

// unjoin flattens an errors.Join tree into its leaves.
func unjoin(err error) []error {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	var out []error
	for _, e := range joined.Unwrap() {
		out = append(out, unjoin(e)...)
	}
	return out
}
