package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errNameRequired    = errors.New("topology name is required")
	errNameInvalid     = errors.New("topology name must be 1-40 lowercase alphanumeric characters or hyphens, starting with a letter")
	errProjectRequired = errors.New("project ID is required")
	errProjectInvalid  = errors.New("project ID must be 6-30 lowercase letters, digits or hyphens, starting with a letter")
	errImageRequired   = errors.New("container image is required")
	errCIDRRequired    = errors.New("CIDR is required")
	errCIDRInvalid     = errors.New("invalid CIDR format (expected: x.x.x.x/xx, at most /20)")
	errDomainInvalid   = errors.New("domain must be a DNS name ending with a dot")
)
