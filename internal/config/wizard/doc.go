// Package wizard provides the interactive setup wizard behind psclink init.
//
// RunWizard asks for the topology identity, both projects, the service image
// and the address blocks using charmbracelet/huh forms. BuildConfig expands
// the answers into a complete Config using the default subnet layout, and
// WriteConfig writes the result as YAML with a descriptive header.
package wizard
