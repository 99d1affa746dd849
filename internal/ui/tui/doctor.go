package tui

import (
	"fmt"
	"strings"
)

// CheckStatus is the outcome of a doctor check.
type CheckStatus string

// Check outcomes.
const (
	CheckOK      CheckStatus = "ok"
	CheckWarning CheckStatus = "warning"
	CheckFailed  CheckStatus = "failed"
)

// Check is one doctor finding.
type Check struct {
	Section string      `json:"section"`
	Name    string      `json:"name"`
	Status  CheckStatus `json:"status"`
	Detail  string      `json:"detail,omitempty"`
}

// RenderDoctor renders doctor checks grouped by section, in the order the
// sections first appear.
func RenderDoctor(title string, checks []Check) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	var sections []string
	bySection := map[string][]Check{}
	for _, c := range checks {
		if _, ok := bySection[c.Section]; !ok {
			sections = append(sections, c.Section)
		}
		bySection[c.Section] = append(bySection[c.Section], c)
	}

	for _, s := range sections {
		b.WriteString(sectionStyle.Render("  " + s))
		b.WriteString("\n")
		for _, c := range bySection[s] {
			icon, style := checkIcon(c.Status)
			fmt.Fprintf(&b, "    %s %-28s %s\n", style(icon), style(c.Name), dimStyle.Render(c.Detail))
		}
	}

	failed, warned := 0, 0
	for _, c := range checks {
		switch c.Status {
		case CheckFailed:
			failed++
		case CheckWarning:
			warned++
		}
	}
	summary := fmt.Sprintf("  %d checks, %d failed, %d warnings", len(checks), failed, warned)
	b.WriteString(footerStyle.Render(summary))
	b.WriteString("\n")
	return b.String()
}

func checkIcon(status CheckStatus) (string, styleFunc) {
	switch status {
	case CheckOK:
		return checkMark, sf(readyStyle)
	case CheckWarning:
		return warnMark, sf(warningStyle)
	default:
		return crossMark, sf(failedStyle)
	}
}
