package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// styleFunc is a single-string styling function.
type styleFunc func(string) string

// sf wraps a lipgloss.Style into a styleFunc.
func sf(s lipgloss.Style) styleFunc {
	return func(str string) string { return s.Render(str) }
}

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	renderProgressBar(&b, m)
	renderPhases(&b, m)

	if len(m.Resources) > 0 {
		renderResources(&b, m)
	}

	if len(m.Diagnostics) > 0 {
		renderDiagnostics(&b, m)
	}

	if m.Done && len(m.Outputs) > 0 {
		b.WriteString(sectionStyle.Render("  Outputs"))
		b.WriteString("\n")
		b.WriteString(indent(RenderOutputs(m.Outputs), "    "))
	}

	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	title := fmt.Sprintf("psclink %s: %s", m.Mode, m.Name)
	if m.Region != "" {
		title += fmt.Sprintf(" (%s)", m.Region)
	}
	b.WriteString(titleStyle.Render(title))

	status := " "
	switch {
	case m.Err != nil:
		status += failedStyle.Render(fmt.Sprintf("Error: %v", m.Err))
	case m.Done:
		status += readyStyle.Render("Done")
	default:
		if phase := activePhase(m); phase != "" {
			status += activeStyle.Render(currentSpinner(m.SpinnerFrame)+" ") + warningStyle.Render(phase)
		} else {
			status += dimStyle.Render("Starting...")
		}
	}
	b.WriteString(status)
	b.WriteString("\n")
}

func renderProgressBar(b *strings.Builder, m Model) {
	progress := calculateProgress(m)
	barWidth := 40
	if m.Width > 0 && m.Width < 80 {
		barWidth = m.Width - 30
		if barWidth < 10 {
			barWidth = 10
		}
	}
	filled := int(float64(barWidth) * progress)
	if filled > barWidth {
		filled = barWidth
	}

	bar := progressBarFull.Render(strings.Repeat("█", filled)) +
		progressBarEmpty.Render(strings.Repeat("░", barWidth-filled))

	pct := int(progress * 100)
	eta := ""
	if m.EstimatedRemaining > 0 && !m.Done {
		eta = fmt.Sprintf(" ETA %s", formatDuration(m.EstimatedRemaining))
	}
	if m.PerformanceScale != 0 && m.PerformanceScale != 1.0 {
		eta += fmt.Sprintf("  speed x%.2f", m.PerformanceScale)
	}

	fmt.Fprintf(b, "  %s %d%%%s\n", bar, pct, eta)
}

func renderPhases(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Phases"))
	b.WriteString("\n")

	for _, phase := range m.Phases {
		var icon string
		var style styleFunc
		switch {
		case phase.Err != nil:
			icon = crossMark
			style = sf(failedStyle)
		case phase.Done:
			icon = checkMark
			style = sf(readyStyle)
		case phase.Active:
			icon = currentSpinner(m.SpinnerFrame)
			style = sf(activeStyle)
		default:
			icon = pending
			style = sf(dimStyle)
		}
		fmt.Fprintf(b, "    %s %s\n", style(icon), style(phase.Name))
	}
}

func renderResources(b *strings.Builder, m Model) {
	finished, total := m.counts()
	b.WriteString(sectionStyle.Render(fmt.Sprintf("  Resources %d/%d", finished, total)))
	b.WriteString("\n")

	for _, r := range m.Resources {
		icon, style := resourceIcon(r.State, m.SpinnerFrame)
		dur := ""
		switch {
		case !r.Ended.IsZero() && !r.Started.IsZero():
			dur = formatDuration(r.Ended.Sub(r.Started))
		case r.State == ResourceActive:
			dur = formatDuration(time.Since(r.Started))
		}
		fmt.Fprintf(b, "    %s %-32s %-10s %-28s %s\n",
			style(icon), style(r.Name), dimStyle.Render(r.Op), dimStyle.Render(shortType(r.Type)), dimStyle.Render(dur))
	}
}

func renderDiagnostics(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Diagnostics"))
	b.WriteString("\n")

	for _, d := range m.Diagnostics {
		fmt.Fprintf(b, "    %s %s\n", warningStyle.Render(warnMark), dimStyle.Render(d))
	}
}

func renderFooter(b *strings.Builder, m Model) {
	elapsed := formatDuration(time.Since(m.StartTime))
	parts := []string{fmt.Sprintf("elapsed: %s", elapsed)}
	if m.LastLine != "" && !m.Done {
		parts = append(parts, m.LastLine)
	}
	b.WriteString(footerStyle.Render(fmt.Sprintf("  %s  |  q: quit", strings.Join(parts, "  |  "))))
	b.WriteString("\n")
}

// Helper functions

func activePhase(m Model) string {
	for _, p := range m.Phases {
		if p.Active {
			return p.Name
		}
	}
	return ""
}

func resourceIcon(state ResourceState, frame int) (string, styleFunc) {
	switch state {
	case ResourceDone:
		return checkMark, sf(readyStyle)
	case ResourceFailed:
		return crossMark, sf(failedStyle)
	case ResourceActive:
		return currentSpinner(frame), sf(activeStyle)
	default:
		return pending, sf(dimStyle)
	}
}

// shortType turns "gcp:compute/forwardingRule:ForwardingRule" into
// "compute/ForwardingRule".
func shortType(t string) string {
	parts := strings.Split(t, ":")
	if len(parts) != 3 {
		return t
	}
	module := parts[1]
	if i := strings.Index(module, "/"); i >= 0 {
		module = module[:i]
	}
	return module + "/" + parts[2]
}

func currentSpinner(frame int) string {
	if len(spinnerFrames) == 0 {
		return spinner
	}
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

// calculateProgress weights phases at 30% and resources at 70%.
func calculateProgress(m Model) float64 {
	if m.Done {
		return 1.0
	}

	var phaseProgress float64
	if len(m.Phases) > 0 {
		done := 0
		for _, p := range m.Phases {
			if p.Done {
				done++
			}
		}
		phaseProgress = float64(done) / float64(len(m.Phases))
	}

	finished, total := m.counts()
	if total == 0 {
		return phaseProgress * 0.3
	}

	progress := phaseProgress*0.3 + float64(finished)/float64(total)*0.7
	if progress > 1.0 {
		progress = 1.0
	}
	return progress
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n") + "\n"
}
