package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/psclink/internal/provisioning"
)

// Runner executes the provisioning pipeline, reporting through obs. It
// returns the stack outputs on success.
type Runner func(obs provisioning.Observer) (map[string]any, error)

// RunApplyTUI wraps an apply pipeline with a Bubble Tea TUI.
func RunApplyTUI(name, region string, phases []string, run Runner) error {
	return runProgram(NewApplyModel(name, region, phases), run)
}

// RunDestroyTUI wraps a destroy pipeline with a Bubble Tea TUI.
func RunDestroyTUI(name, region string, phases []string, run Runner) error {
	return runProgram(NewDestroyModel(name, region, phases), run)
}

func runProgram(m Model, run Runner) error {
	p := tea.NewProgram(m, tea.WithAltScreen())

	go func() {
		outputs, err := run(NewProgramObserver(p.Send))
		if err != nil {
			p.Send(ErrMsg{Err: err})
			return
		}
		p.Send(OutputsMsg{Outputs: outputs})
		p.Send(DoneMsg{})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	fm := finalModel.(Model)
	if fm.Err != nil {
		return fm.Err
	}
	if !fm.Done {
		return fmt.Errorf("interrupted")
	}
	return nil
}

// ProgramObserver forwards provisioning events to a Bubble Tea program.
type ProgramObserver struct {
	send func(tea.Msg)
}

var _ provisioning.Observer = (*ProgramObserver)(nil)

// NewProgramObserver creates an observer that delivers messages via send,
// usually tea.Program.Send.
func NewProgramObserver(send func(tea.Msg)) *ProgramObserver {
	return &ProgramObserver{send: send}
}

// Printf implements provisioning.Logger.
func (o *ProgramObserver) Printf(format string, v ...interface{}) {
	o.send(LogMsg{Line: fmt.Sprintf(format, v...)})
}

// Event implements provisioning.Observer.
func (o *ProgramObserver) Event(e provisioning.Event) {
	switch e.Type {
	case provisioning.EventPhaseStarted:
		o.send(PhaseMsg{Phase: phaseName(e.Phase)})
	case provisioning.EventPhaseCompleted:
		o.send(PhaseMsg{Phase: phaseName(e.Phase), Done: true})
	case provisioning.EventPhaseFailed:
		o.send(PhaseMsg{Phase: phaseName(e.Phase), Err: fmt.Errorf("%s", strings.TrimPrefix(e.Message, "failed: "))})
	case provisioning.EventProgress:
	default:
		o.send(ResourceMsg{Event: e})
	}
}

// Progress implements provisioning.Observer.
func (o *ProgramObserver) Progress(string, int, int) {}

// WithFields implements provisioning.Observer.
func (o *ProgramObserver) WithFields(map[string]string) provisioning.Observer {
	return o
}

// phaseName strips the "(i/n)" position the pipeline appends.
func phaseName(phase string) string {
	if i := strings.Index(phase, " ("); i >= 0 {
		return phase[:i]
	}
	return phase
}
