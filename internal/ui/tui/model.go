package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/psclink/internal/provisioning"
	"github.com/imamik/psclink/internal/ui/benchmarks"
)

// maxDiagnostics bounds the diagnostics kept for display.
const maxDiagnostics = 5

// PhaseRow is a provisioning phase for display.
type PhaseRow struct {
	Name   string
	Done   bool
	Active bool
	Err    error
}

// ResourceState is the display state of a resource.
type ResourceState int

// Resource states.
const (
	ResourcePlanned ResourceState = iota
	ResourceActive
	ResourceDone
	ResourceFailed
)

// ResourceRow is one resource of the topology for display.
type ResourceRow struct {
	Name    string
	Type    string
	Op      string
	State   ResourceState
	Started time.Time
	Ended   time.Time
}

// Model is the Bubble Tea model for the deployment TUI.
type Model struct {
	// Topology info
	Name   string
	Region string

	Phases    []PhaseRow
	Resources []ResourceRow
	index     map[string]int

	Diagnostics []string
	LastLine    string
	Outputs     map[string]any

	// ETA
	EstimatedRemaining time.Duration
	PerformanceScale   float64
	StartTime          time.Time

	// Animation
	SpinnerFrame int

	// UI state
	Width  int
	Height int
	Err    error
	Done   bool

	// Mode
	Mode string // "apply", "destroy"
}

// NewApplyModel creates a model for the apply command TUI.
func NewApplyModel(name, region string, phases []string) Model {
	return newModel(name, region, "apply", phases)
}

// NewDestroyModel creates a model for the destroy command TUI.
func NewDestroyModel(name, region string, phases []string) Model {
	return newModel(name, region, "destroy", phases)
}

func newModel(name, region, mode string, phases []string) Model {
	m := Model{
		Name:             name,
		Region:           region,
		StartTime:        time.Now(),
		Mode:             mode,
		PerformanceScale: 1.0,
		index:            make(map[string]int),
	}
	for _, p := range phases {
		m.Phases = append(m.Phases, PhaseRow{Name: p})
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case PhaseMsg:
		m.updatePhase(msg)
		if msg.Err != nil {
			m.Err = msg.Err
			return m, tea.Quit
		}

	case ResourceMsg:
		m.updateResource(msg.Event)

	case LogMsg:
		m.LastLine = msg.Line

	case OutputsMsg:
		m.Outputs = msg.Outputs

	case TickMsg:
		m.SpinnerFrame++
		m.updateETA(time.Now())
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		for i := range m.Phases {
			m.Phases[i].Done = true
			m.Phases[i].Active = false
		}
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) updatePhase(msg PhaseMsg) {
	idx := -1
	for i, phase := range m.Phases {
		if phase.Name == msg.Phase {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	// Mark previous phases as done
	for i := 0; i < idx; i++ {
		m.Phases[i].Done = true
		m.Phases[i].Active = false
	}

	if msg.Done {
		m.Phases[idx].Done = true
		m.Phases[idx].Active = false
	} else {
		m.Phases[idx].Active = true
	}

	if msg.Err != nil {
		m.Phases[idx].Err = msg.Err
		m.Phases[idx].Done = false
		m.Phases[idx].Active = false
	}
}

func (m *Model) updateResource(e provisioning.Event) {
	switch e.Type {
	case provisioning.EventDiagnostic, provisioning.EventValidationWarning, provisioning.EventValidationError:
		m.addDiagnostic(e)
		return
	}

	if e.Resource == "" {
		return
	}
	if m.index == nil {
		m.index = make(map[string]int)
	}

	idx, known := m.index[e.Resource]
	if !known {
		// Unchanged resources are only shown when the preview planned them.
		if e.Type == provisioning.EventResourceExists {
			return
		}
		m.Resources = append(m.Resources, ResourceRow{Name: e.Resource})
		idx = len(m.Resources) - 1
		m.index[e.Resource] = idx
	}

	row := &m.Resources[idx]
	if t := e.Fields["type"]; t != "" {
		row.Type = t
	}
	if op := e.Fields["op"]; op != "" {
		row.Op = op
	}

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	switch {
	case e.Fields["planning"] == "true":
		row.State = ResourcePlanned
	case e.Type == provisioning.EventResourceFailed:
		row.State = ResourceFailed
		row.Ended = ts
	case e.Type.IsTerminal():
		row.State = ResourceDone
		row.Ended = ts
		if row.Started.IsZero() {
			row.Started = ts
		}
	default:
		row.State = ResourceActive
		row.Started = ts
	}
}

func (m *Model) addDiagnostic(e provisioning.Event) {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		return
	}
	if e.Resource != "" {
		msg = e.Resource + ": " + msg
	}
	m.Diagnostics = append(m.Diagnostics, msg)
	if len(m.Diagnostics) > maxDiagnostics {
		m.Diagnostics = m.Diagnostics[len(m.Diagnostics)-maxDiagnostics:]
	}
}

// counts returns the number of finished resources and the number tracked.
func (m Model) counts() (finished, total int) {
	for _, r := range m.Resources {
		if r.State == ResourceDone || r.State == ResourceFailed {
			finished++
		}
	}
	return finished, len(m.Resources)
}

func (m *Model) updateETA(now time.Time) {
	var pendingTypes []string
	var active, completed []benchmarks.Step
	for _, r := range m.Resources {
		step := benchmarks.Step{Type: r.Type, Started: r.Started, Ended: r.Ended}
		switch r.State {
		case ResourcePlanned:
			pendingTypes = append(pendingTypes, r.Type)
		case ResourceActive:
			active = append(active, step)
		case ResourceDone:
			completed = append(completed, step)
		}
	}
	if len(pendingTypes) == 0 && len(active) == 0 {
		m.EstimatedRemaining = 0
		return
	}

	m.PerformanceScale = benchmarks.PerformanceScale(completed)
	m.EstimatedRemaining = benchmarks.EstimateRemaining(pendingTypes, active, now, m.PerformanceScale)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
