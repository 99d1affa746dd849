package tui

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/psclink/internal/provisioning"
)

const typeAttachment = "gcp:compute/serviceAttachment:ServiceAttachment"

func resourceEvent(t provisioning.EventType, name string, planning bool) provisioning.Event {
	fields := map[string]string{"type": typeAttachment, "op": "create"}
	if planning {
		fields["planning"] = "true"
	}
	return provisioning.Event{Type: t, Resource: name, Fields: fields, Timestamp: time.Now()}
}

func update(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m30s"},
		{3600 * time.Second, "1h0m"},
		{3661 * time.Second, "1h1m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}

func TestShortType(t *testing.T) {
	assert.Equal(t, "compute/ServiceAttachment", shortType(typeAttachment))
	assert.Equal(t, "cloudrunv2/Service", shortType("gcp:cloudrunv2/service:Service"))
	assert.Equal(t, "weird", shortType("weird"))
}

func TestPhaseName(t *testing.T) {
	assert.Equal(t, "preview", phaseName("preview (3/4)"))
	assert.Equal(t, "up", phaseName("up"))
}

func TestModel_Phases(t *testing.T) {
	m := NewApplyModel("orders", "europe-west1", []string{"validation", "backend", "preview", "up"})

	m = update(m, PhaseMsg{Phase: "preview"})
	assert.True(t, m.Phases[0].Done)
	assert.True(t, m.Phases[1].Done)
	assert.True(t, m.Phases[2].Active)

	m = update(m, PhaseMsg{Phase: "preview", Done: true})
	assert.True(t, m.Phases[2].Done)
	assert.False(t, m.Phases[2].Active)

	next, cmd := m.Update(PhaseMsg{Phase: "up", Err: errors.New("quota exceeded")})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.EqualError(t, m.Err, "quota exceeded")
	assert.Error(t, m.Phases[3].Err)

	m = update(m, PhaseMsg{Phase: "unknown"})
	assert.Len(t, m.Phases, 4)
}

func TestModel_Resources(t *testing.T) {
	m := NewApplyModel("orders", "europe-west1", []string{"preview", "up"})

	m = update(m,
		ResourceMsg{Event: resourceEvent(provisioning.EventResourceCreating, "orders-psc", true)},
		ResourceMsg{Event: resourceEvent(provisioning.EventResourceCreating, "orders-ilb", true)},
	)
	require.Len(t, m.Resources, 2)
	assert.Equal(t, ResourcePlanned, m.Resources[0].State)
	assert.Equal(t, typeAttachment, m.Resources[0].Type)
	assert.Equal(t, "create", m.Resources[0].Op)

	m = update(m, ResourceMsg{Event: resourceEvent(provisioning.EventResourceCreating, "orders-psc", false)})
	assert.Equal(t, ResourceActive, m.Resources[0].State)

	m = update(m, ResourceMsg{Event: resourceEvent(provisioning.EventResourceCreated, "orders-psc", false)})
	assert.Equal(t, ResourceDone, m.Resources[0].State)

	m = update(m, ResourceMsg{Event: resourceEvent(provisioning.EventResourceFailed, "orders-ilb", false)})
	assert.Equal(t, ResourceFailed, m.Resources[1].State)

	finished, total := m.counts()
	assert.Equal(t, 2, finished)
	assert.Equal(t, 2, total)
}

func TestModel_UnplannedExistsIgnored(t *testing.T) {
	m := NewApplyModel("orders", "", []string{"up"})
	m = update(m, ResourceMsg{Event: resourceEvent(provisioning.EventResourceExists, "orders-producer-vpc", false)})
	assert.Empty(t, m.Resources)
}

func TestModel_Diagnostics(t *testing.T) {
	m := NewApplyModel("orders", "", []string{"up"})
	for i := 0; i < maxDiagnostics+2; i++ {
		m = update(m, ResourceMsg{Event: provisioning.Event{
			Type:     provisioning.EventDiagnostic,
			Resource: "orders-psc",
			Message:  "quota warning",
		}})
	}
	assert.Len(t, m.Diagnostics, maxDiagnostics)
	assert.Equal(t, "orders-psc: quota warning", m.Diagnostics[0])
}

func TestModel_Done(t *testing.T) {
	m := NewApplyModel("orders", "", []string{"preview", "up"})
	m = update(m,
		OutputsMsg{Outputs: map[string]any{"endpointIp": "10.20.0.2"}},
		DoneMsg{},
	)
	assert.True(t, m.Done)
	assert.True(t, m.Phases[1].Done)
	assert.Equal(t, 1.0, calculateProgress(m))

	view := m.View()
	assert.Contains(t, view, "psclink apply: orders")
	assert.Contains(t, view, "endpointIp")
	assert.Contains(t, view, "10.20.0.2")
}

func TestCalculateProgress(t *testing.T) {
	m := NewApplyModel("orders", "", []string{"preview", "up"})
	assert.Zero(t, calculateProgress(m))

	m = update(m,
		PhaseMsg{Phase: "preview", Done: true},
		ResourceMsg{Event: resourceEvent(provisioning.EventResourceCreated, "a", false)},
		ResourceMsg{Event: resourceEvent(provisioning.EventResourceCreating, "b", false)},
	)
	// half the phases, half the resources
	assert.InDelta(t, 0.5, calculateProgress(m), 0.001)
}

func TestModel_UpdateETA(t *testing.T) {
	m := NewApplyModel("orders", "", []string{"up"})
	m = update(m, ResourceMsg{Event: resourceEvent(provisioning.EventResourceCreating, "orders-psc", true)})

	m.updateETA(time.Now())
	assert.Equal(t, 5*time.Second, m.EstimatedRemaining)

	m = update(m, ResourceMsg{Event: resourceEvent(provisioning.EventResourceCreated, "orders-psc", false)})
	m.updateETA(time.Now())
	assert.Zero(t, m.EstimatedRemaining)
}

func TestProgramObserver(t *testing.T) {
	var (
		mu   sync.Mutex
		msgs []tea.Msg
	)
	obs := NewProgramObserver(func(msg tea.Msg) {
		mu.Lock()
		defer mu.Unlock()
		msgs = append(msgs, msg)
	})

	provisioning.LogPhaseStart(obs, "up (4/4)")
	obs.Event(resourceEvent(provisioning.EventResourceCreated, "orders-psc", false))
	provisioning.LogPhaseFailed(obs, "up (4/4)", errors.New("boom"))
	obs.Printf("[Up] %s", "26 create")
	obs.Progress("up", 1, 2)

	require.Len(t, msgs, 4)
	assert.Equal(t, PhaseMsg{Phase: "up"}, msgs[0])
	assert.IsType(t, ResourceMsg{}, msgs[1])
	failed := msgs[2].(PhaseMsg)
	assert.Equal(t, "up", failed.Phase)
	assert.EqualError(t, failed.Err, "boom")
	assert.Equal(t, LogMsg{Line: "[Up] 26 create"}, msgs[3])
	assert.Same(t, obs, obs.WithFields(nil))
}

func TestRenderOutputs(t *testing.T) {
	out := RenderOutputs(map[string]any{
		"serviceUri": "https://orders.run.app",
		"subnets":    map[string]any{"producer/frontend": "10.10.0.0/24"},
		"port":       80,
	})
	assert.Contains(t, out, "serviceUri")
	assert.Contains(t, out, "https://orders.run.app")
	assert.Contains(t, out, `{"producer/frontend":"10.10.0.0/24"}`)
	assert.Less(t, strings.Index(out, "port"), strings.Index(out, "serviceUri"))

	assert.Contains(t, RenderOutputs(nil), "no outputs")
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "x", FormatValue("x"))
	assert.Equal(t, "3", FormatValue(3))
	assert.Equal(t, `["a","b"]`, FormatValue([]any{"a", "b"}))
	assert.Equal(t, "1s", FormatValue(time.Second))
}

func TestRenderPlan(t *testing.T) {
	out := RenderPlan("orders", []PlanRow{
		{Type: typeAttachment, Name: "orders-psc", Side: "producer", References: []string{"orders-ilb", "orders-psc-nat"}},
	})
	assert.Contains(t, out, "compute/ServiceAttachment")
	assert.Contains(t, out, "orders-ilb, orders-psc-nat")
	assert.Contains(t, out, "1 resources")
}

func TestRenderDoctor(t *testing.T) {
	out := RenderDoctor("psclink doctor", []Check{
		{Section: "Tools", Name: "pulumi", Status: CheckOK, Detail: "v3.140.0"},
		{Section: "Tools", Name: "gcloud", Status: CheckWarning, Detail: "not found"},
		{Section: "Config", Name: "psclink.yaml", Status: CheckFailed, Detail: "invalid"},
	})
	assert.Contains(t, out, "Tools")
	assert.Contains(t, out, "v3.140.0")
	assert.Contains(t, out, "3 checks, 1 failed, 1 warnings")
	assert.Less(t, strings.Index(out, "Tools"), strings.Index(out, "Config"))
}
