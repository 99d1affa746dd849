package provisioning

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	t.Parallel()
	m := NewMetrics("orders")

	m.RecordOperation("up", nil)
	m.RecordOperation("up", errors.New("boom"))
	m.RecordChanges(&OperationResult{Operation: "up", Changes: map[string]int{"create": 26}})
	m.RecordResourceEvent(Event{Type: EventResourceCreated, Phase: "up"})
	m.RecordResourceEvent(Event{Type: EventResourceCreating, Phase: "up"})
	m.ObservePhase("up", 2*time.Second, nil)

	assert.InDelta(t, 1, testutil.ToFloat64(m.operationsTotal.WithLabelValues("up", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.operationsTotal.WithLabelValues("up", "error")), 0)
	assert.InDelta(t, 26, testutil.ToFloat64(m.changes.WithLabelValues("up", "create")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.resourceEvents.WithLabelValues("up", string(EventResourceCreated))), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.resourceEvents))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()
	var m *Metrics

	m.RecordOperation("up", nil)
	m.RecordChanges(&OperationResult{})
	m.RecordResourceEvent(Event{Type: EventResourceCreated})
	m.ObservePhase("up", time.Second, nil)
	assert.NoError(t, m.WriteToTextfile(filepath.Join(t.TempDir(), "x.prom")))
}

func TestMetrics_WriteToTextfile(t *testing.T) {
	t.Parallel()
	m := NewMetrics("orders")
	m.RecordOperation("preview", nil)

	path := filepath.Join(t.TempDir(), "psclink.prom")
	require.NoError(t, m.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `psclink_engine_operations_total{operation="preview",result="success",topology="orders"} 1`)
}
