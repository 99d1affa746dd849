package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/pulumi/pulumi/sdk/v3/go/auto/events"
	"github.com/pulumi/pulumi/sdk/v3/go/common/apitype"

	"github.com/imamik/psclink/internal/provisioning"
)

const rootStackType = "pulumi:pulumi:Stack"

// Translate converts an engine event into a provisioning event. Events that
// carry no resource progress (preludes, summaries, stdout, planned outputs)
// are dropped.
func Translate(e events.EngineEvent) (provisioning.Event, bool) {
	ts := time.Now()
	if e.Timestamp > 0 {
		ts = time.Unix(int64(e.Timestamp), 0)
	}

	switch {
	case e.ResourcePreEvent != nil:
		md := e.ResourcePreEvent.Metadata
		t, ok := preEventType(md.Op)
		if !ok || md.Type == rootStackType {
			return provisioning.Event{}, false
		}
		ev := resourceEvent(t, md, ts)
		if e.ResourcePreEvent.Planning {
			ev.Fields["planning"] = "true"
			ev.Message = fmt.Sprintf("would %s %s", md.Op, md.Type)
		}
		return ev, true

	case e.ResOutputsEvent != nil:
		md := e.ResOutputsEvent.Metadata
		t, ok := outputsEventType(md.Op)
		if !ok || md.Type == rootStackType || e.ResOutputsEvent.Planning {
			return provisioning.Event{}, false
		}
		return resourceEvent(t, md, ts), true

	case e.ResOpFailedEvent != nil:
		md := e.ResOpFailedEvent.Metadata
		ev := resourceEvent(provisioning.EventResourceFailed, md, ts)
		ev.Message = fmt.Sprintf("%s %s failed", md.Op, md.Type)
		return ev, true

	case e.DiagnosticEvent != nil:
		d := e.DiagnosticEvent
		if d.Severity != "error" && d.Severity != "warning" {
			return provisioning.Event{}, false
		}
		return provisioning.Event{
			Type:      provisioning.EventDiagnostic,
			Resource:  ResourceName(d.URN),
			Message:   strings.TrimSpace(d.Message),
			Timestamp: ts,
			Fields:    map[string]string{"severity": d.Severity},
		}, true
	}

	return provisioning.Event{}, false
}

func resourceEvent(t provisioning.EventType, md apitype.StepEventMetadata, ts time.Time) provisioning.Event {
	return provisioning.Event{
		Type:      t,
		Resource:  ResourceName(md.URN),
		Message:   fmt.Sprintf("%s %s", md.Op, md.Type),
		Timestamp: ts,
		Fields: map[string]string{
			"type": md.Type,
			"op":   string(md.Op),
		},
	}
}

func preEventType(op apitype.OpType) (provisioning.EventType, bool) {
	switch op {
	case apitype.OpCreate:
		return provisioning.EventResourceCreating, true
	case apitype.OpUpdate:
		return provisioning.EventResourceUpdating, true
	case apitype.OpReplace, apitype.OpCreateReplacement:
		return provisioning.EventResourceReplacing, true
	case apitype.OpDelete, apitype.OpDeleteReplaced:
		return provisioning.EventResourceDeleting, true
	}
	return "", false
}

func outputsEventType(op apitype.OpType) (provisioning.EventType, bool) {
	switch op {
	case apitype.OpCreate:
		return provisioning.EventResourceCreated, true
	case apitype.OpUpdate:
		return provisioning.EventResourceUpdated, true
	case apitype.OpReplace, apitype.OpCreateReplacement:
		return provisioning.EventResourceReplaced, true
	case apitype.OpDelete, apitype.OpDeleteReplaced:
		return provisioning.EventResourceDeleted, true
	case apitype.OpSame:
		return provisioning.EventResourceExists, true
	}
	return "", false
}

// ResourceName returns the logical name at the end of a resource URN.
func ResourceName(urn string) string {
	if i := strings.LastIndex(urn, "::"); i >= 0 {
		return urn[i+2:]
	}
	return urn
}
