package testing

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/imamik/psclink/internal/provisioning"
)

// MockStack is a mock implementation of provisioning.Stack. Events set on
// it are delivered to the sink of every operation before it returns.
type MockStack struct {
	mock.Mock
	Events []provisioning.Event
}

var _ provisioning.Stack = (*MockStack)(nil)

// Name returns the mocked stack name.
func (m *MockStack) Name() string {
	return m.Called().String(0)
}

// Preview runs the mocked preview.
func (m *MockStack) Preview(ctx context.Context, sink provisioning.EventSink) (*provisioning.OperationResult, error) {
	return m.operation(ctx, "Preview", sink)
}

// Up runs the mocked update.
func (m *MockStack) Up(ctx context.Context, sink provisioning.EventSink) (*provisioning.OperationResult, error) {
	return m.operation(ctx, "Up", sink)
}

// Destroy runs the mocked destroy.
func (m *MockStack) Destroy(ctx context.Context, sink provisioning.EventSink) (*provisioning.OperationResult, error) {
	return m.operation(ctx, "Destroy", sink)
}

// Refresh runs the mocked refresh.
func (m *MockStack) Refresh(ctx context.Context, sink provisioning.EventSink) (*provisioning.OperationResult, error) {
	return m.operation(ctx, "Refresh", sink)
}

// Outputs returns the mocked outputs.
func (m *MockStack) Outputs(ctx context.Context, showSecrets bool) (map[string]any, error) {
	args := m.Called(ctx, showSecrets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

// Cancel runs the mocked cancel.
func (m *MockStack) Cancel(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// Remove runs the mocked stack removal.
func (m *MockStack) Remove(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockStack) operation(ctx context.Context, name string, sink provisioning.EventSink) (*provisioning.OperationResult, error) {
	args := m.MethodCalled(name, ctx)
	if sink != nil {
		for _, e := range m.Events {
			sink(e)
		}
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provisioning.OperationResult), args.Error(1)
}

// MockBucket is a mock implementation of provisioning.StateBucket.
type MockBucket struct {
	mock.Mock
}

var _ provisioning.StateBucket = (*MockBucket)(nil)

// EnsureBucket runs the mocked bucket creation.
func (m *MockBucket) EnsureBucket(ctx context.Context, bucket string) (bool, error) {
	args := m.Called(ctx, bucket)
	return args.Bool(0), args.Error(1)
}

// DeleteBucket runs the mocked bucket deletion.
func (m *MockBucket) DeleteBucket(ctx context.Context, bucket string) error {
	return m.Called(ctx, bucket).Error(0)
}

// RecordingObserver is a provisioning.Observer that records everything.
type RecordingObserver struct {
	mu       sync.Mutex
	events   []provisioning.Event
	messages []string
}

var _ provisioning.Observer = (*RecordingObserver)(nil)

// NewRecordingObserver creates an empty RecordingObserver.
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{}
}

// Printf records the formatted message.
func (o *RecordingObserver) Printf(format string, v ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, sprintf(format, v...))
}

// Event records the event.
func (o *RecordingObserver) Event(event provisioning.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

// Progress records a progress event.
func (o *RecordingObserver) Progress(phase string, current, total int) {
	o.Event(provisioning.Event{Type: provisioning.EventProgress, Phase: phase, Message: sprintf("%d/%d", current, total)})
}

// WithFields returns the same observer; fields are not recorded.
func (o *RecordingObserver) WithFields(map[string]string) provisioning.Observer {
	return o
}

// Events returns a copy of the recorded events.
func (o *RecordingObserver) Events() []provisioning.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]provisioning.Event(nil), o.events...)
}

// Messages returns a copy of the recorded messages.
func (o *RecordingObserver) Messages() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.messages...)
}

// EventTypes returns the types of the recorded events in order.
func (o *RecordingObserver) EventTypes() []provisioning.EventType {
	var types []provisioning.EventType
	for _, e := range o.Events() {
		types = append(types, e.Type)
	}
	return types
}
