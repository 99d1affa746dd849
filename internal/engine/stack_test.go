package engine

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/pulumi/pulumi/sdk/v3/go/auto"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/events"
	"github.com/pulumi/pulumi/sdk/v3/go/common/apitype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/psclink/internal/config"
	"github.com/imamik/psclink/internal/provisioning"
)

var errLocked = errors.New("[409] Conflict: Another update is currently in progress")

// fakeRunner emits the configured events on every operation, then closes the
// channel as the Automation API does.
type fakeRunner struct {
	mu       sync.Mutex
	calls    map[string]int
	events   []events.EngineEvent
	failures []error // returned by successive calls before succeeding
	outputs  auto.OutputMap
	removed  bool
	canceled bool

	// setupErr is returned before any event is sent, leaving the channel open.
	setupErr error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{calls: map[string]int{}}
}

func (f *fakeRunner) next(op string, ch chan<- events.EngineEvent) error {
	if f.setupErr != nil {
		return f.setupErr
	}
	for _, e := range f.events {
		ch <- e
	}
	close(ch)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	if len(f.failures) > 0 {
		err := f.failures[0]
		f.failures = f.failures[1:]
		return err
	}
	return nil
}

func (f *fakeRunner) name() string { return "dev" }

func (f *fakeRunner) preview(_ context.Context, ch chan<- events.EngineEvent, _ io.Writer, _ bool) (map[apitype.OpType]int, error) {
	if err := f.next("preview", ch); err != nil {
		return nil, err
	}
	return map[apitype.OpType]int{apitype.OpCreate: 26}, nil
}

func (f *fakeRunner) up(_ context.Context, ch chan<- events.EngineEvent, _ io.Writer) (map[string]int, auto.OutputMap, error) {
	if err := f.next("up", ch); err != nil {
		return nil, nil, err
	}
	return map[string]int{"create": 26}, f.outputs, nil
}

func (f *fakeRunner) destroy(_ context.Context, ch chan<- events.EngineEvent, _ io.Writer) (map[string]int, error) {
	if err := f.next("destroy", ch); err != nil {
		return nil, err
	}
	return map[string]int{"delete": 26}, nil
}

func (f *fakeRunner) refresh(_ context.Context, ch chan<- events.EngineEvent, _ io.Writer) (map[string]int, error) {
	if err := f.next("refresh", ch); err != nil {
		return nil, err
	}
	return map[string]int{"same": 26}, nil
}

func (f *fakeRunner) outputs(_ context.Context) (auto.OutputMap, error) { return f.outputs, nil }
func (f *fakeRunner) cancel(_ context.Context) error                    { f.canceled = true; return nil }
func (f *fakeRunner) remove(_ context.Context) error                    { f.removed = true; return nil }

func testStack(r runner) *Stack {
	s := newStack(r, Options{Timeouts: &config.Timeouts{RetryMaxAttempts: 2, RetryInitialDelay: time.Millisecond}})
	s.isConcurrent = func(err error) bool { return errors.Is(err, errLocked) }
	return s
}

type sinkRecorder struct {
	mu     sync.Mutex
	events []provisioning.Event
}

func (r *sinkRecorder) sink(e provisioning.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func createdEvent(urn string) events.EngineEvent {
	return events.EngineEvent{EngineEvent: apitype.EngineEvent{
		ResOutputsEvent: &apitype.ResOutputsEvent{Metadata: apitype.StepEventMetadata{
			Op: apitype.OpCreate, URN: urn, Type: "gcp:compute/network:Network",
		}},
	}}
}

func TestStack_Preview(t *testing.T) {
	t.Parallel()
	s := testStack(newFakeRunner())

	res, err := s.Preview(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "preview", res.Operation)
	assert.Equal(t, map[string]int{"create": 26}, res.Changes)
}

func TestStack_UpForwardsEventsAndMasksOutputs(t *testing.T) {
	t.Parallel()
	r := newFakeRunner()
	r.events = []events.EngineEvent{
		createdEvent("urn:pulumi:dev::psclink::gcp:compute/network:Network::orders-producer-vpc"),
		{EngineEvent: apitype.EngineEvent{StdoutEvent: &apitype.StdoutEngineEvent{Message: "noise"}}},
	}
	r.outputs = auto.OutputMap{
		"serviceUri": {Value: "https://orders-api.run.app"},
		"token":      {Value: "s3cr3t", Secret: true},
	}
	s := testStack(r)
	rec := &sinkRecorder{}

	res, err := s.Up(context.Background(), rec.sink)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"create": 26}, res.Changes)
	assert.Equal(t, "https://orders-api.run.app", res.Outputs["serviceUri"])
	assert.Equal(t, maskedSecret, res.Outputs["token"])

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.events, 1)
	assert.Equal(t, provisioning.EventResourceCreated, rec.events[0].Type)
	assert.Equal(t, "orders-producer-vpc", rec.events[0].Resource)
}

func TestStack_RetriesConcurrentUpdate(t *testing.T) {
	t.Parallel()
	r := newFakeRunner()
	r.failures = []error{errLocked, errLocked}
	s := testStack(r)

	res, err := s.Destroy(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"delete": 26}, res.Changes)
	assert.Equal(t, 3, r.calls["destroy"])
}

func TestStack_GivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()
	r := newFakeRunner()
	r.failures = []error{errLocked, errLocked, errLocked, errLocked}
	s := testStack(r)

	_, err := s.Up(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errLocked)
	assert.Equal(t, 3, r.calls["up"])
}

func TestStack_OtherErrorsAreNotRetried(t *testing.T) {
	t.Parallel()
	r := newFakeRunner()
	quota := errors.New("quota exceeded")
	r.failures = []error{quota}
	s := testStack(r)

	_, err := s.Refresh(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, quota)
	assert.Contains(t, err.Error(), "refresh failed")
	assert.Equal(t, 1, r.calls["refresh"])
}

func TestStack_SetupFailureReturnsPromptly(t *testing.T) {
	t.Parallel()
	r := newFakeRunner()
	r.setupErr = errors.New("failed to install plugin")
	s := testStack(r)

	start := time.Now()
	_, err := s.Up(context.Background(), (&sinkRecorder{}).sink)
	require.Error(t, err)
	assert.ErrorIs(t, err, r.setupErr)
	assert.Less(t, time.Since(start), time.Second)
}

func TestStack_OutputsCancelRemove(t *testing.T) {
	t.Parallel()
	r := newFakeRunner()
	r.outputs = auto.OutputMap{"token": {Value: "s3cr3t", Secret: true}}
	s := testStack(r)

	masked, err := s.Outputs(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, maskedSecret, masked["token"])

	shown, err := s.Outputs(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", shown["token"])

	require.NoError(t, s.Cancel(context.Background()))
	require.NoError(t, s.Remove(context.Background()))
	assert.True(t, r.canceled)
	assert.True(t, r.removed)
	assert.Equal(t, "dev", s.Name())
}

func TestEnvVars(t *testing.T) {
	t.Setenv(EnvPassphrase, "hunter2")
	t.Setenv(EnvS3AccessKey, "AK")
	t.Setenv(EnvS3SecretKey, "SK")

	s3 := &config.Config{Backend: config.BackendConfig{URL: "s3://state?endpoint=storage.googleapis.com"}}
	assert.Equal(t, map[string]string{
		EnvPassphrase:   "hunter2",
		envAWSAccessKey: "AK",
		envAWSSecretKey: "SK",
	}, EnvVars(s3))

	file := &config.Config{Backend: config.BackendConfig{URL: "file:///tmp/state"}}
	assert.Equal(t, map[string]string{EnvPassphrase: "hunter2"}, EnvVars(file))
}
