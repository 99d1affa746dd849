package provisioning

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogrObserver implements Observer on top of a logr.Logger. Events become
// structured log entries; failures are logged at error level.
type LogrObserver struct {
	log logr.Logger
}

// NewLogrObserver creates an observer writing to log.
func NewLogrObserver(log logr.Logger) *LogrObserver {
	return &LogrObserver{log: log}
}

// NewJSONLogger returns a logr.Logger writing JSON lines to stderr through zap.
func NewJSONLogger(debug bool) (logr.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	zl, err := cfg.Build()
	if err != nil {
		return logr.Discard(), fmt.Errorf("failed to build logger: %w", err)
	}
	return zapr.NewLogger(zl), nil
}

// Printf implements Logger.
func (o *LogrObserver) Printf(format string, v ...interface{}) {
	o.log.Info(fmt.Sprintf(format, v...))
}

// Event implements Observer.
func (o *LogrObserver) Event(event Event) {
	event = withContext(event, nil)

	kv := []interface{}{"event", string(event.Type)}
	if event.Phase != "" {
		kv = append(kv, "phase", event.Phase)
	}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	for k, v := range event.Fields {
		kv = append(kv, k, v)
	}

	switch event.Type {
	case EventPhaseFailed, EventResourceFailed, EventValidationError:
		o.log.Error(nil, event.Message, kv...)
	default:
		o.log.Info(event.Message, kv...)
	}
}

// Progress implements Observer.
func (o *LogrObserver) Progress(phase string, current, total int) {
	o.log.V(1).Info("progress", "phase", phase, "current", current, "total", total)
}

// WithFields implements Observer.
func (o *LogrObserver) WithFields(fields map[string]string) Observer {
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return &LogrObserver{log: o.log.WithValues(kv...)}
}
