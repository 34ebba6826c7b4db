package async

import "github.com/joeycumines/logiface"

// logifaceEvent is a minimal logiface.Event implementation: this package
// has no structured-field needs beyond what LogEntry already carries, so
// AddField is a no-op, matching the shape of the teacher's own test-only
// testEvent (coverage_extra_test.go) but used here in production code
// rather than a test double.
type logifaceEvent struct {
	logiface.UnimplementedEvent
	level logiface.Level
}

func (e *logifaceEvent) Level() logiface.Level { return e.level }

func (e *logifaceEvent) AddField(key string, val any) {}

// NewLogifaceLogger adapts a *logiface.Logger[*logifaceEvent] (or any
// logiface.Logger built over a compatible event type, via .Logger())
// into this package's [Logger] interface, so a host application can
// route diagnostics from [Loop.Close]'s leak report and the daemon task
// set's uncaught-rejection reports through logiface's structured-logging
// engine instead of [NewDefaultLogger]'s plain writer.
func NewLogifaceLogger(l *logiface.Logger[*logifaceEvent]) Logger {
	return &logifaceLogger{l: l}
}

type logifaceLogger struct {
	l *logiface.Logger[*logifaceEvent]
}

func (a *logifaceLogger) IsEnabled(level LogLevel) bool {
	return true // delegate filtering to the wrapped logiface.Logger's own configuration
}

func (a *logifaceLogger) Log(entry LogEntry) {
	b := a.l.Build(toLogifaceLevel(entry.Level))
	if b == nil {
		return
	}
	if entry.Err != nil {
		b = b.Err(entry.Err)
	}
	b.Log(entry.Message)
}

func toLogifaceLevel(l LogLevel) logiface.Level {
	switch l {
	case LevelDebug:
		return logiface.LevelDebug
	case LevelInfo:
		return logiface.LevelInformational
	case LevelWarn:
		return logiface.LevelWarning
	case LevelError:
		return logiface.LevelError
	default:
		return logiface.LevelInformational
	}
}
