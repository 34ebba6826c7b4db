package async

import (
	"errors"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogifaceLogger_RoutesEntriesThroughTheWrappedLogger(t *testing.T) {
	var written []*logifaceEvent
	l := logiface.New[*logifaceEvent](
		logiface.WithEventFactory[*logifaceEvent](logiface.EventFactoryFunc[*logifaceEvent](
			func(level logiface.Level) *logifaceEvent { return &logifaceEvent{level: level} },
		)),
		logiface.WithWriter[*logifaceEvent](logiface.WriterFunc[*logifaceEvent](
			func(event *logifaceEvent) error {
				written = append(written, event)
				return nil
			},
		)),
	)

	adapter := NewLogifaceLogger(l)
	require.True(t, adapter.IsEnabled(LevelError))

	adapter.Log(LogEntry{Level: LevelError, Message: "daemon task failed", Err: errors.New("boom")})

	require.Len(t, written, 1)
	assert.Equal(t, logiface.LevelError, written[0].level)
}

func TestToLogifaceLevel_MapsEveryLevel(t *testing.T) {
	cases := map[LogLevel]logiface.Level{
		LevelDebug: logiface.LevelDebug,
		LevelInfo:  logiface.LevelInformational,
		LevelWarn:  logiface.LevelWarning,
		LevelError: logiface.LevelError,
	}
	for in, want := range cases {
		assert.Equal(t, want, toLogifaceLevel(in))
	}
}
