package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("room") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("room") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("room") }, true},
		{"warn at info", log.InfoLevel, func(l *log.Logger) { l.Warn("room") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			assert.Equal(t, tt.wantLog, buf.Len() > 0)
		})
	}
}

func TestProgressLogsFields(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("walked", "rooms", 4)

	out := buf.String()
	assert.Contains(t, out, "walked")
	assert.Contains(t, out, "rooms=4")
	assert.Contains(t, out, "elapsed=")
}

func TestLoggerContext(t *testing.T) {
	l := newLogger(&bytes.Buffer{}, log.InfoLevel)
	assert.Same(t, l, loggerFromContext(withLogger(context.Background(), l)))
	assert.NotNil(t, loggerFromContext(context.Background()))
}
