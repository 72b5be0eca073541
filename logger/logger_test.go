package logger

import (
	"bytes"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleLog(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf)

	err := h.HandleLog(&log.Entry{
		Level:     log.WarnLevel,
		Message:   "upstream lento",
		Timestamp: time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC),
		Fields:    log.Fields{"status": 502, "path": "/api/cat"},
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-10-15 09:30:00 W upstream lento path=/api/cat status=502\n", buf.String())
}

func TestInitUnknownLevel(t *testing.T) {
	Init("chatty")
	t.Cleanup(func() { log.SetLevel(log.InfoLevel) })

	l, ok := log.Log.(*log.Logger)
	require.True(t, ok)
	assert.Equal(t, log.InfoLevel, l.Level)
}
