package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStdLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, "", LevelWarn)

	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warn("shown %d", 3)
	l.Error("shown %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] shown 3")
	assert.Contains(t, out, "[ERROR] shown 4")
}

func TestStdLogger_Debug(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, "isiprint: ", LevelDebug)
	l.Debug("[BRIDGE] -> %s", "login")
	assert.Contains(t, buf.String(), "isiprint: ")
	assert.Contains(t, buf.String(), "[DEBUG] [BRIDGE] -> login")
}
