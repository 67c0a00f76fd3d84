package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	assert.NoError(t, os.Setenv("APP_ENV", "dev"))
	defer func() { assert.NoError(t, os.Unsetenv("APP_ENV")) }()
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Infow("info", map[string]any{"k": "v"})
	l.Warnf("warn")
	l.Errorf("error")
}

func TestZerologLoggerFieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLoggerWithWriter("planner", &buf, "info")
	l.Debugf("hidden")
	l.Infow("solved", map[string]any{"iterations": 3})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "planner", entry["component"])
	assert.Equal(t, "solved", entry["message"])
	assert.Equal(t, float64(3), entry["iterations"])
	assert.Equal(t, "info", entry["level"])
}

func TestConfigureDefaults(t *testing.T) {
	Configure("debug", "console")
	defer Configure("info", "json")
	defaultsMu.RLock()
	level, console := defaultLevel, defaultConsole
	defaultsMu.RUnlock()
	assert.Equal(t, "debug", level)
	assert.True(t, console)
	assert.NotNil(t, NewZerologLogger("cfg"))
}
