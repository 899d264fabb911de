package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Release(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("LOG_LEVEL", "")

	var buf bytes.Buffer
	l := New(&buf)
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())

	l.WithField("component", "test").Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "test", entry["component"])
}

func TestNew_Development(t *testing.T) {
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("LOG_LEVEL", "")

	l := New(&bytes.Buffer{})
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
}

func TestNew_LevelOverride(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("LOG_LEVEL", "warn")

	l := New(&bytes.Buffer{})
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
}
