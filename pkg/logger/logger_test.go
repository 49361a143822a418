package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junbin-yang/go-fsmreactor/pkg/config"
)

func Test_LOG(t *testing.T) {
	defer func() { _ = Sync() }()
	Info("Info msg")
	Warn("Warn msg")
	Error("Error msg")
	Debug("Debug msg", Int("age", 3))
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, InfoLevel)

	l.Info("hello", String("reactor", "door"))
	out := buf.String()
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, `"reactor": "door"`)
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, WarnLevel)

	l.Info("hidden")
	require.Zero(t, buf.Len(), "Warn 级别不应输出 Info")

	l.SetLevel(DebugLevel)
	l.Debug("visible")
	assert.Contains(t, buf.String(), "visible", "调整级别后应输出 Debug")
	assert.Equal(t, DebugLevel, l.Level())
}

func TestChildSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	parent := New(&buf, ErrorLevel)
	child := parent.Named("worker").With(String("id", "r1"))

	child.Info("dropped")
	parent.SetLevel(InfoLevel)
	child.Info("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped", "子日志器应遵循父级别")
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, "<worker>")
	assert.True(t, child.Enabled(InfoLevel))
	assert.False(t, child.Enabled(DebugLevel))
}

func TestNop(t *testing.T) {
	l := NewNop()
	l.Error("nothing")
	assert.NoError(t, l.Close())
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":        InfoLevel,
		"debug":   DebugLevel,
		"WARN":    WarnLevel,
		" error ": ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if assert.NoError(t, err, "ParseLevel(%q)", in) {
			assert.Equal(t, want, got, "ParseLevel(%q)", in)
		}
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err, "非法级别应返回错误")
}

func TestNewFromConfigSizeRotate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "reactor.log")
	l, err := NewFromConfig(config.LogConfig{Level: "debug", File: path, MaxSizeMB: 1, MaxBackups: 1})
	require.NoError(t, err)
	l.Debug("to file")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestNewFromConfigTimeRotate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reactor.log")
	l, err := NewFromConfig(config.LogConfig{File: path, RotateEvery: time.Hour, MaxBackups: 2})
	require.NoError(t, err)
	l.Info("rotated")
	require.NoError(t, l.Close())

	matches, _ := filepath.Glob(path + ".*")
	require.NotEmpty(t, matches, "期望生成按时间命名的日志文件")
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "rotated")
}

func TestNewFromConfigBadLevel(t *testing.T) {
	_, err := NewFromConfig(config.LogConfig{Level: "loud"})
	assert.Error(t, err, "非法级别应返回错误")
}
