package logger

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvLogger_Debug(t *testing.T) {
	tests := []struct {
		name      string
		envValue  string
		expectLog bool
	}{
		{
			name:      "logs when HOSTMON_DEBUG is set",
			envValue:  "1",
			expectLog: true,
		},
		{
			name:      "logs when HOSTMON_DEBUG is any value",
			envValue:  "true",
			expectLog: true,
		},
		{
			name:      "does not log when HOSTMON_DEBUG is empty",
			envValue:  "",
			expectLog: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log.SetOutput(&buf)
			defer log.SetOutput(os.Stderr)

			t.Setenv(DebugEnv, tt.envValue)

			l := NewEnvLogger("[test]")
			l.Debug("poll took %s", "3ms")

			if tt.expectLog {
				assert.Contains(t, buf.String(), "[test] poll took 3ms")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestEnvLogger_Levels(t *testing.T) {
	tests := []struct {
		name     string
		logFn    func(Logger)
		expected string
	}{
		{
			name:     "info",
			logFn:    func(l Logger) { l.Info("sampled %d processes", 42) },
			expected: "[lvl] sampled 42 processes",
		},
		{
			name:     "warn",
			logFn:    func(l Logger) { l.Warn("no thermal zone") },
			expected: "[lvl] WARN: no thermal zone",
		},
		{
			name:     "error",
			logFn:    func(l Logger) { l.Error("read failed") },
			expected: "[lvl] ERROR: read failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log.SetOutput(&buf)
			defer log.SetOutput(os.Stderr)

			tt.logFn(NewEnvLogger("[lvl]"))
			assert.Contains(t, buf.String(), tt.expected)
		})
	}
}

func TestNoopLogger(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	l := Noop()
	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	assert.Empty(t, buf.String(), "noop logger should not produce any output")
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("debug %s", "msg")
	l.Info("info %s", "msg")
	l.Warn("warn %s", "msg")
	l.Error("error %s", "msg")

	require.Len(t, l.Messages, 4)
	assert.Equal(t, LogMessage{Level: "debug", Message: "debug msg"}, l.Messages[0])
	assert.Equal(t, LogMessage{Level: "info", Message: "info msg"}, l.Messages[1])
	assert.Equal(t, LogMessage{Level: "warn", Message: "warn msg"}, l.Messages[2])
	assert.Equal(t, LogMessage{Level: "error", Message: "error msg"}, l.Messages[3])

	assert.True(t, l.HasLevel("warn"))
	assert.True(t, l.Contains("error", "error"))
	assert.False(t, l.Contains("info", "error"))

	l.Clear()
	assert.Empty(t, l.Messages)
	assert.False(t, l.HasLevel("debug"))
}

func TestBufferLogger_Concurrent(t *testing.T) {
	l := NewBufferLogger()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l.Debug("collector %d", n)
		}(i)
	}
	wg.Wait()

	assert.Len(t, l.Messages, 8)
}

func TestRedirectStd(t *testing.T) {
	t.Run("discard when path empty", func(t *testing.T) {
		var buf bytes.Buffer
		log.SetOutput(&buf)
		defer log.SetOutput(os.Stderr)

		restore, err := RedirectStd("")
		require.NoError(t, err)
		log.Print("hidden")
		restore()
		log.Print("visible")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "visible")
	})

	t.Run("writes to file", func(t *testing.T) {
		defer log.SetOutput(os.Stderr)
		path := filepath.Join(t.TempDir(), "hostmon.log")

		restore, err := RedirectStd(path)
		require.NoError(t, err)
		log.Print("into the file")
		restore()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.Contains(string(data), "into the file"))
	})

	t.Run("bad path", func(t *testing.T) {
		_, err := RedirectStd(filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
		assert.Error(t, err)
	})
}

