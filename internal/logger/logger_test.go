package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerInitialization(t *testing.T) {
	assert.NotNil(t, User, "User logger should not be nil after init")
	assert.NotNil(t, Op, "Op logger should not be nil after init")

	ul := GetLogger()
	require.NotNil(t, ul)
	assert.Same(t, ul, GetLogger(), "GetLogger should return the same instance")
}

func TestLoggerSetup(t *testing.T) {
	tests := []struct {
		name          string
		verbose       bool
		jsonLogs      bool
		quiet         bool
		expectedLevel logrus.Level
	}{
		{"Default", false, false, false, logrus.InfoLevel},
		{"Verbose", true, false, false, logrus.DebugLevel},
		{"Quiet", false, false, true, logrus.ErrorLevel},
		{"JSON", false, true, false, logrus.InfoLevel},
		{"Verbose JSON", true, true, false, logrus.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Setup(tt.verbose, tt.jsonLogs, tt.quiet)

			assert.NotNil(t, User)
			assert.NotNil(t, Op)
			assert.Equal(t, tt.expectedLevel, GetLogger().GetInternalLogger().GetLevel())
		})
	}
}

func TestSetupEnvironmentOverride(t *testing.T) {
	t.Setenv(EnvLogMode, "quiet")
	Setup(true, false, false)
	assert.Equal(t, logrus.ErrorLevel, GetLogger().GetInternalLogger().GetLevel())

	t.Setenv(EnvLogMode, "debug")
	Setup(false, false, true)
	assert.True(t, Op.DebugEnabled())
}

func TestSetWritersRoutesByLogType(t *testing.T) {
	t.Setenv(EnvLogMode, "")
	t.Setenv(EnvLogFormat, "")
	Setup(false, false, false)

	var userBuf, opBuf bytes.Buffer
	SetWriters(&userBuf, &opBuf)

	User.Success("schedule built")
	Op.WithSystem("physics").Warn("placeholder left unresolved")

	assert.Equal(t, "✅ schedule built\n", userBuf.String())
	assert.Contains(t, opBuf.String(), "placeholder left unresolved")
	assert.Contains(t, opBuf.String(), "system=physics")
	assert.NotContains(t, opBuf.String(), "log_type")
}

func TestUserLoggerOutput(t *testing.T) {
	var buf bytes.Buffer

	testLogger := logrus.New()
	testLogger.SetOutput(&buf)
	testLogger.SetLevel(logrus.InfoLevel)

	userLogger := &UserLogger{logger: testLogger}

	userLogger.Info("test message")
	assert.Contains(t, buf.String(), "test message")

	buf.Reset()
	userLogger.Planf("%d systems", 4)
	assert.Contains(t, buf.String(), "4 systems")
}

func TestOpLoggerOutput(t *testing.T) {
	var buf bytes.Buffer

	testLogger := logrus.New()
	testLogger.SetOutput(&buf)
	testLogger.SetLevel(logrus.InfoLevel)

	opLogger := &OpLogger{logger: testLogger}

	opLogger.Info("operational message")
	assert.Contains(t, buf.String(), "operational message")

	buf.Reset()
	opLogger.Debug("hidden")
	assert.Empty(t, buf.String(), "debug entries are filtered at info level")

	buf.Reset()
	opLogger.WithFields(map[string]interface{}{"priority": 7}).Info("system delivered")
	assert.Contains(t, buf.String(), "system delivered")
	assert.Contains(t, buf.String(), "priority=7")
}

func TestCLIFormatter(t *testing.T) {
	entry := &logrus.Entry{
		Level:   logrus.WarnLevel,
		Message: "edge rejected",
		Time:    time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC),
		Data: logrus.Fields{
			"log_type":   "op",
			"system":     "render",
			"dependency": "physics",
		},
	}

	t.Run("message only", func(t *testing.T) {
		f := &CLIFormatter{DisableTimestamp: true, DisableLevel: true}
		out, err := f.Format(entry)
		require.NoError(t, err)
		assert.Equal(t, "edge rejected\n", string(out))
	})

	t.Run("level and sorted fields", func(t *testing.T) {
		f := &CLIFormatter{DisableTimestamp: true, DisableColors: true}
		out, err := f.Format(entry)
		require.NoError(t, err)
		assert.Equal(t, "WARNING: edge rejected dependency=physics system=render\n", string(out))
	})

	t.Run("timestamp", func(t *testing.T) {
		f := &CLIFormatter{DisableColors: true}
		out, err := f.Format(entry)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(out), "12:30:00.000 WARNING"))
	})
}

func TestLogTypeRouting(t *testing.T) {
	captureHook := &testHook{}

	ul := GetLogger()
	ul.GetInternalLogger().AddHook(captureHook)

	User.Info("user message")
	require.NotEmpty(t, captureHook.entries)
	last := captureHook.entries[len(captureHook.entries)-1]
	assert.Equal(t, string(UserLog), last.Data["log_type"])
	assert.Equal(t, "user message", last.Message, "emoji decoration must not leak into other hooks")

	Op.Info("op message")
	last = captureHook.entries[len(captureHook.entries)-1]
	assert.Equal(t, string(OpLog), last.Data["log_type"])

	Op.WithField("run_id", "run-1").Warn("dispatch started")
	last = captureHook.entries[len(captureHook.entries)-1]
	assert.Equal(t, string(OpLog), last.Data["log_type"])
	assert.Equal(t, "run-1", last.Data["run_id"])
	assert.Equal(t, "dispatch started", last.Message)
}

// testHook is a simple hook for capturing log entries in tests
type testHook struct {
	entries []*logrus.Entry
}

func (h *testHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *testHook) Fire(entry *logrus.Entry) error {
	h.entries = append(h.entries, entry)
	return nil
}
