//go:build unit
// +build unit

package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/MGTheTrain/record-vault/internal/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLoggerSingleton() {
	_ = CloseLogger()
	loggerInstance = nil
	loggerErr = nil
	loggerOnce = sync.Once{}
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name     string
		settings config.LoggerSettings
		wantErr  bool
	}{
		{"default console logger", config.DefaultLoggerSettings(), false},
		{"cli error level", config.LoggerSettings{LogLevel: config.LogLevelError, LogType: config.LogTypeConsole}, false},
		{"unknown level", config.LoggerSettings{LogLevel: "trace", LogType: config.LogTypeConsole}, true},
		{"unknown type", config.LoggerSettings{LogLevel: config.LogLevelInfo, LogType: "syslog"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(resetLoggerSingleton)

			err := InitLogger(&tt.settings)

			log, getErr := GetLogger()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Error(t, getErr)
				assert.Nil(t, log)
				return
			}
			require.NoError(t, err)
			require.NoError(t, getErr)
			assert.IsType(t, &ConsoleLogger{}, log)
		})
	}
}

func TestInitLogger_FileLoggerGetsRotationDefaults(t *testing.T) {
	t.Cleanup(resetLoggerSingleton)

	path := filepath.Join(t.TempDir(), "record-vault.log")
	settings := &config.LoggerSettings{LogLevel: config.LogLevelInfo, LogType: config.LogTypeFile, FilePath: path}
	require.NoError(t, InitLogger(settings))

	log, err := GetLogger()
	require.NoError(t, err)
	fileLogger, ok := log.(*FileLogger)
	require.True(t, ok)
	assert.Equal(t, config.DefaultLogMaxSize, fileLogger.writer.MaxSize)
	assert.Equal(t, config.DefaultLogMaxBackups, fileLogger.writer.MaxBackups)
	assert.Equal(t, config.DefaultLogMaxAge, fileLogger.writer.MaxAge)

	log.Info("Store opened")
	require.NoError(t, CloseLogger())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Store opened")

	// the caller's settings are not modified
	assert.Zero(t, settings.MaxSize)
}

func TestGetLogger_BeforeInit(t *testing.T) {
	t.Cleanup(resetLoggerSingleton)

	log, err := GetLogger()
	assert.Error(t, err)
	assert.Nil(t, log)
	assert.Contains(t, err.Error(), "not initialized")
	assert.NoError(t, CloseLogger())
}

func TestInitLogger_FirstCallWins(t *testing.T) {
	t.Cleanup(resetLoggerSingleton)

	require.NoError(t, InitLogger(&config.LoggerSettings{LogLevel: config.LogLevelInfo, LogType: config.LogTypeConsole}))
	first, err := GetLogger()
	require.NoError(t, err)

	require.NoError(t, InitLogger(&config.LoggerSettings{LogLevel: "trace", LogType: "syslog"}))
	second, err := GetLogger()
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{config.LogLevelDebug, slog.LevelDebug},
		{config.LogLevelInfo, slog.LevelInfo},
		{config.LogLevelWarning, slog.LevelWarn},
		{config.LogLevelError, slog.LevelError},
		{config.LogLevelCritical, slog.LevelError},
		{"trace", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.level))
		})
	}
}
