package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/enumfields"
	"github.com/xy-planning-network/enumfields/logger"
)

func TestNewJSON(t *testing.T) {
	// Arrange
	t.Setenv("SENTRY_DSN", "")
	t.Setenv("LOG_LEVEL", "DEBUG")
	b := new(bytes.Buffer)
	l := logger.New(enumfields.DatabaseLogKind, enumfields.Testing, b)

	// Act
	l.Debug("such fun!", "key", "add-color")

	// Assert
	var actual map[string]any
	require.Nil(t, json.Unmarshal(b.Bytes(), &actual))
	require.Equal(t, "such fun!", actual[slog.MessageKey])
	require.Equal(t, "DEBUG", actual[slog.LevelKey])
	require.Equal(t, "database", actual[enumfields.LogKindKey])
	require.Equal(t, "add-color", actual["key"])

	src, ok := actual[slog.SourceKey].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "logger/logger_test.go", src["file"])
}

func TestNewLevel(t *testing.T) {
	// Arrange
	t.Setenv("SENTRY_DSN", "")
	t.Setenv("LOG_LEVEL", "WARN")
	b := new(bytes.Buffer)
	l := logger.New(enumfields.AppLogKind, enumfields.Production, b)

	// Act
	l.Info("quiet")

	// Assert
	require.Zero(t, b.Len())

	// Act
	l.Warn("loud")

	// Assert
	require.Contains(t, b.String(), "loud")
}

func TestNewDevelopment(t *testing.T) {
	// Arrange
	t.Setenv("SENTRY_DSN", "")
	t.Setenv("LOG_JSON", "false")
	b := new(bytes.Buffer)
	l := logger.New(enumfields.AppLogKind, enumfields.Development, b)

	// Act
	l.Info("pretty")

	// Assert
	require.False(t, strings.HasPrefix(b.String(), "{"))
	require.Contains(t, b.String(), "pretty")
	require.Contains(t, b.String(), enumfields.LogKindKey)
	require.Contains(t, b.String(), "app")
}

func TestTruncSourceAttr(t *testing.T) {
	// Arrange
	a := slog.Any(slog.SourceKey, &slog.Source{File: "/home/dev/app/postgres/serializer.go", Line: 42})

	// Act
	actual := logger.TruncSourceAttr(nil, a)

	// Assert
	src, ok := actual.Value.Any().(*slog.Source)
	require.True(t, ok)
	require.Equal(t, "postgres/serializer.go", src.File)
	require.Equal(t, 42, src.Line)

	// Arrange
	other := slog.String("other", "value")

	// Act + Assert
	require.Equal(t, other, logger.TruncSourceAttr(nil, other))
}

func TestColorizeLevel(t *testing.T) {
	// Arrange
	a := slog.Any(slog.LevelKey, slog.LevelError)

	// Act
	actual := logger.ColorizeLevel(nil, a)

	// Assert
	require.Contains(t, actual.Value.String(), "ERROR")

	// Arrange
	other := slog.String("other", "value")

	// Act + Assert
	require.Equal(t, other, logger.ColorizeLevel(nil, other))
}
