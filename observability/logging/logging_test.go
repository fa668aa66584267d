package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupWithOptionsWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := SetupWithOptions("stallion", "test", Options{Level: "warn", Output: &buf})
	defer closer.Close()

	logger.Info("dropped")
	logger.Warn("kept", "op", "create_bounty")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	require.Equal(t, "kept", line["message"])
	require.Equal(t, "WARN", line["severity"])
	require.Equal(t, "stallion", line["service"])
	require.Equal(t, "test", line["env"])
	require.Equal(t, "create_bounty", line["op"])
	require.Contains(t, line, "timestamp")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestSensitiveAttributesAreMasked(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := SetupWithOptions("stallion", "", Options{Output: &buf})
	defer closer.Close()

	logger.Info("auth", "authorization", "Bearer abc", "secret", "", "caller", "0xabc")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	require.Equal(t, RedactedValue, line["authorization"])
	require.Equal(t, "", line["secret"])
	require.Equal(t, "0xabc", line["caller"])
	require.NotContains(t, line, "env")
}

func TestMaskDSN(t *testing.T) {
	masked := MaskDSN("postgres://app:hunter2@db:5432/events")
	require.NotContains(t, masked, "hunter2")
	require.Contains(t, masked, "@db:5432/events")
	require.Equal(t, "host=db user=app password=[REDACTED] dbname=events", MaskDSN("host=db user=app password=hunter2 dbname=events"))
	require.Equal(t, "/var/lib/stallion/events.db", MaskDSN("/var/lib/stallion/events.db"))
	require.True(t, IsSensitive(" JWT "))
	require.False(t, IsSensitive("token"))
}
