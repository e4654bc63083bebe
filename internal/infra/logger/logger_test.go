package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"cafe_notice_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestConfigureProductionUsesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	configure(l, &buf, &config.AppConfig{LogLevel: "warn", Environment: "production"})

	require.Equal(t, logrus.WarnLevel, l.GetLevel())
	l.Info("dropped")
	l.WithField("run_id", "abc").Warn("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "kept", entry["msg"])
	require.Equal(t, "abc", entry["run_id"])
}

func TestConfigureInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	configure(l, &buf, &config.AppConfig{LogLevel: "loud", Environment: "development"})

	require.Equal(t, logrus.InfoLevel, l.GetLevel())
	require.Contains(t, buf.String(), "Invalid log level 'loud'")
}

func TestCronLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.JSONFormatter{})

	cl := CronLogger(logrus.NewEntry(l))
	cl.Error(errors.New("boom"), "panic", "entry", 3, "dangling")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "cron: panic", entry["msg"])
	require.Equal(t, "boom", entry["error"])
	require.EqualValues(t, 3, entry["entry"])
	require.Equal(t, "error", entry["level"])
}
