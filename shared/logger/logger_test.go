package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"boatbook/config"
	"boatbook/shared/logger"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restore(t *testing.T) {
	t.Helper()

	original := log.Logger
	level := zerolog.GlobalLevel()

	t.Cleanup(func() {
		log.Logger = original
		zerolog.SetGlobalLevel(level)
	})
}

func TestInitLogger(t *testing.T) {
	restore(t)

	logger.InitLogger()

	assert.Equal(t, zerolog.TimeFormatUnix, zerolog.TimeFieldFormat)
	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())
}

func TestErrorWithStack(t *testing.T) {
	restore(t)

	var buf bytes.Buffer
	log.Logger = log.Output(&buf)

	logger.ErrorWithStack(errors.New("seat ledger drifted"))

	assert.Contains(t, buf.String(), "seat ledger drifted")
}

func TestUseOutput(t *testing.T) {
	restore(t)

	cfg := &config.Config{}
	cfg.Server.Env = "production"
	cfg.App.Name = "boatbook"

	var buf bytes.Buffer
	logger.UseOutput(cfg, &buf)
	log.Info().Str("reference", "BS12345678").Msg("booking created")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "boatbook", line["app"])
	assert.Equal(t, "BS12345678", line["reference"])

	buf.Reset()
	cfg.Server.Env = "development"
	logger.UseOutput(cfg, &buf)
	log.Info().Msg("console")

	assert.Error(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Contains(t, buf.String(), "console")
}

func TestSetLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		want     zerolog.Level
	}{
		{name: "debug level", logLevel: "debug", want: zerolog.DebugLevel},
		{name: "info level", logLevel: "info", want: zerolog.InfoLevel},
		{name: "error level", logLevel: "error", want: zerolog.ErrorLevel},
		{name: "disabled level", logLevel: "disabled", want: zerolog.Disabled},
		{name: "invalid level defaults to trace", logLevel: "verbose", want: zerolog.TraceLevel},
		{name: "empty level", logLevel: "", want: zerolog.NoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restore(t)

			cfg := &config.Config{}
			cfg.Server.LogLevel = tt.logLevel

			logger.SetLogLevel(cfg)

			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}
