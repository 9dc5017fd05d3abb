package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: zerolog.WarnLevel, Format: "json", Out: &buf})

	log.Info().Msg("hidden")
	log.Warn().Str("rule", "||a.com^$bogus").Msg("Failed to convert rule")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "||a.com^$bogus", entry["rule"])
	assert.Equal(t, "Failed to convert rule", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: zerolog.InfoLevel, Format: "console", Out: &buf, TimeFormat: "15:04"})

	log.Info().Msg("Rules converted")
	assert.Contains(t, buf.String(), "Rules converted")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in    string
		level zerolog.Level
		ok    bool
	}{
		{"debug", zerolog.DebugLevel, true},
		{" WARN ", zerolog.WarnLevel, true},
		{"off", zerolog.Disabled, true},
		{"", zerolog.NoLevel, false},
		{"loud", zerolog.NoLevel, false},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			level, ok := ParseLevel(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.level, level)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(envLevel, "error")
	t.Setenv(envFormat, "json")

	cfg := ApplyEnv(DefaultConfig())
	assert.Equal(t, zerolog.ErrorLevel, cfg.Level)
	assert.Equal(t, "json", cfg.Format)

	t.Setenv(envFormat, "xml")
	assert.Equal(t, "console", ApplyEnv(DefaultConfig()).Format)
}
