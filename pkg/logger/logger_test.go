package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_EmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Info().Str("wallet_id", "w-123").Int64("amount", 2500).Msg("transfer completed")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), "log line should be valid JSON")

	assert.Equal(t, "transfer completed", line["message"])
	assert.Equal(t, "w-123", line["wallet_id"])
	assert.Equal(t, float64(2500), line["amount"])
	assert.Equal(t, "info", line["level"])
	assert.Contains(t, line, "time")
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{"debug level passes everything", "debug", true, true},
		{"info level drops debug", "info", false, true},
		{"error level drops info", "error", false, false},
		{"unknown level falls back to info", "chatty", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(tt.level, &buf)

			log.Debug().Msg("debug line")
			assert.Equal(t, tt.wantDebug, buf.Len() > 0)

			buf.Reset()
			log.Info().Msg("info line")
			assert.Equal(t, tt.wantInfo, buf.Len() > 0)
		})
	}
}

func TestNewWithWriter_ErrorAlwaysLogged(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("error", &buf)

	log.Error().Msg("persistence failure")
	assert.Contains(t, buf.String(), "persistence failure")
}

func TestNew_PrettyModeDoesNotPanic(t *testing.T) {
	log := New("info", true)
	log.Info().Msg("console writer smoke test")
}
