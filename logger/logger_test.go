package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf).WithField("component", "loader")

	log.Warn().Str("field", "kicker").Msg("field missing")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "loader", entry["component"])
	assert.Equal(t, "kicker", entry["field"])
	assert.Equal(t, "field missing", entry["message"])
}

func TestWithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf).
		WithFields(Fields{"run_id": "abc", "rows": 5}).
		WithError(errors.New("boom"))

	log.Error().Msg("load failed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc", entry["run_id"])
	assert.Equal(t, float64(5), entry["rows"])
	assert.Equal(t, "boom", entry["error"])
}

func TestForExtractor(t *testing.T) {
	var buf bytes.Buffer
	Default = New(&buf)
	defer func() { Default = nil }()

	ForExtractor("semantic").Info().Msg("parsed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "extractor", entry["component"])
	assert.Equal(t, "semantic", entry["extractor"])
}
