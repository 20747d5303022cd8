package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/ai4local/ai4local/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "warn")
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", "org_id", 7)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.EqualValues(t, 7, entry["org_id"])
	assert.Contains(t, entry, "source")

	_, err = time.Parse(time.RFC3339, entry["time"].(string))
	assert.NoError(t, err)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := logging.New(&bytes.Buffer{}, "verbose")
	assert.ErrorContains(t, err, `invalid log level "verbose"`)
}
