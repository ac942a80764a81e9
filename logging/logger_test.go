package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/crytic/fuzz-cli/logging/colors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAddAndRemoveWriter ensures structured writers are deduplicated and can be removed again.
func TestAddAndRemoveWriter(t *testing.T) {
	logger := NewLogger(zerolog.InfoLevel, nil)

	var first, second bytes.Buffer
	logger.AddWriter(&first)
	logger.AddWriter(&second)
	assert.Len(t, logger.structuredWriters, 2)

	// Duplicates are ignored
	logger.AddWriter(&first)
	assert.Len(t, logger.structuredWriters, 2)

	logger.RemoveWriter(&first)
	assert.Len(t, logger.structuredWriters, 1)
	logger.Info("only second")
	assert.Empty(t, first.String())
	assert.Contains(t, second.String(), "only second")

	logger.RemoveWriter(&second)
	assert.Len(t, logger.structuredWriters, 0)
}

// TestDisabledColors verifies that console output carries no ANSI codes once colors are disabled.
func TestDisabledColors(t *testing.T) {
	colors.DisableColor()

	var buf bytes.Buffer
	logger := NewLogger(zerolog.InfoLevel, &buf)
	logger.Info(colors.Bold, "foo")

	assert.Contains(t, buf.String(), colors.LEFT_ARROW+" foo")
	assert.NotContains(t, buf.String(), "\x1b[")
}

// TestSubLoggerStructuredFields verifies that sub-loggers attach their module key and the structured info payload.
func TestSubLoggerStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(zerolog.InfoLevel, nil)
	logger.AddWriter(&buf)

	sub := logger.NewSubLogger("module", AUTH_SERVICE)
	sub.Warn("token exchange failed", errors.New("boom"), StructuredLogInfo{"status": 403})

	var event map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &event))
	assert.Equal(t, AUTH_SERVICE, event["module"])
	assert.Equal(t, "warn", event["level"])
	assert.Equal(t, "boom", event["error"])
	assert.Equal(t, "token exchange failed", event["message"])
	assert.EqualValues(t, 403, event["info"].(map[string]any)["status"])
}

// TestLevelFiltering verifies that events below the configured level are dropped.
func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(zerolog.WarnLevel, &buf)

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.SetLevel(zerolog.InfoLevel)
	logger.Info("shown")
	assert.Contains(t, buf.String(), "shown")
}
