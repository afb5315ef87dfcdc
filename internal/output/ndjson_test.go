package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vburojevic/nifimon/internal/domain"
)

func TestNDJSONWriter_WriteWalkSummary(t *testing.T) {
	var buf bytes.Buffer
	w := NewNDJSONWriter(&buf)

	err := w.WriteWalkSummary(&WalkSummaryOutput{
		Timestamp:  "2026-10-19T08:00:00Z",
		BaseURL:    "https://nifi.example.org",
		Root:       "root",
		Pass:       3,
		Fetches:    7,
		Failures:   1,
		Records:    12,
		Errors:     2,
		MaxDepth:   2,
		DurationMS: 840,
		LogFile:    "/var/log/nifimon.log",
	})
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "walk_summary", out["type"])
	assert.EqualValues(t, SchemaVersion, out["schemaVersion"])
	assert.EqualValues(t, 7, out["fetches"])
	assert.EqualValues(t, 1, out["failures"])
	assert.EqualValues(t, 840, out["duration_ms"])
	assert.Equal(t, "/var/log/nifimon.log", out["log_file"])
}

func TestNDJSONWriter_WriteError(t *testing.T) {
	t.Run("without hint", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewNDJSONWriter(&buf).WriteError("MISSING_BASE_URL", "base URL is required"))

		var out domain.ErrorOutput
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, "error", out.Type)
		assert.Equal(t, SchemaVersion, out.SchemaVersion)
		assert.Equal(t, "MISSING_BASE_URL", out.Code)
		assert.Equal(t, "base URL is required", out.Message)
		assert.NotContains(t, buf.String(), "hint")
	})

	t.Run("with hint", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewNDJSONWriter(&buf).WriteError("MISSING_BASE_URL", "base URL is required", "pass --base-url"))

		var out domain.ErrorOutput
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, "pass --base-url", out.Hint)
	})
}

func TestNDJSONWriter_OneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	w := NewNDJSONWriter(&buf)
	require.NoError(t, w.WriteMetadata("1.2.0", "abc123"))
	require.NoError(t, w.WriteWarning("interval shorter than last pass"))
	require.NoError(t, w.WriteRaw(map[string]string{"type": "custom", "message": "<ok>"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.True(t, json.Valid([]byte(line)), line)
	}
	assert.Contains(t, lines[0], `"version":"1.2.0"`)
	assert.Contains(t, lines[2], "<ok>", "HTML escaping is disabled")
}

func TestTextWriter_WriteWalkSummary(t *testing.T) {
	DisableStyles()

	t.Run("healthy pass", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewTextWriter(&buf).WriteWalkSummary(&WalkSummaryOutput{
			Timestamp: "2026-10-19T08:00:00Z", Pass: 1, Fetches: 3, Records: 4, DurationMS: 1500,
		})
		require.NoError(t, err)
		out := buf.String()
		assert.Contains(t, out, "OK")
		assert.Contains(t, out, "groups=4")
		assert.Contains(t, out, "failures=0")
		assert.Contains(t, out, "(1.5s)")
	})

	t.Run("errors win over failures", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewTextWriter(&buf).WriteWalkSummary(&WalkSummaryOutput{Failures: 1, Errors: 2})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "ERRORS")
		assert.Contains(t, buf.String(), "errors=2")
	})
}

func TestStatusText(t *testing.T) {
	DisableStyles()
	assert.Equal(t, "OK", StatusText(false, false))
	assert.Equal(t, "DEGRADED", StatusText(true, false))
	assert.Equal(t, "ERRORS", StatusText(true, true))
}

func TestLevelStyle(t *testing.T) {
	saved := Styles
	defer func() { Styles = saved }()
	Styles.Error = lipgloss.NewStyle().Bold(true)
	Styles.Warn = lipgloss.NewStyle().Italic(true)
	Styles.Info = lipgloss.NewStyle().Underline(true)

	assert.Equal(t, Styles.Error, LevelStyle("ERROR"))
	assert.Equal(t, Styles.Warn, LevelStyle("WARN"))
	assert.Equal(t, Styles.Warn, LevelStyle("WARNING"))
	assert.Equal(t, Styles.Info, LevelStyle("INFO"))
	assert.Equal(t, Styles.Info, LevelStyle("DEBUG"))
}
