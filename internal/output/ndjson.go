package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/vburojevic/nifimon/internal/domain"
)

// NDJSONWriter writes stdout messages as NDJSON
type NDJSONWriter struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewNDJSONWriter creates a new NDJSON writer
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &NDJSONWriter{
		w:       w,
		encoder: enc,
	}
}

// WalkSummaryOutput reports the outcome of one traversal
type WalkSummaryOutput struct {
	Type          string `json:"type"` // Always "walk_summary"
	SchemaVersion int    `json:"schemaVersion"`
	Timestamp     string `json:"timestamp"`
	BaseURL       string `json:"base_url"`
	Root          string `json:"root"`
	Pass          int    `json:"pass"`
	Fetches       int    `json:"fetches"`
	Failures      int    `json:"failures"`
	Records       int    `json:"records"`
	Errors        int    `json:"errors"`
	MaxDepth      int    `json:"max_depth"`
	DurationMS    int64  `json:"duration_ms"`
	LogFile       string `json:"log_file"`
}

// WarningOutput represents a warning message
type WarningOutput struct {
	Type          string `json:"type"` // Always "warning"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
}

// MetadataOutput describes the tool version
type MetadataOutput struct {
	Type          string `json:"type"` // Always "version"
	SchemaVersion int    `json:"schemaVersion"`
	Version       string `json:"version"`
	Commit        string `json:"commit"`
}

// WriteWalkSummary outputs a traversal summary
func (w *NDJSONWriter) WriteWalkSummary(s *WalkSummaryOutput) error {
	s.Type = "walk_summary"
	s.SchemaVersion = SchemaVersion
	return w.encoder.Encode(s)
}

// WriteError outputs an error
func (w *NDJSONWriter) WriteError(code, message string, hint ...string) error {
	err := domain.NewErrorOutput(code, message)
	if len(hint) > 0 {
		err.Hint = hint[0]
	}
	err.SchemaVersion = SchemaVersion
	return w.encoder.Encode(err)
}

// WriteRaw outputs raw JSON data
func (w *NDJSONWriter) WriteRaw(v interface{}) error {
	return w.encoder.Encode(v)
}

// WriteWarning outputs a warning message
func (w *NDJSONWriter) WriteWarning(message string) error {
	return w.encoder.Encode(&WarningOutput{
		Type:          "warning",
		SchemaVersion: SchemaVersion,
		Message:       message,
	})
}

// WriteMetadata outputs version information
func (w *NDJSONWriter) WriteMetadata(version, commit string) error {
	return w.encoder.Encode(&MetadataOutput{
		Type:          "version",
		SchemaVersion: SchemaVersion,
		Version:       version,
		Commit:        commit,
	})
}

// TextWriter writes stdout messages as styled text
type TextWriter struct {
	w io.Writer
}

// NewTextWriter creates a new text writer
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// WriteWalkSummary outputs a one-line styled traversal summary
func (w *TextWriter) WriteWalkSummary(s *WalkSummaryOutput) error {
	status := StatusText(s.Failures > 0, s.Errors > 0)
	line := Styles.Timestamp.Render(s.Timestamp) + " " + status + " "
	line += Styles.Label.Render("pass=") + Styles.Value.Render(strconv.Itoa(s.Pass)) + " "
	line += Styles.Label.Render("groups=") + Styles.Value.Render(strconv.Itoa(s.Records)) + " "
	line += Styles.Label.Render("fetches=") + Styles.Value.Render(strconv.Itoa(s.Fetches)) + " "

	if s.Failures > 0 {
		line += Styles.Warning.Render("failures="+strconv.Itoa(s.Failures)) + " "
	} else {
		line += Styles.Label.Render("failures=") + Styles.Value.Render("0") + " "
	}
	if s.Errors > 0 {
		line += Styles.Danger.Render("errors=" + strconv.Itoa(s.Errors))
	} else {
		line += Styles.Label.Render("errors=") + Styles.Value.Render("0")
	}
	line += " " + Styles.Label.Render(fmt.Sprintf("(%s)", time.Duration(s.DurationMS)*time.Millisecond)) + "\n"

	_, err := io.WriteString(w.w, line)
	return err
}

// WriteError outputs a styled error
func (w *TextWriter) WriteError(code, message string) error {
	errorLabel := Styles.Danger.Render("Error")
	codeStr := Styles.Warning.Render("[" + code + "]")
	line := errorLabel + " " + codeStr + ": " + message + "\n"
	_, err := io.WriteString(w.w, line)
	return err
}
