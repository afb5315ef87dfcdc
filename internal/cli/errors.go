package cli

import (
	"errors"
	"fmt"

	"github.com/vburojevic/nifimon/internal/output"
)

// outputErrorCommon normalizes error emission across commands, respecting
// ndjson vs text formats so scripts always get machine-readable failures.
func outputErrorCommon(globals *Globals, code, message string, hint ...string) error {
	if globals != nil && globals.Format == "ndjson" {
		output.NewNDJSONWriter(globals.Stdout).WriteError(code, message, hint...)
	} else if globals != nil {
		fmt.Fprintf(globals.Stderr, "Error [%s]: %s\n", code, message)
		if len(hint) > 0 && hint[0] != "" {
			fmt.Fprintf(globals.Stderr, "Hint: %s\n", hint[0])
		}
	}
	return &CLIError{Code: code, Message: message, Hint: firstHint(hint)}
}

func firstHint(hint []string) string {
	if len(hint) == 0 {
		return ""
	}
	return hint[0]
}

// emitWarning respects format/quiet.
func emitWarning(globals *Globals, msg string) {
	if globals.Quiet {
		return
	}
	if globals.Format == "ndjson" {
		if err := output.NewNDJSONWriter(globals.Stdout).WriteWarning(msg); err != nil {
			globals.Debug("failed to write warning: %v", err)
		}
		return
	}
	fmt.Fprintf(globals.Stderr, "Warning: %s\n", msg)
}

// IsCLIError reports whether err was already emitted by a command
func IsCLIError(err error) bool {
	var ce *CLIError
	return errors.As(err, &ce)
}

// CLIError is an error that has already been written to stdout or stderr
type CLIError struct {
	Code    string
	Message string
	Hint    string
}

func (e *CLIError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}
