package cli

import (
	"fmt"
	"os"

	"github.com/vburojevic/nifimon/internal/config"
	"github.com/vburojevic/nifimon/internal/output"
	"github.com/vburojevic/nifimon/internal/report"
)

// ReportCmd summarizes a monitor log file
type ReportCmd struct {
	File       string `arg:"" optional:"" help:"Monitor log file (default: the configured log file)"`
	ErrorsOnly bool   `name:"errors-only" help:"Only list groups whose latest record has ERROR bulletins"`
}

// Run executes the report command
func (c *ReportCmd) Run(globals *Globals) error {
	maybeNoStyle(globals)

	path := c.File
	if path == "" {
		path = config.DefaultLogFile
		if globals.Config != nil && globals.Config.Log.File != "" {
			path = globals.Config.Log.File
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return outputErrorCommon(globals, "FILE_NOT_FOUND", fmt.Sprintf("cannot open file: %s", err), "Run `nifimon walk` first or pass the log file path")
	}
	defer func() {
		if err := file.Close(); err != nil {
			globals.Debug("Failed to close file: %v", err)
		}
	}()

	rep, err := report.Build(file, path)
	if err != nil {
		return outputErrorCommon(globals, "READ_ERROR", fmt.Sprintf("error reading file: %s", err))
	}
	globals.Debug("Read %d lines, skipped %d", rep.Lines, rep.SkippedLines)
	if rep.SkippedLines > 0 {
		emitWarning(globals, fmt.Sprintf("skipped %d lines that are not monitor records", rep.SkippedLines))
	}

	if c.ErrorsOnly {
		rep.Groups = report.ErrorsOnly(rep.Groups)
	}

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteRaw(rep)
	}
	return report.RenderText(globals.Stdout, rep)
}
