package cli

import (
	"fmt"

	"github.com/vburojevic/nifimon/internal/config"
	"github.com/vburojevic/nifimon/internal/output"
)

// ConfigCmd shows or manages configuration
type ConfigCmd struct {
	Show     ConfigShowCmd     `cmd:"" default:"withargs" help:"Show current configuration"`
	Path     ConfigPathCmd     `cmd:"" help:"Show configuration file path"`
	Generate ConfigGenerateCmd `cmd:"" help:"Generate sample configuration file"`
}

// ConfigShowCmd shows current configuration
type ConfigShowCmd struct{}

const redacted = "********"

// Run executes the config show command
func (c *ConfigShowCmd) Run(globals *Globals) error {
	cfg := globals.Config
	if cfg == nil {
		cfg = config.Default()
	}
	password := ""
	if cfg.API.Password != "" {
		password = redacted
	}

	if globals.Format == "ndjson" {
		api := cfg.API
		api.Password = password
		out := map[string]interface{}{
			"type":          "config",
			"schemaVersion": output.SchemaVersion,
			"format":        cfg.Format,
			"quiet":         cfg.Quiet,
			"verbose":       cfg.Verbose,
			"api":           api,
			"walk":          cfg.Walk,
			"log":           cfg.Log,
			"file":          config.ConfigFile(),
		}
		return output.NewNDJSONWriter(globals.Stdout).WriteRaw(out)
	}

	w := globals.Stdout
	fmt.Fprintln(w, "Current Configuration:")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "  format:  %s\n", cfg.Format)
	fmt.Fprintf(w, "  quiet:   %v\n", cfg.Quiet)
	fmt.Fprintf(w, "  verbose: %v\n", cfg.Verbose)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "API:")
	fmt.Fprintf(w, "  base_url:    %s\n", cfg.API.BaseURL)
	fmt.Fprintf(w, "  username:    %s\n", cfg.API.Username)
	fmt.Fprintf(w, "  password:    %s\n", password)
	fmt.Fprintf(w, "  path:        %s\n", cfg.API.Path)
	fmt.Fprintf(w, "  timeout:     %s\n", cfg.API.Timeout)
	fmt.Fprintf(w, "  retries:     %d\n", cfg.API.Retries)
	fmt.Fprintf(w, "  retry_delay: %s\n", cfg.API.RetryDelay)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Walk:")
	fmt.Fprintf(w, "  root:      %s\n", cfg.Walk.Root)
	fmt.Fprintf(w, "  max_depth: %d\n", cfg.Walk.MaxDepth)
	fmt.Fprintf(w, "  interval:  %s\n", cfg.Walk.Interval)
	fmt.Fprintf(w, "  passes:    %d\n", cfg.Walk.Passes)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Log:")
	fmt.Fprintf(w, "  file:           %s\n", cfg.Log.File)
	fmt.Fprintf(w, "  max_size_mb:    %d\n", cfg.Log.MaxSizeMB)
	fmt.Fprintf(w, "  max_backups:    %d\n", cfg.Log.MaxBackups)
	fmt.Fprintf(w, "  max_age_days:   %d\n", cfg.Log.MaxAgeDays)
	fmt.Fprintf(w, "  compress:       %v\n", cfg.Log.Compress)
	fmt.Fprintf(w, "  flush_interval: %s\n", cfg.Log.FlushInterval)

	if path := config.ConfigFile(); path != "" {
		fmt.Fprintln(w, "")
		fmt.Fprintf(w, "Loaded from: %s\n", path)
	}

	return nil
}

// ConfigPathCmd shows config file path
type ConfigPathCmd struct{}

// Run executes the config path command
func (c *ConfigPathCmd) Run(globals *Globals) error {
	path := config.ConfigFile()

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteRaw(map[string]interface{}{
			"type": "config_path",
			"path": path,
		})
	}

	if path == "" {
		fmt.Fprintln(globals.Stdout, "No configuration file found")
		fmt.Fprintln(globals.Stdout, "")
		fmt.Fprintln(globals.Stdout, "Create one at:")
		fmt.Fprintln(globals.Stdout, "  ./.nifimon.yaml")
		fmt.Fprintln(globals.Stdout, "  ~/.nifimon.yaml")
		fmt.Fprintln(globals.Stdout, "  ~/.config/nifimon/config.yaml")
		fmt.Fprintln(globals.Stdout, "  /etc/nifimon/config.yaml")
	} else {
		fmt.Fprintf(globals.Stdout, "Config file: %s\n", path)
	}

	return nil
}

// ConfigGenerateCmd generates a sample configuration file
type ConfigGenerateCmd struct{}

const sampleConfig = `# nifimon configuration file
# Place this file at ./.nifimon.yaml, ~/.nifimon.yaml,
# ~/.config/nifimon/config.yaml or /etc/nifimon/config.yaml

# Output format for stdout summaries: "ndjson" (default) or "text"
format: ndjson

# Suppress stdout summaries (the log file is still written)
quiet: false

# Enable verbose/debug output on stderr
verbose: false

api:
  # NiFi REST API base URL
  base_url: http://localhost:8080/nifi-api

  # Basic auth credentials (NIFIMON_PASSWORD also works)
  # username: monitor
  # password: secret

  # Process group endpoint, relative to base_url
  path: /api/flow/process-groups

  # Per-request timeout; 0s keeps the transport default
  timeout: 0s

  # Extra attempts for 5xx responses and transport errors
  retries: 0
  retry_delay: 1s

walk:
  # Process group to start from
  root: root

  # Levels to descend below the root (0 logs the root's children only)
  max_depth: 0

  # Repeat the walk on this interval; 0s runs once
  interval: 0s

  # Stop after this many walks when repeating (0 means no limit)
  passes: 0

log:
  # One line per process group: "{time} {level} {json}"
  file: /tmp/nifi-monitor.log

  # Rotation
  max_size_mb: 100
  max_backups: 3
  max_age_days: 0
  compress: false

  # How often buffered lines are written to the file
  flush_interval: 1s
`

// Run executes the config generate command
func (c *ConfigGenerateCmd) Run(globals *Globals) error {
	_, err := fmt.Fprint(globals.Stdout, sampleConfig)
	return err
}
