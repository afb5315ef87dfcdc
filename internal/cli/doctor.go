package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vburojevic/nifimon/internal/config"
	"github.com/vburojevic/nifimon/internal/domain"
	"github.com/vburojevic/nifimon/internal/nifi"
	"github.com/vburojevic/nifimon/internal/output"
	"github.com/vburojevic/nifimon/internal/projection"
)

// DoctorCmd checks configuration, the log file and API access
type DoctorCmd struct {
	Timeout time.Duration `default:"15s" help:"Time limit for the API check"`
}

// checkResult represents a single diagnostic check
type checkResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

// doctorReport is the complete diagnostic report
type doctorReport struct {
	Type          string        `json:"type"`
	SchemaVersion int           `json:"schemaVersion"`
	Timestamp     string        `json:"timestamp"`
	Checks        []checkResult `json:"checks"`
	AllPassed     bool          `json:"all_passed"`
	ErrorCount    int           `json:"error_count"`
	WarnCount     int           `json:"warn_count"`
}

// Run executes the doctor command
func (c *DoctorCmd) Run(globals *Globals) error {
	maybeNoStyle(globals)
	return c.run(context.Background(), globals, nil)
}

func (c *DoctorCmd) run(ctx context.Context, globals *Globals, hc *http.Client) error {
	cfg := globals.Config
	if cfg == nil {
		cfg = config.Default()
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	checks := []checkResult{
		c.checkConfig(),
		c.checkLogFile(cfg),
	}
	client, check := c.checkClient(cfg, hc)
	checks = append(checks, check)
	if client != nil {
		checks = append(checks, c.checkAPI(ctx, client, cfg.Walk.Root))
	}

	errorCount := 0
	warnCount := 0
	for _, check := range checks {
		if check.Status == "error" {
			errorCount++
		} else if check.Status == "warning" {
			warnCount++
		}
	}

	report := doctorReport{
		Type:          "doctor",
		SchemaVersion: output.SchemaVersion,
		Timestamp:     time.Now().Format(time.RFC3339),
		Checks:        checks,
		AllPassed:     errorCount == 0,
		ErrorCount:    errorCount,
		WarnCount:     warnCount,
	}

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteRaw(report)
	}

	fmt.Fprintln(globals.Stdout, output.Styles.Header.Render("nifimon Doctor"))
	fmt.Fprintln(globals.Stdout)
	for _, check := range checks {
		var icon string
		switch check.Status {
		case "ok":
			icon = output.Styles.Success.Render("✓")
		case "warning":
			icon = output.Styles.Warning.Render("⚠")
		case "error":
			icon = output.Styles.Danger.Render("✗")
		}

		fmt.Fprintf(globals.Stdout, "%s %s\n", icon, check.Name)
		if check.Message != "" {
			fmt.Fprintf(globals.Stdout, "  %s\n", check.Message)
		}
		if check.Details != "" {
			fmt.Fprintf(globals.Stdout, "  %s\n", check.Details)
		}
	}

	fmt.Fprintln(globals.Stdout)
	if errorCount == 0 && warnCount == 0 {
		fmt.Fprintln(globals.Stdout, "All checks passed!")
	} else {
		fmt.Fprintf(globals.Stdout, "Errors: %d, Warnings: %d\n", errorCount, warnCount)
	}
	return nil
}

func (c *DoctorCmd) checkConfig() checkResult {
	path := config.ConfigFile()
	if path == "" {
		return checkResult{
			Name:    "Config file",
			Status:  "warning",
			Message: "No config file found, using defaults and environment",
			Details: "Generate one with `nifimon config generate > ~/.nifimon.yaml`",
		}
	}
	if _, err := config.LoadFromFile(path); err != nil {
		return checkResult{Name: "Config file", Status: "error", Message: path, Details: err.Error()}
	}
	return checkResult{Name: "Config file", Status: "ok", Message: path}
}

func (c *DoctorCmd) checkLogFile(cfg *config.Config) checkResult {
	sink, err := output.OpenSink(output.SinkConfig{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		return checkResult{Name: "Log file", Status: "error", Message: err.Error(), Details: hintForLogFile(err)}
	}
	if err := sink.Close(); err != nil {
		return checkResult{Name: "Log file", Status: "warning", Message: cfg.Log.File, Details: err.Error()}
	}
	return checkResult{Name: "Log file", Status: "ok", Message: cfg.Log.File}
}

func (c *DoctorCmd) checkClient(cfg *config.Config, hc *http.Client) (*nifi.Client, checkResult) {
	if cfg.API.BaseURL == "" {
		return nil, checkResult{Name: "Base URL", Status: "error", Message: "not configured", Details: hintForBaseURL(nil)}
	}
	var opts []nifi.Option
	if hc != nil {
		opts = append(opts, nifi.WithHTTPClient(hc))
	}
	client, err := nifi.NewClient(nifi.Config{
		BaseURL:   cfg.API.BaseURL,
		Username:  cfg.API.Username,
		Password:  cfg.API.Password,
		Path:      cfg.API.Path,
		UserAgent: "nifimon/" + Version,
	}, opts...)
	if err != nil {
		return nil, checkResult{Name: "Base URL", Status: "error", Message: err.Error(), Details: hintForBaseURL(err)}
	}
	return client, checkResult{Name: "Base URL", Status: "ok", Message: cfg.API.BaseURL}
}

func (c *DoctorCmd) checkAPI(ctx context.Context, client *nifi.Client, root string) checkResult {
	if root == "" {
		root = domain.RootGroupID
	}
	name := "API access (" + root + ")"

	doc, err := client.Fetch(ctx, root)
	if err != nil {
		details := ""
		var apiErr *nifi.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.StatusCode {
			case http.StatusUnauthorized, http.StatusForbidden:
				details = "Check api.username/api.password (or NIFIMON_PASSWORD)"
			case http.StatusNotFound:
				details = "Check api.path and walk.root"
			}
		}
		return checkResult{Name: name, Status: "error", Message: err.Error(), Details: details}
	}

	snap, err := projection.Project(doc)
	if err != nil {
		return checkResult{Name: name, Status: "warning", Message: "response is not a process group flow", Details: err.Error()}
	}
	return checkResult{
		Name:    name,
		Status:  "ok",
		Message: fmt.Sprintf("%d child process groups", len(snap.ProcessGroups)),
	}
}
