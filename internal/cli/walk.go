package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/mattn/go-isatty"

	"github.com/vburojevic/nifimon/internal/domain"
	"github.com/vburojevic/nifimon/internal/monitor"
	"github.com/vburojevic/nifimon/internal/nifi"
	"github.com/vburojevic/nifimon/internal/output"
	"github.com/vburojevic/nifimon/internal/walker"
)

// WalkCmd walks the process group tree and logs one record per group
type WalkCmd struct {
	BaseURL    string `name:"base-url" default:"${config_base_url}" help:"NiFi REST API base URL, e.g. https://host:8443/nifi-api"`
	Username   string `short:"u" default:"${config_username}" help:"Username for basic auth"`
	Password   string `short:"p" env:"NIFIMON_PASSWORD" default:"${config_password}" help:"Password for basic auth"`
	APIPath    string `name:"api-path" default:"${config_api_path}" help:"Process group endpoint relative to the base URL"`
	MaxDepth   int    `short:"d" name:"max-depth" default:"${config_max_depth}" help:"Levels to descend below the root (0 logs the root's children only)"`
	Root       string `default:"${config_root}" help:"Process group id to start from"`
	LogFile    string `name:"log-file" default:"${config_log_file}" help:"File that receives one line per process group"`
	Interval   string `default:"${config_interval}" help:"Repeat the walk on this interval (0 runs once)"`
	Passes     int    `default:"${config_passes}" help:"Stop after this many walks (0 means no limit)"`
	Retries    uint   `default:"${config_retries}" help:"Extra attempts for failed requests (5xx and transport errors)"`
	RetryDelay string `name:"retry-delay" default:"${config_retry_delay}" help:"Delay between retries"`
	Timeout    string `default:"${config_timeout}" help:"Per-request timeout (0 keeps the transport default)"`
}

// walkSettings are the validated, parsed flags
type walkSettings struct {
	interval      time.Duration
	timeout       time.Duration
	retryDelay    time.Duration
	flushInterval time.Duration
	root          string
}

// Run executes the walk command
func (c *WalkCmd) Run(globals *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	maybeNoStyle(globals)
	return c.run(ctx, globals, clock.New(), nil)
}

// run does the work of Run; tests pass a mock clock and HTTP client.
func (c *WalkCmd) run(ctx context.Context, globals *Globals, clk clock.Clock, hc *http.Client) error {
	settings, err := c.validate(globals)
	if err != nil {
		return err
	}

	if globals.FlagProvided("password") && c.Password != "" {
		emitWarning(globals, "--password is visible in process listings; prefer NIFIMON_PASSWORD or api.password in the config file")
	}

	logCfg := globals.Config.Log
	sink, err := output.OpenSink(output.SinkConfig{
		Path:          c.LogFile,
		MaxSizeMB:     logCfg.MaxSizeMB,
		MaxBackups:    logCfg.MaxBackups,
		MaxAgeDays:    logCfg.MaxAgeDays,
		Compress:      logCfg.Compress,
		FlushInterval: settings.flushInterval,
	})
	if err != nil {
		return outputErrorCommon(globals, "LOG_FILE_ERROR", fmt.Sprintf("cannot open log file: %s", err), hintForLogFile(err))
	}
	defer func() {
		if err := sink.Close(); err != nil {
			globals.Debug("failed to close log file: %v", err)
		}
	}()

	opts := []nifi.Option{nifi.WithLogger(sink.Logger)}
	if hc != nil {
		opts = append(opts, nifi.WithHTTPClient(hc))
	}
	client, err := nifi.NewClient(nifi.Config{
		BaseURL:    c.BaseURL,
		Username:   c.Username,
		Password:   c.Password,
		Path:       c.APIPath,
		Timeout:    settings.timeout,
		Retries:    c.Retries,
		RetryDelay: settings.retryDelay,
		UserAgent:  "nifimon/" + Version,
	}, opts...)
	if err != nil {
		return outputErrorCommon(globals, "INVALID_BASE_URL", err.Error(), hintForBaseURL(err))
	}

	globals.Debug("Root URL: %s", client.GroupURL(settings.root))
	globals.Debug("Max depth: %d, interval: %s, passes: %d, log file: %s", c.MaxDepth, settings.interval, c.Passes, c.LogFile)

	w := walker.New(client, sink.Logger, c.MaxDepth)
	poller := monitor.NewPoller(clk, settings.interval, c.Passes, func(ctx context.Context, n int) {
		start := clk.Now()
		stats := w.Run(ctx, settings.root)
		c.writeSummary(globals, settings.root, n, stats, clk.Now().Sub(start))
	})

	if err := poller.Run(ctx); err != nil {
		return outputErrorCommon(globals, "WALK_FAILED", err.Error())
	}

	if ctx.Err() != nil {
		globals.Debug("Stopped: %v", ctx.Err())
	}
	return nil
}

func (c *WalkCmd) validate(globals *Globals) (*walkSettings, error) {
	if c.BaseURL == "" {
		return nil, outputErrorCommon(globals, "MISSING_BASE_URL", "a NiFi base URL is required", hintForBaseURL(nil))
	}
	if c.MaxDepth < 0 {
		return nil, outputErrorCommon(globals, "INVALID_MAX_DEPTH", fmt.Sprintf("max depth must be zero or positive, got %d", c.MaxDepth))
	}
	if c.Passes < 0 {
		return nil, outputErrorCommon(globals, "INVALID_PASSES", fmt.Sprintf("passes must be zero or positive, got %d", c.Passes))
	}
	if c.LogFile == "" {
		return nil, outputErrorCommon(globals, "LOG_FILE_ERROR", "a log file path is required", hintForLogFile(os.ErrNotExist))
	}

	s := &walkSettings{root: c.Root}
	if s.root == "" {
		s.root = domain.RootGroupID
	}

	durations := []struct {
		flag  string
		value string
		dst   *time.Duration
	}{
		{"interval", c.Interval, &s.interval},
		{"timeout", c.Timeout, &s.timeout},
		{"retry-delay", c.RetryDelay, &s.retryDelay},
		{"flush-interval", globals.Config.Log.FlushInterval, &s.flushInterval},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		v, err := time.ParseDuration(d.value)
		if err != nil || v < 0 {
			msg := fmt.Sprintf("invalid %s duration %q", d.flag, d.value)
			if err != nil {
				msg = fmt.Sprintf("invalid %s duration: %s", d.flag, err)
			}
			return nil, outputErrorCommon(globals, "INVALID_DURATION", msg, hintForDuration(d.flag))
		}
		*d.dst = v
	}
	return s, nil
}

func (c *WalkCmd) writeSummary(globals *Globals, root string, pass int, stats walker.Stats, elapsed time.Duration) {
	if globals.Quiet {
		return
	}
	summary := &output.WalkSummaryOutput{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		BaseURL:    c.BaseURL,
		Root:       root,
		Pass:       pass,
		Fetches:    stats.Fetches,
		Failures:   stats.Failures,
		Records:    stats.Records,
		Errors:     stats.Errors,
		MaxDepth:   stats.MaxDepth,
		DurationMS: elapsed.Milliseconds(),
		LogFile:    c.LogFile,
	}

	var err error
	if globals.Format == "ndjson" {
		err = output.NewNDJSONWriter(globals.Stdout).WriteWalkSummary(summary)
	} else {
		err = output.NewTextWriter(globals.Stdout).WriteWalkSummary(summary)
	}
	if err != nil {
		globals.Debug("failed to write walk summary: %v", err)
	}
}

// maybeNoStyle drops colors when stdout is not a terminal
func maybeNoStyle(globals *Globals) {
	if globals == nil || globals.Stdout == nil {
		return
	}
	if f, ok := globals.Stdout.(*os.File); ok {
		if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
			output.DisableStyles()
		}
	}
}
