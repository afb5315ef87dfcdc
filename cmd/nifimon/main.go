package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/vburojevic/nifimon/internal/cli"
	"github.com/vburojevic/nifimon/internal/config"
)

func main() {
	// Load configuration from files/environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI

	// Config values become flag defaults; flags given on the command line win
	vars := kong.Vars{
		"config_format":      cfg.Format,
		"config_base_url":    cfg.API.BaseURL,
		"config_username":    cfg.API.Username,
		"config_password":    cfg.API.Password,
		"config_api_path":    cfg.API.Path,
		"config_timeout":     cfg.API.Timeout,
		"config_retries":     strconv.FormatUint(uint64(cfg.API.Retries), 10),
		"config_retry_delay": cfg.API.RetryDelay,
		"config_root":        cfg.Walk.Root,
		"config_max_depth":   strconv.Itoa(cfg.Walk.MaxDepth),
		"config_interval":    cfg.Walk.Interval,
		"config_passes":      strconv.Itoa(cfg.Walk.Passes),
		"config_log_file":    cfg.Log.File,
	}

	ctx := kong.Parse(&c,
		kong.Name("nifimon"),
		kong.Description("Walk a NiFi process group tree and log one JSON record per group"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		vars,
	)

	globals := cli.NewGlobalsWithConfig(&c, cfg)
	flagsSet := map[string]bool{}
	for _, p := range ctx.Path {
		if p.Flag != nil {
			flagsSet[p.Flag.Name] = true
		}
	}
	globals.FlagsSet = flagsSet

	if err := ctx.Run(globals); err != nil {
		if !cli.IsCLIError(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
