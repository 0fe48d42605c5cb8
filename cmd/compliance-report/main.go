// compliance-report prints compliance summaries as JSON without going through the HTTP API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/pflag"

	"workcompliance/internal/app"
	"workcompliance/internal/config"
	applogger "workcompliance/internal/logger"
	"workcompliance/internal/service"
)

var errUsage = errors.New("exactly one of --worker, --site or --global is required")

type options struct {
	worker string
	sites  []string
	global bool
	at     time.Time
	help   bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flagSet := newFlagSet()
	opts, err := parseFlags(flagSet, os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) || errors.Is(err, errUsage) {
			printHelp(flagSet)
		}
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if opts.help {
		printHelp(flagSet)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// reports go to stdout, logs only when something is wrong
	cfg.Log.Level = "warn"
	logger, err := applogger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	return report(ctx, deps.Service(cfg.Compliance, logger, nil), opts, os.Stdout)
}

func newFlagSet() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("compliance-report", pflag.ContinueOnError)
	flagSet.String("worker", "", "report one worker")
	flagSet.StringSlice("site", nil, "report a site (repeatable, or comma-separated)")
	flagSet.Bool("global", false, "report every worker with an active assignment")
	flagSet.String("at", "", "evaluate at this RFC3339 instant instead of now")
	flagSet.BoolP("help", "h", false, "show help")
	return flagSet
}

func parseFlags(flagSet *pflag.FlagSet, args []string) (options, error) {
	var opts options
	if err := flagSet.Parse(args); err != nil {
		return opts, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return opts, fmt.Errorf("unexpected argument: %s", rest[0])
	}

	opts.worker, _ = flagSet.GetString("worker")
	if sites, _ := flagSet.GetStringSlice("site"); len(sites) > 0 {
		opts.sites = sites
	}
	opts.global, _ = flagSet.GetBool("global")
	opts.help, _ = flagSet.GetBool("help")
	if opts.help {
		return opts, nil
	}

	if raw, _ := flagSet.GetString("at"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return opts, fmt.Errorf("--at: %w", err)
		}
		opts.at = at.UTC()
	}

	modes := 0
	for _, set := range []bool{opts.worker != "", len(opts.sites) > 0, opts.global} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		return opts, errUsage
	}
	return opts, nil
}

func report(ctx context.Context, svc service.ComplianceService, opts options, w io.Writer) error {
	if !opts.at.IsZero() {
		svc = svc.AsOf(opts.at)
	}

	var (
		res any
		err error
	)
	switch {
	case opts.worker != "":
		res, err = svc.WorkerCompliance(ctx, opts.worker)
	case len(opts.sites) > 0:
		res, err = svc.FleetCompliance(ctx, opts.sites)
	default:
		res, err = svc.GlobalCompliance(ctx)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `compliance-report computes document compliance and prints it as JSON.

Usage:
  compliance-report --worker ID [--at TIME]
  compliance-report --site ID [--site ID ...] [--at TIME]
  compliance-report --global [--at TIME]

Configuration comes from the same environment variables as the API server.

Flags:
`)
	flagSet.PrintDefaults()
}
