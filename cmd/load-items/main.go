package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/okian/draftrank/internal/adapters/repository"
	"github.com/okian/draftrank/internal/config"
	"github.com/okian/draftrank/internal/seed"
	"github.com/okian/draftrank/pkg/logger"
)

const (
	defaultInput   = "data/items.json"
	defaultTimeout = 5 * time.Minute
)

func main() {
	var (
		input     = flag.String("input", defaultInput, "JSON array of items to load")
		backend   = flag.String("backend", "", "Store backend: memory, json, sqlite, dynamodb (default from config)")
		path      = flag.String("path", "", "File path for the json or sqlite backend (default from config)")
		table     = flag.String("table", "", "DynamoDB table (default from config)")
		recompute = flag.Bool("recompute", true, "Recompute value7..value10 from value1..value6")
		dryRun    = flag.Bool("dry-run", false, "Validate the input without writing")
		verbose   = flag.Bool("verbose", false, "Log every written item")
		timeout   = flag.Duration("timeout", defaultTimeout, "Overall load timeout")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seed.ShowHelp()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	overrideStore(cfg, *backend, *path, *table)
	if err := cfg.Validate(); err != nil {
		os.Stderr.WriteString("invalid store flags: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	_ = logger.SetLevelString(cfg.LogLevel)
	log := logger.Get()

	store, err := repository.Open(ctx, cfg.Store(), repository.WithLogger(log.Named("store")))
	if err != nil {
		log.Error(ctx, "failed to open store", logger.Error(err))
		os.Exit(1)
	}

	stats, err := seed.Run(ctx, &seed.Config{
		Input:     *input,
		Recompute: *recompute,
		DryRun:    *dryRun,
		Verbose:   *verbose,
		Store:     cfg.Store(),
		Logger:    log,
	}, store)
	if cerr := repository.Close(store); cerr != nil {
		log.Warn(ctx, "failed to close store", logger.Error(cerr))
	}
	if err != nil {
		log.Error(ctx, "load failed", logger.Error(err))
		os.Exit(1)
	}

	teams := make([]string, 0, len(stats.Teams))
	for team := range stats.Teams {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	for _, team := range teams {
		os.Stdout.WriteString(team + ": " + strconv.Itoa(stats.Teams[team]) + "\n")
	}
	os.Stdout.WriteString("read " + strconv.Itoa(stats.Read) + ", wrote " + strconv.Itoa(stats.Written) + "\n")
}

// overrideStore applies the command-line store flags on top of the loaded config.
func overrideStore(cfg *config.Config, backend, path, table string) {
	if backend != "" {
		cfg.StoreBackend = backend
	}
	if path != "" {
		switch cfg.StoreBackend {
		case repository.BackendSQLite:
			cfg.SQLitePath = path
		default:
			cfg.JSONPath = path
		}
	}
	if table != "" {
		cfg.DynamoTable = table
	}
}
