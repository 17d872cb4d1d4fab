package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/okian/draftrank/internal/adapters/repository"
	"github.com/okian/draftrank/pkg/logger"
)

// Run parses cfg.Input and writes every item to store.
func Run(ctx context.Context, cfg *Config, store repository.Store) (Stats, error) {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("seed")

	data, err := os.ReadFile(cfg.Input)
	if err != nil {
		return Stats{}, fmt.Errorf("read %s: %w", cfg.Input, err)
	}
	items, err := Parse(data, cfg.Recompute)
	if err != nil {
		return Stats{}, fmt.Errorf("parse %s: %w", cfg.Input, err)
	}

	stats := Stats{Read: len(items), Teams: map[string]int{}}
	for _, it := range items {
		stats.Teams[it.Team]++
	}
	log.Info(ctx, "loaded items",
		logger.String("input", cfg.Input),
		logger.Int("count", len(items)),
		logger.Any("teams", stats.Teams))

	if cfg.DryRun {
		log.Info(ctx, "dry run; nothing written")
		return stats, nil
	}
	if err := store.SaveItems(ctx, items); err != nil {
		return stats, fmt.Errorf("write items: %w", err)
	}
	if cfg.Verbose {
		for _, it := range items {
			log.Info(ctx, "written", logger.String("id", it.ID), logger.String("team", it.Team))
		}
	}
	stats.Written = len(items)
	log.Info(ctx, "done",
		logger.Int("written", stats.Written),
		logger.String("backend", cfg.Store.Backend))
	return stats, nil
}
