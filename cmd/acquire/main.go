// Command acquire runs one acquisition pass and exits. Useful for backfills
// beyond the scheduled window, e.g. walking deep result pages once.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"devscout_backend/internal/events"
	"devscout_backend/internal/github"
	"devscout_backend/internal/leads/acquisition"
	"devscout_backend/internal/leads/domain"
	"devscout_backend/internal/leads/repository"
	"devscout_backend/platform/config"
	"devscout_backend/platform/db"
	"devscout_backend/platform/logger"
	"devscout_backend/platform/pacing"
)

func main() {
	startPage := flag.Int("start", 1, "first search page to fetch")
	pageCount := flag.Int("pages", 3, "number of pages to walk")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.RunMigrations(ctx, cfg, "migrations"); err != nil {
		log.Error("failed to run database migrations", "error", err)
		os.Exit(1)
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := repository.New(pool, log)
	source := github.New(cfg, log)
	eligibility := domain.NewEligibility(cfg)
	bus := events.NewInMemoryBus(log)

	svc := acquisition.New(source, repo, eligibility, nil,
		pacing.NewFixedDelay(cfg.GetItemPace()),
		pacing.NewFixedDelay(cfg.GetPagePace()),
		bus, log)

	result, err := svc.Run(ctx, *startPage, *pageCount)
	if result != nil {
		fmt.Printf("pages fetched: %d\nleads found:   %d\nleads added:   %d\n",
			result.PagesFetched, result.LeadsFound, result.LeadsAdded)
		for _, msg := range result.Errors {
			fmt.Fprintln(os.Stderr, msg)
		}
	}
	if err != nil {
		log.Error("acquisition run failed", "error", err)
		os.Exit(1)
	}
}
