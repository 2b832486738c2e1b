package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-trainer/internal/config"
	"github.com/lox/holdem-trainer/internal/session"
	"github.com/lox/holdem-trainer/internal/statistics"
)

// SimulateCmd benchmarks a personality against the configured table by
// running AI-vs-AI sessions in parallel.
type SimulateCmd struct {
	Hands    int    `default:"1000" help:"Hands per session"`
	Sessions int    `default:"4" help:"Sessions to run in parallel"`
	Hero     string `default:"tag" help:"Personality for the tracked seat"`
	Seed     int64  `default:"1" help:"Base RNG seed; session i plays with seed+i"`
}

func (c *SimulateCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := setupLogger(cfg, cli.Debug)
	warnDroppedRangeEntries(logger, cfg)

	heroPersonality, err := cfg.Personality(c.Hero)
	if err != nil {
		return err
	}
	opponents, err := configuredOpponents(cfg)
	if err != nil {
		return err
	}

	logger.Info("simulating",
		"hero", c.Hero,
		"sessions", c.Sessions,
		"hands_per_session", c.Hands,
		"seed", c.Seed)
	start := time.Now()

	var mu sync.Mutex
	combined := &statistics.Statistics{}

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < c.Sessions; i++ {
		g.Go(func() error {
			sess, err := session.New(session.Config{
				Settings:        cfg.Settings(),
				HeroName:        c.Hero,
				HeroPersonality: heroPersonality,
				Opponents:       opponents,
				Hands:           c.Hands,
				Seed:            c.Seed + int64(i),
				Logger:          logger,
			})
			if err != nil {
				return err
			}
			if err := sess.Run(ctx); err != nil {
				return fmt.Errorf("session %d: %w", i, err)
			}

			mu.Lock()
			defer mu.Unlock()
			for _, net := range sess.Stats().Values {
				combined.Add(statistics.HandOutcome{NetBB: net})
			}
			combined.ShowdownWins += sess.Stats().ShowdownWins
			combined.NonShowdownWins += sess.Stats().NonShowdownWins
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	printSimulationSummary(combined, c.Hero, time.Since(start))
	return nil
}

func printSimulationSummary(stats *statistics.Statistics, hero string, elapsed time.Duration) {
	lo, hi := stats.ConfidenceInterval95()
	fmt.Fprintf(os.Stdout, "\n=== %s over %d hands (%.1fs) ===\n", hero, stats.Hands, elapsed.Seconds())
	fmt.Fprintf(os.Stdout, "mean:    %+.4f bb/hand\n", stats.Mean())
	fmt.Fprintf(os.Stdout, "median:  %+.4f bb/hand\n", stats.Median())
	fmt.Fprintf(os.Stdout, "stddev:  %.4f bb\n", stats.StdDev())
	fmt.Fprintf(os.Stdout, "95%% CI:  [%+.4f, %+.4f] bb/hand\n", lo, hi)
	fmt.Fprintf(os.Stdout, "wins:    %d showdown, %d uncontested\n",
		stats.ShowdownWins, stats.NonShowdownWins)
}
