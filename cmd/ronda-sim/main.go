package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/ronda/internal/simulator"
)

type CLI struct {
	Config  string `help:"Path to an HCL simulation config" type:"existingfile"`
	Games   int    `help:"Override the number of games to simulate"`
	Seed    int64  `help:"Override the RNG seed (0 for time-based)"`
	Workers int    `help:"Override the number of parallel workers"`
	Verbose bool   `short:"v" help:"Verbose logging"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("ronda-sim"),
		kong.Description("Simulate batches of bot-only Ronda games and report seat statistics."))

	var logger *log.Logger
	if cli.Verbose {
		logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.DebugLevel})
	} else {
		logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.InfoLevel})
	}

	cfg := simulator.DefaultConfig()
	if cli.Config != "" {
		loaded, err := simulator.LoadConfig(cli.Config)
		if err != nil {
			logger.Fatal("Failed to load config", "error", err)
		}
		cfg = loaded
	}
	if cli.Games > 0 {
		cfg.Simulation.Games = cli.Games
	}
	if cli.Workers > 0 {
		cfg.Simulation.Workers = cli.Workers
	}
	if cli.Seed != 0 {
		cfg.Simulation.Seed = cli.Seed
	} else if cli.Config == "" {
		cfg.Simulation.Seed = time.Now().UnixNano()
	}

	sim := simulator.New(cfg, logger)
	stats, err := sim.Run(context.Background())
	if err != nil {
		logger.Fatal("Simulation failed", "error", err)
	}

	fmt.Println(stats.Summary(cfg.Seats))
	ctx.Exit(0)
}
