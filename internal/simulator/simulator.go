package simulator

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/ronda/internal/bot"
	"github.com/lox/ronda/internal/game"
	"github.com/lox/ronda/internal/randutil"
)

// maxTurnsPerGame aborts a runaway game. A Ronda game between bots finishes
// in well under a few hundred turns; hitting this means an engine bug.
const maxTurnsPerGame = 10000

// Simulator plays batches of bot-only games and aggregates the results.
// Every game derives its RNG from the batch seed and its own index, so a
// batch is reproducible regardless of worker scheduling.
type Simulator struct {
	cfg    *Config
	logger *log.Logger
}

// New creates a simulator for the given batch.
func New(cfg *Config, logger *log.Logger) *Simulator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Simulator{cfg: cfg, logger: logger.WithPrefix("simulator")}
}

// Run plays the configured number of games across the configured workers.
func (s *Simulator) Run(ctx context.Context) (*Statistics, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	workers := s.cfg.Simulation.Workers
	if workers <= 0 {
		workers = 1
	}
	games := s.cfg.Simulation.Games
	if workers > games {
		workers = games
	}

	s.logger.Info("starting batch",
		"games", games,
		"seats", len(s.cfg.Seats),
		"workers", workers,
		"seed", s.cfg.Simulation.Seed)

	stats := newStatistics(len(s.cfg.Seats))
	var mu sync.Mutex

	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		worker := w
		eg.Go(func() error {
			local := newStatistics(len(s.cfg.Seats))
			for i := worker; i < games; i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := s.playGame(ctx, int64(i), local); err != nil {
					return fmt.Errorf("game %d: %w", i, err)
				}
			}
			mu.Lock()
			stats.merge(local)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("batch complete", "games", stats.Games, "meanTurns", stats.MeanTurns())
	return stats, nil
}

// playGame runs a single game to completion and records it into stats.
func (s *Simulator) playGame(ctx context.Context, index int64, stats *Statistics) error {
	rng := randutil.Derive(s.cfg.Simulation.Seed, uint64(index))

	names := make([]string, len(s.cfg.Seats))
	difficulties := make(map[int]string, len(s.cfg.Seats))
	for i, seat := range s.cfg.Seats {
		names[i] = seat.Name
		difficulties[i] = seat.Difficulty
	}

	g, err := game.New(len(s.cfg.Seats), s.cfg.Simulation.CardsPerPlayer,
		game.WithRNG(rng),
		game.WithPlayerNames(names...),
		game.WithBotSeats(difficulties))
	if err != nil {
		return err
	}
	g.Start()

	var turns, draws, maxPenalty int
	runner := bot.NewRunner(
		bot.WithRNG(rng),
		bot.WithAfterTurn(func(outcome bot.TurnOutcome) error {
			turns++
			draws += outcome.Drew
			if p := g.Pending().Count; p > maxPenalty {
				maxPenalty = p
			}
			if turns > maxTurnsPerGame {
				return fmt.Errorf("exceeded %d turns without finishing", maxTurnsPerGame)
			}
			return nil
		}))
	if err := runner.Run(ctx, g); err != nil {
		return err
	}
	if !g.Over() {
		return fmt.Errorf("runner stopped with the game still live on seat %d", g.Turn())
	}

	stats.record(g.Winners(), g.Loser(), turns, draws, maxPenalty)
	return nil
}
