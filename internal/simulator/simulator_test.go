package simulator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchConfig(workers int) *Config {
	return &Config{
		Simulation: Settings{
			Games:          20,
			CardsPerPlayer: 4,
			Seed:           5,
			Workers:        workers,
		},
		Seats: []SeatConfig{
			{Name: "alice", Difficulty: "hard"},
			{Name: "bob", Difficulty: "normal"},
			{Name: "carla", Difficulty: "easy"},
		},
	}
}

func TestRunCompletesEveryGame(t *testing.T) {
	stats, err := New(batchConfig(3), nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 20, stats.Games)
	assert.Positive(t, stats.TotalTurns)
	assert.Positive(t, stats.MeanTurns())

	// Every game produces exactly one first-out seat and one loser.
	firstOut, losses := 0, 0
	for i := range stats.FirstOut {
		firstOut += stats.FirstOut[i]
		losses += stats.Losses[i]
	}
	assert.Equal(t, stats.Games, firstOut)
	assert.Equal(t, stats.Games, losses)
}

func TestRunIsDeterministicBySeed(t *testing.T) {
	first, err := New(batchConfig(3), nil).Run(context.Background())
	require.NoError(t, err)
	second, err := New(batchConfig(3), nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunIndependentOfWorkerCount(t *testing.T) {
	serial, err := New(batchConfig(1), nil).Run(context.Background())
	require.NoError(t, err)
	parallel, err := New(batchConfig(4), nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, serial.FirstOut, parallel.FirstOut)
	assert.Equal(t, serial.Losses, parallel.Losses)
	assert.Equal(t, serial.TotalTurns, parallel.TotalTurns)
	assert.Equal(t, serial.TotalDraws, parallel.TotalDraws)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := batchConfig(1)
	cfg.Seats = cfg.Seats[:1]
	_, err := New(cfg, nil).Run(context.Background())
	require.Error(t, err)
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(batchConfig(2), nil).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestStatisticsSummary(t *testing.T) {
	cfg := batchConfig(2)
	stats, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	out := stats.Summary(cfg.Seats)
	assert.Contains(t, out, "Games:      20")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "carla")
}
