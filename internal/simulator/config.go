package simulator

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/ronda/internal/game"
)

// Config describes a simulation batch.
type Config struct {
	Simulation Settings     `hcl:"simulation,block"`
	Seats      []SeatConfig `hcl:"seat,block"`
}

// Settings contains batch-level knobs.
type Settings struct {
	Games          int   `hcl:"games,optional"`
	CardsPerPlayer int   `hcl:"cards_per_player,optional"`
	Seed           int64 `hcl:"seed,optional"`
	Workers        int   `hcl:"workers,optional"`
}

// SeatConfig defines one bot seat in every simulated game.
type SeatConfig struct {
	Name       string `hcl:"name,label"`
	Difficulty string `hcl:"difficulty,optional"`
}

// DefaultConfig returns a ready-to-run two-seat batch.
func DefaultConfig() *Config {
	return &Config{
		Simulation: Settings{
			Games:          1000,
			CardsPerPlayer: 5,
			Seed:           1,
			Workers:        4,
		},
		Seats: []SeatConfig{
			{Name: "alice", Difficulty: "hard"},
			{Name: "bob", Difficulty: "normal"},
		},
	}
}

// LoadConfig loads a batch configuration from an HCL file.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", filename)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file: %s", diags.Error())
	}

	config := DefaultConfig()
	config.Seats = nil
	diags = gohcl.DecodeBody(file.Body, nil, config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file: %s", diags.Error())
	}
	if len(config.Seats) == 0 {
		config.Seats = DefaultConfig().Seats
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the batch against the engine's own limits before any game
// is constructed.
func (c *Config) Validate() error {
	if c.Simulation.Games <= 0 {
		return fmt.Errorf("games must be positive, got %d", c.Simulation.Games)
	}
	if n := len(c.Seats); n < game.MinPlayers || n > game.MaxPlayers {
		return fmt.Errorf("seat count must be between %d and %d, got %d",
			game.MinPlayers, game.MaxPlayers, n)
	}
	if k := c.Simulation.CardsPerPlayer; k < game.MinCardsPerPlayer || k > game.MaxCardsPerPlayer {
		return fmt.Errorf("cards_per_player must be between %d and %d, got %d",
			game.MinCardsPerPlayer, game.MaxCardsPerPlayer, k)
	}
	if c.Simulation.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Simulation.Workers)
	}
	return nil
}
