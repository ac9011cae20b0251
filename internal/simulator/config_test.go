package simulator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ronda.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Seats, 2)
	assert.Positive(t, cfg.Simulation.Games)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
simulation {
  games   = 50
  seed    = 9
  workers = 2
}

seat "carol" {
  difficulty = "easy"
}

seat "dave" {}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Simulation.Games)
	assert.Equal(t, int64(9), cfg.Simulation.Seed)
	assert.Equal(t, 2, cfg.Simulation.Workers)
	// Attributes absent from the file keep their defaults.
	assert.Equal(t, 5, cfg.Simulation.CardsPerPlayer)

	require.Len(t, cfg.Seats, 2)
	assert.Equal(t, "carol", cfg.Seats[0].Name)
	assert.Equal(t, "easy", cfg.Seats[0].Difficulty)
	assert.Equal(t, "dave", cfg.Seats[1].Name)
	assert.Empty(t, cfg.Seats[1].Difficulty)
}

func TestLoadConfigWithoutSeatsUsesDefaults(t *testing.T) {
	path := writeConfig(t, `
simulation {
  games = 10
}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Simulation.Games)
	assert.Equal(t, DefaultConfig().Seats, cfg.Seats)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadConfigMalformed(t *testing.T) {
	path := writeConfig(t, `simulation { games = `)
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigRejectsInvalidBatch(t *testing.T) {
	path := writeConfig(t, `
simulation {
  games = 10
}

seat "solo" {}
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seat count")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero games", func(c *Config) { c.Simulation.Games = 0 }, "games must be positive"},
		{"one seat", func(c *Config) { c.Seats = c.Seats[:1] }, "seat count"},
		{"too many cards", func(c *Config) { c.Simulation.CardsPerPlayer = 7 }, "cards_per_player"},
		{"negative workers", func(c *Config) { c.Simulation.Workers = -1 }, "workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
