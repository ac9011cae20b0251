package simulator

import (
	"fmt"
	"strings"
)

// Statistics aggregates the outcomes of a simulation batch. Seat-indexed
// slices line up with the configured seats.
type Statistics struct {
	Games        int
	FirstOut     []int // games in which the seat emptied its hand first
	Losses       []int // games in which the seat was the last one holding cards
	TotalTurns   int
	TotalDraws   int
	MaxPenalty   int // largest pending-draw chain observed
	MaxTurnCount int // longest single game, in turns
}

func newStatistics(seats int) *Statistics {
	return &Statistics{
		FirstOut: make([]int, seats),
		Losses:   make([]int, seats),
	}
}

func (s *Statistics) record(winners []int, loser, turns, draws, maxPenalty int) {
	s.Games++
	if len(winners) > 0 {
		s.FirstOut[winners[0]]++
	}
	if loser >= 0 {
		s.Losses[loser]++
	}
	s.TotalTurns += turns
	s.TotalDraws += draws
	if maxPenalty > s.MaxPenalty {
		s.MaxPenalty = maxPenalty
	}
	if turns > s.MaxTurnCount {
		s.MaxTurnCount = turns
	}
}

func (s *Statistics) merge(other *Statistics) {
	s.Games += other.Games
	for i := range s.FirstOut {
		s.FirstOut[i] += other.FirstOut[i]
		s.Losses[i] += other.Losses[i]
	}
	s.TotalTurns += other.TotalTurns
	s.TotalDraws += other.TotalDraws
	if other.MaxPenalty > s.MaxPenalty {
		s.MaxPenalty = other.MaxPenalty
	}
	if other.MaxTurnCount > s.MaxTurnCount {
		s.MaxTurnCount = other.MaxTurnCount
	}
}

// MeanTurns returns the average game length in turns.
func (s *Statistics) MeanTurns() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalTurns) / float64(s.Games)
}

// Summary renders a human-readable report for the given seat line-up.
func (s *Statistics) Summary(seats []SeatConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== Simulation Results ===\n")
	fmt.Fprintf(&b, "Games:      %d\n", s.Games)
	fmt.Fprintf(&b, "Mean turns: %.1f (longest %d)\n", s.MeanTurns(), s.MaxTurnCount)
	fmt.Fprintf(&b, "Draws:      %d total\n", s.TotalDraws)
	fmt.Fprintf(&b, "Max penalty chain: %d cards\n", s.MaxPenalty)
	fmt.Fprintf(&b, "\n%-12s %-8s %10s %10s\n", "seat", "tier", "first out", "losses")
	for i, seat := range seats {
		firstOut, losses := 0, 0
		if i < len(s.FirstOut) {
			firstOut = s.FirstOut[i]
			losses = s.Losses[i]
		}
		fmt.Fprintf(&b, "%-12s %-8s %9.1f%% %9.1f%%\n",
			seat.Name, seat.Difficulty,
			percent(firstOut, s.Games), percent(losses, s.Games))
	}
	return b.String()
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}
