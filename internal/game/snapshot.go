package game

import (
	"encoding/json"
	"fmt"

	"github.com/lox/ronda/internal/deck"
)

// State is the engine's full serializable state. The host persists it as
// opaque JSON between moves, so every rules-relevant field lives here and
// Restore must accept states written by older hosts (see the compat rules
// in FromState).
type State struct {
	NumPlayers     int           `json:"numPlayers"`
	CardsPerPlayer int           `json:"cardsPerPlayer"`
	Players        []PlayerState `json:"players"`
	DrawPile       []deck.Card   `json:"drawPile"`
	DiscardPile    []deck.Card   `json:"discardPile"`
	Turn           int           `json:"currentPlayerIndex"`
	Direction      int           `json:"gameDirection"`
	ActiveSuit     *deck.Suit    `json:"activeSuit,omitempty"`
	PendingCount   int           `json:"pendingDrawCount,omitempty"`
	PendingRank    deck.Rank     `json:"pendingDrawRank,omitempty"`
	GameOver       bool          `json:"isGameOver"`
	Winners        []int         `json:"winners,omitempty"`
	Loser          *int          `json:"loser,omitempty"`
}

// PlayerState is one seat's serialized form.
type PlayerState struct {
	Seat       int         `json:"seat"`
	Name       string      `json:"name"`
	Hand       []deck.Card `json:"hand"`
	IsBot      bool        `json:"isBot,omitempty"`
	Difficulty string      `json:"difficulty,omitempty"`
	Finished   bool        `json:"hasFinished,omitempty"`
}

// TopCard returns the face-up reference card, if any.
func (s State) TopCard() (deck.Card, bool) {
	if len(s.DiscardPile) == 0 {
		return deck.Card{}, false
	}
	return s.DiscardPile[len(s.DiscardPile)-1], true
}

// EffectiveSuit is the suit plays must match: the wild-suit override when
// set, otherwise the top card's suit.
func (s State) EffectiveSuit() (deck.Suit, bool) {
	if s.ActiveSuit != nil {
		return *s.ActiveSuit, true
	}
	if top, ok := s.TopCard(); ok {
		return top.Suit, true
	}
	return 0, false
}

// Snapshot returns a deep copy of the game state. Mutating the snapshot
// never affects the game.
func (g *Game) Snapshot() State {
	st := State{
		NumPlayers:     g.numPlayers,
		CardsPerPlayer: g.cardsPerPlayer,
		DrawPile:       append([]deck.Card(nil), g.drawPile...),
		DiscardPile:    append([]deck.Card(nil), g.discard...),
		Turn:           g.turn,
		Direction:      g.direction,
		PendingCount:   g.pending.Count,
		PendingRank:    g.pending.Rank,
		GameOver:       g.over,
		Winners:        append([]int(nil), g.winners...),
	}
	if g.activeSuit != noSuit {
		s := g.activeSuit
		st.ActiveSuit = &s
	}
	if g.loser >= 0 {
		l := g.loser
		st.Loser = &l
	}
	for _, p := range g.players {
		st.Players = append(st.Players, PlayerState{
			Seat:       p.Seat,
			Name:       p.Name,
			Hand:       append([]deck.Card(nil), p.Hand...),
			IsBot:      p.IsBot,
			Difficulty: p.Difficulty,
			Finished:   p.Finished,
		})
	}
	return st
}

// Marshal serializes the game for storage.
func (g *Game) Marshal() ([]byte, error) {
	return json.Marshal(g.Snapshot())
}

// Restore rebuilds a game from data produced by Marshal, possibly by an
// earlier version of the host.
func Restore(data []byte, opts ...Option) (*Game, error) {
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("restoring game state: %w", err)
	}
	return FromState(st, opts...)
}

// FromState rebuilds a game from a State, applying compatibility defaults:
// a missing winners list is empty, seats already holding zero cards are
// retroactively marked finished (and recorded as winners), the direction is
// normalized, an inconsistent penalty is cleared, and terminal state is
// recomputed.
func FromState(st State, opts ...Option) (*Game, error) {
	g, err := New(st.NumPlayers, st.CardsPerPlayer, opts...)
	if err != nil {
		return nil, err
	}
	if len(st.Players) != st.NumPlayers {
		return nil, fmt.Errorf("%w: state has %d players for %d seats",
			ErrInvalidConfig, len(st.Players), st.NumPlayers)
	}

	g.drawPile = append([]deck.Card(nil), st.DrawPile...)
	g.discard = append([]deck.Card(nil), st.DiscardPile...)
	for i, ps := range st.Players {
		p := g.players[i]
		if ps.Name != "" {
			p.Name = ps.Name
		}
		p.Hand = append([]deck.Card(nil), ps.Hand...)
		p.IsBot = ps.IsBot
		p.Difficulty = ps.Difficulty
		p.Finished = ps.Finished
	}

	if st.Turn >= 0 && st.Turn < g.numPlayers {
		g.turn = st.Turn
	}
	g.direction = Clockwise
	if st.Direction == CounterClockwise {
		g.direction = CounterClockwise
	}
	if st.ActiveSuit != nil && st.ActiveSuit.Valid() {
		g.activeSuit = *st.ActiveSuit
	}
	if st.PendingCount > 0 && (st.PendingRank == 1 || st.PendingRank == 2) {
		g.pending = PendingPenalty{Count: st.PendingCount, Rank: st.PendingRank}
	}
	g.over = st.GameOver
	for _, seat := range st.Winners {
		if seat >= 0 && seat < g.numPlayers && !contains(g.winners, seat) {
			g.winners = append(g.winners, seat)
		}
	}
	if st.Loser != nil && *st.Loser >= 0 && *st.Loser < g.numPlayers {
		g.loser = *st.Loser
	}

	// Older states may hold seats that already emptied their hands without
	// being flagged; mark them finished now so the turn cycle skips them.
	for _, p := range g.players {
		if len(p.Hand) == 0 && !p.Finished {
			p.Finished = true
			if !contains(g.winners, p.Seat) {
				g.winners = append(g.winners, p.Seat)
			}
		}
	}
	g.maybeEnd()

	// The turn must rest on an active seat while the game is live.
	if !g.over && g.players[g.turn].Finished {
		g.advance()
	}
	return g, nil
}

func contains(seats []int, seat int) bool {
	for _, s := range seats {
		if s == seat {
			return true
		}
	}
	return false
}
