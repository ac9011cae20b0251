package game

import "github.com/lox/ronda/internal/deck"

// Player is one seat at the table. Seats are fixed for the lifetime of a
// game; Finished flips to true exactly once, when the hand empties after a
// play, and stays set.
//
// Bot seats carry only a difficulty tag. The decision logic itself is
// stateless and looked up by tag at use time, so nothing about a bot needs
// to survive serialization beyond this record.
type Player struct {
	Seat       int
	Name       string
	Hand       []deck.Card
	IsBot      bool
	Difficulty string
	Finished   bool
}

func (p *Player) holds(rank deck.Rank, suit deck.Suit) bool {
	return p.cardIndex(rank, suit) >= 0
}

func (p *Player) cardIndex(rank deck.Rank, suit deck.Suit) int {
	for i, c := range p.Hand {
		if c.Rank == rank && c.Suit == suit {
			return i
		}
	}
	return -1
}
