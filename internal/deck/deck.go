package deck

import rand "math/rand/v2"

// Size is the number of cards in a full deck.
const Size = 40

// Suits lists the four suits in their fixed precedence order.
var Suits = []Suit{Coins, Cups, Swords, Clubs}

// Ranks lists the ten face values in ascending order.
var Ranks = []Rank{1, 2, 3, 4, 5, 6, 7, 10, 11, 12}

// Build returns all 40 cards in fixed suit-then-rank order. The order is
// deterministic; callers shuffle before dealing.
func Build() []Card {
	cards := make([]Card, 0, Size)
	for _, s := range Suits {
		for _, r := range Ranks {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	return cards
}

// Shuffle permutes cards in place with a Fisher-Yates walk over the provided
// source, giving every permutation equal probability. It is used both for the
// opening shuffle and when the discard pile is recycled.
func Shuffle(rng *rand.Rand, cards []Card) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Recycle rebuilds a draw pile from a spent discard pile. The top card stays
// behind as the sole discard; everything underneath is shuffled into the new
// draw pile. With one card or fewer there is nothing to recycle and the
// discard pile is returned untouched with a nil draw pile.
func Recycle(rng *rand.Rand, discard []Card) (draw, remaining []Card) {
	if len(discard) <= 1 {
		return nil, discard
	}
	top := discard[len(discard)-1]
	draw = append([]Card(nil), discard[:len(discard)-1]...)
	Shuffle(rng, draw)
	return draw, []Card{top}
}
