package bot

import (
	rand "math/rand/v2"
	"sort"

	"github.com/lox/ronda/internal/deck"
)

// Difficulty selects a decision strategy tier.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

// ParseDifficulty maps a difficulty tag to a tier, defaulting to Normal for
// anything unrecognised so a stale tag can never stall a game.
func ParseDifficulty(tag string) Difficulty {
	switch Difficulty(tag) {
	case Easy, Normal, Hard:
		return Difficulty(tag)
	}
	return Normal
}

// Decision is a concrete play chosen by a policy. ChosenSuit is set only
// when the card is a 7.
type Decision struct {
	Card       deck.Card
	ChosenSuit *deck.Suit
}

// Policy picks moves for one difficulty tier. Decide is a pure function of
// its inputs plus the random source; a policy holds no game state and can be
// rebuilt from a difficulty tag at any time.
type Policy struct {
	difficulty Difficulty
	rng        *rand.Rand
}

// NewPolicy creates a policy for the given tier.
func NewPolicy(difficulty Difficulty, rng *rand.Rand) *Policy {
	return &Policy{difficulty: difficulty, rng: rng}
}

// Difficulty returns the policy's tier.
func (p *Policy) Difficulty() Difficulty { return p.difficulty }

// Decide picks a card to play on the current pile, or reports false when
// nothing in the hand is playable and the caller must draw. effectiveSuit is
// the suit plays have to follow (the wild override when one is active,
// otherwise the top card's suit).
func (p *Policy) Decide(hand []deck.Card, topCard *deck.Card, effectiveSuit deck.Suit) (Decision, bool) {
	playable := playableCards(hand, topCard, effectiveSuit)
	if len(playable) == 0 {
		return Decision{}, false
	}

	var card deck.Card
	switch p.difficulty {
	case Easy:
		card = playable[p.rng.IntN(len(playable))]
	case Hard:
		card = p.hardPick(playable, hand)
	default:
		card = p.normalPick(playable)
	}

	d := Decision{Card: card}
	if card.Rank == 7 {
		s := p.ChooseWildSuit(hand)
		d.ChosenSuit = &s
	}
	return d, true
}

// playableCards filters the hand to cards legal on the pile. With no top
// card everything is playable.
func playableCards(hand []deck.Card, topCard *deck.Card, effectiveSuit deck.Suit) []deck.Card {
	if topCard == nil {
		return append([]deck.Card(nil), hand...)
	}
	var out []deck.Card
	for _, c := range hand {
		if c.Rank == 7 || c.Rank == topCard.Rank || c.Suit == effectiveSuit {
			out = append(out, c)
		}
	}
	return out
}

// normalPick spends ordinary cards before specials, and when only specials
// remain, the cheapest one: 4 < 2 < 1 < 7.
func (p *Policy) normalPick(playable []deck.Card) deck.Card {
	var plain []deck.Card
	for _, c := range playable {
		if !c.Special() {
			plain = append(plain, c)
		}
	}
	if len(plain) > 0 {
		return plain[p.rng.IntN(len(plain))]
	}

	specials := append([]deck.Card(nil), playable...)
	sort.SliceStable(specials, func(i, j int) bool {
		return specialCost(specials[i].Rank) < specialCost(specials[j].Rank)
	})
	return specials[0]
}

// hardPick plays aggressively when close to finishing, dumps high cards when
// the hand is heavy, and otherwise behaves like normal.
func (p *Policy) hardPick(playable, hand []deck.Card) deck.Card {
	if len(hand) <= 3 {
		for _, c := range playable {
			if c.Rank == 1 || c.Rank == 2 {
				return c
			}
		}
	}
	if len(hand) > 5 {
		var high []deck.Card
		for _, c := range playable {
			if c.Rank >= 10 {
				high = append(high, c)
			}
		}
		if len(high) > 0 {
			return high[p.rng.IntN(len(high))]
		}
	}
	return p.normalPick(playable)
}

func specialCost(r deck.Rank) int {
	switch r {
	case 4:
		return 1
	case 2:
		return 2
	case 1:
		return 3
	case 7:
		return 4
	}
	return 5
}

// ChooseWildSuit picks the suit to call when playing a 7: the suit with the
// most cards left in hand, ignoring other 7s. Ties go to the earlier suit in
// the fixed precedence order, so an empty count still yields a valid suit.
func (p *Policy) ChooseWildSuit(hand []deck.Card) deck.Suit {
	var counts [4]int
	for _, c := range hand {
		if c.Rank != 7 {
			counts[c.Suit]++
		}
	}
	best := deck.Coins
	for _, s := range deck.Suits {
		if counts[s] > counts[best] {
			best = s
		}
	}
	return best
}
