package deck

import (
	"testing"

	"github.com/lox/ronda/internal/randutil"
)

func TestBuildProducesFullDeck(t *testing.T) {
	t.Parallel()
	cards := Build()
	if len(cards) != Size {
		t.Fatalf("expected %d cards, got %d", Size, len(cards))
	}

	seen := map[Card]bool{}
	for _, c := range cards {
		if !c.Rank.Valid() {
			t.Errorf("invalid rank %d in deck", c.Rank)
		}
		if seen[c] {
			t.Errorf("duplicate card %v", c)
		}
		seen[c] = true
	}

	// Fixed pre-shuffle order: suit by suit, ranks ascending.
	if cards[0] != (Card{Rank: 1, Suit: Coins}) {
		t.Errorf("first card = %v, want 1 de oros", cards[0])
	}
	if cards[Size-1] != (Card{Rank: 12, Suit: Clubs}) {
		t.Errorf("last card = %v, want 12 de bastos", cards[Size-1])
	}
}

func TestShuffleIsUniform(t *testing.T) {
	t.Parallel()
	const iterations = 20000
	rng := randutil.New(42)
	target := Card{Rank: 1, Suit: Coins}

	positions := make([]int, Size)
	for i := 0; i < iterations; i++ {
		cards := Build()
		Shuffle(rng, cards)
		for pos, c := range cards {
			if c == target {
				positions[pos]++
				break
			}
		}
	}

	// Each position should be hit ~iterations/Size times. A 30% band is
	// over six standard deviations, so a correct shuffle never trips it.
	expected := float64(iterations) / float64(Size)
	for pos, count := range positions {
		if float64(count) < 0.7*expected || float64(count) > 1.3*expected {
			t.Errorf("position %d hit %d times, expected ~%.0f", pos, count, expected)
		}
	}
}

func TestShufflePreservesCards(t *testing.T) {
	t.Parallel()
	rng := randutil.New(7)
	cards := Build()
	Shuffle(rng, cards)

	seen := map[Card]bool{}
	for _, c := range cards {
		seen[c] = true
	}
	if len(seen) != Size {
		t.Errorf("shuffle lost or duplicated cards: %d unique", len(seen))
	}
}

func TestRecycleNoOpWithOneCard(t *testing.T) {
	t.Parallel()
	rng := randutil.New(1)
	discard := []Card{{Rank: 3, Suit: Cups}}

	draw, remaining := Recycle(rng, discard)
	if len(draw) != 0 {
		t.Errorf("expected empty draw pile, got %d cards", len(draw))
	}
	if len(remaining) != 1 || remaining[0] != discard[0] {
		t.Errorf("discard pile changed: %v", remaining)
	}
}

func TestRecycleKeepsTopCard(t *testing.T) {
	t.Parallel()
	rng := randutil.New(1)
	top := Card{Rank: 7, Suit: Swords}
	discard := []Card{{Rank: 3, Suit: Cups}, top}

	draw, remaining := Recycle(rng, discard)
	if len(draw) != 1 {
		t.Fatalf("expected 1-card draw pile, got %d", len(draw))
	}
	if draw[0] != (Card{Rank: 3, Suit: Cups}) {
		t.Errorf("draw pile holds %v", draw[0])
	}
	if len(remaining) != 1 || remaining[0] != top {
		t.Errorf("top card not kept: %v", remaining)
	}
}

func TestRecycleConservesCards(t *testing.T) {
	t.Parallel()
	rng := randutil.New(9)
	discard := Build()[:10]

	draw, remaining := Recycle(rng, discard)
	if len(draw)+len(remaining) != 10 {
		t.Errorf("recycle changed card count: %d + %d", len(draw), len(remaining))
	}
}
