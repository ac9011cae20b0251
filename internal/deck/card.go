package deck

import (
	"encoding/json"
	"fmt"
)

// Suit represents one of the four Spanish-deck suits.
type Suit int

const (
	Coins Suit = iota
	Cups
	Swords
	Clubs
)

var suitNames = [...]string{"oros", "copas", "espadas", "bastos"}

// String returns the Spanish name of the suit, which is also its wire form.
func (s Suit) String() string {
	if s < Coins || s > Clubs {
		return "?"
	}
	return suitNames[s]
}

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool {
	return s >= Coins && s <= Clubs
}

// ParseSuit converts a suit name back into a Suit.
func ParseSuit(name string) (Suit, error) {
	for i, n := range suitNames {
		if n == name {
			return Suit(i), nil
		}
	}
	return 0, fmt.Errorf("unknown suit %q", name)
}

// MarshalJSON encodes the suit as its name so persisted states stay readable.
func (s Suit) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid suit %d", int(s))
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a suit from its name.
func (s *Suit) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseSuit(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Rank is a card's face value. A Spanish deck has no 8s or 9s, so the valid
// values are 1-7 and 10-12.
type Rank int

// Valid reports whether r is a face value that exists in the deck.
func (r Rank) Valid() bool {
	return (r >= 1 && r <= 7) || (r >= 10 && r <= 12)
}

// Card is a single playing card. Cards are immutable values; the deck holds
// exactly one card per rank/suit pair.
type Card struct {
	Rank Rank `json:"value"`
	Suit Suit `json:"suit"`
}

// Special reports whether the card carries a game effect when played
// (1 and 2 force draws, 4 skips, 7 is wild).
func (c Card) Special() bool {
	switch c.Rank {
	case 1, 2, 4, 7:
		return true
	}
	return false
}

// String returns the card's Spanish name, e.g. "7 de copas".
func (c Card) String() string {
	return fmt.Sprintf("%d de %s", c.Rank, c.Suit)
}
