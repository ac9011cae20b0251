package game

import (
	"fmt"
	"io"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/ronda/internal/deck"
	"github.com/lox/ronda/internal/randutil"
)

// Table size and deal limits.
const (
	MinPlayers        = 2
	MaxPlayers        = 6
	MinCardsPerPlayer = 3
	MaxCardsPerPlayer = 6
)

// Direction of play around the table.
const (
	Clockwise        = 1
	CounterClockwise = -1
)

// noSuit marks the absence of a wild-suit override.
const noSuit = deck.Suit(-1)

// Effect names the special consequence of a played card.
type Effect string

const (
	EffectNone       Effect = ""
	EffectStackDraw  Effect = "stack_draw"
	EffectSkip       Effect = "skip"
	EffectChangeSuit Effect = "change_suit"
)

// PendingPenalty is an in-flight forced draw. Count accumulates as penalty
// cards chain; Rank is the only rank that defends against it. Count is zero
// iff no penalty is pending.
type PendingPenalty struct {
	Count int
	Rank  deck.Rank
}

// Validation is the outcome of checking a move without applying it.
type Validation struct {
	Legal  bool
	Reason string
}

// MoveResult describes what a successful play did to the game.
type MoveResult struct {
	GameOver       bool
	Winners        []int
	Loser          int // -1 until the game ends
	PlayerFinished bool
	FinishedSeat   int // -1 unless PlayerFinished
	Effect         Effect
	AffectedSeat   int // seat skipped or facing a new penalty; -1 otherwise
	NewSuit        *deck.Suit
}

// Game is the Ronda state machine. It is single-threaded and synchronous:
// every method runs to completion, and the whole state round-trips through
// Snapshot/Restore so the host can persist it between moves.
type Game struct {
	numPlayers     int
	cardsPerPlayer int

	players  []*Player
	drawPile []deck.Card // cards are drawn from the end
	discard  []deck.Card // last element is the top card

	turn       int
	direction  int
	activeSuit deck.Suit // noSuit unless a 7 locked a suit
	pending    PendingPenalty

	over    bool
	winners []int
	loser   int

	rng    *rand.Rand
	logger *log.Logger
}

// Option configures a Game at construction time.
type Option func(*Game)

// WithRNG sets the random source used for shuffling. Tests and simulations
// pass a seeded source for reproducible deals.
func WithRNG(rng *rand.Rand) Option {
	return func(g *Game) { g.rng = rng }
}

// WithSeed is shorthand for WithRNG over a deterministically seeded source.
func WithSeed(seed int64) Option {
	return func(g *Game) { g.rng = randutil.New(seed) }
}

// WithLogger sets the logger used for per-move debug output.
func WithLogger(logger *log.Logger) Option {
	return func(g *Game) { g.logger = logger.WithPrefix("game") }
}

// WithPlayerNames assigns display names by seat. Missing seats keep their
// default "Jugador N" name.
func WithPlayerNames(names ...string) Option {
	return func(g *Game) {
		for i, name := range names {
			if i < len(g.players) && name != "" {
				g.players[i].Name = name
			}
		}
	}
}

// WithBotSeats marks seats as bot-controlled with a difficulty tag.
func WithBotSeats(difficulties map[int]string) Option {
	return func(g *Game) {
		for seat, difficulty := range difficulties {
			if seat >= 0 && seat < len(g.players) {
				g.players[seat].IsBot = true
				g.players[seat].Difficulty = difficulty
			}
		}
	}
}

// New creates a game for numPlayers seats dealt cardsPerPlayer cards each.
// The game is not playable until Start deals it.
func New(numPlayers, cardsPerPlayer int, opts ...Option) (*Game, error) {
	if numPlayers < MinPlayers || numPlayers > MaxPlayers {
		return nil, fmt.Errorf("%w: players must be between %d and %d, got %d",
			ErrInvalidConfig, MinPlayers, MaxPlayers, numPlayers)
	}
	if cardsPerPlayer < MinCardsPerPlayer || cardsPerPlayer > MaxCardsPerPlayer {
		return nil, fmt.Errorf("%w: cards per player must be between %d and %d, got %d",
			ErrInvalidConfig, MinCardsPerPlayer, MaxCardsPerPlayer, cardsPerPlayer)
	}

	g := &Game{
		numPlayers:     numPlayers,
		cardsPerPlayer: cardsPerPlayer,
		direction:      Clockwise,
		activeSuit:     noSuit,
		loser:          -1,
		logger:         log.New(io.Discard),
	}
	for seat := 0; seat < numPlayers; seat++ {
		g.players = append(g.players, &Player{
			Seat: seat,
			Name: fmt.Sprintf("Jugador %d", seat+1),
		})
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = randutil.New(time.Now().UnixNano())
	}
	return g, nil
}

// Start shuffles a fresh deck, deals every seat round-robin and flips the
// opening top card. Any previous game state on this instance is reset.
func (g *Game) Start() {
	cards := deck.Build()
	deck.Shuffle(g.rng, cards)
	g.drawPile = cards
	g.discard = nil

	for _, p := range g.players {
		p.Hand = nil
		p.Finished = false
	}
	// One full round per iteration, seat 0 first, not one player at a time.
	for i := 0; i < g.cardsPerPlayer; i++ {
		for _, p := range g.players {
			p.Hand = append(p.Hand, g.pop())
		}
	}
	g.discard = append(g.discard, g.pop())

	g.turn = 0
	g.direction = Clockwise
	g.activeSuit = noSuit
	g.pending = PendingPenalty{}
	g.over = false
	g.winners = nil
	g.loser = -1

	g.logger.Debug("game started",
		"players", g.numPlayers,
		"cardsPerPlayer", g.cardsPerPlayer,
		"topCard", g.discard[0])
}

func (g *Game) pop() deck.Card {
	c := g.drawPile[len(g.drawPile)-1]
	g.drawPile = g.drawPile[:len(g.drawPile)-1]
	return c
}

// ValidateMove checks whether seat may play the (rank, suit) card right now.
// It never mutates state, so hosts can use it to pre-flight a move.
func (g *Game) ValidateMove(seat int, rank deck.Rank, suit deck.Suit) Validation {
	if g.over {
		return Validation{Reason: "the game is already over"}
	}
	if seat < 0 || seat >= g.numPlayers {
		return Validation{Reason: "no such seat"}
	}
	p := g.players[seat]
	if p.Finished {
		return Validation{Reason: "you have already finished and are spectating"}
	}
	if !p.holds(rank, suit) {
		return Validation{Reason: "card is not in your hand"}
	}
	if g.turn != seat {
		return Validation{Reason: "not your turn"}
	}

	// A pending penalty narrows play to defense in kind. The defending card
	// does not need to match the pile.
	if g.pending.Count > 0 {
		if rank == g.pending.Rank {
			return Validation{Legal: true}
		}
		return Validation{Reason: fmt.Sprintf(
			"must defend with a %d or draw %d cards", g.pending.Rank, g.pending.Count)}
	}

	if rank == 7 {
		return Validation{Legal: true}
	}

	if top, ok := g.TopCard(); ok && (rank == top.Rank || suit == g.effectiveSuit()) {
		return Validation{Legal: true}
	}
	return Validation{Reason: "card does not match the pile"}
}

// effectiveSuit is the suit plays must match: the wild-suit override if a 7
// locked one, otherwise the top card's suit.
func (g *Game) effectiveSuit() deck.Suit {
	if g.activeSuit != noSuit {
		return g.activeSuit
	}
	if top, ok := g.TopCard(); ok {
		return top.Suit
	}
	return noSuit
}

// PlayCard applies seat's play of (rank, suit). For a 7, chosenSuit may name
// the suit subsequent players must follow. Rejected moves return
// *IllegalMoveError and leave the state untouched.
func (g *Game) PlayCard(seat int, rank deck.Rank, suit deck.Suit, chosenSuit *deck.Suit) (MoveResult, error) {
	if v := g.ValidateMove(seat, rank, suit); !v.Legal {
		return MoveResult{}, &IllegalMoveError{Reason: v.Reason}
	}

	p := g.players[seat]
	idx := p.cardIndex(rank, suit)
	card := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	g.discard = append(g.discard, card)

	// A wild-suit lock from an earlier 7 is consumed by any non-7 play.
	if card.Rank != 7 {
		g.activeSuit = noSuit
	}

	res := g.applyEffect(card, chosenSuit)

	if len(p.Hand) == 0 && !p.Finished {
		p.Finished = true
		g.winners = append(g.winners, seat)
		res.PlayerFinished = true
		res.FinishedSeat = seat
	}
	g.maybeEnd()

	res.GameOver = g.over
	res.Winners = append([]int(nil), g.winners...)
	res.Loser = g.loser

	g.logger.Debug("card played",
		"seat", seat,
		"card", card,
		"effect", res.Effect,
		"nextTurn", g.turn,
		"gameOver", g.over)
	return res, nil
}

// applyEffect resolves the played card's effect, including every turn advance
// it implies, before any further move is accepted.
func (g *Game) applyEffect(card deck.Card, chosenSuit *deck.Suit) MoveResult {
	res := MoveResult{FinishedSeat: -1, AffectedSeat: -1, Loser: -1}

	switch card.Rank {
	case 1:
		// Stacks +3 onto any pending chain; the rank of an existing chain
		// never changes.
		if g.pending.Count == 0 {
			g.pending.Rank = 1
		}
		g.pending.Count += 3
		res.Effect = EffectStackDraw
		res.AffectedSeat = g.nextSeat()
		g.advance()

	case 2:
		if g.pending.Count == 0 {
			g.pending.Rank = 2
		}
		g.pending.Count += 2
		res.Effect = EffectStackDraw
		res.AffectedSeat = g.nextSeat()
		g.advance()

	case 4:
		g.advance()
		res.Effect = EffectSkip
		res.AffectedSeat = g.turn
		g.advance()

	case 7:
		if chosenSuit != nil && chosenSuit.Valid() {
			g.activeSuit = *chosenSuit
			res.Effect = EffectChangeSuit
			s := *chosenSuit
			res.NewSuit = &s
		}
		g.advance()

	default:
		g.advance()
	}
	return res
}

// DrawCard makes seat draw: the whole accumulated penalty if one is pending,
// otherwise a single card. Drawing clears the penalty and passes the turn.
// If both piles run dry mid-draw, fewer cards than requested are returned;
// that is not an error. Drawing can never end the game.
func (g *Game) DrawCard(seat int) ([]deck.Card, error) {
	switch {
	case g.over:
		return nil, &IllegalMoveError{Reason: "the game is already over"}
	case seat < 0 || seat >= g.numPlayers:
		return nil, &IllegalMoveError{Reason: "no such seat"}
	case g.players[seat].Finished:
		return nil, &IllegalMoveError{Reason: "you have already finished and are spectating"}
	case g.turn != seat:
		return nil, &IllegalMoveError{Reason: "not your turn"}
	}

	count := 1
	if g.pending.Count > 0 {
		count = g.pending.Count
	}
	cards := g.draw(seat, count)
	if g.pending.Count > 0 {
		g.pending = PendingPenalty{}
	}
	g.advance()

	g.logger.Debug("cards drawn",
		"seat", seat,
		"requested", count,
		"received", len(cards),
		"nextTurn", g.turn)
	return cards, nil
}

// draw moves up to count cards from the draw pile into seat's hand, recycling
// the discard pile whenever the draw pile empties mid-draw.
func (g *Game) draw(seat, count int) []deck.Card {
	p := g.players[seat]
	drawn := make([]deck.Card, 0, count)
	for i := 0; i < count; i++ {
		if len(g.drawPile) == 0 {
			g.drawPile, g.discard = deck.Recycle(g.rng, g.discard)
		}
		if len(g.drawPile) == 0 {
			break
		}
		c := g.pop()
		p.Hand = append(p.Hand, c)
		drawn = append(drawn, c)
	}
	return drawn
}

// CanPlay reports whether seat holds any card playable on the current pile.
// It ignores the pending-penalty defense rule, so it is a UI hint, not an
// authority: ValidateMove decides actual legality.
func (g *Game) CanPlay(seat int) bool {
	if g.over || seat < 0 || seat >= g.numPlayers {
		return false
	}
	p := g.players[seat]
	if p.Finished || g.turn != seat {
		return false
	}
	top, ok := g.TopCard()
	if !ok {
		return len(p.Hand) > 0
	}
	match := g.effectiveSuit()
	for _, c := range p.Hand {
		if c.Rank == 7 || c.Rank == top.Rank || c.Suit == match {
			return true
		}
	}
	return false
}

// advance moves the turn to the next active seat in the direction of play.
func (g *Game) advance() {
	g.turn = g.nextSeat()
}

// nextSeat walks the direction of play from the current seat, wrapping at the
// table edges and skipping finished seats. With one or zero active seats left
// there is nowhere to go and the current seat is returned unchanged.
func (g *Game) nextSeat() int {
	if g.over || g.activeCount() <= 1 {
		return g.turn
	}
	next := g.turn
	for i := 0; i < g.numPlayers; i++ {
		next += g.direction
		if next >= g.numPlayers {
			next = 0
		} else if next < 0 {
			next = g.numPlayers - 1
		}
		if !g.players[next].Finished {
			return next
		}
	}
	return g.turn
}

func (g *Game) activeCount() int {
	n := 0
	for _, p := range g.players {
		if !p.Finished {
			n++
		}
	}
	return n
}

// maybeEnd finishes the game once a single active seat remains; that seat is
// the loser and everyone in winners placed in the order they emptied.
func (g *Game) maybeEnd() bool {
	if g.activeCount() == 1 && len(g.winners) >= 1 {
		for _, p := range g.players {
			if !p.Finished {
				g.loser = p.Seat
				break
			}
		}
		g.over = true
		g.logger.Debug("game over", "winners", g.winners, "loser", g.loser)
		return true
	}
	return false
}

// TopCard returns the face-up reference card, if any.
func (g *Game) TopCard() (deck.Card, bool) {
	if len(g.discard) == 0 {
		return deck.Card{}, false
	}
	return g.discard[len(g.discard)-1], true
}

// Pending returns the in-flight penalty, zero-valued when none is pending.
func (g *Game) Pending() PendingPenalty { return g.pending }

// Over reports whether the game has reached its terminal state.
func (g *Game) Over() bool { return g.over }

// Turn returns the seat whose move it is.
func (g *Game) Turn() int { return g.turn }

// NumPlayers returns the fixed seat count.
func (g *Game) NumPlayers() int { return g.numPlayers }

// Winners returns the seats that emptied their hands, in finishing order.
func (g *Game) Winners() []int { return append([]int(nil), g.winners...) }

// Loser returns the losing seat, or -1 while the game is live.
func (g *Game) Loser() int { return g.loser }
