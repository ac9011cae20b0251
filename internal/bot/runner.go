package bot

import (
	"context"
	"errors"
	"io"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/ronda/internal/deck"
	"github.com/lox/ronda/internal/game"
	"github.com/lox/ronda/internal/randutil"
)

// TurnOutcome summarises one bot turn for the host's after-turn hook.
type TurnOutcome struct {
	Seat       int
	Played     *deck.Card
	ChosenSuit *deck.Suit
	Drew       int
	FellBack   bool // the chosen play was rejected and the bot drew instead
	GameOver   bool
}

// AfterTurnFunc runs after each completed bot turn, before the next one
// starts. Hosts use it to persist the game incrementally; a non-nil error
// stops the run.
type AfterTurnFunc func(outcome TurnOutcome) error

// Runner drives consecutive bot turns through the game's public move API,
// exactly as a human caller would; there is no private backdoor into the
// engine. Each turn is one atomic state transition, so a run can be
// cancelled between turns but never leaves a turn half-applied.
type Runner struct {
	logger     *log.Logger
	clock      quartz.Clock
	rng        *rand.Rand
	delayScale float64
	afterTurn  AfterTurnFunc
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(logger *log.Logger) RunnerOption {
	return func(r *Runner) { r.logger = logger.WithPrefix("bot-runner") }
}

// WithClock injects the clock used for thinking delays. Tests pass a mock.
func WithClock(clock quartz.Clock) RunnerOption {
	return func(r *Runner) { r.clock = clock }
}

// WithRNG sets the random source shared by the runner's policies and its
// thinking-delay jitter.
func WithRNG(rng *rand.Rand) RunnerOption {
	return func(r *Runner) { r.rng = rng }
}

// WithThinkingDelay scales the per-difficulty thinking pause. 1.0 gives the
// human-like ranges (roughly 0.5s-3s per turn); 0 disables pacing entirely,
// which is what tests and batch simulation want.
func WithThinkingDelay(scale float64) RunnerOption {
	return func(r *Runner) { r.delayScale = scale }
}

// WithAfterTurn registers the host's per-turn hook.
func WithAfterTurn(hook AfterTurnFunc) RunnerOption {
	return func(r *Runner) { r.afterTurn = hook }
}

// NewRunner creates a runner. By default it is silent, unpaced and uses the
// real clock.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		logger: log.New(io.Discard),
		clock:  quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = randutil.New(time.Now().UnixNano())
	}
	return r
}

// Run plays bot turns until the game ends, control reaches a human seat, or
// the context is cancelled between turns. A bot whose chosen card the engine
// rejects falls back to drawing, so a flawed decision can never stall the
// game.
func (r *Runner) Run(ctx context.Context, g *game.Game) error {
	for {
		if g.Over() {
			return nil
		}
		st := g.Snapshot()
		seat := st.Turn
		player := st.Players[seat]
		if !player.IsBot {
			return nil
		}

		difficulty := ParseDifficulty(player.Difficulty)
		if err := r.think(ctx, difficulty); err != nil {
			return err
		}

		outcome, err := r.playTurn(g, st, seat, difficulty)
		if err != nil {
			return err
		}
		outcome.GameOver = g.Over()

		if r.afterTurn != nil {
			if err := r.afterTurn(outcome); err != nil {
				return err
			}
		}
	}
}

// playTurn applies one bot decision to the game.
func (r *Runner) playTurn(g *game.Game, st game.State, seat int, difficulty Difficulty) (TurnOutcome, error) {
	outcome := TurnOutcome{Seat: seat}

	var topCard *deck.Card
	if top, ok := st.TopCard(); ok {
		topCard = &top
	}
	effectiveSuit, _ := st.EffectiveSuit()

	policy := NewPolicy(difficulty, r.rng)
	decision, ok := policy.Decide(st.Players[seat].Hand, topCard, effectiveSuit)
	if !ok {
		cards, err := g.DrawCard(seat)
		if err != nil {
			return outcome, err
		}
		outcome.Drew = len(cards)
		r.logger.Debug("bot drew", "seat", seat, "cards", len(cards))
		return outcome, nil
	}

	_, err := g.PlayCard(seat, decision.Card.Rank, decision.Card.Suit, decision.ChosenSuit)
	if err != nil {
		var illegal *game.IllegalMoveError
		if !errors.As(err, &illegal) {
			return outcome, err
		}
		// The policy ignores pending penalties, so its pick can be rejected.
		// Drawing is always legal on your own turn.
		r.logger.Debug("bot play rejected, drawing instead",
			"seat", seat, "card", decision.Card, "reason", illegal.Reason)
		cards, derr := g.DrawCard(seat)
		if derr != nil {
			return outcome, derr
		}
		outcome.Drew = len(cards)
		outcome.FellBack = true
		return outcome, nil
	}

	card := decision.Card
	outcome.Played = &card
	outcome.ChosenSuit = decision.ChosenSuit
	r.logger.Debug("bot played", "seat", seat, "card", card)
	return outcome, nil
}

// think pauses between turns to emulate human pacing. The pause is
// cooperative: it is the only non-instant step in a run and it happens
// between atomic turns, never inside one.
func (r *Runner) think(ctx context.Context, difficulty Difficulty) error {
	if r.delayScale <= 0 {
		return ctx.Err()
	}
	minDelay, maxDelay := thinkingRange(difficulty)
	jitter := time.Duration(r.rng.Int64N(int64(maxDelay - minDelay + 1)))
	delay := time.Duration(float64(minDelay+jitter) * r.delayScale)

	timer := r.clock.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// thinkingRange mirrors the pacing humans expect from each tier: easier bots
// "think" longer.
func thinkingRange(difficulty Difficulty) (time.Duration, time.Duration) {
	switch difficulty {
	case Easy:
		return 1 * time.Second, 3 * time.Second
	case Hard:
		return 500 * time.Millisecond, 1500 * time.Millisecond
	default:
		return 800 * time.Millisecond, 2 * time.Second
	}
}
