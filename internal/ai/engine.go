package ai

import (
	"fmt"
	"io"
	"math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-trainer/internal/deck"
	"github.com/lox/holdem-trainer/internal/evaluator"
	"github.com/lox/holdem-trainer/internal/game"
)

// Decision is a chosen action. Amount is the total current-street bet
// for Bet and Raise and zero otherwise.
type Decision struct {
	Action game.Action
	Amount int
}

func (d Decision) String() string {
	if d.Amount > 0 {
		return fmt.Sprintf("%s %d", d.Action, d.Amount)
	}
	return d.Action.String()
}

// Engine makes decisions for computer opponents. All randomness flows
// through the injected rng, so a seeded engine replays identically.
type Engine struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewEngine creates an engine. logger may be nil to disable decision
// tracing.
func NewEngine(rng *rand.Rand, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{rng: rng, logger: logger}
}

// Decide picks an action for the seat currently due to act. The result
// is always drawn from the table's legal action set.
func (e *Engine) Decide(g *game.GameState, seat int, p Personality) (Decision, error) {
	legal := g.LegalActions(seat)
	if len(legal) == 0 {
		return Decision{}, fmt.Errorf("seat %d has no pending action", seat)
	}
	player := g.Players[seat]

	var d Decision
	if g.Street == game.Preflop {
		d = e.decidePreflop(g, player, p, legal)
	} else {
		d = e.decidePostflop(g, player, p, legal)
	}
	e.logger.Debug("decision",
		"seat", seat,
		"name", player.Name,
		"street", g.Street,
		"hole", deck.Format(player.HoleCards),
		"action", d)
	return d, nil
}

// decidePreflop consults the personality's range table when it has an
// entry for the starting hand, otherwise falls back to percentile
// tiers.
func (e *Engine) decidePreflop(g *game.GameState, player *game.Player, p Personality, legal []game.Action) Decision {
	hand, ok := deck.Notation(player.HoleCards)
	if !ok {
		return e.passive(legal)
	}

	if entry, found := p.Range.Lookup(hand); found {
		freq := p.rangeFrequencyScale(entry.Frequency)
		if e.rng.Float64() >= freq {
			return e.passive(legal)
		}
		if entry.Action == game.Raise && e.rng.Float64() < p.Aggressiveness {
			return e.aggressive(g, player, p, legal)
		}
		return e.callOrCheck(legal)
	}

	switch pct := HandPercentile(hand); {
	case pct >= 0.95:
		return e.aggressive(g, player, p, legal)
	case pct >= 0.85:
		if e.rng.Float64() < p.Aggressiveness {
			return e.aggressive(g, player, p, legal)
		}
		return e.callOrCheck(legal)
	case pct >= 0.65:
		return e.callOrCheck(legal)
	default:
		return e.passive(legal)
	}
}

// decidePostflop plays made-hand strength against the personality's
// fold threshold, with occasional bluffs when checked to.
func (e *Engine) decidePostflop(g *game.GameState, player *game.Player, p Personality, legal []game.Action) Decision {
	strength := handStrength(player.HoleCards, g.Board)
	toCall := g.Betting.CurrentBet - player.Bet

	if strength >= 0.6 {
		if e.rng.Float64() < p.Aggressiveness {
			return e.aggressive(g, player, p, legal)
		}
		return e.callOrCheck(legal)
	}

	if toCall <= 0 {
		if e.rng.Float64() < p.BluffFrequency && slices.Contains(legal, game.Bet) {
			return Decision{Action: game.Bet, Amount: e.betSize(g, player, p)}
		}
		return Decision{Action: game.Check}
	}

	if strength >= p.FoldThreshold {
		return e.callOrCheck(legal)
	}
	return e.passive(legal)
}

// aggressive raises or bets when the sizing is affordable, falling back
// to calling.
func (e *Engine) aggressive(g *game.GameState, player *game.Player, p Personality, legal []game.Action) Decision {
	switch {
	case slices.Contains(legal, game.Raise):
		return Decision{Action: game.Raise, Amount: e.raiseSize(g, player, p)}
	case slices.Contains(legal, game.Bet):
		return Decision{Action: game.Bet, Amount: e.betSize(g, player, p)}
	case slices.Contains(legal, game.AllIn) && !slices.Contains(legal, game.Call):
		return Decision{Action: game.AllIn}
	}
	return e.callOrCheck(legal)
}

// callOrCheck continues in the hand without raising.
func (e *Engine) callOrCheck(legal []game.Action) Decision {
	switch {
	case slices.Contains(legal, game.Check):
		return Decision{Action: game.Check}
	case slices.Contains(legal, game.Call):
		return Decision{Action: game.Call}
	}
	return Decision{Action: game.Fold}
}

// passive checks when free, otherwise folds.
func (e *Engine) passive(legal []game.Action) Decision {
	if slices.Contains(legal, game.Check) {
		return Decision{Action: game.Check}
	}
	return Decision{Action: game.Fold}
}

// raiseSize picks a raise-to amount: the legal minimum scaled up by the
// personality's raise bias, capped by the stack.
func (e *Engine) raiseSize(g *game.GameState, player *game.Player, p Personality) int {
	min := g.Betting.CurrentBet + g.Betting.MinRaise
	amount := min + int(float64(g.Betting.MinRaise)*p.RaiseBias*(1+e.rng.Float64()))
	if max := player.Chips + player.Bet; amount > max {
		amount = max
	}
	return amount
}

// betSize opens between two and four big blinds depending on raise
// bias, never below the table minimum.
func (e *Engine) betSize(g *game.GameState, player *game.Player, p Personality) int {
	amount := int(float64(g.BigBlind) * (2 + 2*p.RaiseBias*e.rng.Float64()))
	if amount < g.Betting.MinRaise {
		amount = g.Betting.MinRaise
	}
	if max := player.Chips + player.Bet; amount > max {
		amount = max
	}
	return amount
}

// handStrength scores hole cards against the board in [0,1]. It is a
// coarse made-hand measure, not an equity calculation: draws score as
// their current high-card value.
func handStrength(hole, board []deck.Card) float64 {
	ev := evaluator.Evaluate(append(slices.Clone(hole), board...))

	base := map[evaluator.HandRank]float64{
		evaluator.HighCard:      0.15,
		evaluator.OnePair:       0.45,
		evaluator.TwoPair:       0.65,
		evaluator.ThreeOfAKind:  0.75,
		evaluator.Straight:      0.85,
		evaluator.Flush:         0.90,
		evaluator.FullHouse:     0.95,
		evaluator.FourOfAKind:   1.0,
		evaluator.StraightFlush: 1.0,
		evaluator.RoyalFlush:    1.0,
	}[ev.Rank]

	// A made hand that plays the board only, without either hole card,
	// is worth far less than the same hand using our cards.
	if ev.Rank > evaluator.HighCard && !usesHoleCard(ev.Defining, hole) {
		base -= 0.25
	}

	// Credit big cards so overcards continue more often than rag hands.
	high := hole[0].Rank
	for _, c := range hole[1:] {
		if c.Rank > high {
			high = c.Rank
		}
	}
	base += float64(high-deck.Two) / 12 * 0.1

	if base < 0 {
		return 0
	}
	if base > 1 {
		return 1
	}
	return base
}

func usesHoleCard(defining, hole []deck.Card) bool {
	for _, d := range defining {
		if slices.Contains(hole, d) {
			return true
		}
	}
	return false
}
