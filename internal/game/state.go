package game

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/lox/holdem-trainer/internal/deck"
	"github.com/lox/holdem-trainer/internal/evaluator"
)

// GameState is the full table snapshot for one hand plus the chip
// stacks that persist across hands. It is mutated in place through
// Apply, the sole mutation entry point; callers must serialize access
// per table since the state machine has no internal synchronization.
type GameState struct {
	Players []*Player
	Board   []deck.Card

	// Pot holds settled chips only. In-flight current-street bets live
	// on each player until the street completes, so at all times
	// Pot + sum(player.Bet) equals the chips committed this hand.
	Pot int

	DealerSeat int
	SBSeat     int
	BBSeat     int

	SmallBlind int
	BigBlind   int
	Ante       int

	HandNum    int // 1-based, incremented by StartHand
	Street     Street
	ActiveSeat int // seat to act, -1 when no action is pending
	Betting    *BettingRound

	deck     *deck.Deck
	rng      *rand.Rand
	newDeck  func(*rand.Rand) *deck.Deck
	settings Settings
	result   *HandResult
}

// Option configures a GameState at construction.
type Option func(*GameState)

// WithDeckFunc overrides how each hand's deck is built. Tests use this
// with deck.Stacked to control the deal.
func WithDeckFunc(fn func(*rand.Rand) *deck.Deck) Option {
	return func(g *GameState) { g.newDeck = fn }
}

// HandResult is the settled outcome of a completed hand.
type HandResult struct {
	HandNum     int
	Board       []deck.Card
	Pots        []SidePot
	Payouts     map[int]int // seat -> chips won
	Evaluations map[int]evaluator.Evaluation
	Winners     []int // seats that won any pot, ascending
	Showdown    bool  // false when everyone folded to one player
}

// New creates a table of playerCount seats with the configured starting
// stacks. previousDealerSeat positions the button so the first
// StartHand advances it; pass -1 to start at seat 0.
func New(rng *rand.Rand, names []string, previousDealerSeat int, settings Settings, opts ...Option) (*GameState, error) {
	if rng == nil {
		return nil, fmt.Errorf("rng is required")
	}
	if len(names) < 2 {
		return nil, ErrNotEnoughPlayers
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	players := make([]*Player, len(names))
	for i, name := range names {
		players[i] = &Player{
			Seat:  i,
			Name:  name,
			Chips: settings.StartingStack,
		}
	}

	g := &GameState{
		Players:    players,
		DealerSeat: previousDealerSeat,
		Street:     HandComplete,
		ActiveSeat: -1,
		rng:        rng,
		newDeck:    deck.NewShuffled,
		settings:   settings,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Settings returns the table settings.
func (g *GameState) Settings() Settings { return g.settings }

// Result returns the outcome of the last completed hand, or nil while a
// hand is being played.
func (g *GameState) Result() *HandResult { return g.result }

// GameOver reports whether fewer than two players still have chips.
func (g *GameState) GameOver() bool {
	withChips := 0
	for _, p := range g.Players {
		if p.Chips > 0 {
			withChips++
		}
	}
	return withChips < 2
}

// StartHand deals the next hand: eliminates busted players, advances
// the dealer, applies the blind level, posts antes and blinds, and
// deals hole cards. Returns ErrNotEnoughPlayers as a terminal condition
// when fewer than two players remain.
func (g *GameState) StartHand() error {
	for _, p := range g.Players {
		if p.Chips == 0 {
			p.Eliminated = true
		}
		p.resetForHand()
	}

	remaining := 0
	for _, p := range g.Players {
		if !p.Eliminated {
			remaining++
		}
	}
	if remaining < 2 {
		g.Street = HandComplete
		g.ActiveSeat = -1
		return ErrNotEnoughPlayers
	}

	g.HandNum++
	g.SmallBlind, g.BigBlind, g.Ante = g.settings.levelFor(g.HandNum - 1)

	g.DealerSeat = NextDealerSeat(g.Players, g.DealerSeat)
	AssignPositions(g.Players, g.DealerSeat)
	g.SBSeat, g.BBSeat = BlindSeats(g.Players, g.DealerSeat)

	g.Board = nil
	g.Pot = 0
	g.result = nil
	g.Street = Preflop
	g.Betting = NewBettingRound(len(g.Players), g.BigBlind)

	// Antes settle straight into the pot; blinds stay live as bets.
	if g.Ante > 0 {
		for _, p := range g.Players {
			if !p.Eliminated {
				g.Pot += p.postAnte(g.Ante)
			}
		}
	}
	PostBlinds(g.Players, g.SBSeat, g.BBSeat, g.SmallBlind, g.BigBlind)
	g.Betting.CurrentBet = g.BigBlind

	g.deck = g.newDeck(g.rng)
	for _, p := range g.Players {
		if !p.Eliminated {
			p.HoleCards = g.deck.DealN(2)
		}
	}

	// Heads-up the dealer posts the small blind and acts first preflop;
	// otherwise action starts left of the big blind.
	if remaining == 2 {
		g.ActiveSeat = NextActiveSeat(g.Players, g.DealerSeat)
	} else {
		g.ActiveSeat = NextActiveSeat(g.Players, g.BBSeat+1)
	}

	// Everyone can be all-in from blinds and antes alone.
	if g.ActiveSeat == -1 || g.Betting.Complete(g.Players) {
		g.advanceStreet()
	}
	return nil
}

// LegalActions returns the action set for the given seat, or nil when
// it is not that seat's turn. Apply rejects anything outside this set.
func (g *GameState) LegalActions(seat int) []Action {
	if g.Street >= ShowdownStreet || seat != g.ActiveSeat {
		return nil
	}
	return g.Betting.LegalActions(g.Players[seat])
}

// Apply processes the acting player's action, including any cascading
// street transition or showdown it triggers. amount is the total
// current-street bet for Bet and Raise and ignored otherwise. Illegal
// actions are rejected before any state changes.
func (g *GameState) Apply(action Action, amount int) error {
	if g.Street >= ShowdownStreet || g.ActiveSeat < 0 {
		return ErrHandComplete
	}

	p := g.Players[g.ActiveSeat]
	if !slices.Contains(g.Betting.LegalActions(p), action) {
		return fmt.Errorf("%w: %s by seat %d", ErrIllegalAction, action, p.Seat)
	}

	switch action {
	case Fold:
		p.Folded = true

	case Check:
		// No chips move.

	case Call:
		p.commit(g.Betting.CurrentBet - p.Bet)

	case Bet, Raise:
		if err := g.validateRaiseTo(p, amount); err != nil {
			return err
		}
		p.commit(amount - p.Bet)
		g.Betting.MinRaise = amount - g.Betting.CurrentBet
		g.Betting.CurrentBet = amount
		g.Betting.LastAggressor = p.Seat
		g.Betting.reopen(p.Seat)

	case AllIn:
		p.commit(p.Chips)
		if p.Bet > g.Betting.CurrentBet {
			// A shove above the current bet acts as a raise and
			// reopens the action.
			g.Betting.MinRaise = p.Bet - g.Betting.CurrentBet
			g.Betting.CurrentBet = p.Bet
			g.Betting.LastAggressor = p.Seat
			g.Betting.reopen(p.Seat)
		}
	}

	act := action
	p.LastAction = &act
	g.Betting.markActed(p.Seat)

	if g.inHandCount() <= 1 {
		g.finishByFolds()
		return nil
	}

	if g.Betting.Complete(g.Players) {
		g.advanceStreet()
		return nil
	}

	g.ActiveSeat = NextActiveSeat(g.Players, g.ActiveSeat+1)
	if g.ActiveSeat == -1 {
		g.advanceStreet()
	}
	return nil
}

// validateRaiseTo enforces bet/raise sizing. amount is the total street
// bet the player raises to. Going all-in below the minimum raise is
// legal; raising below it with chips behind is not.
func (g *GameState) validateRaiseTo(p *Player, amount int) error {
	total := p.Chips + p.Bet
	if amount > total {
		return fmt.Errorf("%w: raise to %d exceeds stack of %d", ErrIllegalAction, amount, total)
	}
	if amount <= g.Betting.CurrentBet {
		return fmt.Errorf("%w: raise to %d does not exceed current bet %d", ErrIllegalAction, amount, g.Betting.CurrentBet)
	}
	if amount < g.Betting.CurrentBet+g.Betting.MinRaise && amount != total {
		return fmt.Errorf("%w: raise to %d below minimum %d", ErrIllegalAction,
			amount, g.Betting.CurrentBet+g.Betting.MinRaise)
	}
	return nil
}

// advanceStreet sweeps bets into the pot and reveals the next street,
// cascading through remaining streets when no one can act (all-in
// runouts) and resolving the showdown after the river.
func (g *GameState) advanceStreet() {
	g.collectBets()

	for {
		switch g.Street {
		case Preflop:
			g.Street = Flop
			g.Board = append(g.Board, g.deck.DealN(3)...)
		case Flop:
			g.Street = Turn
			g.Board = append(g.Board, g.deck.DealN(1)...)
		case Turn:
			g.Street = River
			g.Board = append(g.Board, g.deck.DealN(1)...)
		case River:
			g.showdown()
			return
		default:
			return
		}

		g.Betting.Reset()
		g.ActiveSeat = NextActiveSeat(g.Players, g.DealerSeat+1)
		if g.ActiveSeat != -1 && !g.Betting.Complete(g.Players) {
			return
		}
		// Nobody can meaningfully act; run out the remaining board.
	}
}

// collectBets settles the street's bets into the pot and clears
// per-street action markers.
func (g *GameState) collectBets() {
	for _, p := range g.Players {
		g.Pot += p.Bet
		p.Bet = 0
		p.LastAction = nil
	}
}

// returnUncalled refunds any contribution no surviving player can
// contest. Forced blinds can leave a folded seat's cumulative
// contribution above every in-hand stack; without the refund that
// excess would layer into a pot nobody is eligible to win.
func (g *GameState) returnUncalled() {
	maxInHand := 0
	for _, p := range g.Players {
		if p.InHand() && p.TotalBet > maxInHand {
			maxInHand = p.TotalBet
		}
	}
	for _, p := range g.Players {
		if p.TotalBet > maxInHand {
			refund := p.TotalBet - maxInHand
			p.TotalBet -= refund
			p.Chips += refund
			g.Pot -= refund
		}
	}
}

// showdown evaluates every hand still in contention and pays out all
// pots.
func (g *GameState) showdown() {
	g.returnUncalled()

	evals := make(map[int]evaluator.Evaluation)
	for _, p := range g.Players {
		if p.InHand() {
			evals[p.Seat] = evaluator.Evaluate(append(slices.Clone(p.HoleCards), g.Board...))
		}
	}

	pots := ComputeSidePots(g.Players)
	payouts := Distribute(pots, evals)
	g.settle(pots, payouts, evals, true)
}

// finishByFolds ends the hand when a single player remains: they take
// every pot without showing a hand.
func (g *GameState) finishByFolds() {
	g.collectBets()
	g.returnUncalled()

	pots := ComputeSidePots(g.Players)
	payouts := make(map[int]int)
	for _, pot := range pots {
		if len(pot.Eligible) > 0 {
			payouts[pot.Eligible[0]] += pot.Amount
		}
	}
	g.settle(pots, payouts, nil, false)
}

func (g *GameState) settle(pots []SidePot, payouts map[int]int, evals map[int]evaluator.Evaluation, showdown bool) {
	winners := make([]int, 0, len(payouts))
	for seat, amount := range payouts {
		g.Players[seat].Chips += amount
		winners = append(winners, seat)
	}
	slices.Sort(winners)

	g.result = &HandResult{
		HandNum:     g.HandNum,
		Board:       slices.Clone(g.Board),
		Pots:        pots,
		Payouts:     payouts,
		Evaluations: evals,
		Winners:     winners,
		Showdown:    showdown,
	}
	g.Pot = 0
	g.Street = HandComplete
	g.ActiveSeat = -1
}

func (g *GameState) inHandCount() int {
	count := 0
	for _, p := range g.Players {
		if p.InHand() {
			count++
		}
	}
	return count
}

// postAnte settles an ante straight into the hand's cumulative
// contribution without creating a live bet.
func (p *Player) postAnte(ante int) int {
	if ante > p.Chips {
		ante = p.Chips
	}
	p.Chips -= ante
	p.TotalBet += ante
	if p.Chips == 0 {
		p.AllIn = true
	}
	return ante
}
