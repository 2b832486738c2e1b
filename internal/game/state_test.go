package game

import (
	"errors"
	"slices"
	"testing"

	"github.com/lox/holdem-trainer/internal/randutil"
)

func newTestGame(t *testing.T, names []string, settings Settings) *GameState {
	t.Helper()
	g, err := New(randutil.New(42), names, -1, settings)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func defaultSettings() Settings {
	return Settings{
		GameType:      CashGame,
		StartingStack: 1000,
		SmallBlind:    25,
		BigBlind:      50,
	}
}

// mustApply fails the test if the action is rejected.
func mustApply(t *testing.T, g *GameState, action Action, amount int) {
	t.Helper()
	if err := g.Apply(action, amount); err != nil {
		t.Fatalf("Apply(%v, %d) for seat %d: %v", action, amount, g.ActiveSeat, err)
	}
}

func committedChips(g *GameState) int {
	total := g.Pot
	for _, p := range g.Players {
		total += p.Bet
	}
	return total
}

func TestStartHandPostsBlindsAndDeals(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, []string{"Alice", "Bob", "Charlie"}, defaultSettings())
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}

	if g.DealerSeat != 0 {
		t.Errorf("first dealer = %d, want 0", g.DealerSeat)
	}
	if g.SBSeat != 1 || g.BBSeat != 2 {
		t.Errorf("blind seats = %d/%d, want 1/2", g.SBSeat, g.BBSeat)
	}
	if g.Players[1].Bet != 25 || g.Players[2].Bet != 50 {
		t.Errorf("blind bets = %d/%d, want 25/50", g.Players[1].Bet, g.Players[2].Bet)
	}
	if g.ActiveSeat != 0 {
		t.Errorf("first to act = %d, want 0 (left of BB)", g.ActiveSeat)
	}
	for _, p := range g.Players {
		if len(p.HoleCards) != 2 {
			t.Errorf("player %s has %d hole cards, want 2", p.Name, len(p.HoleCards))
		}
	}
	if committedChips(g) != 75 {
		t.Errorf("committed chips = %d, want 75", committedChips(g))
	}
}

func TestRaiseCallCallScenario(t *testing.T) {
	t.Parallel()

	// 3 players at 1000 chips, blinds 25/50. Seat 0 (UTG) raises to
	// 150; seats 1 and 2 call; the round completes and the pot grows by
	// exactly 450.
	g := newTestGame(t, []string{"A", "B", "C"}, defaultSettings())
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}

	mustApply(t, g, Raise, 150)

	actions := g.LegalActions(g.ActiveSeat)
	if !slices.Contains(actions, Call) || !slices.Contains(actions, Raise) {
		t.Errorf("facing a raise, legal actions should include call and raise, got %v", actions)
	}
	if slices.Contains(actions, Check) {
		t.Errorf("check must not be legal facing a raise, got %v", actions)
	}

	mustApply(t, g, Call, 0) // SB calls
	mustApply(t, g, Call, 0) // BB calls

	if g.Street != Flop {
		t.Fatalf("street = %v, want flop after round completes", g.Street)
	}
	if g.Pot != 450 {
		t.Errorf("pot = %d, want 450", g.Pot)
	}
	if len(g.Board) != 3 {
		t.Errorf("board has %d cards, want 3", len(g.Board))
	}
}

func TestBigBlindGetsOption(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, []string{"A", "B", "C"}, defaultSettings())
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}

	mustApply(t, g, Call, 0) // UTG limps
	mustApply(t, g, Call, 0) // SB completes

	// All bets match, but the BB has not acted and gets the option.
	if g.Street != Preflop {
		t.Fatalf("street advanced before BB option, now %v", g.Street)
	}
	if g.ActiveSeat != g.BBSeat {
		t.Fatalf("active seat = %d, want BB %d", g.ActiveSeat, g.BBSeat)
	}

	actions := g.LegalActions(g.ActiveSeat)
	if !slices.Contains(actions, Check) || !slices.Contains(actions, Bet) {
		t.Errorf("BB option should allow check or bet, got %v", actions)
	}

	mustApply(t, g, Check, 0)
	if g.Street != Flop {
		t.Errorf("street = %v, want flop after BB checks", g.Street)
	}
}

func TestIllegalActionRejectedWithoutMutation(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, []string{"A", "B", "C"}, defaultSettings())
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}

	before := committedChips(g)
	err := g.Apply(Check, 0) // UTG cannot check facing the BB
	if !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("expected ErrIllegalAction, got %v", err)
	}
	if committedChips(g) != before {
		t.Errorf("illegal action mutated chip state")
	}
	if g.ActiveSeat != 0 {
		t.Errorf("illegal action advanced the turn to %d", g.ActiveSeat)
	}
}

func TestUnderMinRaiseRejected(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, []string{"A", "B", "C"}, defaultSettings())
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}

	// Min raise over the 50 big blind is to 100.
	err := g.Apply(Raise, 75)
	if !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("expected ErrIllegalAction for under-min raise, got %v", err)
	}

	mustApply(t, g, Raise, 100)
	if g.Betting.CurrentBet != 100 || g.Betting.MinRaise != 50 {
		t.Errorf("after min-raise: currentBet=%d minRaise=%d, want 100/50",
			g.Betting.CurrentBet, g.Betting.MinRaise)
	}
}

func TestFoldsEndHandImmediately(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, []string{"A", "B", "C"}, defaultSettings())
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}

	mustApply(t, g, Fold, 0) // UTG
	mustApply(t, g, Fold, 0) // SB

	if g.Street != HandComplete {
		t.Fatalf("street = %v, want hand complete after folds", g.Street)
	}

	res := g.Result()
	if res == nil {
		t.Fatal("expected a hand result")
	}
	if res.Showdown {
		t.Error("fold-win should not be a showdown")
	}
	if !slices.Equal(res.Winners, []int{2}) {
		t.Errorf("winners = %v, want [2] (BB wins uncontested)", res.Winners)
	}
	// BB wins back its 50 plus the 25 small blind.
	if g.Players[2].Chips != 1025 {
		t.Errorf("BB chips = %d, want 1025", g.Players[2].Chips)
	}
}

func TestAllInRunoutReachesShowdown(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, []string{"A", "B"}, defaultSettings())
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}

	// Heads-up: dealer (seat 0) is SB and acts first preflop.
	mustApply(t, g, AllIn, 0)
	mustApply(t, g, Call, 0)

	if g.Street != HandComplete {
		t.Fatalf("street = %v, want complete after all-in runout", g.Street)
	}

	res := g.Result()
	if res == nil || !res.Showdown {
		t.Fatal("expected a showdown result")
	}
	if len(res.Board) != 5 {
		t.Errorf("board has %d cards, want 5", len(res.Board))
	}

	// Chips conserve: 2000 in play before and after.
	total := 0
	for _, p := range g.Players {
		total += p.Chips
	}
	if total != 2000 {
		t.Errorf("total chips = %d, want 2000", total)
	}
	if got := PotTotal(res.Pots); got != 2000 {
		t.Errorf("pot total = %d, want 2000", got)
	}
}

func TestShortAllInCreatesSidePot(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, []string{"A", "B", "C"}, defaultSettings())
	g.Players[0].Chips = 200 // short stack at UTG
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}

	mustApply(t, g, AllIn, 0)   // UTG shoves 200
	mustApply(t, g, Raise, 400) // SB raises over the shove
	mustApply(t, g, Call, 0)    // BB calls 400

	// Betting continues between B and C on later streets; check them
	// down to showdown.
	for g.Street != HandComplete {
		mustApply(t, g, Check, 0)
	}

	res := g.Result()
	if res == nil {
		t.Fatal("expected hand result")
	}

	// Main pot 600 (200 x 3) with everyone eligible; side pot 400
	// between seats 1 and 2.
	if len(res.Pots) != 2 {
		t.Fatalf("expected 2 pots, got %+v", res.Pots)
	}
	if res.Pots[0].Amount != 600 || !sameSeats(res.Pots[0].Eligible, []int{0, 1, 2}) {
		t.Errorf("main pot = %+v, want 600 with all seats", res.Pots[0])
	}
	if res.Pots[1].Amount != 400 || !sameSeats(res.Pots[1].Eligible, []int{1, 2}) {
		t.Errorf("side pot = %+v, want 400 between seats 1 and 2", res.Pots[1])
	}

	paid := 0
	for _, amount := range res.Payouts {
		paid += amount
	}
	if paid != 1000 {
		t.Errorf("payouts total %d, want 1000", paid)
	}
}

func TestStartHandEliminatesBustedPlayers(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, []string{"A", "B", "C"}, defaultSettings())
	g.Players[1].Chips = 0

	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	if !g.Players[1].Eliminated {
		t.Error("zero-stack player should be eliminated")
	}
	if len(g.Players[1].HoleCards) != 0 {
		t.Error("eliminated player should not be dealt in")
	}
}

func TestStartHandTerminalWhenOnePlayerLeft(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, []string{"A", "B"}, defaultSettings())
	g.Players[1].Chips = 0

	err := g.StartHand()
	if !errors.Is(err, ErrNotEnoughPlayers) {
		t.Fatalf("expected ErrNotEnoughPlayers, got %v", err)
	}
	if g.Street != HandComplete {
		t.Errorf("street = %v, want terminal hand-complete state", g.Street)
	}
	if !g.GameOver() {
		t.Error("game should be over with one stack remaining")
	}
}

func TestTournamentBlindSchedule(t *testing.T) {
	t.Parallel()

	settings := Settings{
		GameType:      Tournament,
		StartingStack: 5000,
		SmallBlind:    25,
		BigBlind:      50,
		BlindLevels: []BlindLevel{
			{SmallBlind: 25, BigBlind: 50, Hands: 2},
			{SmallBlind: 50, BigBlind: 100, Ante: 10, Hands: 2},
		},
	}

	g := newTestGame(t, []string{"A", "B", "C"}, settings)

	playHand := func() {
		t.Helper()
		if err := g.StartHand(); err != nil {
			t.Fatalf("StartHand: %v", err)
		}
		// Fold around to end the hand quickly.
		for g.Street < ShowdownStreet {
			mustApply(t, g, Fold, 0)
		}
	}

	playHand()
	if g.SmallBlind != 25 || g.BigBlind != 50 {
		t.Errorf("hand 1 blinds = %d/%d, want 25/50", g.SmallBlind, g.BigBlind)
	}

	playHand()
	playHand()
	if g.SmallBlind != 50 || g.BigBlind != 100 || g.Ante != 10 {
		t.Errorf("hand 3 blinds = %d/%d ante %d, want 50/100 ante 10",
			g.SmallBlind, g.BigBlind, g.Ante)
	}
}

func TestFoldToShortAllInBlindRefundsExcess(t *testing.T) {
	t.Parallel()

	// Heads-up at 100/200 the dealer posts the small blind. The big
	// blind is all-in for 60, so 40 of the posted small blind can never
	// be contested; folding must return it instead of orphaning it in a
	// pot with no eligible seat.
	settings := Settings{
		GameType:      CashGame,
		StartingStack: 1000,
		SmallBlind:    100,
		BigBlind:      200,
	}
	g := newTestGame(t, []string{"A", "B"}, settings)
	g.Players[1].Chips = 60

	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	mustApply(t, g, Fold, 0) // dealer/SB folds to the all-in BB

	res := g.Result()
	if res == nil {
		t.Fatal("expected hand result")
	}
	for _, pot := range res.Pots {
		if len(pot.Eligible) == 0 {
			t.Errorf("pot %+v has no eligible seat", pot)
		}
	}
	if got := PotTotal(res.Pots); got != 120 {
		t.Errorf("pot total = %d, want 120 (60 from each seat)", got)
	}
	if g.Players[0].Chips != 940 {
		t.Errorf("SB chips = %d, want 940 (100 posted, 40 returned)", g.Players[0].Chips)
	}
	if g.Players[1].Chips != 120 {
		t.Errorf("BB chips = %d, want 120", g.Players[1].Chips)
	}

	total := g.Players[0].Chips + g.Players[1].Chips
	if total != 1060 {
		t.Errorf("total chips = %d, want 1060", total)
	}
}

func TestShowdownRefundsContributionAboveAllInStacks(t *testing.T) {
	t.Parallel()

	// Both players reaching showdown are all-in below the folded small
	// blind's 100, so 20 of it is uncontestable and comes back.
	settings := Settings{
		GameType:      CashGame,
		StartingStack: 1000,
		SmallBlind:    100,
		BigBlind:      200,
	}
	g := newTestGame(t, []string{"A", "B", "C"}, settings)
	g.Players[0].Chips = 60 // UTG
	g.Players[2].Chips = 80 // BB posts all-in

	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	mustApply(t, g, AllIn, 0) // UTG all-in for 60
	mustApply(t, g, Fold, 0)  // SB folds its 100

	res := g.Result()
	if res == nil || !res.Showdown {
		t.Fatal("expected a showdown result")
	}
	for _, pot := range res.Pots {
		if len(pot.Eligible) == 0 {
			t.Errorf("pot %+v has no eligible seat", pot)
		}
	}

	// Layers: 60 from each of three seats, then 20 more from the folded
	// small blind matched by the 80 all-in.
	if got := PotTotal(res.Pots); got != 220 {
		t.Errorf("pot total = %d, want 220", got)
	}
	paid := 0
	for _, amount := range res.Payouts {
		paid += amount
	}
	if paid != 220 {
		t.Errorf("payouts total %d, want 220", paid)
	}
	if g.Players[1].Chips != 920 {
		t.Errorf("SB chips = %d, want 920 (100 posted, 20 returned)", g.Players[1].Chips)
	}

	total := 0
	for _, p := range g.Players {
		total += p.Chips
	}
	if total != 1140 {
		t.Errorf("total chips = %d, want 1140", total)
	}
}

func TestChipConservationAcrossHands(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, []string{"A", "B", "C", "D"}, defaultSettings())

	for range 20 {
		if err := g.StartHand(); err != nil {
			break
		}
		for g.Street < ShowdownStreet {
			seat := g.ActiveSeat
			actions := g.LegalActions(seat)
			switch {
			case slices.Contains(actions, Check):
				mustApply(t, g, Check, 0)
			case slices.Contains(actions, Call):
				mustApply(t, g, Call, 0)
			default:
				mustApply(t, g, AllIn, 0)
			}
		}

		total := 0
		for _, p := range g.Players {
			total += p.Chips
		}
		if total != 4000 {
			t.Fatalf("hand %d: total chips = %d, want 4000", g.HandNum, total)
		}
	}
}
