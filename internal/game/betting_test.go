package game

import (
	"slices"
	"testing"
)

func TestLegalActionsNoOutstandingBet(t *testing.T) {
	t.Parallel()

	br := NewBettingRound(3, 50)
	p := &Player{Seat: 0, Chips: 1000}

	actions := br.LegalActions(p)
	for _, want := range []Action{Fold, Check, Bet, AllIn} {
		if !slices.Contains(actions, want) {
			t.Errorf("expected %v in legal actions %v", want, actions)
		}
	}
	if slices.Contains(actions, Call) || slices.Contains(actions, Raise) {
		t.Errorf("call/raise should not be legal with no outstanding bet, got %v", actions)
	}
}

func TestLegalActionsFacingBet(t *testing.T) {
	t.Parallel()

	br := NewBettingRound(3, 50)
	br.CurrentBet = 150
	br.MinRaise = 100

	p := &Player{Seat: 2, Chips: 950}
	actions := br.LegalActions(p)

	for _, want := range []Action{Fold, Call, Raise, AllIn} {
		if !slices.Contains(actions, want) {
			t.Errorf("expected %v in legal actions %v", want, actions)
		}
	}
	if slices.Contains(actions, Check) {
		t.Errorf("check must not be legal facing a bet, got %v", actions)
	}
	if slices.Contains(actions, Bet) {
		t.Errorf("bet must not be legal facing a bet, got %v", actions)
	}
}

func TestLegalActionsShortStackCannotMinRaise(t *testing.T) {
	t.Parallel()

	br := NewBettingRound(2, 50)
	br.CurrentBet = 200
	br.MinRaise = 150

	p := &Player{Seat: 1, Chips: 250} // enough to call, not to min-raise
	actions := br.LegalActions(p)

	if !slices.Contains(actions, Call) {
		t.Errorf("call should be legal, got %v", actions)
	}
	if slices.Contains(actions, Raise) {
		t.Errorf("raise should not be legal below min-raise stack, got %v", actions)
	}
	if !slices.Contains(actions, AllIn) {
		t.Errorf("all-in should always be legal with chips, got %v", actions)
	}
}

func TestCompleteRequiresEveryoneToAct(t *testing.T) {
	t.Parallel()

	players := []*Player{
		{Seat: 0, Chips: 950, Bet: 50},
		{Seat: 1, Chips: 950, Bet: 50},
		{Seat: 2, Chips: 950, Bet: 50},
	}
	br := NewBettingRound(3, 50)
	br.CurrentBet = 50

	// Bets match but nobody has acted.
	if br.Complete(players) {
		t.Error("round must not complete while players have not acted")
	}

	br.markActed(0)
	br.markActed(1)
	if br.Complete(players) {
		t.Error("round must not complete while seat 2 has not acted")
	}

	br.markActed(2)
	if !br.Complete(players) {
		t.Error("round should complete once all matched and acted")
	}
}

func TestCompleteWithAllInPlayers(t *testing.T) {
	t.Parallel()

	players := []*Player{
		{Seat: 0, Chips: 0, Bet: 30, AllIn: true},
		{Seat: 1, Chips: 900, Bet: 100},
		{Seat: 2, Chips: 900, Bet: 100},
	}
	br := NewBettingRound(3, 50)
	br.CurrentBet = 100
	br.markActed(1)
	br.markActed(2)

	// The all-in player cannot act and does not block completion.
	if !br.Complete(players) {
		t.Error("round should complete, all-in player is exempt")
	}
}

func TestCompleteSingleActivePlayer(t *testing.T) {
	t.Parallel()

	players := []*Player{
		{Seat: 0, Chips: 0, Bet: 200, AllIn: true},
		{Seat: 1, Chips: 500, Bet: 100},
	}
	br := NewBettingRound(2, 50)
	br.CurrentBet = 200

	// Lone active player still owes chips against the shove.
	if br.Complete(players) {
		t.Error("round must not complete while the lone active player owes a call")
	}

	players[1].Bet = 200
	if !br.Complete(players) {
		t.Error("round should complete once the lone active player matches")
	}
}

func TestReopenAfterRaise(t *testing.T) {
	t.Parallel()

	players := []*Player{
		{Seat: 0, Chips: 900, Bet: 100},
		{Seat: 1, Chips: 900, Bet: 100},
		{Seat: 2, Chips: 700, Bet: 300},
	}
	br := NewBettingRound(3, 50)
	br.CurrentBet = 100
	br.markActed(0)
	br.markActed(1)

	// Seat 2 raises to 300: everyone else must act again.
	br.CurrentBet = 300
	br.reopen(2)

	if br.Complete(players) {
		t.Error("raise should reopen the action")
	}
	if !br.Acted[2] || br.Acted[0] || br.Acted[1] {
		t.Errorf("only the aggressor should be marked acted, got %v", br.Acted)
	}
}
