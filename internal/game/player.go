package game

import (
	"github.com/lox/holdem-trainer/internal/deck"
)

// Player represents a seat at the table across hands. Chips persist
// between hands; everything else resets when a new hand is dealt.
type Player struct {
	Seat       int
	Name       string
	Chips      int
	HoleCards  []deck.Card
	Folded     bool
	AllIn      bool
	Eliminated bool
	Human      bool
	Position   Position

	// Bet is the chips committed on the current street; TotalBet is the
	// cumulative commitment for the whole hand (blinds and antes
	// included). Side pots are layered from TotalBet.
	Bet      int
	TotalBet int

	// LastAction is nil until the player acts on the current street.
	LastAction *Action
}

// IsActive returns true if the player can still act this street.
func (p *Player) IsActive() bool {
	return !p.Folded && !p.AllIn && !p.Eliminated
}

// InHand returns true if the player can still win a pot this hand.
func (p *Player) InHand() bool {
	return !p.Folded && !p.Eliminated
}

// resetForHand clears per-hand state while keeping the stack.
func (p *Player) resetForHand() {
	p.HoleCards = nil
	p.Folded = false
	p.AllIn = false
	p.Bet = 0
	p.TotalBet = 0
	p.LastAction = nil
	p.Position = NoPosition
}

// commit moves up to amount chips from the stack into the current bet,
// marking the player all-in when the stack empties. Returns the amount
// actually committed.
func (p *Player) commit(amount int) int {
	if amount > p.Chips {
		amount = p.Chips
	}
	p.Chips -= amount
	p.Bet += amount
	p.TotalBet += amount
	if p.Chips == 0 {
		p.AllIn = true
	}
	return amount
}
