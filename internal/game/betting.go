package game

// Street represents the phase of a hand
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	ShowdownStreet
	HandComplete
)

func (s Street) String() string {
	return [...]string{"preflop", "flop", "turn", "river", "showdown", "complete"}[s]
}

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Bet
	Raise
	AllIn
)

func (a Action) String() string {
	return [...]string{"fold", "check", "call", "bet", "raise", "allin"}[a]
}

// IsAggressive returns true for actions that put an opponent to a decision.
func (a Action) IsAggressive() bool {
	return a == Bet || a == Raise || a == AllIn
}

// BettingRound encapsulates the state of one street's betting.
type BettingRound struct {
	CurrentBet     int
	MinRaise       int
	LastAggressor  int // seat of the last bettor/raiser, -1 if none
	Acted          []bool
	bigBlind       int // for resetting MinRaise on new streets
}

// NewBettingRound creates betting state for a fresh street.
func NewBettingRound(numPlayers, bigBlind int) *BettingRound {
	return &BettingRound{
		MinRaise:      bigBlind,
		LastAggressor: -1,
		Acted:         make([]bool, numPlayers),
		bigBlind:      bigBlind,
	}
}

// Reset prepares the betting state for the next street. MinRaise resets
// to the big blind.
func (br *BettingRound) Reset() {
	br.CurrentBet = 0
	br.MinRaise = br.bigBlind
	br.LastAggressor = -1
	for i := range br.Acted {
		br.Acted[i] = false
	}
}

// markActed records that a seat acted this street.
func (br *BettingRound) markActed(seat int) {
	if seat >= 0 && seat < len(br.Acted) {
		br.Acted[seat] = true
	}
}

// reopen clears acted flags after a bet or raise; everyone but the
// aggressor must act again.
func (br *BettingRound) reopen(aggressor int) {
	for i := range br.Acted {
		br.Acted[i] = false
	}
	br.markActed(aggressor)
}

// LegalActions computes the actions a player may take against the
// current betting state. Apply enforces the same rules, so calling this
// first guarantees Apply will not reject.
func (br *BettingRound) LegalActions(p *Player) []Action {
	if !p.IsActive() {
		return nil
	}

	actions := []Action{Fold}
	toCall := br.CurrentBet - p.Bet

	if toCall <= 0 {
		actions = append(actions, Check)
		if p.Chips >= br.MinRaise {
			actions = append(actions, Bet)
		}
	} else {
		if p.Chips > 0 {
			actions = append(actions, Call)
		}
		if p.Chips >= toCall+br.MinRaise {
			actions = append(actions, Raise)
		}
	}

	if p.Chips > 0 {
		actions = append(actions, AllIn)
	}
	return actions
}

// Complete reports whether betting is done for the street: at most one
// player who can still act remains (with their bet matched), or every
// such player has acted and matches the highest bet.
func (br *BettingRound) Complete(players []*Player) bool {
	active := 0
	for _, p := range players {
		if p.IsActive() {
			active++
		}
	}

	if active == 0 {
		return true
	}

	if active == 1 {
		// The lone active player still owes chips if shorter stacks
		// shoved above their bet; otherwise no action is possible.
		for _, p := range players {
			if p.IsActive() {
				return p.Bet == br.CurrentBet
			}
		}
	}

	for i, p := range players {
		if !p.IsActive() {
			continue
		}
		if p.Bet != br.CurrentBet || !br.Acted[i] {
			return false
		}
	}
	return true
}
