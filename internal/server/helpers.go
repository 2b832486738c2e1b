package server

import (
	"fmt"
	"slices"

	"github.com/lox/holdem-trainer/internal/ai"
	"github.com/lox/holdem-trainer/internal/deck"
	"github.com/lox/holdem-trainer/internal/game"
)

// playerStates snapshots every seat. holeCardSeat's cards are included;
// pass -1 to hide all of them.
func playerStates(g *game.GameState, holeCardSeat int) []PlayerState {
	states := make([]PlayerState, 0, len(g.Players))
	for _, p := range g.Players {
		state := PlayerState{
			Seat:       p.Seat,
			Name:       p.Name,
			Chips:      p.Chips,
			Position:   p.Position.String(),
			Bet:        p.Bet,
			Folded:     p.Folded,
			AllIn:      p.AllIn,
			Eliminated: p.Eliminated,
		}
		if p.Seat == holeCardSeat {
			state.HoleCards = deck.Format(p.HoleCards)
		}
		states = append(states, state)
	}
	return states
}

func validActionInfos(g *game.GameState, p *game.Player, legal []game.Action) []ValidActionInfo {
	stack := p.Chips + p.Bet
	toCall := g.Betting.CurrentBet - p.Bet

	infos := make([]ValidActionInfo, 0, len(legal))
	for _, action := range legal {
		info := ValidActionInfo{Action: action.String()}
		switch action {
		case game.Call:
			amount := toCall
			if amount > p.Chips {
				amount = p.Chips
			}
			info.MinAmount, info.MaxAmount = amount, amount
		case game.Bet:
			info.MinAmount, info.MaxAmount = g.Betting.MinRaise, stack
		case game.Raise:
			info.MinAmount, info.MaxAmount = g.Betting.CurrentBet+g.Betting.MinRaise, stack
		case game.AllIn:
			info.MinAmount, info.MaxAmount = stack, stack
		}
		infos = append(infos, info)
	}
	return infos
}

func parseDecision(data ActionData, legal []game.Action) (ai.Decision, error) {
	action, err := parseAction(data.Action)
	if err != nil {
		return ai.Decision{}, err
	}
	if !slices.Contains(legal, action) {
		return ai.Decision{}, fmt.Errorf("action %s is not legal now", action)
	}
	return ai.Decision{Action: action, Amount: data.Amount}, nil
}

func parseAction(s string) (game.Action, error) {
	switch s {
	case "fold":
		return game.Fold, nil
	case "check":
		return game.Check, nil
	case "call":
		return game.Call, nil
	case "bet":
		return game.Bet, nil
	case "raise":
		return game.Raise, nil
	case "allin":
		return game.AllIn, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// passiveDecision checks when possible, otherwise folds. Used when the
// remote player times out.
func passiveDecision(legal []game.Action) ai.Decision {
	if slices.Contains(legal, game.Check) {
		return ai.Decision{Action: game.Check}
	}
	return ai.Decision{Action: game.Fold}
}

func deckFormat(cards []deck.Card) string {
	return deck.Format(cards)
}

// potTotal is the pot a spectator would see: settled chips plus the
// bets still in front of players.
func potTotal(g *game.GameState) int {
	total := g.Pot
	for _, p := range g.Players {
		total += p.Bet
	}
	return total
}
