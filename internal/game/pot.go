package game

import (
	"sort"

	"github.com/lox/holdem-trainer/internal/evaluator"
)

// SidePot is a layer of the pot with its own eligibility set. Pots are
// ordered by increasing contribution threshold; the first is the main
// pot. A seat appears only if its cumulative contribution reached the
// pot's threshold and the player has not folded.
type SidePot struct {
	Amount   int
	Eligible []int // seats, ascending
}

// ComputeSidePots layers the players' cumulative contributions into a
// main pot and ordered side pots. Folded players' chips count toward
// pot amounts but folded seats are never eligible. The sum of all pot
// amounts equals the sum of all contributions exactly.
func ComputeSidePots(players []*Player) []SidePot {
	type contribution struct {
		seat   int
		amount int
		inHand bool
	}

	var contribs []contribution
	for _, p := range players {
		if p.TotalBet > 0 {
			contribs = append(contribs, contribution{
				seat:   p.Seat,
				amount: p.TotalBet,
				inHand: p.InHand(),
			})
		}
	}
	if len(contribs) == 0 {
		return nil
	}

	sort.Slice(contribs, func(i, j int) bool {
		if contribs[i].amount != contribs[j].amount {
			return contribs[i].amount < contribs[j].amount
		}
		return contribs[i].seat < contribs[j].seat
	})

	var pots []SidePot
	prevLevel := 0
	for i := 0; i < len(contribs); i++ {
		level := contribs[i].amount
		if level == prevLevel {
			continue
		}

		// Everyone still at or above this level pays into the layer.
		amount := (level - prevLevel) * (len(contribs) - i)

		var eligible []int
		for j := i; j < len(contribs); j++ {
			if contribs[j].inHand {
				eligible = append(eligible, contribs[j].seat)
			}
		}
		sort.Ints(eligible)

		if len(pots) > 0 && sameSeats(pots[len(pots)-1].Eligible, eligible) {
			// No one dropped out between levels; merge into the
			// previous layer rather than splitting pots needlessly.
			pots[len(pots)-1].Amount += amount
		} else {
			pots = append(pots, SidePot{Amount: amount, Eligible: eligible})
		}
		prevLevel = level
	}

	return pots
}

// Distribute pays each pot to the best eligible hand(s). Tied winners
// split evenly; any remainder is assigned one chip at a time in
// ascending seat order within the pot's eligibility set, so repeated
// runs are deterministic. Returns payouts by seat; the payout total
// always equals the pot total.
func Distribute(pots []SidePot, evals map[int]evaluator.Evaluation) map[int]int {
	payouts := make(map[int]int)

	for _, pot := range pots {
		winners := potWinners(pot, evals)
		if len(winners) == 0 {
			continue
		}

		share := pot.Amount / len(winners)
		remainder := pot.Amount % len(winners)
		for _, seat := range winners {
			payouts[seat] += share
		}
		// Odd chips go one at a time to the lowest eligible seats first.
		for i := 0; i < remainder; i++ {
			payouts[winners[i%len(winners)]]++
		}
	}

	return payouts
}

// potWinners finds the best eligible hand(s) for one pot, in ascending
// seat order.
func potWinners(pot SidePot, evals map[int]evaluator.Evaluation) []int {
	var winners []int
	var best evaluator.Evaluation
	for _, seat := range pot.Eligible {
		ev, ok := evals[seat]
		if !ok {
			continue
		}
		if len(winners) == 0 {
			winners = []int{seat}
			best = ev
			continue
		}
		switch ev.Compare(best) {
		case 1:
			winners = []int{seat}
			best = ev
		case 0:
			winners = append(winners, seat)
		}
	}
	sort.Ints(winners)
	return winners
}

// PotTotal sums all pot amounts.
func PotTotal(pots []SidePot) int {
	total := 0
	for _, pot := range pots {
		total += pot.Amount
	}
	return total
}

func sameSeats(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
