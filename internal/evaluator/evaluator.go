// Package evaluator classifies poker hands. Given 5-7 cards it finds
// the best 5-card hand by exhaustively evaluating every 5-card subset
// (at most C(7,5)=21 evaluations per hand). That is deliberate: the
// trainer evaluates tens of hands per session, so a lookup-table
// evaluator would buy nothing but complexity.
package evaluator

import (
	"sort"

	"github.com/lox/holdem-trainer/internal/deck"
)

// HandRank represents the category of a poker hand, weakest first.
type HandRank int

const (
	HighCard HandRank = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns the display name of a hand rank
func (r HandRank) String() string {
	switch r {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// Evaluation is the result of classifying a hand.
type Evaluation struct {
	Rank HandRank

	// Cards is the best 5-card subset, sorted by rank descending. In the
	// wheel straight the ace sorts last. Fewer than 5 cards are carried
	// through as-is for pre-deal previews.
	Cards []deck.Card

	// Tiebreaks are the rank values of Cards in order, used for the
	// lexicographic comparison between equal-rank hands. The wheel ace
	// counts as 1 here; everywhere else an ace is 14.
	Tiebreaks []int

	// Defining holds the cards that justify the rank (the quads, the
	// pair(s), the whole straight) so a UI can highlight them.
	Defining []deck.Card
}

// Compare returns 1 if e beats other, -1 if other beats e, 0 on an
// exact tie. Equal-rank hands compare their sorted rank sequences
// lexicographically; identical sequences are a true tie regardless of
// suits.
func (e Evaluation) Compare(other Evaluation) int {
	if e.Rank != other.Rank {
		if e.Rank > other.Rank {
			return 1
		}
		return -1
	}

	n := min(len(e.Tiebreaks), len(other.Tiebreaks))
	for i := range n {
		if e.Tiebreaks[i] != other.Tiebreaks[i] {
			if e.Tiebreaks[i] > other.Tiebreaks[i] {
				return 1
			}
			return -1
		}
	}

	// A longer hand of the same prefix only arises in pre-deal previews.
	switch {
	case len(e.Tiebreaks) > len(other.Tiebreaks):
		return 1
	case len(e.Tiebreaks) < len(other.Tiebreaks):
		return -1
	}
	return 0
}

// Evaluate classifies the best 5-card hand available from the given
// cards. With fewer than 5 cards it returns a high-card evaluation over
// what it was given; with 6 or 7 it enumerates every 5-card subset and
// keeps the best.
func Evaluate(cards []deck.Card) Evaluation {
	switch {
	case len(cards) < 5:
		return evaluatePartial(cards)
	case len(cards) == 5:
		return evaluate5(cards)
	}

	var best Evaluation
	first := true
	subset := make([]deck.Card, 5)

	n := len(cards)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						subset[0], subset[1], subset[2], subset[3], subset[4] =
							cards[a], cards[b], cards[c], cards[d], cards[e]
						eval := evaluate5(subset)
						if first || eval.Compare(best) > 0 {
							best = eval
							first = false
						}
					}
				}
			}
		}
	}
	return best
}

// evaluatePartial handles the degenerate <5 card case: a high-card
// evaluation over whatever was given, so UI previews never error.
func evaluatePartial(cards []deck.Card) Evaluation {
	sorted := sortedDesc(cards)
	ev := Evaluation{
		Rank:      HighCard,
		Cards:     sorted,
		Tiebreaks: rankValues(sorted),
	}
	if len(sorted) > 0 {
		ev.Defining = sorted[:1]
	}
	return ev
}

func evaluate5(cards []deck.Card) Evaluation {
	sorted := sortedDesc(cards)

	flush := isFlush(sorted)
	straight, wheel := straightShape(sorted)

	if straight && wheel {
		// Ace plays low: reorder 5-high and count the ace as 1.
		sorted = append(sorted[1:], sorted[0])
	}

	ev := Evaluation{
		Cards:     sorted,
		Tiebreaks: rankValues(sorted),
	}
	if straight && wheel {
		ev.Tiebreaks[4] = 1
	}

	switch {
	case straight && flush:
		if sorted[0].Rank == deck.Ace && !wheel {
			ev.Rank = RoyalFlush
		} else {
			ev.Rank = StraightFlush
		}
		ev.Defining = sorted
		return ev
	case flush:
		ev.Rank = Flush
		ev.Defining = sorted
		return ev
	case straight:
		ev.Rank = Straight
		ev.Defining = sorted
		return ev
	}

	// Group by rank, preserving descending order.
	groups := rankGroups(sorted)

	switch {
	case groups[0].count == 4:
		ev.Rank = FourOfAKind
		ev.Defining = ofRank(sorted, groups[0].rank)
	case groups[0].count == 3 && groups[1].count >= 2:
		ev.Rank = FullHouse
		ev.Defining = sorted
	case groups[0].count == 3:
		ev.Rank = ThreeOfAKind
		ev.Defining = ofRank(sorted, groups[0].rank)
	case groups[0].count == 2 && groups[1].count == 2:
		ev.Rank = TwoPair
		ev.Defining = append(ofRank(sorted, groups[0].rank), ofRank(sorted, groups[1].rank)...)
	case groups[0].count == 2:
		ev.Rank = OnePair
		ev.Defining = ofRank(sorted, groups[0].rank)
	default:
		ev.Rank = HighCard
		ev.Defining = sorted[:1]
	}
	return ev
}

type rankGroup struct {
	rank  deck.Rank
	count int
}

// rankGroups returns the rank multiplicities of a sorted hand, highest
// count first, then highest rank first.
func rankGroups(sorted []deck.Card) []rankGroup {
	var groups []rankGroup
	for _, c := range sorted {
		if len(groups) > 0 && groups[len(groups)-1].rank == c.Rank {
			groups[len(groups)-1].count++
			continue
		}
		groups = append(groups, rankGroup{rank: c.Rank, count: 1})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})
	return groups
}

func isFlush(cards []deck.Card) bool {
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			return false
		}
	}
	return true
}

// straightShape reports whether 5 sorted-descending cards form a
// straight, and whether that straight is the wheel (A-5-4-3-2).
func straightShape(sorted []deck.Card) (straight, wheel bool) {
	run := true
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Rank != sorted[i-1].Rank-1 {
			run = false
			break
		}
	}
	if run {
		return true, false
	}

	if sorted[0].Rank == deck.Ace &&
		sorted[1].Rank == deck.Five &&
		sorted[2].Rank == deck.Four &&
		sorted[3].Rank == deck.Three &&
		sorted[4].Rank == deck.Two {
		return true, true
	}
	return false, false
}

func sortedDesc(cards []deck.Card) []deck.Card {
	sorted := make([]deck.Card, len(cards))
	copy(sorted, cards)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rank > sorted[j].Rank
	})
	return sorted
}

func rankValues(cards []deck.Card) []int {
	values := make([]int, len(cards))
	for i, c := range cards {
		values[i] = int(c.Rank)
	}
	return values
}

func ofRank(cards []deck.Card, rank deck.Rank) []deck.Card {
	var out []deck.Card
	for _, c := range cards {
		if c.Rank == rank {
			out = append(out, c)
		}
	}
	return out
}
