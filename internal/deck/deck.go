package deck

import (
	"math/rand/v2"
)

// Deck represents an ordered deck of playing cards. Randomness is
// injected so that shuffles are reproducible under a fixed seed.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a standard 52-card deck in canonical order. The RNG is
// required; use randutil.New for a seeded source.
func New(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("deck: rng is required")
	}

	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
	return d
}

// NewShuffled creates a 52-card deck and shuffles it.
func NewShuffled(rng *rand.Rand) *Deck {
	d := New(rng)
	d.Shuffle()
	return d
}

// Shuffle randomizes the order of the remaining cards (Fisher-Yates).
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the top card from the deck
func (d *Deck) Deal() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// DealN deals up to n cards from the deck
func (d *Deck) DealN(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	cards := make([]Card, n)
	for i := range n {
		cards[i], _ = d.Deal()
	}
	return cards
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Stacked builds a deck that deals the given cards in order, for
// deterministic tests. Cards not listed follow in canonical order.
func Stacked(rng *rand.Rand, top ...Card) *Deck {
	d := New(rng)

	rest := make([]Card, 0, 52-len(top))
	for _, c := range d.cards {
		inTop := false
		for _, t := range top {
			if c == t {
				inTop = true
				break
			}
		}
		if !inTop {
			rest = append(rest, c)
		}
	}

	d.cards = append(append(make([]Card, 0, 52), top...), rest...)
	return d
}
