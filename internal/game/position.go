package game

// Position labels a seat relative to the dealer button.
type Position int

const (
	NoPosition Position = iota
	Button
	SmallBlind
	BigBlind
	Early
	Middle
	Late
)

// String returns the display name of a position
func (p Position) String() string {
	switch p {
	case Button:
		return "BTN"
	case SmallBlind:
		return "SB"
	case BigBlind:
		return "BB"
	case Early:
		return "Early"
	case Middle:
		return "Middle"
	case Late:
		return "Late"
	default:
		return "-"
	}
}

// AssignPositions labels each non-eliminated seat by its offset from
// the dealer. Heads-up is special: the dealer posts the small blind and
// the other player the big blind.
func AssignPositions(players []*Player, dealerSeat int) {
	seats := seatedFrom(players, dealerSeat)
	if len(seats) < 2 {
		return
	}

	for _, p := range players {
		p.Position = NoPosition
	}

	if len(seats) == 2 {
		players[seats[0]].Position = SmallBlind // dealer
		players[seats[1]].Position = BigBlind
		return
	}

	players[seats[0]].Position = Button
	players[seats[1]].Position = SmallBlind
	players[seats[2]].Position = BigBlind

	// The seats between the big blind and the button split into thirds:
	// the first third acts early, the last third late.
	rest := seats[3:]
	third := (len(rest) + 2) / 3
	for i, seat := range rest {
		switch {
		case i < third:
			players[seat].Position = Early
		case i >= len(rest)-third:
			players[seat].Position = Late
		default:
			players[seat].Position = Middle
		}
	}
}

// BlindSeats returns the small and big blind seats for the given dealer,
// honoring the heads-up special case. Returns (-1, -1) when fewer than
// two players remain.
func BlindSeats(players []*Player, dealerSeat int) (sbSeat, bbSeat int) {
	seats := seatedFrom(players, dealerSeat)
	if len(seats) < 2 {
		return -1, -1
	}
	if len(seats) == 2 {
		return seats[0], seats[1]
	}
	return seats[1], seats[2]
}

// PostBlinds debits each blind seat by min(blind, chips), marking short
// stacks all-in, and returns the total actually posted.
func PostBlinds(players []*Player, sbSeat, bbSeat, smallBlind, bigBlind int) int {
	posted := 0
	if sbSeat >= 0 && sbSeat < len(players) {
		posted += players[sbSeat].commit(smallBlind)
	}
	if bbSeat >= 0 && bbSeat < len(players) {
		posted += players[bbSeat].commit(bigBlind)
	}
	return posted
}

// NextDealerSeat rotates the button to the next non-eliminated seat,
// wrapping modulo the seat count. Returns -1 when no seat qualifies.
func NextDealerSeat(players []*Player, current int) int {
	n := len(players)
	for i := 1; i <= n; i++ {
		seat := (current + i) % n
		if !players[seat].Eliminated {
			return seat
		}
	}
	return -1
}

// NextActiveSeat finds the first seat at or after from that can still
// act (not folded, all-in, or eliminated). Returns -1 when none exists.
func NextActiveSeat(players []*Player, from int) int {
	n := len(players)
	for i := 0; i < n; i++ {
		seat := ((from + i) % n + n) % n
		if players[seat].IsActive() {
			return seat
		}
	}
	return -1
}

// seatedFrom lists non-eliminated seats clockwise starting at start.
func seatedFrom(players []*Player, start int) []int {
	n := len(players)
	seats := make([]int, 0, n)
	for i := 0; i < n; i++ {
		seat := (start + i) % n
		if !players[seat].Eliminated {
			seats = append(seats, seat)
		}
	}
	return seats
}
