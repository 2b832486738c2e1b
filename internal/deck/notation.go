package deck

// Notation converts two hole cards to canonical starting-hand notation:
// higher rank first, "s" suffix for suited, "o" for offsuit, no suffix
// for pocket pairs (e.g. "AKs", "T9o", "77"). There are 169 distinct
// notations.
func Notation(holeCards []Card) (string, bool) {
	if len(holeCards) != 2 {
		return "", false
	}

	hi, lo := holeCards[0], holeCards[1]
	if lo.Rank > hi.Rank {
		hi, lo = lo, hi
	}

	if hi.Rank == lo.Rank {
		return hi.Rank.String() + lo.Rank.String(), true
	}

	suffix := "o"
	if hi.Suit == lo.Suit {
		suffix = "s"
	}
	return hi.Rank.String() + lo.Rank.String() + suffix, true
}

// AllNotations returns the 169 canonical starting-hand notations,
// pairs first, then suited and offsuit combinations, high ranks first.
func AllNotations() []string {
	notations := make([]string, 0, 169)
	for hi := Ace; hi >= Two; hi-- {
		notations = append(notations, hi.String()+hi.String())
	}
	for hi := Ace; hi >= Three; hi-- {
		for lo := hi - 1; lo >= Two; lo-- {
			notations = append(notations, hi.String()+lo.String()+"s")
			notations = append(notations, hi.String()+lo.String()+"o")
		}
	}
	return notations
}

// ValidNotation reports whether s is a canonical starting-hand notation.
func ValidNotation(s string) bool {
	if len(s) < 2 || len(s) > 3 {
		return false
	}

	hi := rankFromChar(s[0])
	lo := rankFromChar(s[1])
	if hi == 0 || lo == 0 || hi < lo {
		return false
	}

	if hi == lo {
		return len(s) == 2
	}
	return len(s) == 3 && (s[2] == 's' || s[2] == 'o')
}

func rankFromChar(c byte) Rank {
	switch c {
	case '2', '3', '4', '5', '6', '7', '8', '9':
		return Rank(c - '0')
	case 'T':
		return Ten
	case 'J':
		return Jack
	case 'Q':
		return Queen
	case 'K':
		return King
	case 'A':
		return Ace
	default:
		return 0
	}
}
