package game

import "fmt"

// GameType selects cash-game or tournament semantics.
type GameType int

const (
	CashGame GameType = iota
	Tournament
)

func (gt GameType) String() string {
	if gt == Tournament {
		return "tournament"
	}
	return "cash"
}

// BlindLevel is one step of a tournament blind schedule. Hands is how
// many hands the level lasts.
type BlindLevel struct {
	SmallBlind int
	BigBlind   int
	Ante       int
	Hands      int
}

// Settings configures a table for a session of hands.
type Settings struct {
	GameType      GameType
	StartingStack int
	SmallBlind    int
	BigBlind      int
	Ante          int

	// BlindLevels optionally escalates blinds by hands played
	// (tournament mode). When empty the base blinds apply throughout.
	BlindLevels []BlindLevel
}

// Validate checks that the settings describe a playable table.
func (s Settings) Validate() error {
	if s.StartingStack <= 0 {
		return fmt.Errorf("starting stack must be positive, got %d", s.StartingStack)
	}
	if s.SmallBlind <= 0 || s.BigBlind <= 0 {
		return fmt.Errorf("blinds must be positive, got %d/%d", s.SmallBlind, s.BigBlind)
	}
	if s.SmallBlind > s.BigBlind {
		return fmt.Errorf("small blind %d exceeds big blind %d", s.SmallBlind, s.BigBlind)
	}
	if s.Ante < 0 {
		return fmt.Errorf("ante cannot be negative, got %d", s.Ante)
	}
	for i, lvl := range s.BlindLevels {
		if lvl.SmallBlind <= 0 || lvl.BigBlind <= 0 || lvl.Hands <= 0 {
			return fmt.Errorf("blind level %d is invalid: %+v", i, lvl)
		}
	}
	return nil
}

// levelFor returns the blinds in force for the given zero-based hand
// number. Past the end of the schedule the last level holds.
func (s Settings) levelFor(handNum int) (smallBlind, bigBlind, ante int) {
	smallBlind, bigBlind, ante = s.SmallBlind, s.BigBlind, s.Ante
	if s.GameType != Tournament || len(s.BlindLevels) == 0 {
		return
	}

	remaining := handNum
	for _, lvl := range s.BlindLevels {
		smallBlind, bigBlind, ante = lvl.SmallBlind, lvl.BigBlind, lvl.Ante
		if remaining < lvl.Hands {
			return
		}
		remaining -= lvl.Hands
	}
	return
}
