package game

import "errors"

var (
	// ErrIllegalAction is returned when an action outside the player's
	// legal action set reaches Apply. This is a caller contract
	// violation; state is never mutated before the rejection.
	ErrIllegalAction = errors.New("action is not legal for the player to act")

	// ErrHandComplete is returned when an action arrives after the hand
	// has finished.
	ErrHandComplete = errors.New("hand is already complete")

	// ErrNotEnoughPlayers is returned when a hand cannot start because
	// fewer than two players have chips. This is a normal end condition
	// for the session, not a failure of the engine.
	ErrNotEnoughPlayers = errors.New("fewer than two players with chips")
)
