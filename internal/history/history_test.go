package history

import (
	"math/rand/v2"
	"os"
	"testing"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-trainer/internal/deck"
	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/randutil"
)

func newTestGame(t *testing.T, codes ...string) *game.GameState {
	t.Helper()
	top, err := deck.ParseAll(codes...)
	require.NoError(t, err)

	settings := game.Settings{
		GameType:      game.CashGame,
		StartingStack: 1000,
		SmallBlind:    25,
		BigBlind:      50,
	}
	g, err := game.New(randutil.New(1), []string{"alice", "bob", "carol"}, -1, settings,
		game.WithDeckFunc(func(rng *rand.Rand) *deck.Deck {
			return deck.Stacked(rng, top...)
		}))
	require.NoError(t, err)
	require.NoError(t, g.StartHand())
	return g
}

func apply(t *testing.T, rec *Recorder, g *game.GameState, action game.Action, amount int) {
	t.Helper()
	rec.ActionTaken(g, g.ActiveSeat, action, amount)
	require.NoError(t, g.Apply(action, amount))
}

func TestRecordsFoldedHand(t *testing.T) {
	g := newTestGame(t)
	rec := NewRecorder(t.TempDir(), quartz.NewMock(t))
	rec.HandStarted(g)

	apply(t, rec, g, game.Fold, 0) // UTG
	apply(t, rec, g, game.Fold, 0) // SB
	require.Equal(t, game.HandComplete, g.Street)
	require.NoError(t, rec.HandComplete(g))

	hands := rec.Hands()
	require.Len(t, hands, 1)
	record := hands[0]

	assert.Equal(t, 1, record.HandNum)
	assert.False(t, record.Showdown)
	assert.Equal(t, []int{2}, record.Winners)
	assert.Len(t, record.Actions, 2)
	assert.Equal(t, "fold", record.Actions[0].Action)
	assert.Equal(t, "preflop", record.Actions[0].Street)

	require.Len(t, record.Seats, 3)
	net := make(map[int]int)
	for _, s := range record.Seats {
		net[s.Seat] = s.Net
		// Nobody showed a hand, so no hole cards are exposed.
		assert.Empty(t, s.HoleCards)
	}
	assert.Equal(t, 0, net[0])
	assert.Equal(t, -25, net[1])
	assert.Equal(t, 25, net[2])
}

func TestRecordsShowdownHand(t *testing.T) {
	g := newTestGame(t,
		"As", "Ah", // seat 0
		"Ks", "Kd", // seat 1
		"7c", "2d", // seat 2
		"2h", "3h", "8s", "9c", "Jd") // board
	rec := NewRecorder(t.TempDir(), quartz.NewMock(t))
	rec.HandStarted(g)

	apply(t, rec, g, game.Call, 0)
	apply(t, rec, g, game.Call, 0)
	apply(t, rec, g, game.Check, 0)
	for g.Street != game.HandComplete {
		apply(t, rec, g, game.Check, 0)
	}
	require.NoError(t, rec.HandComplete(g))

	record := rec.Hands()[0]
	assert.True(t, record.Showdown)
	assert.Equal(t, []int{0}, record.Winners)
	assert.Equal(t, "2h 3h 8s 9c Jd", record.Board)

	bySeat := make(map[int]SeatRecord)
	for _, s := range record.Seats {
		bySeat[s.Seat] = s
	}
	assert.Equal(t, "As Ah", bySeat[0].HoleCards)
	assert.Equal(t, "One Pair", bySeat[0].HandRank)
	assert.Equal(t, 100, bySeat[0].Net)
	assert.Equal(t, 150, bySeat[0].Won)
	assert.Equal(t, -50, bySeat[1].Net)
	assert.Equal(t, -50, bySeat[2].Net)
}

func TestSessionFileRoundTrips(t *testing.T) {
	dir := t.TempDir()
	g := newTestGame(t)
	rec := NewRecorder(dir, quartz.NewMock(t))
	rec.HandStarted(g)

	apply(t, rec, g, game.Fold, 0)
	apply(t, rec, g, game.Fold, 0)
	require.NoError(t, rec.HandComplete(g))

	_, err := uuid.Parse(rec.SessionID())
	require.NoError(t, err)

	loaded, err := Load(rec.Path())
	require.NoError(t, err)
	assert.Equal(t, rec.SessionID(), loaded.SessionID)
	require.Len(t, loaded.Hands, 1)
	assert.Equal(t, rec.Hands()[0].Winners, loaded.Hands[0].Winners)
}

func TestInMemoryRecorder(t *testing.T) {
	g := newTestGame(t)
	rec := NewRecorder("", quartz.NewMock(t))
	rec.HandStarted(g)

	apply(t, rec, g, game.Fold, 0)
	apply(t, rec, g, game.Fold, 0)
	require.NoError(t, rec.HandComplete(g))

	assert.Empty(t, rec.Path())
	assert.Len(t, rec.Hands(), 1)
}

func TestLoadRejectsBadFile(t *testing.T) {
	path := t.TempDir() + "/bad.json"
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(t.TempDir() + "/missing.json")
	assert.Error(t, err)
}
