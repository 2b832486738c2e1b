package session

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-trainer/internal/ai"
	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/history"
)

func testSettings() game.Settings {
	return game.Settings{
		GameType:      game.CashGame,
		StartingStack: 1000,
		SmallBlind:    5,
		BigBlind:      10,
	}
}

func testOpponents(t *testing.T, names ...string) []Opponent {
	t.Helper()
	personalities := []string{"rock", "tag", "maniac", "station"}
	opponents := make([]Opponent, len(names))
	for i, name := range names {
		p, ok := ai.BuiltinPersonality(personalities[i%len(personalities)])
		require.True(t, ok)
		opponents[i] = Opponent{Name: name, Personality: p}
	}
	return opponents
}

func TestSessionPlaysConfiguredHands(t *testing.T) {
	rec := history.NewRecorder("", quartz.NewMock(t))
	sess, err := New(Config{
		Settings:  testSettings(),
		Opponents: testOpponents(t, "opp1", "opp2", "opp3"),
		Hands:     20,
		Seed:      42,
		Recorder:  rec,
	})
	require.NoError(t, err)
	require.NoError(t, sess.Run(context.Background()))

	// The session can end early if the table loses too many players.
	stats := sess.Stats()
	assert.Positive(t, stats.Hands)
	assert.LessOrEqual(t, stats.Hands, 20)
	assert.Len(t, rec.Hands(), stats.Hands)

	// Chips only move between players.
	total := 0
	for _, p := range sess.Game().Players {
		total += p.Chips
	}
	assert.Equal(t, 4000, total)
}

func TestSessionDeterministicForSeed(t *testing.T) {
	run := func() (*Session, *history.Recorder) {
		rec := history.NewRecorder("", quartz.NewMock(t))
		sess, err := New(Config{
			Settings:  testSettings(),
			Opponents: testOpponents(t, "opp1", "opp2"),
			Hands:     30,
			Seed:      7,
			Recorder:  rec,
		})
		require.NoError(t, err)
		require.NoError(t, sess.Run(context.Background()))
		return sess, rec
	}

	a, recA := run()
	b, recB := run()

	assert.Equal(t, a.Stats().SumBB, b.Stats().SumBB)
	require.Equal(t, len(recA.Hands()), len(recB.Hands()))
	for i := range recA.Hands() {
		assert.Equal(t, recA.Hands()[i].Winners, recB.Hands()[i].Winners, "hand %d", i+1)
		assert.Equal(t, recA.Hands()[i].Board, recB.Hands()[i].Board, "hand %d", i+1)
	}
}

func TestSessionPicksSeedWhenUnset(t *testing.T) {
	sess, err := New(Config{
		Settings:  testSettings(),
		Opponents: testOpponents(t, "opp1"),
		Hands:     1,
	})
	require.NoError(t, err)
	assert.NotZero(t, sess.Seed())
}

func TestSessionStopsAtGameOver(t *testing.T) {
	settings := testSettings()
	settings.StartingStack = 100
	settings.SmallBlind = 25
	settings.BigBlind = 50

	sess, err := New(Config{
		Settings:  settings,
		Opponents: testOpponents(t, "opp1"),
		Hands:     200, // bounds the test even if nobody busts
		Seed:      11,
	})
	require.NoError(t, err)

	require.NoError(t, sess.Run(context.Background()))
	assert.Positive(t, sess.Stats().Hands)
}

// foldingAgent always gives up, standing in for a scripted hero.
type foldingAgent struct{}

func (foldingAgent) Act(_ context.Context, g *game.GameState, seat int) (ai.Decision, error) {
	for _, a := range g.LegalActions(seat) {
		if a == game.Check {
			return ai.Decision{Action: game.Check}, nil
		}
	}
	return ai.Decision{Action: game.Fold}, nil
}

func TestHeroAgentIsConsulted(t *testing.T) {
	sess, err := New(Config{
		Settings:  testSettings(),
		HeroAgent: foldingAgent{},
		Opponents: testOpponents(t, "opp1", "opp2"),
		Hands:     30,
		Seed:      3,
	})
	require.NoError(t, err)
	require.NoError(t, sess.Run(context.Background()))

	// A hero who never bets can only bleed blinds.
	assert.LessOrEqual(t, sess.Stats().SumBB, 0.0)
}

func TestSessionHonorsContextCancellation(t *testing.T) {
	sess, err := New(Config{
		Settings:  testSettings(),
		Opponents: testOpponents(t, "opp1", "opp2"),
		Hands:     100,
		Seed:      5,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, sess.Run(ctx))
}

func TestThinkTimeWaitsOnClock(t *testing.T) {
	mClock := quartz.NewMock(t)
	sess, err := New(Config{
		Settings:  testSettings(),
		Opponents: testOpponents(t, "opp1", "opp2"),
		Hands:     1,
		Seed:      9,
		ThinkTime: 50 * time.Millisecond,
		Clock:     mClock,
	})
	require.NoError(t, err)

	ctx := context.Background()
	done := make(chan error, 1)
	go func() { done <- sess.Run(ctx) }()

	for {
		select {
		case err := <-done:
			require.NoError(t, err)
			assert.Equal(t, 1, sess.Stats().Hands)
			return
		default:
			mClock.Advance(50 * time.Millisecond).MustWait(ctx)
		}
	}
}

func TestSessionRequiresOpponents(t *testing.T) {
	_, err := New(Config{Settings: testSettings()})
	assert.Error(t, err)
}
