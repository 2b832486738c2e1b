// Package session drives multi-hand play: it seats a hero against
// configured opponents, asks each seat's agent for decisions, records
// hand histories, and aggregates hero results.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-trainer/internal/ai"
	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/history"
	"github.com/lox/holdem-trainer/internal/randutil"
	"github.com/lox/holdem-trainer/internal/statistics"
)

// Agent decides an action for a seat when it is due to act.
type Agent interface {
	Act(ctx context.Context, g *game.GameState, seat int) (ai.Decision, error)
}

// Observer receives table events as a hand plays out. Callbacks run on
// the session's goroutine, so implementations must not call back into
// the game.
type Observer interface {
	HandStarted(g *game.GameState)
	ActionApplied(g *game.GameState, seat int, d ai.Decision)
	HandFinished(g *game.GameState, result *game.HandResult)
}

// Opponent is one computer player to seat.
type Opponent struct {
	Name        string
	Personality ai.Personality
}

// Config holds session parameters.
type Config struct {
	Settings  game.Settings
	HeroName  string
	HeroAgent Agent // nil seats an AI hero
	// HeroPersonality drives an AI hero when HeroAgent is nil; zero
	// value falls back to the "tag" profile.
	HeroPersonality ai.Personality
	Opponents []Opponent
	Hands     int // 0 plays until the game is over
	Seed      int64
	ThinkTime time.Duration // pause before each computer decision
	Clock     quartz.Clock
	Logger    *log.Logger
	Recorder  *history.Recorder
	Observer  Observer
}

// Session owns one table and the agents seated at it. All play happens
// on the caller's goroutine.
type Session struct {
	cfg    Config
	game   *game.GameState
	agents map[int]Agent
	stats  *statistics.Statistics
	logger *log.Logger
}

const heroSeat = 0

// New builds a session with the hero at seat 0 and opponents in seat
// order after them.
func New(cfg Config) (*Session, error) {
	if len(cfg.Opponents) == 0 {
		return nil, fmt.Errorf("at least one opponent is required")
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.HeroName == "" {
		cfg.HeroName = "hero"
	}

	var rng *rand.Rand
	if cfg.Seed == 0 {
		rng, cfg.Seed = randutil.NewFromTime()
	} else {
		rng = randutil.New(cfg.Seed)
	}

	names := make([]string, 0, len(cfg.Opponents)+1)
	names = append(names, cfg.HeroName)
	for _, o := range cfg.Opponents {
		names = append(names, o.Name)
	}

	g, err := game.New(rng, names, -1, cfg.Settings)
	if err != nil {
		return nil, err
	}

	engine := ai.NewEngine(rng, cfg.Logger)
	agents := make(map[int]Agent, len(names))

	hero := cfg.HeroAgent
	if hero == nil {
		p := cfg.HeroPersonality
		if p.Name == "" {
			p, _ = ai.BuiltinPersonality("tag")
		}
		p.Name = cfg.HeroName
		hero = &aiAgent{engine: engine, personality: p}
	}
	agents[heroSeat] = hero

	for i, o := range cfg.Opponents {
		agents[heroSeat+1+i] = &aiAgent{
			engine:      engine,
			personality: o.Personality,
			think:       cfg.ThinkTime,
			clock:       cfg.Clock,
		}
	}

	return &Session{
		cfg:    cfg,
		game:   g,
		agents: agents,
		stats:  &statistics.Statistics{},
		logger: cfg.Logger.WithPrefix("session"),
	}, nil
}

// Game exposes the table, for rendering.
func (s *Session) Game() *game.GameState { return s.game }

// Stats returns the hero's accumulated results.
func (s *Session) Stats() *statistics.Statistics { return s.stats }

// Seed returns the seed in use, for replaying a session.
func (s *Session) Seed() int64 { return s.cfg.Seed }

// Run plays hands until the configured count is reached, the game is
// over, or the context is cancelled.
func (s *Session) Run(ctx context.Context) error {
	for played := 0; s.cfg.Hands == 0 || played < s.cfg.Hands; played++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.PlayHand(ctx); err != nil {
			if errors.Is(err, game.ErrNotEnoughPlayers) {
				s.logger.Info("game over", "hands", played)
				return nil
			}
			return err
		}
	}
	return nil
}

// PlayHand plays a single hand to completion.
func (s *Session) PlayHand(ctx context.Context) error {
	if err := s.game.StartHand(); err != nil {
		return err
	}
	heroStart := s.game.Players[heroSeat].Chips + s.game.Players[heroSeat].TotalBet
	if s.cfg.Recorder != nil {
		s.cfg.Recorder.HandStarted(s.game)
	}
	if s.cfg.Observer != nil {
		s.cfg.Observer.HandStarted(s.game)
	}
	s.logger.Debug("hand started",
		"hand", s.game.HandNum,
		"dealer", s.game.DealerSeat,
		"blinds", fmt.Sprintf("%d/%d", s.game.SmallBlind, s.game.BigBlind))

	for s.game.Street < game.ShowdownStreet && s.game.ActiveSeat != -1 {
		if err := ctx.Err(); err != nil {
			return err
		}
		seat := s.game.ActiveSeat
		agent, ok := s.agents[seat]
		if !ok {
			return fmt.Errorf("no agent for seat %d", seat)
		}

		d, err := agent.Act(ctx, s.game, seat)
		if err != nil {
			return fmt.Errorf("seat %d (%s): %w", seat, s.game.Players[seat].Name, err)
		}
		if s.cfg.Recorder != nil {
			s.cfg.Recorder.ActionTaken(s.game, seat, d.Action, d.Amount)
		}
		if err := s.game.Apply(d.Action, d.Amount); err != nil {
			return fmt.Errorf("seat %d (%s) played %s: %w", seat, s.game.Players[seat].Name, d, err)
		}
		if s.cfg.Observer != nil {
			s.cfg.Observer.ActionApplied(s.game, seat, d)
		}
	}

	result := s.game.Result()
	if result == nil {
		return fmt.Errorf("hand %d ended without a result", s.game.HandNum)
	}

	potTotal := 0
	for _, pot := range result.Pots {
		potTotal += pot.Amount
	}
	bb := float64(s.game.BigBlind)
	s.stats.Add(statistics.HandOutcome{
		NetBB:    float64(s.game.Players[heroSeat].Chips-heroStart) / bb,
		Showdown: result.Showdown,
		PotBB:    float64(potTotal) / bb,
	})

	if s.cfg.Recorder != nil {
		if err := s.cfg.Recorder.HandComplete(s.game); err != nil {
			return fmt.Errorf("record hand %d: %w", result.HandNum, err)
		}
	}
	if s.cfg.Observer != nil {
		s.cfg.Observer.HandFinished(s.game, result)
	}
	return nil
}

// aiAgent plays a seat with the decision engine, pausing for the
// configured think time so table play feels paced.
type aiAgent struct {
	engine      *ai.Engine
	personality ai.Personality
	think       time.Duration
	clock       quartz.Clock
}

func (a *aiAgent) Act(ctx context.Context, g *game.GameState, seat int) (ai.Decision, error) {
	if a.think > 0 {
		fired := make(chan struct{})
		timer := a.clock.AfterFunc(a.think, func() { close(fired) })
		defer timer.Stop()
		select {
		case <-fired:
		case <-ctx.Done():
			return ai.Decision{}, ctx.Err()
		}
	}
	return a.engine.Decide(g, seat, a.personality)
}
