// Package history records completed hands as JSON session files for
// later review.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/holdem-trainer/internal/deck"
	"github.com/lox/holdem-trainer/internal/fileutil"
	"github.com/lox/holdem-trainer/internal/game"
)

// ActionRecord is one player action within a hand.
type ActionRecord struct {
	Seat   int    `json:"seat"`
	Name   string `json:"name"`
	Street string `json:"street"`
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// PotRecord is one settled pot and the seats that could win it.
type PotRecord struct {
	Amount   int   `json:"amount"`
	Eligible []int `json:"eligible"`
}

// SeatRecord is a player's cards and result for one hand.
type SeatRecord struct {
	Seat      int    `json:"seat"`
	Name      string `json:"name"`
	HoleCards string `json:"hole_cards,omitempty"`
	HandRank  string `json:"hand_rank,omitempty"`
	Won       int    `json:"won"`
	Net       int    `json:"net"`
	EndChips  int    `json:"end_chips"`
}

// HandRecord is the full record of one completed hand.
type HandRecord struct {
	HandNum    int            `json:"hand_num"`
	PlayedAt   time.Time      `json:"played_at"`
	DealerSeat int            `json:"dealer_seat"`
	SmallBlind int            `json:"small_blind"`
	BigBlind   int            `json:"big_blind"`
	Ante       int            `json:"ante,omitempty"`
	Board      string         `json:"board,omitempty"`
	Showdown   bool           `json:"showdown"`
	Winners    []int          `json:"winners"`
	Pots       []PotRecord    `json:"pots"`
	Actions    []ActionRecord `json:"actions"`
	Seats      []SeatRecord   `json:"seats"`
}

// SessionRecord is the on-disk session file.
type SessionRecord struct {
	SessionID string       `json:"session_id"`
	StartedAt time.Time    `json:"started_at"`
	Hands     []HandRecord `json:"hands"`
}

// Recorder accumulates hand records for one session and rewrites the
// session file after every completed hand, so a crash loses at most
// the hand in progress. An empty dir records in memory only.
type Recorder struct {
	dir     string
	clock   quartz.Clock
	session SessionRecord

	startChips map[int]int
	actions    []ActionRecord
}

// NewRecorder creates a recorder with a fresh session ID. clock may be
// nil for the real clock.
func NewRecorder(dir string, clock quartz.Clock) *Recorder {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Recorder{
		dir:   dir,
		clock: clock,
		session: SessionRecord{
			SessionID: uuid.New().String(),
			StartedAt: clock.Now(),
		},
	}
}

// SessionID returns the unique ID for this session.
func (r *Recorder) SessionID() string { return r.session.SessionID }

// Hands returns the recorded hands so far.
func (r *Recorder) Hands() []HandRecord { return r.session.Hands }

// Path returns the session file location, or "" for in-memory
// recorders.
func (r *Recorder) Path() string {
	if r.dir == "" {
		return ""
	}
	return filepath.Join(r.dir, "session-"+r.session.SessionID+".json")
}

// HandStarted snapshots stacks at the start of a hand. Call after
// StartHand succeeds.
func (r *Recorder) HandStarted(g *game.GameState) {
	r.startChips = make(map[int]int, len(g.Players))
	for _, p := range g.Players {
		// Blinds and antes are already posted, so add back this hand's
		// contributions to recover the pre-deal stack.
		r.startChips[p.Seat] = p.Chips + p.TotalBet
	}
	r.actions = nil
}

// ActionTaken records an action. Call before Apply so the street
// reflects when the action was taken.
func (r *Recorder) ActionTaken(g *game.GameState, seat int, action game.Action, amount int) {
	if action != game.Bet && action != game.Raise {
		amount = 0
	}
	r.actions = append(r.actions, ActionRecord{
		Seat:   seat,
		Name:   g.Players[seat].Name,
		Street: g.Street.String(),
		Action: action.String(),
		Amount: amount,
	})
}

// HandComplete builds the record for the hand just settled and rewrites
// the session file.
func (r *Recorder) HandComplete(g *game.GameState) error {
	result := g.Result()
	if result == nil {
		return fmt.Errorf("no completed hand to record")
	}

	record := HandRecord{
		HandNum:    result.HandNum,
		PlayedAt:   r.clock.Now(),
		DealerSeat: g.DealerSeat,
		SmallBlind: g.SmallBlind,
		BigBlind:   g.BigBlind,
		Ante:       g.Ante,
		Board:      deck.Format(result.Board),
		Showdown:   result.Showdown,
		Winners:    result.Winners,
	}
	for _, pot := range result.Pots {
		record.Pots = append(record.Pots, PotRecord{Amount: pot.Amount, Eligible: pot.Eligible})
	}
	record.Actions = r.actions

	for _, p := range g.Players {
		if p.Eliminated && r.startChips[p.Seat] == 0 {
			continue
		}
		seat := SeatRecord{
			Seat:     p.Seat,
			Name:     p.Name,
			Won:      result.Payouts[p.Seat],
			Net:      p.Chips - r.startChips[p.Seat],
			EndChips: p.Chips,
		}
		// Hole cards and hand ranks are recorded only when shown down.
		if ev, ok := result.Evaluations[p.Seat]; ok {
			seat.HoleCards = deck.Format(p.HoleCards)
			seat.HandRank = ev.Rank.String()
		}
		record.Seats = append(record.Seats, seat)
	}

	r.session.Hands = append(r.session.Hands, record)
	return r.flush()
}

func (r *Recorder) flush() error {
	if r.dir == "" {
		return nil
	}
	data, err := json.MarshalIndent(r.session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := fileutil.WriteFileAtomic(r.Path(), data, 0o644); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Load reads a session file back, for review tooling.
func Load(path string) (*SessionRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var session SessionRecord
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("parse session file %s: %w", path, err)
	}
	return &session, nil
}
