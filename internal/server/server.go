// Package server exposes trainer tables over websockets. Each
// connection gets its own table: the remote player takes the hero seat
// and computer opponents fill the rest. All game access for a table
// happens on that table's session goroutine.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/lox/holdem-trainer/internal/ai"
	"github.com/lox/holdem-trainer/internal/config"
	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/history"
	"github.com/lox/holdem-trainer/internal/session"
)

// DefaultActionTimeout is how long a remote player has to act before
// the server checks or folds for them.
const DefaultActionTimeout = 30 * time.Second

// Server is the websocket front end.
type Server struct {
	cfg        *config.Config
	logger     *log.Logger
	clock      quartz.Clock
	upgrader   websocket.Upgrader
	timeout    time.Duration
	historyDir string
}

// New creates a server. clock may be nil for the real clock.
func New(cfg *config.Config, logger *log.Logger, clock quartz.Clock) *Server {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Server{
		cfg:    cfg,
		logger: logger.WithPrefix("server"),
		clock:  clock,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		timeout:    DefaultActionTimeout,
		historyDir: cfg.Game.HistoryDir,
	}
}

// SetActionTimeout overrides the remote action timeout.
func (s *Server) SetActionTimeout(d time.Duration) { s.timeout = d }

// Handler returns the HTTP handler serving /ws and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})
	return mux
}

// ListenAndServe serves on the configured address until the listener
// fails.
func (s *Server) ListenAndServe() error {
	addr := s.cfg.ServerAddress()
	s.logger.Info("starting websocket server", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	c := &client{
		server:    s,
		conn:      conn,
		logger:    s.logger.With("remote", conn.RemoteAddr()),
		decisions: make(chan ActionData, 1),
		ctx:       ctx,
		cancel:    cancel,
	}
	c.run()
}

// client is one connected player and their table.
type client struct {
	server    *Server
	conn      *websocket.Conn
	logger    *log.Logger
	writeMu   sync.Mutex
	decisions chan ActionData
	ctx       context.Context
	cancel    context.CancelFunc
}

const heroSeat = 0

func (c *client) run() {
	defer c.cancel()
	defer c.conn.Close()

	var msg Message
	if err := c.conn.ReadJSON(&msg); err != nil {
		c.logger.Debug("client disconnected before starting", "error", err)
		return
	}
	if msg.Type != MessageTypeStartSession {
		c.sendError("BAD_REQUEST", fmt.Sprintf("expected %s, got %s", MessageTypeStartSession, msg.Type))
		return
	}
	var start StartSessionData
	if err := json.Unmarshal(msg.Data, &start); err != nil {
		c.sendError("BAD_REQUEST", "malformed start_session payload")
		return
	}

	sess, rec, err := c.newSession(start)
	if err != nil {
		c.sendError("BAD_SESSION", err.Error())
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.runSession(sess, rec)
	}()

	// Read loop: everything after start_session is an action reply.
	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			c.logger.Debug("client disconnected", "error", err)
			c.cancel()
			break
		}
		if msg.Type != MessageTypeAction {
			c.sendError("BAD_REQUEST", fmt.Sprintf("unexpected message type %s", msg.Type))
			continue
		}
		var action ActionData
		if err := json.Unmarshal(msg.Data, &action); err != nil {
			c.sendError("BAD_REQUEST", "malformed action payload")
			continue
		}
		select {
		case c.decisions <- action:
		default:
			c.logger.Warn("dropping action, none pending", "action", action.Action)
		}
	}
	<-done
}

func (c *client) newSession(start StartSessionData) (*session.Session, *history.Recorder, error) {
	names := start.Opponents
	if len(names) == 0 {
		for _, o := range c.server.cfg.Opponents {
			names = append(names, o.Personality)
		}
	}
	opponents := make([]session.Opponent, 0, len(names))
	for i, name := range names {
		p, err := c.server.cfg.Personality(name)
		if err != nil {
			return nil, nil, err
		}
		opponents = append(opponents, session.Opponent{
			Name:        fmt.Sprintf("%s-%d", name, i+1),
			Personality: p,
		})
	}

	rec := history.NewRecorder(c.server.historyDir, c.server.clock)
	sess, err := session.New(session.Config{
		Settings:  c.server.cfg.Settings(),
		HeroName:  start.PlayerName,
		HeroAgent: c,
		Opponents: opponents,
		Hands:     start.Hands,
		Seed:      start.Seed,
		Clock:     c.server.clock,
		Logger:    c.server.logger,
		Recorder:  rec,
		Observer:  c,
	})
	if err != nil {
		return nil, nil, err
	}
	return sess, rec, nil
}

func (c *client) runSession(sess *session.Session, rec *history.Recorder) {
	g := sess.Game()
	c.send(MessageTypeSessionStarted, SessionStartedData{
		SessionID: rec.SessionID(),
		Seed:      sess.Seed(),
		Seat:      heroSeat,
		Players:   playerStates(g, -1),
	})

	err := sess.Run(c.ctx)
	if err != nil && c.ctx.Err() == nil {
		c.logger.Error("session failed", "error", err)
		c.sendError("SESSION_FAILED", err.Error())
	}

	stats := sess.Stats()
	c.send(MessageTypeSessionEnd, SessionEndData{
		Hands:    stats.Hands,
		NetBB:    stats.SumBB,
		MeanBB:   stats.Mean(),
		GameOver: g.GameOver(),
	})
	c.cancel()
}

// Act implements session.Agent for the hero seat: it forwards the
// decision to the remote player and waits for their reply.
func (c *client) Act(ctx context.Context, g *game.GameState, seat int) (ai.Decision, error) {
	legal := g.LegalActions(seat)
	p := g.Players[seat]
	toCall := g.Betting.CurrentBet - p.Bet
	if toCall < 0 {
		toCall = 0
	}
	if toCall > p.Chips {
		toCall = p.Chips
	}

	c.send(MessageTypeActionRequired, ActionRequiredData{
		Street:         g.Street.String(),
		Board:          deckFormat(g.Board),
		Pot:            potTotal(g),
		CurrentBet:     g.Betting.CurrentBet,
		ToCall:         toCall,
		ValidActions:   validActionInfos(g, p, legal),
		TimeoutSeconds: int(c.server.timeout / time.Second),
	})

	timedOut := make(chan struct{})
	timer := c.server.clock.AfterFunc(c.server.timeout, func() { close(timedOut) })
	defer timer.Stop()

	for {
		select {
		case reply := <-c.decisions:
			d, err := parseDecision(reply, legal)
			if err != nil {
				// Invalid replies get reported and the player keeps
				// their turn until the timeout runs out.
				c.sendError("ILLEGAL_ACTION", err.Error())
				continue
			}
			return d, nil
		case <-timedOut:
			c.logger.Info("action timeout, acting for player", "seat", seat)
			return passiveDecision(legal), nil
		case <-ctx.Done():
			return ai.Decision{}, ctx.Err()
		case <-c.ctx.Done():
			return ai.Decision{}, fmt.Errorf("client disconnected")
		}
	}
}

// HandStarted implements session.Observer.
func (c *client) HandStarted(g *game.GameState) {
	c.send(MessageTypeHandStart, HandStartData{
		HandNum:    g.HandNum,
		DealerSeat: g.DealerSeat,
		SmallBlind: g.SmallBlind,
		BigBlind:   g.BigBlind,
		Ante:       g.Ante,
		HoleCards:  deckFormat(g.Players[heroSeat].HoleCards),
		Players:    playerStates(g, heroSeat),
	})
}

// ActionApplied implements session.Observer.
func (c *client) ActionApplied(g *game.GameState, seat int, d ai.Decision) {
	c.send(MessageTypePlayerAction, PlayerActionData{
		Seat:   seat,
		Name:   g.Players[seat].Name,
		Action: d.Action.String(),
		Amount: d.Amount,
		Street: g.Street.String(),
		Board:  deckFormat(g.Board),
		Pot:    potTotal(g),
	})
}

// HandFinished implements session.Observer.
func (c *client) HandFinished(g *game.GameState, result *game.HandResult) {
	payouts := make([]SeatPayout, 0, len(g.Players))
	for _, p := range g.Players {
		if p.Eliminated && p.Chips == 0 && result.Payouts[p.Seat] == 0 {
			continue
		}
		payout := SeatPayout{
			Seat:  p.Seat,
			Name:  p.Name,
			Won:   result.Payouts[p.Seat],
			Chips: p.Chips,
		}
		if ev, ok := result.Evaluations[p.Seat]; ok {
			payout.HoleCards = deckFormat(p.HoleCards)
			payout.HandRank = ev.Rank.String()
		}
		payouts = append(payouts, payout)
	}

	c.send(MessageTypeHandEnd, HandEndData{
		HandNum:  result.HandNum,
		Board:    deckFormat(result.Board),
		Showdown: result.Showdown,
		Winners:  result.Winners,
		Payouts:  payouts,
	})
}

func (c *client) send(messageType MessageType, data any) {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		c.logger.Error("failed to build message", "type", messageType, "error", err)
		return
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteJSON(msg); err != nil {
		c.logger.Debug("failed to send message", "type", messageType, "error", err)
	}
}

func (c *client) sendError(code, message string) {
	c.send(MessageTypeError, ErrorData{Code: code, Message: message})
}
