package server

import (
	"encoding/json"
	"time"
)

// MessageType identifies a websocket message.
type MessageType string

const (
	// Client to server.
	MessageTypeStartSession MessageType = "start_session"
	MessageTypeAction       MessageType = "action"

	// Server to client.
	MessageTypeSessionStarted MessageType = "session_started"
	MessageTypeHandStart      MessageType = "hand_start"
	MessageTypeActionRequired MessageType = "action_required"
	MessageTypePlayerAction   MessageType = "player_action"
	MessageTypeHandEnd        MessageType = "hand_end"
	MessageTypeSessionEnd     MessageType = "session_end"
	MessageTypeError          MessageType = "error"
)

// Message is the websocket envelope.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage wraps a payload in an envelope.
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client to server payloads.

// StartSessionData opens a table for the connected player.
type StartSessionData struct {
	PlayerName string   `json:"playerName"`
	Hands      int      `json:"hands,omitempty"`
	Seed       int64    `json:"seed,omitempty"`
	Opponents  []string `json:"opponents,omitempty"` // personality names
}

// ActionData is the player's reply to an action_required message.
type ActionData struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// Server to client payloads.

// SessionStartedData acknowledges a started session.
type SessionStartedData struct {
	SessionID string        `json:"sessionId,omitempty"`
	Seed      int64         `json:"seed"`
	Seat      int           `json:"seat"`
	Players   []PlayerState `json:"players"`
}

// PlayerState is a seat snapshot. HoleCards is set only for the
// receiving player.
type PlayerState struct {
	Seat       int    `json:"seat"`
	Name       string `json:"name"`
	Chips      int    `json:"chips"`
	Position   string `json:"position"`
	Bet        int    `json:"bet"`
	HoleCards  string `json:"holeCards,omitempty"`
	Folded     bool   `json:"folded"`
	AllIn      bool   `json:"allIn"`
	Eliminated bool   `json:"eliminated"`
}

// HandStartData announces a new hand.
type HandStartData struct {
	HandNum    int           `json:"handNum"`
	DealerSeat int           `json:"dealerSeat"`
	SmallBlind int           `json:"smallBlind"`
	BigBlind   int           `json:"bigBlind"`
	Ante       int           `json:"ante,omitempty"`
	HoleCards  string        `json:"holeCards"`
	Players    []PlayerState `json:"players"`
}

// ValidActionInfo describes one legal action and its amount bounds.
type ValidActionInfo struct {
	Action    string `json:"action"`
	MinAmount int    `json:"minAmount,omitempty"`
	MaxAmount int    `json:"maxAmount,omitempty"`
}

// ActionRequiredData asks the player to act.
type ActionRequiredData struct {
	Street         string            `json:"street"`
	Board          string            `json:"board,omitempty"`
	Pot            int               `json:"pot"`
	CurrentBet     int               `json:"currentBet"`
	ToCall         int               `json:"toCall"`
	ValidActions   []ValidActionInfo `json:"validActions"`
	TimeoutSeconds int               `json:"timeoutSeconds"`
}

// PlayerActionData reports an applied action to the table.
type PlayerActionData struct {
	Seat   int    `json:"seat"`
	Name   string `json:"name"`
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
	Street string `json:"street"`
	Board  string `json:"board,omitempty"`
	Pot    int    `json:"pot"`
}

// SeatPayout is one seat's result in a completed hand.
type SeatPayout struct {
	Seat      int    `json:"seat"`
	Name      string `json:"name"`
	Won       int    `json:"won"`
	Chips     int    `json:"chips"`
	HoleCards string `json:"holeCards,omitempty"`
	HandRank  string `json:"handRank,omitempty"`
}

// HandEndData announces a settled hand.
type HandEndData struct {
	HandNum  int          `json:"handNum"`
	Board    string       `json:"board,omitempty"`
	Showdown bool         `json:"showdown"`
	Winners  []int        `json:"winners"`
	Payouts  []SeatPayout `json:"payouts"`
}

// SessionEndData closes out a session.
type SessionEndData struct {
	Hands    int     `json:"hands"`
	NetBB    float64 `json:"netBB"`
	MeanBB   float64 `json:"meanBB"`
	GameOver bool    `json:"gameOver"`
}

// ErrorData reports a failure to the client.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
