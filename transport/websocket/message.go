package websocket

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/unbeatable-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/unbeatable-tictactoe/internal/entity"
)

const (
	actionConnect  = "connect"
	actionTurn     = "game:turn"
	actionReset    = "game:reset"
	actionGameOver = "game:over"
	actionError    = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Session *entity.Session `json:"session,omitempty"`
	Cell    *entity.Cell    `json:"cell,omitempty"`
	Outcome entity.Outcome  `json:"outcome,omitempty"`
	Error   string          `json:"error,omitempty"`
}

var clientErrors = []error{
	apperror.ErrCellOccupied,
	apperror.ErrInvalidCell,
	apperror.ErrGameFinished,
	apperror.ErrSessionNotFound,
	errNotConnected,
	errMalformedPayload,
}

// clientError hides internal failures behind a generic text.
func clientError(err error) string {
	for _, known := range clientErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "internal error"
}

func (that *client) sendMessage(action string, payload Payload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = that.conn.WriteJSON(Message{Action: action, Payload: raw}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *client) sendError(action string, err error) error {
	return that.sendMessage(action, Payload{Error: clientError(err)})
}

func isClosed(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
		websocket.CloseAbnormalClosure,
	)
}
