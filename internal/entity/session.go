package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/unbeatable-tictactoe/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
)

// Outcome is what the end-of-game notification carries.
type Outcome string

const (
	OutcomeNone     Outcome = ""
	OutcomeDraw     Outcome = "draw"
	OutcomeHumanWon Outcome = "human-won"
	OutcomeAgentWon Outcome = "agent-won"
)

var ErrMalformedBoard = errors.New("malformed board")

// Session is one human-versus-agent game kept in storage between moves.
type Session struct {
	ID            string  `json:"id"`
	Board         Board   `json:"board"`
	Status        string  `json:"status"`
	Outcome       Outcome `json:"outcome,omitempty"`
	Moves         int     `json:"moves"`
	LastAgentMove *Cell   `json:"last_agent_move,omitempty"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:     id,
		Board:  NewBoard(),
		Status: StatusOngoing,
	}
}

func (that *Session) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Session) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Session) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", apperror.ErrUnknownGameState, that.Status)
	}
}

// Finish records the outcome. OutcomeNone leaves the session ongoing.
func (that *Session) Finish(outcome Outcome) {
	if outcome == OutcomeNone {
		return
	}

	that.Outcome = outcome
	that.Status = StatusFinished
}

// Reset puts the session back to an empty board, keeping its ID.
func (that *Session) Reset() {
	that.Board = NewBoard()
	that.Status = StatusOngoing
	that.Outcome = OutcomeNone
	that.Moves = 0
	that.LastAgentMove = nil
}
