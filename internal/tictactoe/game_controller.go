package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/unbeatable-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/unbeatable-tictactoe/internal/entity"
)

// EndNotifier receives the end-of-game notification.
type EndNotifier interface {
	GameEnded(outcome entity.Outcome, final entity.Board)
}

type noopNotifier struct{}

func (noopNotifier) GameEnded(entity.Outcome, entity.Board) {}

// GameController owns the authoritative board of one human-versus-agent game.
// The human plays entity.MinPlayer, the agent entity.MaxPlayer.
type GameController struct {
	board         entity.Board
	outcome       entity.Outcome
	lastAgentMove *entity.Cell

	engine   *Engine
	notifier EndNotifier
}

// NewGameController resumes play from board. A nil notifier discards end
// notifications.
func NewGameController(board entity.Board, notifier EndNotifier) *GameController {
	if notifier == nil {
		notifier = noopNotifier{}
	}

	return &GameController{
		board:    board,
		outcome:  CheckEndCondition(board),
		engine:   NewEngine(),
		notifier: notifier,
	}
}

func (that *GameController) Board() entity.Board {
	return that.board
}

func (that *GameController) Outcome() entity.Outcome {
	return that.outcome
}

func (that *GameController) IsFinished() bool {
	return that.outcome != entity.OutcomeNone
}

// LastAgentMove is the cell the agent filled on the latest ApplyHumanMove, or
// nil when it did not move.
func (that *GameController) LastAgentMove() *entity.Cell {
	return that.lastAgentMove
}

// SearchStats reports the work done by the agent's latest search.
func (that *GameController) SearchStats() Stats {
	return that.engine.Stats()
}

// ApplyHumanMove places the human's mark at cell and, if the game goes on,
// answers with the agent's move. An occupied cell leaves the board untouched
// and reports apperror.ErrCellOccupied.
func (that *GameController) ApplyHumanMove(cell entity.Cell) (entity.Outcome, error) {
	if that.IsFinished() {
		return that.outcome, apperror.ErrGameFinished
	}

	if !cell.IsValid() {
		return entity.OutcomeNone, fmt.Errorf("%w: %s", apperror.ErrInvalidCell, cell)
	}

	if that.board.At(cell) != entity.Empty {
		return entity.OutcomeNone, fmt.Errorf("%w: %s", apperror.ErrCellOccupied, cell)
	}

	that.lastAgentMove = nil
	that.board = that.board.With(cell, entity.MinPlayer)

	if that.checkEnd() {
		return that.outcome, nil
	}

	that.engine.ResetStats()
	result := that.engine.BestMove(that.board, entity.MaxPlayer)
	if !result.HasMove() {
		that.finish(entity.OutcomeDraw)
		return that.outcome, nil
	}

	if agentCell, ok := that.board.Diff(*result.Next); ok {
		that.lastAgentMove = &agentCell
	}
	that.board = *result.Next

	that.checkEnd()

	return that.outcome, nil
}

// Reset returns the board to all-empty.
func (that *GameController) Reset() {
	that.board = entity.NewBoard()
	that.outcome = entity.OutcomeNone
	that.lastAgentMove = nil
}

func (that *GameController) checkEnd() bool {
	outcome := CheckEndCondition(that.board)
	if outcome == entity.OutcomeNone {
		return false
	}

	that.finish(outcome)
	return true
}

func (that *GameController) finish(outcome entity.Outcome) {
	that.outcome = outcome
	that.notifier.GameEnded(outcome, that.board)
}

// CheckEndCondition maps a board to the end-of-game outcome, or
// entity.OutcomeNone while play continues.
func CheckEndCondition(board entity.Board) entity.Outcome {
	switch Winner(board) {
	case entity.MaxPlayer:
		return entity.OutcomeAgentWon
	case entity.MinPlayer:
		return entity.OutcomeHumanWon
	}

	if board.IsFull() {
		return entity.OutcomeDraw
	}

	return entity.OutcomeNone
}
