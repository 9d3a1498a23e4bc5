package tictactoe

import (
	"testing"

	"github.com/rocketscienceinc/unbeatable-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/unbeatable-tictactoe/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	outcomes []entity.Outcome
	finals   []entity.Board
}

func (that *recordingNotifier) GameEnded(outcome entity.Outcome, final entity.Board) {
	that.outcomes = append(that.outcomes, outcome)
	that.finals = append(that.finals, final)
}

func TestNewGameController(t *testing.T) {
	t.Run("Fresh board", func(t *testing.T) {
		// Given: a controller on an empty board
		controller := NewGameController(entity.NewBoard(), nil)

		// Then: nothing has happened yet
		assert.True(t, controller.Board().IsEmpty())
		assert.Equal(t, entity.OutcomeNone, controller.Outcome())
		assert.False(t, controller.IsFinished())
		assert.Nil(t, controller.LastAgentMove())
	})

	t.Run("Resumed finished board", func(t *testing.T) {
		// Given: a controller resumed from a board the agent already won
		controller := NewGameController(mustBoard(t, "ooo/xx./x.x"), nil)

		// Then: the outcome is derived from the board
		assert.True(t, controller.IsFinished())
		assert.Equal(t, entity.OutcomeAgentWon, controller.Outcome())
	})
}

func TestGameController_ApplyHumanMove(t *testing.T) {
	t.Run("Agent answers the first move", func(t *testing.T) {
		// Given: a new game
		controller := NewGameController(entity.NewBoard(), nil)

		// When: the human plays the top-left corner
		outcome, err := controller.ApplyHumanMove(entity.Cell{Row: 0, Col: 0})

		// Then: the game goes on with one mark each
		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeNone, outcome)

		board := controller.Board()
		assert.Equal(t, entity.MinPlayer, board[0][0])
		assert.Equal(t, 1, board.Count(entity.MinPlayer))
		assert.Equal(t, 1, board.Count(entity.MaxPlayer))

		// And: the agent's cell is reported
		require.NotNil(t, controller.LastAgentMove())
		assert.Equal(t, entity.MaxPlayer, board.At(*controller.LastAgentMove()))
	})

	t.Run("Occupied cell is a no-op", func(t *testing.T) {
		// Given: a game after one exchange
		controller := NewGameController(entity.NewBoard(), nil)
		_, err := controller.ApplyHumanMove(entity.Cell{Row: 0, Col: 0})
		require.NoError(t, err)
		before := controller.Board()

		// When: the human targets the agent's cell
		_, err = controller.ApplyHumanMove(*controller.LastAgentMove())

		// Then: ErrCellOccupied is reported and the board is unchanged
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, before, controller.Board())
	})

	t.Run("Out of range cell", func(t *testing.T) {
		controller := NewGameController(entity.NewBoard(), nil)

		_, err := controller.ApplyHumanMove(entity.Cell{Row: 3, Col: 0})

		require.ErrorIs(t, err, apperror.ErrInvalidCell)
		assert.True(t, controller.Board().IsEmpty())
	})

	t.Run("Agent blocks a row threat", func(t *testing.T) {
		// Given: the human holds (1,0) and the agent holds the top-left corner
		controller := NewGameController(mustBoard(t, "o../x../..."), nil)

		// When: the human builds a threat on the middle row
		outcome, err := controller.ApplyHumanMove(entity.Cell{Row: 1, Col: 1})

		// Then: the agent blocks at (1,2)
		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeNone, outcome)
		assert.Equal(t, &entity.Cell{Row: 1, Col: 2}, controller.LastAgentMove())
	})

	t.Run("Agent wins and notifies", func(t *testing.T) {
		// Given: the agent has two in the top row
		notifier := &recordingNotifier{}
		controller := NewGameController(mustBoard(t, "oo./x../x.."), notifier)

		// When: the human plays somewhere harmless
		outcome, err := controller.ApplyHumanMove(entity.Cell{Row: 2, Col: 2})

		// Then: the agent completes the row
		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeAgentWon, outcome)
		assert.Equal(t, entity.MaxPlayer, controller.Board()[0][2])

		// And: exactly one notification carried the final board
		require.Equal(t, []entity.Outcome{entity.OutcomeAgentWon}, notifier.outcomes)
		assert.Equal(t, controller.Board(), notifier.finals[0])
	})

	t.Run("Human fills the last cell for a draw", func(t *testing.T) {
		// Given: one empty cell left and no line anywhere
		notifier := &recordingNotifier{}
		controller := NewGameController(mustBoard(t, "xox/xoo/ox."), notifier)

		// When: the human fills it
		outcome, err := controller.ApplyHumanMove(entity.Cell{Row: 2, Col: 2})

		// Then: the game is a draw and the agent did not move
		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeDraw, outcome)
		assert.Nil(t, controller.LastAgentMove())
		assert.Equal(t, []entity.Outcome{entity.OutcomeDraw}, notifier.outcomes)
	})

	t.Run("Human completes a line", func(t *testing.T) {
		// Given: a synthetic board where the human can complete the top row
		controller := NewGameController(mustBoard(t, "xx./oo./o.."), nil)

		// When: the human takes (0,2)
		outcome, err := controller.ApplyHumanMove(entity.Cell{Row: 0, Col: 2})

		// Then: the human wins
		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeHumanWon, outcome)
	})

	t.Run("Move after the game ended", func(t *testing.T) {
		// Given: a finished game
		controller := NewGameController(mustBoard(t, "ooo/xx./x.x"), nil)

		// When: the human tries to move
		outcome, err := controller.ApplyHumanMove(entity.Cell{Row: 1, Col: 2})

		// Then: ErrGameFinished is returned with the stored outcome
		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Equal(t, entity.OutcomeAgentWon, outcome)
	})
}

func TestGameController_SearchStats(t *testing.T) {
	// Given: a controller that already answered one move
	controller := NewGameController(entity.NewBoard(), nil)
	_, err := controller.ApplyHumanMove(entity.Cell{Row: 0, Col: 0})
	require.NoError(t, err)

	before := controller.Board()
	next, ok := before.Diff(Successors(before, entity.MinPlayer)[0])
	require.True(t, ok)

	// When: the human moves again
	outcome, err := controller.ApplyHumanMove(next)
	require.NoError(t, err)
	require.Equal(t, entity.OutcomeNone, outcome)

	// Then: the stats cover only the latest search, same as a fresh controller
	fresh := NewGameController(before, nil)
	_, err = fresh.ApplyHumanMove(next)
	require.NoError(t, err)

	assert.Positive(t, controller.SearchStats().Nodes)
	assert.Equal(t, fresh.SearchStats(), controller.SearchStats())
}

func TestGameController_Reset(t *testing.T) {
	// Given: a finished game
	controller := NewGameController(mustBoard(t, "ooo/xx./x.x"), nil)

	// When: resetting
	controller.Reset()

	// Then: the board is empty and play can resume
	assert.True(t, controller.Board().IsEmpty())
	assert.False(t, controller.IsFinished())

	_, err := controller.ApplyHumanMove(entity.Cell{Row: 1, Col: 1})
	assert.NoError(t, err)
}

func TestCheckEndCondition(t *testing.T) {
	assert.Equal(t, entity.OutcomeNone, CheckEndCondition(entity.NewBoard()))
	assert.Equal(t, entity.OutcomeDraw, CheckEndCondition(mustBoard(t, "xox/xoo/oxx")))
	assert.Equal(t, entity.OutcomeAgentWon, CheckEndCondition(mustBoard(t, "ooo/xx./x.x")))
	assert.Equal(t, entity.OutcomeHumanWon, CheckEndCondition(mustBoard(t, "xo./xo./x..")))
}

// assertAgentNeverLoses plays every human continuation from board, letting
// the controller answer each one.
func assertAgentNeverLoses(t *testing.T, board entity.Board) {
	t.Helper()

	for _, child := range Successors(board, entity.MinPlayer) {
		cell, _ := board.Diff(child)

		controller := NewGameController(board, nil)
		outcome, err := controller.ApplyHumanMove(cell)
		require.NoError(t, err)
		require.NotEqual(t, entity.OutcomeHumanWon, outcome, "human won from %s by playing %s", board, cell)

		if outcome == entity.OutcomeNone {
			assertAgentNeverLoses(t, controller.Board())
		}
	}
}

func TestGameController_NeverLoses(t *testing.T) {
	t.Run("After a corner opening", func(t *testing.T) {
		// Given: the human opens at (0,0) and the agent replies
		controller := NewGameController(entity.NewBoard(), nil)
		outcome, err := controller.ApplyHumanMove(entity.Cell{Row: 0, Col: 0})
		require.NoError(t, err)
		require.Equal(t, entity.OutcomeNone, outcome)

		// Then: no human continuation wins
		assertAgentNeverLoses(t, controller.Board())
	})

	t.Run("From every opening", func(t *testing.T) {
		assertAgentNeverLoses(t, entity.NewBoard())
	})
}
