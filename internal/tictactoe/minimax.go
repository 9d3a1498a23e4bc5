package tictactoe

import (
	"math"

	"github.com/rocketscienceinc/unbeatable-tictactoe/internal/entity"
)

// Window bounds for the root call.
const (
	NegInf = math.MinInt
	PosInf = math.MaxInt
)

// Result is the outcome of a search. Next is nil when the board is full and
// no move exists.
type Result struct {
	Next  *entity.Board
	Value int
}

func (that Result) HasMove() bool {
	return that.Next != nil
}

// Stats counts the work done by an Engine since its last reset.
type Stats struct {
	Nodes       int
	Evaluations int
}

// Engine runs minimax with alpha-beta pruning. It is not safe for concurrent
// use; create one per goroutine.
type Engine struct {
	stats Stats
}

func NewEngine() *Engine {
	return &Engine{}
}

func (that *Engine) Stats() Stats {
	return that.stats
}

func (that *Engine) ResetStats() {
	that.stats = Stats{}
}

// BestMove searches state with a full window.
func (that *Engine) BestMove(state entity.Board, player entity.Mark) Result {
	return that.Search(state, NegInf, PosInf, player)
}

// Search returns the best successor of state for player and its value.
//
// A successor that wins on the spot is returned without recursing. Otherwise
// MaxPlayer keeps the first strictly greater value and MinPlayer the first
// strictly smaller one, and the loop stops once beta < alpha.
func (that *Engine) Search(state entity.Board, alpha, beta int, player entity.Mark) Result {
	that.stats.Nodes++

	if state.IsFull() {
		return Result{Value: that.evaluate(state)}
	}

	maximizing := player == entity.MaxPlayer

	best := Result{Value: PosInf}
	if maximizing {
		best.Value = NegInf
	}

	for _, child := range Successors(state, player) {
		score := that.evaluate(child)
		if (maximizing && score > 0) || (!maximizing && score < 0) {
			return Result{Next: &child, Value: score}
		}

		value := that.Search(child, alpha, beta, player.Opponent()).Value

		if maximizing {
			if value > best.Value {
				best = Result{Next: &child, Value: value}
			}
			alpha = max(alpha, value)
		} else {
			if value < best.Value {
				best = Result{Next: &child, Value: value}
			}
			beta = min(beta, value)
		}

		if beta < alpha {
			break
		}
	}

	return best
}

func (that *Engine) evaluate(state entity.Board) int {
	that.stats.Evaluations++
	return Evaluate(state)
}

// Search runs a fresh Engine. It is a pure function of its arguments.
func Search(state entity.Board, alpha, beta int, player entity.Mark) Result {
	return NewEngine().Search(state, alpha, beta, player)
}
