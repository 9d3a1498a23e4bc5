package tictactoe

import "github.com/rocketscienceinc/unbeatable-tictactoe/internal/entity"

// Successors returns every board reachable by placing player's mark in one
// empty cell, in row-major order. The search relies on this order to break
// ties between equally valued moves.
func Successors(state entity.Board, player entity.Mark) []entity.Board {
	children := make([]entity.Board, 0, state.CountEmpty())

	for row := range entity.Size {
		for col := range entity.Size {
			if state[row][col] != entity.Empty {
				continue
			}

			child := state
			child[row][col] = player
			children = append(children, child)
		}
	}

	return children
}
