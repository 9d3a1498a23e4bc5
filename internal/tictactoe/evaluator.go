package tictactoe

import "github.com/rocketscienceinc/unbeatable-tictactoe/internal/entity"

// WinCombos lists the eight lines as row-major cell indexes, in scan order:
// rows, columns, main diagonal, anti-diagonal.
var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Evaluate scores state from MaxPlayer's side: +1 for a Max line, -1 for a
// Min line, 0 otherwise, multiplied by one plus the number of empty cells so
// earlier wins weigh more. When several lines are complete the last one in
// WinCombos order decides the sign.
func Evaluate(state entity.Board) int {
	score := 0

	for _, combo := range WinCombos {
		switch lineOwner(state, combo) {
		case entity.MinPlayer:
			score = -1
		case entity.MaxPlayer:
			score = 1
		}
	}

	return score * (1 + state.CountEmpty())
}

// Winner returns the mark owning the last complete line, or entity.Empty.
func Winner(state entity.Board) entity.Mark {
	switch score := Evaluate(state); {
	case score > 0:
		return entity.MaxPlayer
	case score < 0:
		return entity.MinPlayer
	default:
		return entity.Empty
	}
}

func lineOwner(state entity.Board, combo [3]int) entity.Mark {
	a, b, c := markAt(state, combo[0]), markAt(state, combo[1]), markAt(state, combo[2])
	if a != entity.Empty && a == b && b == c {
		return a
	}
	return entity.Empty
}

func markAt(state entity.Board, index int) entity.Mark {
	return state[index/entity.Size][index%entity.Size]
}
