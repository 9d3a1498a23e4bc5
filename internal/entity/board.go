package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const Size = 3

// Cell addresses a square by row and column, both in 0..2.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Cell) IsValid() bool {
	return that.Row >= 0 && that.Row < Size && that.Col >= 0 && that.Col < Size
}

func (that Cell) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

// Board is a value snapshot of the grid. Assigning a Board copies it, so a
// successor never aliases its parent.
type Board [Size][Size]Mark

func NewBoard() Board {
	return Board{}
}

func (that Board) At(cell Cell) Mark {
	return that[cell.Row][cell.Col]
}

// With returns a copy of the board with mark placed at cell.
func (that Board) With(cell Cell, mark Mark) Board {
	that[cell.Row][cell.Col] = mark
	return that
}

func (that Board) Count(mark Mark) int {
	count := 0
	for _, row := range that {
		for _, value := range row {
			if value == mark {
				count++
			}
		}
	}
	return count
}

func (that Board) CountEmpty() int {
	return that.Count(Empty)
}

func (that Board) IsFull() bool {
	return that.CountEmpty() == 0
}

func (that Board) IsEmpty() bool {
	return that.CountEmpty() == Size*Size
}

// IsValid reports whether every cell holds a known mark and the mark counts
// fit a game opened by MinPlayer.
func (that Board) IsValid() bool {
	for _, row := range that {
		for _, value := range row {
			if !value.IsValid() {
				return false
			}
		}
	}

	diff := that.Count(MinPlayer) - that.Count(MaxPlayer)
	return diff == 0 || diff == 1
}

// ToMove returns the side whose turn it is on a board opened by MinPlayer.
func (that Board) ToMove() Mark {
	if that.Count(MinPlayer) == that.Count(MaxPlayer) {
		return MinPlayer
	}
	return MaxPlayer
}

// Diff returns the single cell where that and other differ. ok is false when
// the boards are equal or differ in more than one cell.
func (that Board) Diff(other Board) (Cell, bool) {
	var (
		found Cell
		count int
	)

	for row := range Size {
		for col := range Size {
			if that[row][col] != other[row][col] {
				found = Cell{Row: row, Col: col}
				count++
			}
		}
	}

	return found, count == 1
}

func (that Board) String() string {
	var sb strings.Builder
	for row := range Size {
		for col := range Size {
			switch that[row][col] {
			case MinPlayer:
				sb.WriteString("x")
			case MaxPlayer:
				sb.WriteString("o")
			default:
				sb.WriteString(".")
			}
		}
		if row < Size-1 {
			sb.WriteString("/")
		}
	}
	return sb.String()
}

// UnmarshalJSON accepts only a Size x Size grid of known marks. The default
// array decoding would pad short rows and drop extra ones.
func (that *Board) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var rows [][]Mark
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedBoard, err)
	}

	if len(rows) != Size {
		return fmt.Errorf("%w: expected %d rows, got %d", ErrMalformedBoard, Size, len(rows))
	}

	var board Board
	for row, cells := range rows {
		if len(cells) != Size {
			return fmt.Errorf("%w: row %d has %d cells", ErrMalformedBoard, row, len(cells))
		}

		for col, mark := range cells {
			if !mark.IsValid() {
				return fmt.Errorf("%w: unexpected %q at %s", ErrMalformedBoard, mark, Cell{Row: row, Col: col})
			}
			board[row][col] = mark
		}
	}

	*that = board

	return nil
}

// ParseBoard reads the compact form produced by String, e.g. "xo./.x./..o".
func ParseBoard(s string) (Board, error) {
	rows := strings.Split(s, "/")
	if len(rows) != Size {
		return Board{}, fmt.Errorf("%w: expected %d rows, got %d", ErrMalformedBoard, Size, len(rows))
	}

	var board Board
	for row, line := range rows {
		if len(line) != Size {
			return Board{}, fmt.Errorf("%w: row %d has %d cells", ErrMalformedBoard, row, len(line))
		}

		for col, ch := range line {
			switch ch {
			case 'x':
				board[row][col] = MinPlayer
			case 'o':
				board[row][col] = MaxPlayer
			case '.':
				board[row][col] = Empty
			default:
				return Board{}, fmt.Errorf("%w: unexpected %q at row %d", ErrMalformedBoard, ch, row)
			}
		}
	}

	return board, nil
}
