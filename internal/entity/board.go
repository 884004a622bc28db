package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
)

// Mark is the content of a single cell.
type Mark int8

const (
	Empty Mark = 0
	X     Mark = 1
	O     Mark = -1
)

// BoardSize is the number of cells; action indices run 0..BoardSize-1 in row-major order.
const BoardSize = 9

// WinCombos lists the 3 rows, 3 columns and 2 diagonals.
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

const boardTemplate = `
| {s1} | {s2} | {s3} |
 ------------
| {s4} | {s5} | {s6} |
 ------------
| {s7} | {s8} | {s9} |
`

// Value is the numeric encoding of the mark: X=+1, O=-1, Empty=0.
func (that Mark) Value() int {
	return int(that)
}

// Opponent returns the other side; Empty has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

func (that Mark) String() string {
	switch that {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return " "
	}
}

// ParseMark accepts "X", "O" and "" / " " for an empty cell.
func ParseMark(s string) (Mark, error) {
	switch strings.TrimSpace(strings.ToUpper(s)) {
	case "X":
		return X, nil
	case "O":
		return O, nil
	case "":
		return Empty, nil
	default:
		return Empty, fmt.Errorf("%w: unknown mark %q", apperror.ErrUnknownState, s)
	}
}

// Board holds the nine cells in row-major order.
type Board [BoardSize]Mark

// Encode converts the board to its {-1, 0, +1} vector.
func (that Board) Encode() [BoardSize]int {
	var encoded [BoardSize]int
	for i, mark := range that {
		encoded[i] = mark.Value()
	}

	return encoded
}

// Decode is the inverse of Encode.
func Decode(encoded [BoardSize]int) (Board, error) {
	var board Board
	for i, v := range encoded {
		switch v {
		case 1:
			board[i] = X
		case -1:
			board[i] = O
		case 0:
			board[i] = Empty
		default:
			return Board{}, fmt.Errorf("%w: cell %d holds %d", apperror.ErrUnknownState, i, v)
		}
	}

	return board, nil
}

// EmptyCells returns the indices of empty cells in ascending order.
func (that Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, mark := range that {
		if mark == Empty {
			cells = append(cells, i)
		}
	}

	return cells
}

// Count returns how many cells hold the mark.
func (that Board) Count(mark Mark) int {
	count := 0
	for _, cell := range that {
		if cell == mark {
			count++
		}
	}

	return count
}

// Render fills the 3x3 template, using glyph for each cell.
func (that Board) Render(glyph func(Mark) string) string {
	pairs := make([]string, 0, 2*BoardSize)
	for i, mark := range that {
		pairs = append(pairs, fmt.Sprintf("{s%d}", i+1), glyph(mark))
	}

	return strings.NewReplacer(pairs...).Replace(boardTemplate)
}

func (that Board) String() string {
	return that.Render(Mark.String)
}

// Strings returns the board as used on the wire: "X", "O" or "".
func (that Board) Strings() [BoardSize]string {
	var cells [BoardSize]string
	for i, mark := range that {
		if mark != Empty {
			cells[i] = mark.String()
		}
	}

	return cells
}

// ParseBoard builds a board from its wire form.
func ParseBoard(cells [BoardSize]string) (Board, error) {
	var board Board
	for i, cell := range cells {
		mark, err := ParseMark(cell)
		if err != nil {
			return Board{}, fmt.Errorf("cell %d: %w", i, err)
		}
		board[i] = mark
	}

	return board, nil
}
