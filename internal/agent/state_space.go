package agent

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
)

// NumStates is 3^9: every assignment of {Empty, X, O} to the nine cells,
// reachable or not.
const NumStates = 19683

// digits is the enumeration order of a single cell; cell 0 is the most
// significant position.
var digits = [3]int{0, 1, -1}

// StateSpace is the fixed enumeration of all encodings. It never changes
// after construction and is the only indexing scheme of the Q-table.
type StateSpace struct {
	states [NumStates][entity.BoardSize]int
}

func NewStateSpace() *StateSpace {
	space := &StateSpace{}
	for index := range space.states {
		rest := index
		for cell := entity.BoardSize - 1; cell >= 0; cell-- {
			space.states[index][cell] = digits[rest%3]
			rest /= 3
		}
	}

	return space
}

// Len is always NumStates.
func (that *StateSpace) Len() int {
	return len(that.states)
}

// State returns the encoding stored at index.
func (that *StateSpace) State(index int) [entity.BoardSize]int {
	return that.states[index]
}

// Index locates an encoding. The position is computed from the digits, which
// matches an exact-match scan of the enumeration.
func (that *StateSpace) Index(encoded [entity.BoardSize]int) (int, error) {
	index := 0
	for cell, v := range encoded {
		digit, err := digitOf(v)
		if err != nil {
			return 0, fmt.Errorf("cell %d: %w", cell, err)
		}
		index = index*3 + digit
	}

	return index, nil
}

func digitOf(v int) (int, error) {
	for digit, candidate := range digits {
		if candidate == v {
			return digit, nil
		}
	}

	return 0, fmt.Errorf("%w: value %d", apperror.ErrUnknownState, v)
}
