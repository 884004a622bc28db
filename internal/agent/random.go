package agent

import (
	"golang.org/x/exp/rand"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
)

// RandomPolicy plays uniformly among legal moves and never learns.
type RandomPolicy struct {
	mark entity.Mark
	rng  *rand.Rand
}

func NewRandomPolicy(mark entity.Mark, rng *rand.Rand) *RandomPolicy {
	if rng == nil {
		rng = NewRand(0)
	}

	return &RandomPolicy{mark: mark, rng: rng}
}

func (that *RandomPolicy) Mark() entity.Mark {
	return that.mark
}

func (that *RandomPolicy) Act(board entity.Board) (int, error) {
	availableCells := available(board)
	if len(availableCells) == 0 {
		return NoAction, apperror.ErrNoLegalMoves
	}

	return availableCells[that.rng.Intn(len(availableCells))], nil
}

func (that *RandomPolicy) ActGreedy(board entity.Board) (int, error) {
	return that.Act(board)
}

func (that *RandomPolicy) Update(Transition) error {
	return nil
}
