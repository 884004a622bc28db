package agent

import (
	"time"

	"golang.org/x/exp/rand"

	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
)

// NoAction is returned when a board offers no legal continuation.
const NoAction = -1

// Transition is one half-move as seen by the player that made it.
type Transition struct {
	Before entity.Board
	Action int
	Reward float64
	After  entity.Board
}

// Policy is the contract every participant of a game satisfies.
type Policy interface {
	Mark() entity.Mark
	// Act picks an action in training mode; it may explore.
	Act(board entity.Board) (int, error)
	// ActGreedy picks the best known action without exploration.
	ActGreedy(board entity.Board) (int, error)
	// Update is called after every half-move; a no-op for non-learners.
	Update(t Transition) error
}

// Explorer is implemented by policies with an annealed exploration rate.
type Explorer interface {
	Epsilon() float64
	DecayEpsilon()
}

// NewRand returns a seeded source; seed 0 picks one from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return rand.New(rand.NewSource(seed))
}
