package agent

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rl/internal/tictactoe"
)

const (
	DefaultAlpha   = 0.1
	DefaultGamma   = 0.9
	DefaultEpsilon = 0.5
	DefaultDecay   = 0.0001
)

type Option func(agent *QAgent)

func WithAlpha(alpha float64) Option {
	return func(a *QAgent) {
		a.alpha = alpha
	}
}

func WithGamma(gamma float64) Option {
	return func(a *QAgent) {
		a.gamma = gamma
	}
}

func WithEpsilon(epsilon float64) Option {
	return func(a *QAgent) {
		a.epsilon = epsilon
	}
}

func WithDecay(delta float64) Option {
	return func(a *QAgent) {
		a.delta = delta
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(a *QAgent) {
		if rng != nil {
			a.rng = rng
		}
	}
}

// QAgent is a tabular Q-learning player for one side. The table covers the
// whole state space and persists across episodes.
type QAgent struct {
	mark    entity.Mark
	space   *StateSpace
	q       [][entity.BoardSize]float64
	alpha   float64
	gamma   float64
	epsilon float64
	delta   float64
	rng     *rand.Rand
}

func NewQAgent(mark entity.Mark, options ...Option) *QAgent {
	space := NewStateSpace()
	a := &QAgent{ // Default values
		mark:    mark,
		space:   space,
		q:       make([][entity.BoardSize]float64, space.Len()),
		alpha:   DefaultAlpha,
		gamma:   DefaultGamma,
		epsilon: DefaultEpsilon,
		delta:   DefaultDecay,
	}
	for _, option := range options {
		option(a)
	}
	if a.rng == nil {
		a.rng = NewRand(0)
	}

	return a
}

func (that *QAgent) Mark() entity.Mark {
	return that.mark
}

func (that *QAgent) Alpha() float64 {
	return that.alpha
}

func (that *QAgent) Gamma() float64 {
	return that.gamma
}

func (that *QAgent) Epsilon() float64 {
	return that.epsilon
}

func (that *QAgent) Decay() float64 {
	return that.delta
}

// DecayEpsilon lowers epsilon by delta, never below zero.
func (that *QAgent) DecayEpsilon() {
	that.epsilon = max(that.epsilon-that.delta, 0)
}

func (that *QAgent) StateIndex(board entity.Board) (int, error) {
	return that.space.Index(board.Encode())
}

// Value is Q(board, action).
func (that *QAgent) Value(board entity.Board, action int) (float64, error) {
	if action < 0 || action >= entity.BoardSize {
		return 0, apperror.ErrInvalidCell
	}

	index, err := that.StateIndex(board)
	if err != nil {
		return 0, err
	}

	return that.q[index][action], nil
}

// SetValue overwrites a single entry; used to seed tables.
func (that *QAgent) SetValue(board entity.Board, action int, value float64) error {
	if action < 0 || action >= entity.BoardSize {
		return apperror.ErrInvalidCell
	}

	index, err := that.StateIndex(board)
	if err != nil {
		return err
	}
	that.q[index][action] = value

	return nil
}

// Act is epsilon-greedy: uniform over legal moves with probability epsilon,
// greedy otherwise.
func (that *QAgent) Act(board entity.Board) (int, error) {
	moves := available(board)
	if len(moves) == 0 {
		return NoAction, apperror.ErrNoLegalMoves
	}

	if that.rng.Float64() < that.epsilon {
		return moves[that.rng.Intn(len(moves))], nil
	}

	return that.argmax(board, moves)
}

func (that *QAgent) ActGreedy(board entity.Board) (int, error) {
	moves := available(board)
	if len(moves) == 0 {
		return NoAction, apperror.ErrNoLegalMoves
	}

	return that.argmax(board, moves)
}

// GreedyAction returns the best legal action, or NoAction and false when the
// board has no continuation.
func (that *QAgent) GreedyAction(board entity.Board) (int, bool, error) {
	moves := available(board)
	if len(moves) == 0 {
		return NoAction, false, nil
	}

	action, err := that.argmax(board, moves)
	if err != nil {
		return NoAction, false, err
	}

	return action, true, nil
}

// Update applies the one-step Q-learning backup. A terminal After has no
// bootstrapped term: Q += alpha * r.
func (that *QAgent) Update(t Transition) error {
	if t.Action < 0 || t.Action >= entity.BoardSize {
		return fmt.Errorf("update: %w: cell %d", apperror.ErrInvalidCell, t.Action)
	}

	before, err := that.StateIndex(t.Before)
	if err != nil {
		return fmt.Errorf("update: state before: %w", err)
	}

	after, err := that.StateIndex(t.After)
	if err != nil {
		return fmt.Errorf("update: state after: %w", err)
	}

	next, ok, err := that.GreedyAction(t.After)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	current := that.q[before][t.Action]
	if !ok {
		// at a leaf
		that.q[before][t.Action] = current + that.alpha*t.Reward
		return nil
	}

	maxQNext := that.q[after][next]
	that.q[before][t.Action] = current + that.alpha*(t.Reward+that.gamma*maxQNext-current)

	return nil
}

// argmax over moves; ties go to the first move in action order.
func (that *QAgent) argmax(board entity.Board, moves []int) (int, error) {
	index, err := that.StateIndex(board)
	if err != nil {
		return NoAction, err
	}

	row := that.q[index]
	best := moves[0]
	for _, move := range moves[1:] {
		if row[move] > row[best] {
			best = move
		}
	}

	return best, nil
}

// available is the set of moves a player may still make: none once the game
// is over, otherwise every empty cell.
func available(board entity.Board) []int {
	if tictactoe.IsWin(board) {
		return nil
	}

	return tictactoe.LegalMoves(board)
}
