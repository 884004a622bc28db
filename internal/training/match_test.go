package training

import (
	"context"
	"testing"

	"github.com/rocketscienceinc/tictactoe-rl/internal/agent"
	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	t.Run("sums outcomes from X's point of view", func(t *testing.T) {
		// Given: X takes the top row every game
		px := &scriptedPolicy{mark: x, moves: []int{0, 1, 2}}
		po := &scriptedPolicy{mark: o, moves: []int{3, 4}}

		// When: three games are played
		var boards []entity.Board
		result, err := Match(context.Background(), px, po, 3, func(board entity.Board) {
			boards = append(boards, board)
		})

		// Then: X won all of them and every board was observed
		require.NoError(t, err)
		assert.Equal(t, MatchResult{Games: 3, Reward: 3, XWins: 3}, result)
		assert.InDelta(t, 1.0, result.Mean(), 1e-12)
		assert.Len(t, boards, 15)
		assert.Equal(t, entity.Board{x, x, x, o, o, e, e, e, e}, boards[4])
	})

	t.Run("does not update either player", func(t *testing.T) {
		px := &scriptedPolicy{mark: x, moves: []int{0, 1, 8}}
		po := &scriptedPolicy{mark: o, moves: []int{3, 4, 5}}

		result, err := Match(context.Background(), px, po, 2, nil)

		require.NoError(t, err)
		assert.Equal(t, MatchResult{Games: 2, Reward: -2, OWins: 2}, result)
		assert.InDelta(t, -1.0, result.Mean(), 1e-12)
		assert.Empty(t, px.updates)
		assert.Empty(t, po.updates)
	})

	t.Run("greedy learner against the random baseline", func(t *testing.T) {
		px := agent.NewQAgent(x, agent.WithRand(agent.NewRand(5)))
		baseline := agent.NewRandomPolicy(o, agent.NewRand(6))

		result, err := Match(context.Background(), px, baseline, 50, nil)

		require.NoError(t, err)
		assert.Equal(t, 50, result.XWins+result.OWins+result.Draws)
		assert.Equal(t, float64(result.XWins-result.OWins), result.Reward)
	})

	t.Run("players must sit on their own side", func(t *testing.T) {
		_, err := Match(context.Background(), &scriptedPolicy{mark: o}, &scriptedPolicy{mark: x}, 1, nil)

		require.ErrorIs(t, err, ErrMarkMismatch)
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := Match(ctx, &scriptedPolicy{mark: x}, &scriptedPolicy{mark: o}, 1, nil)

		require.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, result.Games)
		assert.Zero(t, result.Mean())
	})
}
