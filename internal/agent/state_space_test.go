package agent

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rl/internal/tictactoe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateSpace_Enumeration(t *testing.T) {
	space := NewStateSpace()

	t.Run("holds every assignment of the nine cells", func(t *testing.T) {
		require.Equal(t, NumStates, space.Len())

		seen := make(map[[entity.BoardSize]int]struct{}, space.Len())
		for i := 0; i < space.Len(); i++ {
			seen[space.State(i)] = struct{}{}
		}
		require.Len(t, seen, NumStates, "Enumeration should contain no duplicates")
	})

	t.Run("follows the product order over (0, 1, -1)", func(t *testing.T) {
		assert.Equal(t, [entity.BoardSize]int{0, 0, 0, 0, 0, 0, 0, 0, 0}, space.State(0))
		assert.Equal(t, [entity.BoardSize]int{0, 0, 0, 0, 0, 0, 0, 0, 1}, space.State(1))
		assert.Equal(t, [entity.BoardSize]int{0, 0, 0, 0, 0, 0, 0, 0, -1}, space.State(2))
		assert.Equal(t, [entity.BoardSize]int{0, 0, 0, 0, 0, 0, 0, 1, 0}, space.State(3))
		assert.Equal(t, [entity.BoardSize]int{-1, -1, -1, -1, -1, -1, -1, -1, -1}, space.State(NumStates-1))
	})

	t.Run("index is the inverse of the enumeration", func(t *testing.T) {
		for i := 0; i < space.Len(); i++ {
			index, err := space.Index(space.State(i))
			require.NoError(t, err)
			require.Equal(t, i, index)
		}
	})

	t.Run("rejects encodings outside {-1, 0, 1}", func(t *testing.T) {
		_, err := space.Index([entity.BoardSize]int{0, 0, 0, 0, 3, 0, 0, 0, 0})

		require.ErrorIs(t, err, apperror.ErrUnknownState)
	})
}

func TestStateSpace_CoversLegalPlay(t *testing.T) {
	// Given: the state space and the empty game
	space := NewStateSpace()

	// When: walking every legal game from the empty board
	visited, shallow := 0, 0
	var walk func(game *entity.Game, depth int)
	walk = func(game *entity.Game, depth int) {
		index, err := space.Index(game.Board.Encode())
		require.NoError(t, err)
		require.Equal(t, game.Board.Encode(), space.State(index))
		visited++
		if depth <= 5 {
			shallow++
		}

		if game.IsFinished() {
			return
		}
		for _, move := range tictactoe.LegalMoves(game.Board) {
			next := *game
			_, _, err := tictactoe.Apply(&next, move, game.Turn)
			require.NoError(t, err)
			walk(&next, depth+1)
		}
	}
	walk(entity.NewGame(), 0)

	// Then: every node of the game tree was found in the space,
	// including all 18,730 positions of games of length <= 5
	assert.Equal(t, 18730, shallow)
	assert.Equal(t, 549946, visited)
}
