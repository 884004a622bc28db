package tictactoe

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	x = entity.X
	o = entity.O
	e = entity.Empty
)

func TestIsWin(t *testing.T) {
	tests := []struct {
		name  string
		board entity.Board
	}{
		{name: "row 0", board: entity.Board{x, x, x, o, o, e, e, e, e}},
		{name: "row 1", board: entity.Board{o, o, e, x, x, x, e, e, e}},
		{name: "row 2", board: entity.Board{e, e, e, o, o, e, x, x, x}},
		{name: "column 0", board: entity.Board{o, x, x, o, e, e, o, e, e}},
		{name: "column 1", board: entity.Board{x, o, e, e, o, x, e, o, x}},
		{name: "column 2", board: entity.Board{e, o, x, e, o, x, e, e, x}},
		{name: "main diagonal", board: entity.Board{x, o, e, e, x, o, e, e, x}},
		{name: "anti diagonal", board: entity.Board{x, x, o, e, o, e, o, e, x}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, IsWin(tt.board))
		})
	}

	t.Run("no complete line", func(t *testing.T) {
		// Given: boards without any complete line
		boards := []entity.Board{
			{},
			{x, o, x, e, o, e, o, x, e},
			{x, o, x, x, o, o, o, x, x},
			{x, x, o, o, o, x, x, o, x},
		}

		for _, board := range boards {
			// Then: no win is reported
			assert.False(t, IsWin(board), board.String())
		}
	})
}

func TestIsDraw(t *testing.T) {
	t.Run("Full board without a line", func(t *testing.T) {
		// Given: X O X / X O O / O X X
		board := entity.Board{x, o, x, x, o, o, o, x, x}

		// Then: it is a draw
		assert.True(t, IsDraw(board))
		assert.True(t, IsTerminal(board))
	})

	t.Run("Full board with a line is a win, not a draw", func(t *testing.T) {
		// Given: a full board where X owns the top row
		board := entity.Board{x, x, x, o, o, x, x, o, o}

		// Then: it is not a draw
		assert.False(t, IsDraw(board))
		assert.True(t, IsTerminal(board))
	})

	t.Run("Board with empty cells", func(t *testing.T) {
		// Given: a board in progress
		board := entity.Board{x, o, e, e, e, e, e, e, e}

		// Then: it is neither a draw nor terminal
		assert.False(t, IsDraw(board))
		assert.False(t, IsTerminal(board))
	})
}

func TestLegalMoves(t *testing.T) {
	// Given: a board with X in the centre and O in a corner
	board := entity.Board{o, e, e, e, x, e, e, e, e}

	// When: listing legal moves
	moves := LegalMoves(board)

	// Then: every empty index is returned in order
	assert.Equal(t, []int{1, 2, 3, 5, 6, 7, 8}, moves)
}

func TestApply(t *testing.T) {
	t.Run("Non-terminal move", func(t *testing.T) {
		// Given: a new game
		game := entity.NewGame()

		// When: X plays the centre
		reward, snapshot, err := Apply(game, 4, x)

		// Then: no reward, the turn passes to O and the snapshot reflects the move
		require.NoError(t, err)
		assert.Equal(t, RewardNone, reward)
		assert.Equal(t, entity.Board{e, e, e, e, x, e, e, e, e}, snapshot)
		assert.Equal(t, o, game.Turn)
		assert.Equal(t, entity.OutcomeOngoing, game.Outcome)
	})

	t.Run("Snapshot is a copy", func(t *testing.T) {
		// Given: a snapshot taken after the first move
		game := entity.NewGame()
		_, snapshot, err := Apply(game, 0, x)
		require.NoError(t, err)

		// When: the game continues
		_, _, err = Apply(game, 1, o)
		require.NoError(t, err)

		// Then: the earlier snapshot does not change
		assert.Equal(t, e, snapshot[1])
	})

	t.Run("Occupied cell is rejected and the board is unchanged", func(t *testing.T) {
		// Given: X holds cell 0
		game := entity.NewGame()
		_, _, err := Apply(game, 0, x)
		require.NoError(t, err)
		before := *game

		// When: O tries the same cell
		_, _, err = Apply(game, 0, o)

		// Then: the move is illegal and nothing changed
		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, before, *game)
	})

	t.Run("Out of range cell", func(t *testing.T) {
		// Given: a new game
		game := entity.NewGame()

		// When: a cell outside the board is played
		_, _, err := Apply(game, 20, x)
		_, _, errNegative := Apply(game, -1, x)

		// Then: both are illegal invalid cells
		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		require.ErrorIs(t, err, apperror.ErrInvalidCell)
		require.ErrorIs(t, errNegative, apperror.ErrInvalidCell)
		assert.Equal(t, entity.NewGame(), game)
	})

	t.Run("Out of turn", func(t *testing.T) {
		// Given: a new game, X to move
		game := entity.NewGame()

		// When: O moves first
		_, _, err := Apply(game, 1, o)

		// Then: the move is refused
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, entity.NewGame(), game)
	})

	t.Run("Move after game finished", func(t *testing.T) {
		// Given: a game X has already won
		game := &entity.Game{
			Board:   entity.Board{x, x, x, e, o, e, e, o, e},
			Outcome: entity.OutcomeWin,
			Winner:  x,
		}

		// When: O tries to move
		_, _, err := Apply(game, 3, o)

		// Then: ErrGameFinished is returned
		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("O win yields -1", func(t *testing.T) {
		// Given: O is about to complete the middle column
		game := &entity.Game{
			Board:   entity.Board{x, o, x, e, o, e, x, e, e},
			Turn:    o,
			Outcome: entity.OutcomeOngoing,
		}

		// When: O plays cell 7
		reward, _, err := Apply(game, 7, o)

		// Then: the canonical reward is -1 and O is the winner
		require.NoError(t, err)
		assert.Equal(t, -RewardWin, reward)
		assert.Equal(t, RewardWin, Perspective(o, reward))
		assert.Equal(t, entity.OutcomeWin, game.Outcome)
		assert.Equal(t, o, game.Winner)
	})

	t.Run("Draw yields 0", func(t *testing.T) {
		// Given: X O X / X O O / O X _ with X to move
		game := &entity.Game{
			Board:   entity.Board{x, o, x, x, o, o, o, x, e},
			Turn:    x,
			Outcome: entity.OutcomeOngoing,
		}

		// When: X fills the last cell
		reward, _, err := Apply(game, 8, x)

		// Then: the game is drawn with no reward
		require.NoError(t, err)
		assert.Equal(t, RewardNone, reward)
		assert.Equal(t, entity.OutcomeDraw, game.Outcome)
	})
}

func TestScenario_DiagonalWin(t *testing.T) {
	t.Run("Centre, corner, opposite corner does not finish the game", func(t *testing.T) {
		// Given: a fresh game
		game := entity.NewGame()

		// When: X plays 4, O plays 0, X plays 8
		for _, move := range []struct {
			action int
			mark   entity.Mark
		}{{4, x}, {0, o}, {8, x}} {
			_, _, err := Apply(game, move.action, move.mark)
			require.NoError(t, err)
		}

		// Then: O holds cell 0, so the main diagonal is not X's and play continues
		assert.False(t, IsWin(game.Board))
		assert.Equal(t, o, game.Turn)
	})

	t.Run("X completes the main diagonal", func(t *testing.T) {
		// Given: a fresh game
		game := entity.NewGame()
		Reset(game)

		// When: X plays 4, O plays 1, X plays 0, O plays 2, X plays 8
		var (
			reward float64
			board  entity.Board
			err    error
		)
		for _, move := range []struct {
			action int
			mark   entity.Mark
		}{{4, x}, {1, o}, {0, x}, {2, o}, {8, x}} {
			reward, board, err = Apply(game, move.action, move.mark)
			require.NoError(t, err)
		}

		// Then: the win is detected, X gets +1 and the game is terminal
		assert.True(t, IsWin(board))
		assert.Equal(t, RewardWin, reward)
		assert.Equal(t, RewardWin, Perspective(x, reward))
		assert.Equal(t, entity.OutcomeWin, game.Outcome)
		assert.Equal(t, x, game.Winner)
		assert.True(t, game.IsFinished())
	})
}
