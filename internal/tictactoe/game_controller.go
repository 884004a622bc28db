package tictactoe

import (
	"fmt"
	"slices"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
)

const (
	RewardNone = 0.0
	RewardWin  = 1.0
)

// LegalMoves - every cell index currently holding Empty.
func LegalMoves(board entity.Board) []int {
	return board.EmptyCells()
}

// IsWin - any row, column or diagonal holds three equal non-empty marks.
func IsWin(board entity.Board) bool {
	for _, combo := range entity.WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.Empty && a == b && b == c {
			return true
		}
	}

	return false
}

// IsDraw - the board is full and holds no winning line.
func IsDraw(board entity.Board) bool {
	return len(LegalMoves(board)) == 0 && !IsWin(board)
}

func IsTerminal(board entity.Board) bool {
	return IsWin(board) || len(LegalMoves(board)) == 0
}

// Reset - fresh board, first mover restored.
func Reset(gameInstance *entity.Game) {
	gameInstance.Reset()
}

// Apply places mark on action and reports the reward of that move relative
// to the mark's canonical value: +1 when X wins, -1 when O wins, 0 otherwise.
// The returned board is a snapshot. On error the game is left untouched.
func Apply(gameInstance *entity.Game, action int, mark entity.Mark) (float64, entity.Board, error) {
	if gameInstance.IsFinished() {
		return RewardNone, gameInstance.Board, apperror.ErrGameFinished
	}

	if err := validateMove(gameInstance, mark, action); err != nil {
		return RewardNone, gameInstance.Board, fmt.Errorf("invalid turn: %w", err)
	}

	gameInstance.Board[action] = mark
	updateGameStatus(gameInstance, mark)

	return reward(gameInstance, mark), gameInstance.Board, nil
}

// validateMove - checks if the move is valid.
func validateMove(gameInstance *entity.Game, mark entity.Mark, action int) error {
	if action < 0 || action >= entity.BoardSize {
		return fmt.Errorf("%w: %w: cell %d", apperror.ErrIllegalMove, apperror.ErrInvalidCell, action)
	}

	if gameInstance.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	if !slices.Contains(LegalMoves(gameInstance.Board), action) {
		return fmt.Errorf("%w: %w: cell %d", apperror.ErrIllegalMove, apperror.ErrCellOccupied, action)
	}

	return nil
}

// updateGameStatus - win check first, then draw check, otherwise pass the turn.
func updateGameStatus(gameInstance *entity.Game, mark entity.Mark) {
	switch {
	case IsWin(gameInstance.Board):
		gameInstance.Outcome = entity.OutcomeWin
		gameInstance.Winner = mark
		gameInstance.Turn = entity.Empty
	case IsDraw(gameInstance.Board):
		gameInstance.Outcome = entity.OutcomeDraw
		gameInstance.Winner = entity.Empty
		gameInstance.Turn = entity.Empty
	default:
		gameInstance.Outcome = entity.OutcomeOngoing
		gameInstance.Turn = mark.Opponent()
	}
}

func reward(gameInstance *entity.Game, mark entity.Mark) float64 {
	if gameInstance.Outcome != entity.OutcomeWin {
		return RewardNone
	}

	return RewardWin * float64(mark.Value())
}

// Perspective converts a canonical reward to the point of view of mark.
func Perspective(mark entity.Mark, canonical float64) float64 {
	return canonical * float64(mark.Value())
}
