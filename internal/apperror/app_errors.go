package apperror

import "errors"

var (
	ErrGameFinished  = errors.New("game is already finished")
	ErrNotYourTurn   = errors.New("it's not your turn")
	ErrCellOccupied  = errors.New("cell is already occupied")
	ErrInvalidCell   = errors.New("invalid cell index")
	ErrIllegalMove   = errors.New("action not in current legal-move set")
	ErrUnknownState  = errors.New("board is not in the state space")
	ErrNoLegalMoves  = errors.New("no legal moves")
	ErrInvalidConfig = errors.New("invalid configuration")
)
