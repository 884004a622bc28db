package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
)

// Outcome is the terminal condition of a game.
type Outcome string

const (
	OutcomeOngoing Outcome = "ongoing"
	OutcomeWin     Outcome = "win"
	OutcomeDraw    Outcome = "draw"
)

// FirstMover is restored on every reset.
const FirstMover = X

type Game struct {
	Board   Board   `json:"board"`
	Turn    Mark    `json:"turn"`
	Outcome Outcome `json:"outcome"`
	Winner  Mark    `json:"winner"`
}

func NewGame() *Game {
	return &Game{
		Board:   Board{},
		Turn:    FirstMover,
		Outcome: OutcomeOngoing,
		Winner:  Empty,
	}
}

// Reset clears the board and gives the move back to FirstMover.
func (that *Game) Reset() {
	*that = *NewGame()
}

// DetermineGameResult inspects the board only; it does not touch the game.
func (that *Game) DetermineGameResult() (Outcome, Mark) {
	for _, combo := range WinCombos {
		a, b, c := that.Board[combo[0]], that.Board[combo[1]], that.Board[combo[2]]
		if a != Empty && a == b && b == c {
			return OutcomeWin, a
		}
	}

	// the game will continue until all the squares are full
	for _, cell := range that.Board {
		if cell == Empty {
			return OutcomeOngoing, Empty
		}
	}

	return OutcomeDraw, Empty
}

func (that *Game) UpdateGameState() {
	switch outcome, winner := that.DetermineGameResult(); outcome {
	case OutcomeWin:
		that.Outcome = OutcomeWin
		that.Winner = winner
		that.Turn = Empty
	case OutcomeDraw:
		that.Outcome = OutcomeDraw
		that.Winner = Empty
		that.Turn = Empty
	default:
		that.Outcome = OutcomeOngoing
	}
}

func (that *Game) IsFinished() bool {
	return that.Outcome == OutcomeWin || that.Outcome == OutcomeDraw
}

func (that *Game) IsOngoing() bool {
	return that.Outcome == OutcomeOngoing
}

func (that *Game) ConfirmOngoingState() error {
	switch that.Outcome {
	case OutcomeWin, OutcomeDraw:
		return apperror.ErrGameFinished
	case OutcomeOngoing:
		return nil
	default:
		return fmt.Errorf("unknown game outcome: %s", that.Outcome)
	}
}

// GameFromBoard rebuilds a game from a bare board: the side to move is
// inferred from the mark counts and the outcome from the lines on it.
func GameFromBoard(board Board) (*Game, error) {
	xs, os := board.Count(X), board.Count(O)
	if xs != os && xs != os+1 {
		return nil, fmt.Errorf("%w: %d X against %d O", apperror.ErrUnknownState, xs, os)
	}

	game := &Game{Board: board, Turn: X, Outcome: OutcomeOngoing}
	if xs > os {
		game.Turn = O
	}
	game.UpdateGameState()

	return game, nil
}
