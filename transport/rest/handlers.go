package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/rocketscienceinc/tictactoe-rl/internal/agent"
	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rl/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rl/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-rl/internal/training"
)

type CheckpointLister interface {
	Checkpoints(ctx context.Context) ([]training.Checkpoint, error)
}

// StaticCheckpoints serves checkpoints kept in memory.
type StaticCheckpoints []training.Checkpoint

func (that StaticCheckpoints) Checkpoints(context.Context) ([]training.Checkpoint, error) {
	return that, nil
}

type MoveRequest struct {
	Board [entity.BoardSize]string `json:"board"`
}

type MoveResponse struct {
	Action  int                      `json:"action"`
	Board   [entity.BoardSize]string `json:"board"`
	Outcome entity.Outcome           `json:"outcome"`
	Winner  string                   `json:"winner"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type GameHandler interface {
	Move(ctx echo.Context) error
	Checkpoints(ctx echo.Context) error
}

type gameHandler struct {
	logger *slog.Logger

	// policies are not safe for concurrent use
	mu      sync.Mutex
	players map[entity.Mark]agent.Policy

	checkpoints CheckpointLister
}

func NewGameHandler(logger *slog.Logger, xPlayer, oPlayer agent.Policy, checkpoints CheckpointLister) GameHandler {
	return &gameHandler{
		logger:      logger.With("component", "rest"),
		players:     map[entity.Mark]agent.Policy{entity.X: xPlayer, entity.O: oPlayer},
		checkpoints: checkpoints,
	}
}

// Move lets the trained policy of the side to move answer the given board.
func (that *gameHandler) Move(ctx echo.Context) error {
	log := that.logger.With("method", "Move")

	var request MoveRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "malformed request"})
	}

	board, err := entity.ParseBoard(request.Board)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	game, err := entity.GameFromBoard(board)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	that.mu.Lock()
	player := that.players[game.Turn]
	action, err := player.ActGreedy(game.Board)
	that.mu.Unlock()
	if err != nil {
		log.Error("policy could not move", "mark", game.Turn.String(), "error", err)
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
	}

	if _, _, err = tictactoe.Apply(game, action, player.Mark()); err != nil {
		if errors.Is(err, apperror.ErrIllegalMove) {
			log.Error("policy chose an illegal move", "action", action, "error", err)
		}
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
	}

	log.Debug("answered move", "mark", player.Mark().String(), "action", action, "outcome", game.Outcome)

	return ctx.JSON(http.StatusOK, MoveResponse{
		Action:  action,
		Board:   game.Board.Strings(),
		Outcome: game.Outcome,
		Winner:  wireMark(game.Winner),
	})
}

func (that *gameHandler) Checkpoints(ctx echo.Context) error {
	log := that.logger.With("method", "Checkpoints")

	checkpoints, err := that.checkpoints.Checkpoints(ctx.Request().Context())
	if errors.Is(err, repository.ErrRunNotFound) {
		return ctx.JSON(http.StatusOK, []training.Checkpoint{})
	}
	if err != nil {
		log.Error("failed to list checkpoints", "error", err)
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
	}

	if checkpoints == nil {
		checkpoints = []training.Checkpoint{}
	}

	return ctx.JSON(http.StatusOK, checkpoints)
}

func wireMark(mark entity.Mark) string {
	if mark == entity.Empty {
		return ""
	}

	return mark.String()
}
