package training

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rl/internal/agent"
	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rl/internal/tictactoe"
)

var ErrMarkMismatch = errors.New("players must play X and O")

// Observer sees every board a game passes through.
type Observer func(board entity.Board)

// MatchResult sums greedy games; Reward is from X's point of view.
type MatchResult struct {
	Games  int     `json:"games"`
	Reward float64 `json:"reward"`
	XWins  int     `json:"x_wins"`
	OWins  int     `json:"o_wins"`
	Draws  int     `json:"draws"`
}

// Mean is the average reward per game, 0 when no game was played.
func (that MatchResult) Mean() float64 {
	if that.Games == 0 {
		return 0
	}

	return that.Reward / float64(that.Games)
}

// Match plays greedy games between two policies without learning.
func Match(ctx context.Context, xPlayer, oPlayer agent.Policy, games int, observe Observer) (MatchResult, error) {
	if xPlayer.Mark() != entity.X || oPlayer.Mark() != entity.O {
		return MatchResult{}, ErrMarkMismatch
	}

	var result MatchResult
	game := entity.NewGame()
	for i := 0; i < games; i++ {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("match interrupted after %d games: %w", i, err)
		}

		reward, err := playGreedy(game, xPlayer, oPlayer, observe)
		if err != nil {
			return result, fmt.Errorf("game %d: %w", i, err)
		}

		result.Games++
		result.Reward += reward
		switch {
		case game.Outcome == entity.OutcomeDraw:
			result.Draws++
		case game.Winner == entity.X:
			result.XWins++
		default:
			result.OWins++
		}
	}

	return result, nil
}

// playGreedy returns the reward of the final move.
func playGreedy(game *entity.Game, xPlayer, oPlayer agent.Policy, observe Observer) (float64, error) {
	tictactoe.Reset(game)

	players := map[entity.Mark]agent.Policy{entity.X: xPlayer, entity.O: oPlayer}
	reward := tictactoe.RewardNone
	for game.IsOngoing() {
		player := players[game.Turn]

		action, err := player.ActGreedy(game.Board)
		if err != nil {
			return 0, fmt.Errorf("player %s: %w", player.Mark(), err)
		}

		reward, _, err = tictactoe.Apply(game, action, player.Mark())
		if err != nil {
			return 0, fmt.Errorf("player %s: %w", player.Mark(), err)
		}

		if observe != nil {
			observe(game.Board)
		}
	}

	return reward, nil
}
