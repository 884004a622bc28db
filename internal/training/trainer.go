package training

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-rl/internal/agent"
	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rl/internal/tictactoe"
)

var ErrInvalidSchedule = errors.New("episodes and evaluation frequency must be positive")

// Checkpoint is one evaluation of player 1 against the baseline.
type Checkpoint struct {
	Episode  int     `json:"episode"`
	Reward   float64 `json:"reward"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	Draws    int     `json:"draws"`
	EpsilonX float64 `json:"epsilon_x"`
	EpsilonO float64 `json:"epsilon_o"`
}

// Recorder receives checkpoints as they are produced.
type Recorder interface {
	Record(ctx context.Context, checkpoint Checkpoint) error
}

type Result struct {
	Episodes    int          `json:"episodes"`
	XWins       int          `json:"x_wins"`
	OWins       int          `json:"o_wins"`
	Draws       int          `json:"draws"`
	Checkpoints []Checkpoint `json:"checkpoints"`
}

// Rewards is the evaluation signal, one value per checkpoint.
func (that Result) Rewards() []float64 {
	rewards := make([]float64, 0, len(that.Checkpoints))
	for _, checkpoint := range that.Checkpoints {
		rewards = append(rewards, checkpoint.Reward)
	}

	return rewards
}

type Option func(t *Trainer)

// WithEvaluation plays games greedy games against baseline every episodes.
func WithEvaluation(every, games int, baseline agent.Policy) Option {
	return func(t *Trainer) {
		t.evalEvery = every
		t.evalGames = games
		t.baseline = baseline
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(t *Trainer) {
		if recorder != nil {
			t.recorders = append(t.recorders, recorder)
		}
	}
}

// WithBoardDisplay prints every board of every training game.
func WithBoardDisplay(w io.Writer, render func(entity.Board) string) Option {
	return func(t *Trainer) {
		t.display = w
		if render != nil {
			t.render = render
		}
	}
}

// pending is a half-move waiting for the opponent's reply.
type pending struct {
	before entity.Board
	action int
	reward float64
	ok     bool
}

// Trainer runs self-play between two learners. Player 1 moves first.
type Trainer struct {
	logger *slog.Logger

	players   [2]agent.Policy
	baseline  agent.Policy
	evalEvery int
	evalGames int
	recorders []Recorder

	display io.Writer
	render  func(entity.Board) string
}

func NewTrainer(logger *slog.Logger, player1, player2 agent.Policy, options ...Option) (*Trainer, error) {
	if player1.Mark() != entity.FirstMover || player2.Mark() != entity.FirstMover.Opponent() {
		return nil, ErrMarkMismatch
	}

	t := &Trainer{
		logger:  logger.With("component", "trainer"),
		players: [2]agent.Policy{player1, player2},
		render:  entity.Board.String,
	}
	for _, option := range options {
		option(t)
	}

	if t.baseline != nil {
		if t.evalEvery <= 0 {
			return nil, ErrInvalidSchedule
		}
		if t.baseline.Mark() != player2.Mark() {
			return nil, fmt.Errorf("baseline: %w", ErrMarkMismatch)
		}
	}

	return t, nil
}

// Run plays episodes self-play games. Both explorers decay after every
// episode. An engine error aborts the episode and the run.
func (that *Trainer) Run(ctx context.Context, episodes int) (Result, error) {
	log := that.logger.With("method", "Run")

	if episodes <= 0 {
		return Result{}, ErrInvalidSchedule
	}

	result := Result{}
	game := entity.NewGame()
	for episode := 0; episode < episodes; episode++ {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("training interrupted at episode %d: %w", episode, err)
		}

		that.printf("RUNNING NEW GAME# = %d\n", episode)
		if err := that.playEpisode(game); err != nil {
			return result, fmt.Errorf("episode %d: %w", episode, err)
		}
		that.printf("GAME RESULT = %s %s\n", game.Outcome, game.Winner)

		result.Episodes++
		switch {
		case game.Outcome == entity.OutcomeDraw:
			result.Draws++
		case game.Winner == entity.X:
			result.XWins++
		default:
			result.OWins++
		}
		log.Debug("episode finished", "episode", episode, "outcome", game.Outcome, "winner", game.Winner.String())

		that.anneal()

		if that.baseline == nil || episode%that.evalEvery != 0 {
			continue
		}

		checkpoint, err := that.evaluate(ctx, episode)
		if err != nil {
			return result, fmt.Errorf("evaluation at episode %d: %w", episode, err)
		}
		result.Checkpoints = append(result.Checkpoints, checkpoint)
		that.record(ctx, checkpoint)

		log.Info("checkpoint", "episode", episode, "reward", checkpoint.Reward,
			"wins", checkpoint.Wins, "losses", checkpoint.Losses, "draws", checkpoint.Draws,
			"epsilon_x", checkpoint.EpsilonX, "epsilon_o", checkpoint.EpsilonO)
	}

	return result, nil
}

// playEpisode alternates half-moves. A mover's transition is held until the
// opponent's reply resolves, then flushed with the board after that reply and
// the mover's own reward only. The move that ends the game is learned at once
// from its own terminal board.
func (that *Trainer) playEpisode(game *entity.Game) error {
	tictactoe.Reset(game)

	var buffered [2]pending
	turn := 0
	for {
		mover, waiting := that.players[turn], that.players[1-turn]

		before := game.Board
		action, err := mover.Act(before)
		if err != nil {
			return fmt.Errorf("player %s: %w", mover.Mark(), err)
		}

		canonical, after, err := tictactoe.Apply(game, action, mover.Mark())
		if err != nil {
			return fmt.Errorf("player %s: %w", mover.Mark(), err)
		}
		that.show(after)

		reward := tictactoe.Perspective(mover.Mark(), canonical)

		if held := buffered[1-turn]; held.ok {
			err = waiting.Update(agent.Transition{
				Before: held.before,
				Action: held.action,
				Reward: held.reward,
				After:  after,
			})
			if err != nil {
				return fmt.Errorf("update player %s: %w", waiting.Mark(), err)
			}
			buffered[1-turn] = pending{}
		}

		if game.IsFinished() {
			err = mover.Update(agent.Transition{Before: before, Action: action, Reward: reward, After: after})
			if err != nil {
				return fmt.Errorf("update player %s: %w", mover.Mark(), err)
			}

			return nil
		}

		buffered[turn] = pending{before: before, action: action, reward: reward, ok: true}
		turn = 1 - turn
	}
}

func (that *Trainer) anneal() {
	for _, player := range that.players {
		if explorer, ok := player.(agent.Explorer); ok {
			explorer.DecayEpsilon()
		}
	}
}

func (that *Trainer) evaluate(ctx context.Context, episode int) (Checkpoint, error) {
	match, err := Match(ctx, that.players[0], that.baseline, that.evalGames, nil)
	if err != nil {
		return Checkpoint{}, err
	}

	return Checkpoint{
		Episode:  episode,
		Reward:   match.Reward,
		Wins:     match.XWins,
		Losses:   match.OWins,
		Draws:    match.Draws,
		EpsilonX: epsilonOf(that.players[0]),
		EpsilonO: epsilonOf(that.players[1]),
	}, nil
}

func (that *Trainer) record(ctx context.Context, checkpoint Checkpoint) {
	log := that.logger.With("method", "record")

	for _, recorder := range that.recorders {
		if err := recorder.Record(ctx, checkpoint); err != nil {
			log.Error("failed to record checkpoint", "episode", checkpoint.Episode, "error", err)
		}
	}
}

func (that *Trainer) show(board entity.Board) {
	if that.display == nil {
		return
	}
	that.printf("%s", that.render(board))
}

func (that *Trainer) printf(format string, args ...any) {
	if that.display == nil {
		return
	}
	// display output is best effort
	_, _ = fmt.Fprintf(that.display, format, args...)
}

func epsilonOf(policy agent.Policy) float64 {
	if explorer, ok := policy.(agent.Explorer); ok {
		return explorer.Epsilon()
	}

	return 0
}
