package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/exp/rand"

	"github.com/rocketscienceinc/tictactoe-rl/internal/agent"
	"github.com/rocketscienceinc/tictactoe-rl/internal/config"
	"github.com/rocketscienceinc/tictactoe-rl/internal/display"
	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rl/internal/report"
	"github.com/rocketscienceinc/tictactoe-rl/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rl/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-rl/internal/training"
	"github.com/rocketscienceinc/tictactoe-rl/transport/rest"
)

const (
	finalEstimateGames = 100
	topStates          = 5
)

var ErrAddrNotFound = errors.New("redis host is empty")

// RunApp - trains both agents by self-play, reports on them and optionally serves them over HTTP.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	rng := agent.NewRand(conf.Seed)
	playerX := newQAgent(entity.X, conf.Agents.X, rng)
	playerO := newQAgent(entity.O, conf.Agents.O, rng)
	baseline := agent.NewRandomPolicy(entity.O, rng)
	renderer := display.New(true)

	options := []training.Option{
		training.WithEvaluation(conf.Training.EvalEvery, conf.Training.EvalEpisodes, baseline),
	}
	if conf.Training.ShowBoard {
		options = append(options, training.WithBoardDisplay(os.Stdout, renderer.Render))
	}

	if conf.Report.CSVPath != "" {
		csvFile, err := os.Create(conf.Report.CSVPath)
		if err != nil {
			return fmt.Errorf("could not create checkpoint file: %w", err)
		}
		defer func() {
			if err = csvFile.Close(); err != nil {
				log.Error("could not close checkpoint file", "error", err)
			}
		}()
		options = append(options, training.WithRecorder(report.NewCSVWriter(csvFile)))
	}

	var runRecorder *repository.Recorder
	if conf.Redis.Enabled {
		redisStorage, err := openRedis(ctx, conf.Redis)
		if err != nil {
			return err
		}
		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		runRecorder = repository.NewRecorder(
			repository.NewCheckpointRepository(redisStorage.Connection),
			time.Now().UTC().Format("20060102T150405Z"),
		)
		options = append(options, training.WithRecorder(runRecorder))
		log.Info("Streaming checkpoints to redis", "run", runRecorder.RunID())
	}

	trainer, err := training.NewTrainer(logger, playerX, playerO, options...)
	if err != nil {
		return fmt.Errorf("could not create trainer: %w", err)
	}

	for _, player := range []*agent.QAgent{playerX, playerO} {
		log.Info("Agent parameters", "mark", player.Mark().String(),
			"alpha", player.Alpha(), "gamma", player.Gamma(), "epsilon", player.Epsilon(), "delta", player.Decay())
	}

	log.Info("Starting self-play", "episodes", conf.Training.Episodes)
	result, err := trainer.Run(ctx, conf.Training.Episodes)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	log.Info("Self-play finished",
		"episodes", result.Episodes, "x_wins", result.XWins, "o_wins", result.OWins, "draws", result.Draws,
		"epsilon_x", playerX.Epsilon(), "epsilon_o", playerO.Epsilon())

	if err = summarize(ctx, logger, renderer, playerX, playerO, baseline, conf.Training.DemoGames); err != nil {
		return err
	}

	if conf.Report.HTMLPath != "" {
		if err = writeHTML(conf.Report.HTMLPath, result.Checkpoints, playerX.CellValues()); err != nil {
			return err
		}
		log.Info("Report written", "path", conf.Report.HTMLPath)
	}

	if !conf.HTTP.Enabled {
		return nil
	}

	var checkpoints rest.CheckpointLister = rest.StaticCheckpoints(result.Checkpoints)
	if runRecorder != nil {
		checkpoints = runRecorder
	}

	server := rest.New(logger, rest.NewPingHandler(), rest.NewGameHandler(logger, playerX, playerO, checkpoints))
	log.Info("Starting HTTP server", "port", conf.HTTP.Port)
	if err = server.Start(ctx, conf.HTTP.Port); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")
	return nil
}

func newQAgent(mark entity.Mark, conf config.Agent, rng *rand.Rand) *agent.QAgent {
	return agent.NewQAgent(mark,
		agent.WithAlpha(conf.Alpha),
		agent.WithGamma(conf.Gamma),
		agent.WithEpsilon(conf.Epsilon),
		agent.WithDecay(conf.Delta),
		agent.WithRand(rng),
	)
}

// summarize plays the demo games between the learners, estimates X's
// strength against the baseline and prints what X has learned.
func summarize(
	ctx context.Context,
	logger *slog.Logger,
	renderer *display.Renderer,
	playerX, playerO *agent.QAgent,
	baseline agent.Policy,
	demoGames int,
) error {
	log := logger.With("component", "app", "method", "summarize")

	if demoGames > 0 {
		demo, err := training.Match(ctx, playerX, playerO, demoGames, renderer.Observer(os.Stdout))
		if err != nil {
			return fmt.Errorf("demo games failed: %w", err)
		}
		log.Info("Demo games finished", "games", demo.Games, "x_wins", demo.XWins, "o_wins", demo.OWins, "draws", demo.Draws)
	}

	estimate, err := training.Match(ctx, playerX, baseline, finalEstimateGames, nil)
	if err != nil {
		return fmt.Errorf("final estimate failed: %w", err)
	}
	log.Info("Final reward estimate", "games", estimate.Games, "reward", estimate.Reward, "mean", estimate.Mean(),
		"wins", estimate.XWins, "losses", estimate.OWins, "draws", estimate.Draws)

	fmt.Println("Mean Q-value by cell for X:")
	fmt.Print(renderer.RenderValues(playerX.CellValues()))
	fmt.Println("Best states for X:")
	for _, board := range playerX.TopStates(topStates) {
		fmt.Print(renderer.Render(board))
	}

	return nil
}

// openRedis connects to the configured Redis; an empty host is rejected up front.
func openRedis(ctx context.Context, conf config.Redis) (*storage.RedisStorage, error) {
	if conf.Host == "" {
		return nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.GetRedisAddr())
	if err != nil {
		return nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return redisStorage, nil
}

func writeHTML(path string, checkpoints []training.Checkpoint, cellValues [entity.BoardSize]float64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create report file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("could not close report file: %w", closeErr)
		}
	}()

	return report.RenderHTML(f, checkpoints, cellValues)
}
