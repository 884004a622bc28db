package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-rl/internal/training"
)

var ErrRunNotFound = errors.New("run not found")

type CheckpointRepository interface {
	Save(ctx context.Context, runID string, checkpoint training.Checkpoint) error
	List(ctx context.Context, runID string) ([]training.Checkpoint, error)
	DeleteRun(ctx context.Context, runID string) error
}

type dbCheckpoint struct {
	client *redis.Client
}

func NewCheckpointRepository(client *redis.Client) CheckpointRepository {
	return &dbCheckpoint{
		client: client,
	}
}

func checkpointKey(runID string) string {
	return "run:" + runID + ":checkpoints"
}

func (that *dbCheckpoint) Save(ctx context.Context, runID string, checkpoint training.Checkpoint) error {
	checkpointJSON, err := json.Marshal(checkpoint)
	if err != nil {
		return fmt.Errorf("could not marshal checkpoint: %w", err)
	}

	if err = that.client.RPush(ctx, checkpointKey(runID), checkpointJSON).Err(); err != nil {
		return fmt.Errorf("failed to push checkpoint: %w", err)
	}

	return nil
}

func (that *dbCheckpoint) List(ctx context.Context, runID string) ([]training.Checkpoint, error) {
	response, err := that.client.LRange(ctx, checkpointKey(runID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}

	if len(response) == 0 {
		return nil, ErrRunNotFound
	}

	checkpoints := make([]training.Checkpoint, 0, len(response))
	for _, raw := range response {
		var checkpoint training.Checkpoint
		if err = json.Unmarshal([]byte(raw), &checkpoint); err != nil {
			return nil, fmt.Errorf("failed to unmarshal checkpoint: %w", err)
		}
		checkpoints = append(checkpoints, checkpoint)
	}

	return checkpoints, nil
}

func (that *dbCheckpoint) DeleteRun(ctx context.Context, runID string) error {
	deleted, err := that.client.Del(ctx, checkpointKey(runID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	if deleted == 0 {
		return ErrRunNotFound
	}

	return nil
}

// Recorder binds the repository to one run so the trainer can stream into it.
type Recorder struct {
	repo  CheckpointRepository
	runID string
}

func NewRecorder(repo CheckpointRepository, runID string) *Recorder {
	return &Recorder{repo: repo, runID: runID}
}

func (that *Recorder) Record(ctx context.Context, checkpoint training.Checkpoint) error {
	return that.repo.Save(ctx, that.runID, checkpoint)
}

func (that *Recorder) RunID() string {
	return that.runID
}

// Checkpoints lists what has been recorded for the bound run.
func (that *Recorder) Checkpoints(ctx context.Context) ([]training.Checkpoint, error) {
	return that.repo.List(ctx, that.runID)
}
