package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/rocketscienceinc/tictactoe-rl/internal/training"
)

var csvHeader = []string{"episode", "reward", "wins", "losses", "draws", "epsilon_x", "epsilon_o"}

// CSVWriter streams checkpoints as CSV rows. The header is written with the first row.
type CSVWriter struct {
	mu     sync.Mutex
	writer *csv.Writer
	header bool
}

func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{writer: csv.NewWriter(w)}
}

func (that *CSVWriter) Record(_ context.Context, checkpoint training.Checkpoint) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.header {
		if err := that.writer.Write(csvHeader); err != nil {
			return fmt.Errorf("failed to write checkpoint header: %w", err)
		}
		that.header = true
	}

	row := []string{
		strconv.Itoa(checkpoint.Episode),
		strconv.FormatFloat(checkpoint.Reward, 'f', -1, 64),
		strconv.Itoa(checkpoint.Wins),
		strconv.Itoa(checkpoint.Losses),
		strconv.Itoa(checkpoint.Draws),
		strconv.FormatFloat(checkpoint.EpsilonX, 'f', -1, 64),
		strconv.FormatFloat(checkpoint.EpsilonO, 'f', -1, 64),
	}
	if err := that.writer.Write(row); err != nil {
		return fmt.Errorf("failed to write checkpoint row: %w", err)
	}

	that.writer.Flush()
	if err := that.writer.Error(); err != nil {
		return fmt.Errorf("failed to flush checkpoint row: %w", err)
	}

	return nil
}
