package report

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rl/internal/training"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var checkpoints = []training.Checkpoint{
	{Episode: 0, Reward: 12, Wins: 50, Losses: 38, Draws: 12, EpsilonX: 0.4999, EpsilonO: 0.4999},
	{Episode: 100, Reward: 41.5, Wins: 70, Losses: 29, Draws: 1, EpsilonX: 0.4899, EpsilonO: 0.25},
}

func TestCSVWriter(t *testing.T) {
	t.Run("writes the header once, then one row per checkpoint", func(t *testing.T) {
		// Given: an empty buffer
		var buf bytes.Buffer
		writer := NewCSVWriter(&buf)

		// When: two checkpoints are recorded
		for _, checkpoint := range checkpoints {
			require.NoError(t, writer.Record(context.Background(), checkpoint))
		}

		// Then: the output is a header and two rows
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "episode,reward,wins,losses,draws,epsilon_x,epsilon_o", lines[0])
		assert.Equal(t, "0,12,50,38,12,0.4999,0.4999", lines[1])
		assert.Equal(t, "100,41.5,70,29,1,0.4899,0.25", lines[2])
	})
}

func TestRenderHTML(t *testing.T) {
	// Given: checkpoints and cell values
	values := [entity.BoardSize]float64{0.1, 0, 0.1, 0, 0.4, 0, 0.1, 0, 0.1}

	// When: rendering the report
	var buf bytes.Buffer
	err := RenderHTML(&buf, checkpoints, values)

	// Then: the page carries every chart
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "Evaluation reward")
	assert.Contains(t, out, "Exploration rate")
	assert.Contains(t, out, "Mean Q-value by cell")
}

func TestRenderHTML_Empty(t *testing.T) {
	var buf bytes.Buffer

	err := RenderHTML(&buf, nil, [entity.BoardSize]float64{})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Evaluation reward")
}
