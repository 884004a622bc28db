package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rl/internal/training"
)

// RenderHTML writes a page with the learning curve, the exploration
// schedule and a heatmap of per-cell values.
func RenderHTML(w io.Writer, checkpoints []training.Checkpoint, cellValues [entity.BoardSize]float64) error {
	page := components.NewPage()
	page.PageTitle = "tic-tac-toe self-play"
	page.AddCharts(
		rewardChart(checkpoints),
		epsilonChart(checkpoints),
		cellValueChart(cellValues),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	return nil
}

func episodes(checkpoints []training.Checkpoint) []string {
	axis := make([]string, 0, len(checkpoints))
	for _, checkpoint := range checkpoints {
		axis = append(axis, strconv.Itoa(checkpoint.Episode))
	}

	return axis
}

func rewardChart(checkpoints []training.Checkpoint) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Evaluation reward",
			Subtitle: "greedy X against a random O",
		}),
	)

	rewards := make([]opts.LineData, 0, len(checkpoints))
	for _, checkpoint := range checkpoints {
		rewards = append(rewards, opts.LineData{Value: checkpoint.Reward})
	}

	line.SetXAxis(episodes(checkpoints)).AddSeries("reward", rewards)

	return line
}

func epsilonChart(checkpoints []training.Checkpoint) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Exploration rate"}),
	)

	xSeries := make([]opts.LineData, 0, len(checkpoints))
	oSeries := make([]opts.LineData, 0, len(checkpoints))
	for _, checkpoint := range checkpoints {
		xSeries = append(xSeries, opts.LineData{Value: checkpoint.EpsilonX})
		oSeries = append(oSeries, opts.LineData{Value: checkpoint.EpsilonO})
	}

	line.SetXAxis(episodes(checkpoints)).
		AddSeries("epsilon X", xSeries).
		AddSeries("epsilon O", oSeries)

	return line
}

func cellValueChart(values [entity.BoardSize]float64) *charts.HeatMap {
	low, high := values[0], values[0]
	data := make([]opts.HeatMapData, 0, entity.BoardSize)
	for cell, v := range values {
		low, high = min(low, v), max(high, v)
		// rows are drawn bottom-up
		data = append(data, opts.HeatMapData{Value: [3]interface{}{cell % 3, 2 - cell/3, v}})
	}
	if low == high {
		high = low + 1
	}

	heatmap := charts.NewHeatMap()
	heatmap.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Mean Q-value by cell"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: []string{"bottom", "middle", "top"}}),
		charts.WithVisualMapOpts(opts.VisualMap{Min: float32(low), Max: float32(high)}),
	)
	heatmap.SetXAxis([]string{"left", "centre", "right"}).AddSeries("cell value", data)

	return heatmap
}
