package agent

import (
	"sort"

	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
)

// CellValues averages every Q entry of the states where the cell holds X.
// It is the per-square heatmap of the learned table.
func (that *QAgent) CellValues() [entity.BoardSize]float64 {
	var values [entity.BoardSize]float64
	for cell := range values {
		sum, count := 0.0, 0
		for index := 0; index < that.space.Len(); index++ {
			if that.space.State(index)[cell] != entity.X.Value() {
				continue
			}
			for _, q := range that.q[index] {
				sum += q
			}
			count += entity.BoardSize
		}
		if count > 0 {
			values[cell] = sum / float64(count)
		}
	}

	return values
}

// TopStates returns the n states with the highest total Q, best first.
func (that *QAgent) TopStates(n int) []entity.Board {
	n = min(max(n, 0), that.space.Len())

	totals := make([]float64, that.space.Len())
	order := make([]int, that.space.Len())
	for index, row := range that.q {
		order[index] = index
		for _, q := range row {
			totals[index] += q
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return totals[order[i]] > totals[order[j]]
	})

	boards := make([]entity.Board, 0, n)
	for _, index := range order[:n] {
		board, err := entity.Decode(that.space.State(index))
		if err != nil {
			// every enumerated state decodes
			panic(err)
		}
		boards = append(boards, board)
	}

	return boards
}
