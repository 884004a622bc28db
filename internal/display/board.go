package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"

	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
)

// Renderer draws boards and value grids for the terminal.
type Renderer struct {
	au aurora.Aurora
}

// New returns a renderer; colors=false yields plain text.
func New(colors bool) *Renderer {
	return &Renderer{au: aurora.NewAurora(colors)}
}

func (that *Renderer) Glyph(mark entity.Mark) string {
	switch mark {
	case entity.X:
		return that.au.Red(mark.String()).String()
	case entity.O:
		return that.au.Blue(mark.String()).String()
	default:
		return mark.String()
	}
}

func (that *Renderer) Render(board entity.Board) string {
	return board.Render(that.Glyph)
}

// Observer prints every board it is given to w.
func (that *Renderer) Observer(w io.Writer) func(entity.Board) {
	return func(board entity.Board) {
		_, _ = fmt.Fprint(w, that.Render(board))
	}
}

// RenderValues prints a 3x3 grid of per-cell values, positive in green.
func (that *Renderer) RenderValues(values [entity.BoardSize]float64) string {
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		sb.WriteString("|")
		for col := 0; col < 3; col++ {
			v := values[row*3+col]
			cell := fmt.Sprintf(" %+.4f ", v)
			if v > 0 {
				sb.WriteString(that.au.Green(cell).String())
			} else {
				sb.WriteString(cell)
			}
			sb.WriteString("|")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
