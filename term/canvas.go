package term

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/phanxgames/crossmath"
)

// glyph is one terminal cell. Empty colours mean the terminal default.
type glyph struct {
	ch     rune
	fg, bg string
}

type canvas struct {
	cols, rows int
	cells      []glyph
	bg         crossmath.Color
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows, cells: make([]glyph, cols*rows)}
	for i := range c.cells {
		c.cells[i].ch = fillRune
	}
	return c
}

func (c *canvas) at(col, row int) *glyph {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return nil
	}
	return &c.cells[row*c.cols+col]
}

// span converts a layout rectangle to the terminal cells whose centres it
// covers, as half-open ranges.
func span(r crossmath.Rect) (c0, c1, r0, r1 int) {
	c0 = int(math.Round(r.X))
	c1 = int(math.Round(r.X + r.Width))
	r0 = int(math.Round(r.Y / aspect))
	r1 = int(math.Round((r.Y + r.Height) / aspect))
	return
}

func (c *canvas) fill(r crossmath.Rect, clr crossmath.Color) {
	hex := clr.Over(c.bg).Hex()
	c0, c1, r0, r1 := span(r)
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			if g := c.at(col, row); g != nil {
				g.ch, g.bg = fillRune, hex
			}
		}
	}
}

// text writes s centred on the layout point (x, y), keeping the background
// already painted under it.
func (c *canvas) text(s string, x, y float64, fg crossmath.Color) {
	runes := []rune(s)
	row := int(math.Floor(y / aspect))
	start := int(math.Floor(x)) - len(runes)/2
	for i, ch := range runes {
		if g := c.at(start+i, row); g != nil {
			g.ch, g.fg = ch, fg.Hex()
		}
	}
}

func (c *canvas) paint(rs crossmath.RenderState, p crossmath.Palette, button crossmath.Rect) {
	c.bg = p.Background
	l := rs.Layout
	for _, cell := range l.Cells {
		clr := p.Cell
		if rs.HasHighlight && rs.Highlight == cell.Cell() {
			clr = p.Highlight
		}
		c.fill(l.CellRect(cell.Row, cell.Col), clr)
	}
	for _, lb := range l.Labels {
		c.text(lb.Symbol, lb.X, lb.Y, p.Label)
	}
	for _, t := range rs.Tiles {
		clr := t.Color
		clr.A *= t.Alpha
		c.fill(t.Rect(), clr)
		c.text(t.Face, t.X, t.Y, p.Label)
	}
	for _, pt := range rs.Particles {
		if g := c.at(int(pt.X), int(pt.Y/aspect)); g != nil {
			g.ch, g.fg = '*', pt.Color.Hex()
		}
	}
	c.fill(button, p.Button)
	mid := button.Center()
	c.text("Reset", mid.X, mid.Y, p.Background)
}

// render emits the canvas row by row, styling runs of equal colour together.
func (c *canvas) render() string {
	styles := make(map[[2]string]lipgloss.Style)
	style := func(fg, bg string) lipgloss.Style {
		k := [2]string{fg, bg}
		s, ok := styles[k]
		if !ok {
			s = lipgloss.NewStyle()
			if fg != "" {
				s = s.Foreground(lipgloss.Color(fg))
			}
			if bg != "" {
				s = s.Background(lipgloss.Color(bg))
			}
			styles[k] = s
		}
		return s
	}

	var b strings.Builder
	var run []rune
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		line := c.cells[row*c.cols : (row+1)*c.cols]
		for i := 0; i < len(line); {
			j := i
			run = run[:0]
			for j < len(line) && line[j].fg == line[i].fg && line[j].bg == line[i].bg {
				run = append(run, line[j].ch)
				j++
			}
			if line[i].fg == "" && line[i].bg == "" {
				b.WriteString(string(run))
			} else {
				b.WriteString(style(line[i].fg, line[i].bg).Render(string(run)))
			}
			i = j
		}
	}
	return b.String()
}

// String returns the canvas characters without styling.
func (c *canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for _, g := range c.cells[row*c.cols : (row+1)*c.cols] {
			b.WriteRune(g.ch)
		}
	}
	return b.String()
}
