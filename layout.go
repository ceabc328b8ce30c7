package crossmath

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Layout errors. ComputeLayout wraps these with the offending position.
var (
	ErrEmptyLayout   = errors.New("layout has no cells")
	ErrRaggedLayout  = errors.New("layout rows differ in width")
	ErrUnknownSymbol = errors.New("unknown layout symbol")
	ErrBadGeometry   = errors.New("invalid layout geometry")
)

// Symbols understood by ComputeLayout besides integers.
const (
	SymbolBlank  = ""
	SymbolFiller = "z"
)

// SymbolKind classifies one layout entry.
type SymbolKind uint8

const (
	SymbolKindBlank    SymbolKind = iota // droppable cell
	SymbolKindFiller                     // empty background, not droppable
	SymbolKindOperator                   // + − × ÷ =
	SymbolKindNumber                     // integer literal
)

// operators maps accepted operator spellings to their display form.
var operators = map[string]string{
	"+": "+",
	"−": "−",
	"-": "−",
	"×": "×",
	"*": "×",
	"x": "×",
	"÷": "÷",
	"/": "÷",
	"=": "=",
}

// PuzzleLayout is a rectangular grid of symbols, row-major.
type PuzzleLayout [][]string

// DefaultPuzzle is the fixed grid the game ships with.
var DefaultPuzzle = PuzzleLayout{
	{"4", "+", "", "+", "", "=", "15"},
	{"+", "z", "×", "z", "÷", "z", "z"},
	{"", "+", "", "×", "", "=", "24"},
	{"−", "z", "−", "z", "÷", "z", "z"},
	{"", "+", "", "−", "", "=", "14"},
	{"=", "z", "=", "z", "=", "z", "z"},
	{"3", "z", "12", "z", "4", "z", "z"},
}

// DroppableCell is a blank grid position that can receive a tile.
// X and Y are the cell centre.
type DroppableCell struct {
	Row int     `json:"row"`
	Col int     `json:"col"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
}

// Cell returns the grid address of the droppable cell.
func (d DroppableCell) Cell() Cell { return Cell{Row: d.Row, Col: d.Col} }

// Center returns the cell centre.
func (d DroppableCell) Center() Vec2 { return Vec2{d.X, d.Y} }

// Label is a non-droppable symbol drawn on the grid. X and Y are the centre.
type Label struct {
	Symbol string     `json:"symbol"`
	Kind   SymbolKind `json:"kind"`
	Row    int        `json:"row"`
	Col    int        `json:"col"`
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
}

// Layout is the computed geometry of a puzzle. It is immutable once built.
type Layout struct {
	Rows     int             `json:"rows"`
	Cols     int             `json:"cols"`
	CellSize float64         `json:"cellSize"`
	Gap      float64         `json:"gap"`
	Origin   Vec2            `json:"origin"`
	Cells    []DroppableCell `json:"cells"`
	Labels   []Label         `json:"labels"`
}

// ClassifySymbol reports the kind of a layout entry and its display form.
func ClassifySymbol(sym string) (SymbolKind, string, error) {
	switch sym {
	case SymbolBlank:
		return SymbolKindBlank, sym, nil
	case SymbolFiller:
		return SymbolKindFiller, sym, nil
	}
	if op, ok := operators[sym]; ok {
		return SymbolKindOperator, op, nil
	}
	if _, err := strconv.Atoi(sym); err == nil {
		return SymbolKindNumber, sym, nil
	}
	return 0, "", fmt.Errorf("%w: %q", ErrUnknownSymbol, sym)
}

// ComputeLayout derives droppable cells and labels from a puzzle.
// Cell (r, c) occupies the square whose top-left corner is
// origin + (c, r)·(cellSize+gap); reported coordinates are centres.
func ComputeLayout(puzzle PuzzleLayout, cellSize, gap float64, origin Vec2) (Layout, error) {
	if !finite(cellSize) || cellSize <= 0 {
		return Layout{}, fmt.Errorf("%w: cell size %v", ErrBadGeometry, cellSize)
	}
	if !finite(gap) || gap < 0 {
		return Layout{}, fmt.Errorf("%w: gap %v", ErrBadGeometry, gap)
	}
	if !finite(origin.X) || !finite(origin.Y) {
		return Layout{}, fmt.Errorf("%w: origin %v", ErrBadGeometry, origin)
	}
	if len(puzzle) == 0 || len(puzzle[0]) == 0 {
		return Layout{}, ErrEmptyLayout
	}

	cols := len(puzzle[0])
	l := Layout{
		Rows:     len(puzzle),
		Cols:     cols,
		CellSize: cellSize,
		Gap:      gap,
		Origin:   origin,
	}
	for r, row := range puzzle {
		if len(row) != cols {
			return Layout{}, fmt.Errorf("%w: row %d has %d columns, want %d", ErrRaggedLayout, r, len(row), cols)
		}
		for c, sym := range row {
			kind, display, err := ClassifySymbol(sym)
			if err != nil {
				return Layout{}, fmt.Errorf("cell (%d,%d): %w", r, c, err)
			}
			center := l.center(r, c)
			switch kind {
			case SymbolKindBlank:
				l.Cells = append(l.Cells, DroppableCell{Row: r, Col: c, X: center.X, Y: center.Y})
			case SymbolKindFiller:
			default:
				l.Labels = append(l.Labels, Label{Symbol: display, Kind: kind, Row: r, Col: c, X: center.X, Y: center.Y})
			}
		}
	}
	return l, nil
}

// MustComputeLayout is like ComputeLayout but panics on error.
func MustComputeLayout(puzzle PuzzleLayout, cellSize, gap float64, origin Vec2) Layout {
	l, err := ComputeLayout(puzzle, cellSize, gap, origin)
	if err != nil {
		panic(err)
	}
	return l
}

func (l Layout) pitch() float64 { return l.CellSize + l.Gap }

func (l Layout) center(row, col int) Vec2 {
	p := l.pitch()
	return Vec2{
		X: l.Origin.X + float64(col)*p + l.CellSize/2,
		Y: l.Origin.Y + float64(row)*p + l.CellSize/2,
	}
}

// CellRect returns the square occupied by grid position (row, col).
func (l Layout) CellRect(row, col int) Rect {
	return RectAround(l.center(row, col), l.CellSize)
}

// Bounds returns the rectangle covering the whole grid.
func (l Layout) Bounds() Rect {
	p := l.pitch()
	return Rect{
		X:      l.Origin.X,
		Y:      l.Origin.Y,
		Width:  float64(l.Cols)*p - l.Gap,
		Height: float64(l.Rows)*p - l.Gap,
	}
}

// Droppable returns the droppable cell at c, if any.
func (l Layout) Droppable(c Cell) (DroppableCell, bool) {
	for _, d := range l.Cells {
		if d.Row == c.Row && d.Col == c.Col {
			return d, true
		}
	}
	return DroppableCell{}, false
}

// FitCellSize returns the cell edge for which cols cells plus (cols-1) gaps of
// gapRatio·cell exactly fill width minus the horizontal padding.
func FitCellSize(width, padding float64, cols int, gapRatio float64) float64 {
	if cols <= 0 {
		return 0
	}
	return (width - 2*padding) / (float64(cols) + float64(cols-1)*gapRatio)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
