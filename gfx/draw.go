package gfx

import (
	"bytes"
	"image/color"
	"math"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gobold"

	"github.com/phanxgames/crossmath"
)

const (
	labelScale  = 0.5  // label glyph size relative to the cell
	tileScale   = 0.45 // tile face glyph size relative to the tile
	buttonScale = 0.6
	outline     = 2
)

// fonts caches text/v2 faces by size. A nil source disables text.
type fonts struct {
	source *text.GoTextFaceSource
	faces  map[float64]*text.GoTextFace
}

func loadFonts(logger *log.Logger) *fonts {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		logger.Warn("font unavailable, drawing without text", "err", err)
		return &fonts{}
	}
	return &fonts{source: src, faces: make(map[float64]*text.GoTextFace)}
}

func (f *fonts) face(size float64) *text.GoTextFace {
	if f.source == nil {
		return nil
	}
	// Sizes are quantised so scaling animations do not grow the cache.
	size = float64(int(size*2+0.5)) / 2
	face, ok := f.faces[size]
	if !ok {
		face = &text.GoTextFace{Source: f.source, Size: size}
		f.faces[size] = face
	}
	return face
}

// drawCentered draws s centred on (x, y). It is a no-op without a font.
func (f *fonts) drawCentered(dst *ebiten.Image, s string, size, x, y float64, clr color.Color) {
	f.drawTurned(dst, s, size, x, y, 0, clr)
}

// drawTurned is drawCentered with the text rotated by angle about its centre.
func (f *fonts) drawTurned(dst *ebiten.Image, s string, size, x, y, angle float64, clr color.Color) {
	face := f.face(size)
	if face == nil || s == "" || size <= 0 {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Rotate(angle)
	op.GeoM.Translate(x, y)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, face, op)
}

// nrgba converts a crossmath colour for the vector and text packages.
func nrgba(c crossmath.Color) color.NRGBA {
	r, g, b, a := c.RGBA8()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

func fillRect(dst *ebiten.Image, r crossmath.Rect, clr color.Color) {
	vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), clr, true)
}

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.White)
	}
	return whitePixelImage
}

var quadIndices = []uint16{0, 1, 2, 0, 2, 3}

// corners returns the square of edge size centred on c and turned by angle,
// clockwise from the top-left.
func corners(c crossmath.Vec2, size, angle float64) [4]crossmath.Vec2 {
	h := size / 2
	sin, cos := math.Sincos(angle)
	offsets := [4]crossmath.Vec2{{X: -h, Y: -h}, {X: h, Y: -h}, {X: h, Y: h}, {X: -h, Y: h}}
	var out [4]crossmath.Vec2
	for i, o := range offsets {
		out[i] = crossmath.Vec2{X: c.X + o.X*cos - o.Y*sin, Y: c.Y + o.X*sin + o.Y*cos}
	}
	return out
}

// fillQuad draws a solid quad with straight-alpha vertex colours.
func fillQuad(dst *ebiten.Image, q [4]crossmath.Vec2, clr color.NRGBA) {
	var vs [4]ebiten.Vertex
	r, g, b, a := float32(clr.R)/255, float32(clr.G)/255, float32(clr.B)/255, float32(clr.A)/255
	for i, p := range q {
		vs[i] = ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			SrcX: 0.5, SrcY: 0.5,
			ColorR: r, ColorG: g, ColorB: b, ColorA: a,
		}
	}
	dst.DrawTriangles(vs[:], quadIndices, ensureWhitePixel(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func strokeQuad(dst *ebiten.Image, q [4]crossmath.Vec2, width float32, clr color.Color) {
	for i, p := range q {
		n := q[(i+1)%len(q)]
		vector.StrokeLine(dst, float32(p.X), float32(p.Y), float32(n.X), float32(n.Y), width, clr, true)
	}
}

// scene draws one RenderState. It holds no game state of its own.
type scene struct {
	palette crossmath.Palette
	button  crossmath.Rect
	fonts   *fonts
}

func (sc *scene) draw(dst *ebiten.Image, rs crossmath.RenderState) {
	dst.Fill(nrgba(sc.palette.Background))
	l := rs.Layout

	for _, st := range rs.Stars {
		fillRect(dst, crossmath.RectAround(crossmath.Vec2{X: st.X, Y: st.Y}, st.Size), nrgba(st.Color))
	}

	for i, c := range l.Cells {
		clr := sc.palette.Cell
		if rs.HasHighlight && rs.Highlight == c.Cell() {
			clr = sc.palette.Highlight
		}
		fillRect(dst, crossmath.RectAround(c.Center(), l.CellSize*rs.CellScale(i)), nrgba(clr))
	}
	label := nrgba(sc.palette.Label)
	for i, lb := range l.Labels {
		sc.fonts.drawCentered(dst, lb.Symbol, l.CellSize*labelScale, lb.X, lb.Y+rs.LabelOffset(i), label)
	}

	for _, t := range rs.Tiles {
		size := t.Size * t.Scale
		if size <= 0 {
			continue
		}
		q := corners(crossmath.Vec2{X: t.X, Y: t.Y}, size, t.Rotation)
		fill, ink := t.Color, sc.palette.Label
		fill.A *= t.Alpha
		ink.A *= t.Alpha
		fillQuad(dst, q, nrgba(fill))
		strokeQuad(dst, q, outline, nrgba(ink))
		sc.fonts.drawTurned(dst, t.Face, size*tileScale*t.FaceScale, t.X, t.Y, t.Rotation, nrgba(ink))
	}

	for _, p := range rs.Particles {
		fillRect(dst, crossmath.RectAround(crossmath.Vec2{X: p.X, Y: p.Y}, p.Size), nrgba(p.Color))
	}

	fillRect(dst, sc.button, nrgba(sc.palette.Button))
	c := sc.button.Center()
	sc.fonts.drawCentered(dst, "Reset", sc.button.Height*buttonScale, c.X, c.Y, nrgba(sc.palette.Background))
}
