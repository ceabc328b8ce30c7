package gfx

import (
	"fmt"
	"image/color"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const statsInterval = 5.0 // seconds between debug stat lines

// frameStats accumulates per-frame timings. They are only reported when the
// logger is at debug level.
type frameStats struct {
	updateTime time.Duration
	drawTime   time.Duration
	frames     int
	elapsed    float64
}

func (fs *frameStats) addUpdate(d time.Duration) { fs.updateTime += d }

func (fs *frameStats) addDraw(d time.Duration) { fs.drawTime += d }

// tick advances the window by dt and reports the averages once per interval.
func (fs *frameStats) tick(dt float64, logger *log.Logger, tiles, animating, particles int) {
	fs.frames++
	fs.elapsed += dt
	if fs.elapsed < statsInterval {
		return
	}
	if logger.GetLevel() <= log.DebugLevel {
		n := time.Duration(fs.frames)
		logger.Debug("frame stats",
			"fps", fmt.Sprintf("%.1f", ebiten.ActualFPS()),
			"tps", fmt.Sprintf("%.1f", ebiten.ActualTPS()),
			"update", (fs.updateTime / n).Round(time.Microsecond),
			"draw", (fs.drawTime / n).Round(time.Microsecond),
			"tiles", tiles,
			"animating", animating,
			"particles", particles,
		)
	}
	*fs = frameStats{}
}

// fpsOverlay renders FPS and TPS in the top-left corner, refreshed every
// half second.
type fpsOverlay struct {
	img        *ebiten.Image
	lastUpdate float64
}

func newFPSOverlay() *fpsOverlay {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	return &fpsOverlay{img: ebiten.NewImage(100, 32), lastUpdate: 0.5}
}

func (o *fpsOverlay) update(dt float64) {
	o.lastUpdate += dt
	if o.lastUpdate < 0.5 {
		return
	}
	o.lastUpdate = 0
	o.img.Clear()
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}

func (o *fpsOverlay) draw(dst *ebiten.Image) {
	dst.DrawImage(o.img, nil)
}
