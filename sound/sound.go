// Package sound plays procedurally generated feedback blips for crossmath
// drops. There are no audio assets; every sound is synthesised once at start.
package sound

import (
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/oto/v2"

	"github.com/phanxgames/crossmath"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
	Format       = oto.FormatFloat32LE

	maxVoices = 4
)

// Player plays snap and return blips. The zero value and a Player whose
// audio device failed to open are silent.
type Player struct {
	ctx    *oto.Context
	ready  chan struct{}
	volume float64
	snap   []byte
	back   []byte
	voices int32
	logger *log.Logger
}

// New opens the audio device when cfg enables sound. Failure to open it is
// logged as a warning and yields a silent Player.
func New(cfg crossmath.SoundConfig, logger *log.Logger) *Player {
	p := &Player{volume: clamp(cfg.Volume, 0, 1), logger: logger}
	if !cfg.Enabled {
		return p
	}
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, Format)
	if err != nil {
		if logger != nil {
			logger.Warn("audio unavailable, playing silently", "err", err)
		}
		return p
	}
	p.ctx, p.ready = ctx, ready
	p.snap = genSnap()
	p.back = genReturn()
	return p
}

// Enabled reports whether the device is open.
func (p *Player) Enabled() bool { return p != nil && p.ctx != nil }

// Drop plays the snap blip for a placed tile and the return blip otherwise.
func (p *Player) Drop(placed bool) {
	if placed {
		p.play(p.snap)
	} else {
		p.play(p.back)
	}
}

func (p *Player) play(samples []byte) {
	if !p.Enabled() || len(samples) == 0 || p.volume <= 0 {
		return
	}
	select {
	case <-p.ready:
	default:
		return
	}
	if atomic.AddInt32(&p.voices, 1) > maxVoices {
		atomic.AddInt32(&p.voices, -1)
		return
	}
	go func() {
		defer atomic.AddInt32(&p.voices, -1)
		player := p.ctx.NewPlayer(&sampleReader{data: samples})
		player.SetVolume(p.volume)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		if err := player.Close(); err != nil && p.logger != nil {
			p.logger.Debug("close player", "err", err)
		}
	}()
}

type sampleReader struct {
	data []byte
	pos  int
}

func (r *sampleReader) Read(b []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(b, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// ---- Synthesis ----------------------------------------------------------

// genSnap: short rising two-partial chirp.
func genSnap() []byte {
	n := int(0.09 * SampleRate)
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.02, 0.4, 0.3, 0.3)
		freq := 660 + 440*p
		s := math.Sin(2*math.Pi*freq*t)*0.5 + math.Sin(2*math.Pi*freq*2*t)*0.12
		putStereoF32(buf, i, s*env)
	}
	return buf
}

// genReturn: softer falling tone.
func genReturn() []byte {
	n := int(0.12 * SampleRate)
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.05, 0.3, 0.5, 0.4)
		freq := 440 - 120*p
		putStereoF32(buf, i, math.Sin(2*math.Pi*freq*t)*env*0.4)
	}
	return buf
}

// adsr returns an envelope at normalised progress [0,1]. attack, decay and
// release are fractions of the total duration.
func adsr(progress, attack, decay, sustain, release float64) float64 {
	switch {
	case progress < attack:
		return progress / attack
	case progress < attack+decay:
		return 1.0 - (progress-attack)/decay*(1.0-sustain)
	case progress < 1.0-release:
		return sustain
	default:
		return sustain * (1.0 - (progress-(1.0-release))/release)
	}
}

func makeBuf(n int) []byte { return make([]byte, n*8) }

// putStereoF32 writes a [-1,1] sample as float32 LE to both channels of frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(clamp(sample, -1, 1)))
	for c := 0; c < ChannelCount; c++ {
		o := i*8 + c*4
		buf[o] = byte(v)
		buf[o+1] = byte(v >> 8)
		buf[o+2] = byte(v >> 16)
		buf[o+3] = byte(v >> 24)
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
