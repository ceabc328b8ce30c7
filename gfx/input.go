package gfx

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/crossmath"
)

// pointerInput reads the mouse as pointer 0 and touches as pointers 1-9.
type pointerInput struct {
	touchIDs  []ebiten.TouchID
	touchMap  [crossmath.MaxPointers]ebiten.TouchID
	touchUsed [crossmath.MaxPointers]bool
	lastX     [crossmath.MaxPointers]float64
	lastY     [crossmath.MaxPointers]float64
}

// poll appends this frame's samples to dst.
func (in *pointerInput) poll(dst []crossmath.PointerSample) []crossmath.PointerSample {
	mx, my := ebiten.CursorPosition()
	dst = append(dst, crossmath.PointerSample{
		ID:      0,
		X:       float64(mx),
		Y:       float64(my),
		Pressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
	})

	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])
	var active [crossmath.MaxPointers]bool
	for _, tid := range in.touchIDs {
		slot := in.slot(tid)
		if slot < 0 {
			continue
		}
		active[slot] = true
		tx, ty := ebiten.TouchPosition(tid)
		in.lastX[slot], in.lastY[slot] = float64(tx), float64(ty)
		dst = append(dst, crossmath.PointerSample{ID: slot, X: in.lastX[slot], Y: in.lastY[slot], Pressed: true})
	}
	return in.releaseStale(active, dst)
}

// releaseStale lifts touch slots whose touch ended this frame, at their last
// known position, and frees the slot.
func (in *pointerInput) releaseStale(active [crossmath.MaxPointers]bool, dst []crossmath.PointerSample) []crossmath.PointerSample {
	for i := 1; i < crossmath.MaxPointers; i++ {
		if in.touchUsed[i] && !active[i] {
			dst = append(dst, crossmath.PointerSample{ID: i, X: in.lastX[i], Y: in.lastY[i]})
			in.touchUsed[i] = false
			in.touchMap[i] = 0
		}
	}
	return dst
}

// slot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (in *pointerInput) slot(tid ebiten.TouchID) int {
	for i := 1; i < crossmath.MaxPointers; i++ {
		if in.touchUsed[i] && in.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < crossmath.MaxPointers; i++ {
		if !in.touchUsed[i] {
			in.touchUsed[i] = true
			in.touchMap[i] = tid
			return i
		}
	}
	return -1
}
