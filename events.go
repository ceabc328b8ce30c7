package crossmath

// DropContext carries the outcome of a completed drag.
type DropContext struct {
	Tile     TileID
	Decision Decision
	// Released is where the tile was let go; Target is where it animates to.
	Released Vec2
	Target   Vec2
}

// ClickContext carries a press-and-release without drag motion.
type ClickContext struct {
	X, Y      float64
	Tile      TileID
	OnTile    bool
	PointerID int
}

type handlerKind uint8

const (
	handlerDrop handlerKind = iota
	handlerReset
	handlerClick
)

type dropHandler struct {
	id uint32
	fn func(DropContext)
}

type resetHandler struct {
	id uint32
	fn func()
}

type clickHandler struct {
	id uint32
	fn func(ClickContext)
}

type handlerRegistry struct {
	drop   []dropHandler
	reset  []resetHandler
	click  []clickHandler
	nextID uint32
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id   uint32
	reg  *handlerRegistry
	kind handlerKind
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.kind {
	case handlerDrop:
		h.reg.drop = removeHandler(h.reg.drop, func(x dropHandler) bool { return x.id == h.id })
	case handlerReset:
		h.reg.reset = removeHandler(h.reg.reset, func(x resetHandler) bool { return x.id == h.id })
	case handlerClick:
		h.reg.click = removeHandler(h.reg.click, func(x clickHandler) bool { return x.id == h.id })
	}
}

func removeHandler[T any](s []T, match func(T) bool) []T {
	for i := range s {
		if match(s[i]) {
			var zero T
			copy(s[i:], s[i+1:])
			s[len(s)-1] = zero
			return s[:len(s)-1]
		}
	}
	return s
}

func (r *handlerRegistry) addDrop(fn func(DropContext)) CallbackHandle {
	r.nextID++
	r.drop = append(r.drop, dropHandler{id: r.nextID, fn: fn})
	return CallbackHandle{id: r.nextID, reg: r, kind: handlerDrop}
}

func (r *handlerRegistry) addReset(fn func()) CallbackHandle {
	r.nextID++
	r.reset = append(r.reset, resetHandler{id: r.nextID, fn: fn})
	return CallbackHandle{id: r.nextID, reg: r, kind: handlerReset}
}

func (r *handlerRegistry) addClick(fn func(ClickContext)) CallbackHandle {
	r.nextID++
	r.click = append(r.click, clickHandler{id: r.nextID, fn: fn})
	return CallbackHandle{id: r.nextID, reg: r, kind: handlerClick}
}
