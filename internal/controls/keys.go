package controls

import "sync/atomic"

// MaxKeys is the number of keys a Keys value can track.
const MaxKeys = 32

// KeyReader reports the held state of a small direct-wired keyboard.
type KeyReader interface {
	Pressed(i int) bool
}

// Keys is a lock-free key matrix. Writers are UI or terminal goroutines; the
// control tick scans it.
type Keys struct {
	state atomic.Uint32
}

func (k *Keys) Press(i int) {
	if i < 0 || i >= MaxKeys {
		return
	}
	bit := uint32(1) << uint(i)
	for {
		old := k.state.Load()
		if k.state.CompareAndSwap(old, old|bit) {
			return
		}
	}
}

func (k *Keys) Lift(i int) {
	if i < 0 || i >= MaxKeys {
		return
	}
	bit := uint32(1) << uint(i)
	for {
		old := k.state.Load()
		if k.state.CompareAndSwap(old, old&^bit) {
			return
		}
	}
}

// Toggle flips key i and reports whether it is now held.
func (k *Keys) Toggle(i int) bool {
	if i < 0 || i >= MaxKeys {
		return false
	}
	bit := uint32(1) << uint(i)
	for {
		old := k.state.Load()
		next := old ^ bit
		if k.state.CompareAndSwap(old, next) {
			return next&bit != 0
		}
	}
}

func (k *Keys) Pressed(i int) bool {
	if i < 0 || i >= MaxKeys {
		return false
	}
	return k.state.Load()&(uint32(1)<<uint(i)) != 0
}
