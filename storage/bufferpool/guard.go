package bufferpool

import (
	"sync/atomic"

	"corestore/storage/page"
)

// BasicGuard is a scoped, pin-owning handle to a frame: a pointer-typed
// stand-in for a move-only RAII guard. Go has neither destructors nor
// move semantics, so ownership transfer here is just "pass the same
// *BasicGuard around". The thing this type adds over a bare *Frame is the
// idempotent Drop() that releases the pin exactly once.
type BasicGuard struct {
	bpm     *BufferPoolManager
	frame   *Frame
	dirty   bool
	dropped atomic.Bool
}

func newBasicGuard(bpm *BufferPoolManager, frame *Frame) *BasicGuard {
	return &BasicGuard{bpm: bpm, frame: frame}
}

// PageID returns the guarded page's id.
func (g *BasicGuard) PageID() page.ID { return g.frame.PageID() }

// Data returns the guarded frame's byte buffer.
func (g *BasicGuard) Data() []byte { return g.frame.Data() }

// SetDirty is BasicGuard's explicit dirty flag mutator. The flag defaults
// to false and is only ever forwarded to UnpinPage on Drop if set here.
func (g *BasicGuard) SetDirty(dirty bool) { g.dirty = dirty }

// Drop releases the pin (forwarding whatever dirty flag was last set via
// SetDirty). Safe to call more than once; only the first call has effect.
func (g *BasicGuard) Drop() {
	if !g.dropped.CompareAndSwap(false, true) {
		return
	}
	g.bpm.UnpinPage(g.frame.PageID(), g.dirty)
}

// ReadGuard additionally holds the frame's read latch, released before the
// pin on Drop. Its dirty flag is always false: a reader cannot have
// modified the page.
type ReadGuard struct {
	basic *BasicGuard
}

func newReadGuard(bpm *BufferPoolManager, frame *Frame) *ReadGuard {
	frame.Latch.RLock()
	return &ReadGuard{basic: newBasicGuard(bpm, frame)}
}

// PageID returns the guarded page's id.
func (g *ReadGuard) PageID() page.ID { return g.basic.PageID() }

// Data returns the guarded frame's byte buffer, valid to read for as long
// as the guard is held.
func (g *ReadGuard) Data() []byte { return g.basic.Data() }

// Drop releases the read latch, then the pin. Idempotent.
func (g *ReadGuard) Drop() {
	if !g.basic.dropped.CompareAndSwap(false, true) {
		return
	}
	g.basic.frame.Latch.RUnlock()
	g.basic.bpm.UnpinPage(g.basic.frame.PageID(), false)
}

// WriteGuard additionally holds the frame's write latch, released before
// the pin on Drop. Its dirty flag is always true: holding a WriteGuard at
// all implies potential mutation.
type WriteGuard struct {
	basic *BasicGuard
}

func newWriteGuard(bpm *BufferPoolManager, frame *Frame) *WriteGuard {
	frame.Latch.Lock()
	return &WriteGuard{basic: newBasicGuard(bpm, frame)}
}

// PageID returns the guarded page's id.
func (g *WriteGuard) PageID() page.ID { return g.basic.PageID() }

// Data returns the guarded frame's byte buffer, mutable for as long as the
// guard is held.
func (g *WriteGuard) Data() []byte { return g.basic.Data() }

// Drop releases the write latch, then the pin (always marking dirty).
// Idempotent.
func (g *WriteGuard) Drop() {
	if !g.basic.dropped.CompareAndSwap(false, true) {
		return
	}
	g.basic.frame.Latch.Unlock()
	g.basic.bpm.UnpinPage(g.basic.frame.PageID(), true)
}

// NewPageGuarded is the BasicGuard-returning wrapper for NewPage.
func (bpm *BufferPoolManager) NewPageGuarded() (page.ID, *BasicGuard, bool) {
	id, frame, ok := bpm.NewPage()
	if !ok {
		return page.InvalidID, nil, false
	}
	return id, newBasicGuard(bpm, frame), true
}

// FetchPageBasic fetches id and wraps it in a BasicGuard.
func (bpm *BufferPoolManager) FetchPageBasic(id page.ID) (*BasicGuard, bool) {
	frame, ok := bpm.FetchPage(id)
	if !ok {
		return nil, false
	}
	return newBasicGuard(bpm, frame), true
}

// FetchPageRead fetches id, pins it, and acquires its read latch, taken
// after the frame is safely pinned and the pool latch released, to avoid
// any ordering deadlock between the pool latch and per-page latches.
func (bpm *BufferPoolManager) FetchPageRead(id page.ID) (*ReadGuard, bool) {
	frame, ok := bpm.FetchPage(id)
	if !ok {
		return nil, false
	}
	return newReadGuard(bpm, frame), true
}

// FetchPageWrite fetches id, pins it, and acquires its write latch, with
// the same ordering guarantee as FetchPageRead.
func (bpm *BufferPoolManager) FetchPageWrite(id page.ID) (*WriteGuard, bool) {
	frame, ok := bpm.FetchPage(id)
	if !ok {
		return nil, false
	}
	return newWriteGuard(bpm, frame), true
}
