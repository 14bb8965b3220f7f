package bufferpool

import (
	"sync"

	"corestore/storage/page"
)

// Frame is a fixed-size in-memory slot that may hold one page. The buffer
// pool manager exclusively owns every field here except Data's contents,
// which the guard holder mutates under Latch once pinned, mirroring
// ShubhamNegi4-DaemonDB/storage_engine/page.Page's split between
// BufferPool-owned metadata and a caller-held content lock.
type Frame struct {
	// Latch is the frame's own reader/writer latch, acquired by guard
	// factories after the pool-wide latch is released: this is what lets
	// ReadGuard/WriteGuard hand out concurrent readers or an exclusive
	// writer on one page without blocking unrelated pool operations.
	Latch sync.RWMutex

	pageID   page.ID
	data     [page.Size]byte
	pinCount int32
	dirty    bool
}

// PageID returns the page currently resident in this frame.
func (f *Frame) PageID() page.ID { return f.pageID }

// Data returns the frame's backing byte buffer. Callers must hold Latch
// (RLock for reads, Lock for writes) before touching it.
func (f *Frame) Data() []byte { return f.data[:] }

// PinCount returns the number of outstanding pins on this frame.
func (f *Frame) PinCount() int32 { return f.pinCount }

// Dirty reports whether the frame has been modified since its last write
// to disk.
func (f *Frame) Dirty() bool { return f.dirty }

func (f *Frame) reset() {
	f.data = [page.Size]byte{}
	f.pageID = page.InvalidID
	f.pinCount = 0
	f.dirty = false
}
