// Package bufferpool provides a fixed-capacity page cache over a
// block-addressed disk: the BufferPoolManager, its LRU-K-backed victim
// selection, and the scoped PageGuard family that drives pin/unpin
// accounting.
//
// Grounded in ShubhamNegi4-DaemonDB/storage_engine/bufferpool for the Go
// idiom (frame array, page table, free list, a single coarse mutex) and in
// original_source/CPP/buffer_pool_manager for the exact contract (NewPage,
// FetchPage, UnpinPage, FlushPage, FlushAllPages, DeletePage).
//
// Disk I/O happens inside the pool-wide latch. That is acceptable for the
// test-scale workloads this core targets; a production buffer pool would
// pin the victim, drop the latch, perform I/O, then reacquire the latch to
// install the result. Left as a known limitation, not fixed silently.
package bufferpool

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"corestore/internal/corelog"
	"corestore/storage/diskmanager"
	"corestore/storage/page"
	"corestore/storage/replacer"
)

// Config configures a BufferPoolManager's fixed shape. No example repo in
// the retrieved pack reaches for a config/flag library for this:
// everything is constructor parameters, so Config is too.
type Config struct {
	// PoolSize is the number of frames the pool holds.
	PoolSize int
	// ReplacerK is the lookback constant k for the LRU-K replacer.
	ReplacerK int
}

// Option customizes a BufferPoolManager at construction time.
type Option func(*BufferPoolManager)

// WithLogger overrides the default stderr logger.
func WithLogger(l *slog.Logger) Option {
	return func(bpm *BufferPoolManager) { bpm.log = corelog.Scoped(l, "bufferpool") }
}

// BufferPoolManager owns the frame array, the page table, the free list,
// and the replacer. Every public operation is atomic with respect to every
// other public operation: a single mutex (latch) covers all of them,
// matching the source's std::mutex latch_.
type BufferPoolManager struct {
	latch sync.Mutex

	frames    []Frame
	pageTable map[page.ID]page.FrameID
	freeList  []page.FrameID
	replacer  *replacer.LRUKReplacer
	dm        diskmanager.DiskManager

	nextPageID atomic.Int64
	log        *slog.Logger
}

// New builds a BufferPoolManager per cfg, backed by dm.
func New(cfg Config, dm diskmanager.DiskManager, opts ...Option) *BufferPoolManager {
	if cfg.PoolSize <= 0 {
		panic("bufferpool: pool size must be positive")
	}
	if err := checkDiskManager(dm); err != nil {
		panic(err)
	}

	bpm := &BufferPoolManager{
		frames:    make([]Frame, cfg.PoolSize),
		pageTable: make(map[page.ID]page.FrameID, cfg.PoolSize),
		freeList:  make([]page.FrameID, cfg.PoolSize),
		replacer:  replacer.New(cfg.PoolSize, cfg.ReplacerK),
		dm:        dm,
		log:       corelog.Default("bufferpool"),
	}
	for i := range bpm.frames {
		bpm.frames[i].pageID = page.InvalidID
		bpm.freeList[i] = page.FrameID(i)
	}
	for _, opt := range opts {
		opt(bpm)
	}
	return bpm
}

// PoolSize returns the number of frames in the pool.
func (bpm *BufferPoolManager) PoolSize() int { return len(bpm.frames) }

// NewPage allocates a fresh page id and pins a frame for it, evicting a
// victim frame if the pool is saturated. Returns false if every frame is
// pinned.
func (bpm *BufferPoolManager) NewPage() (page.ID, *Frame, bool) {
	bpm.latch.Lock()
	defer bpm.latch.Unlock()

	frameID, ok := bpm.acquireVictim()
	if !ok {
		return page.InvalidID, nil, false
	}

	id := page.ID(bpm.nextPageID.Add(1) - 1)
	frame := &bpm.frames[frameID]
	frame.reset()
	frame.pageID = id
	frame.pinCount = 1

	bpm.pageTable[id] = frameID
	_ = bpm.replacer.RecordAccess(frameID)
	_ = bpm.replacer.SetEvictable(frameID, false)

	bpm.log.Debug("new page", "page_id", id, "frame_id", frameID)
	return id, frame, true
}

// FetchPage returns the frame holding id, pinning it, loading it from disk
// first if it is not already resident. Returns false if id is not resident
// and the pool is saturated by pinned frames.
func (bpm *BufferPoolManager) FetchPage(id page.ID) (*Frame, bool) {
	bpm.latch.Lock()
	defer bpm.latch.Unlock()

	if frameID, resident := bpm.pageTable[id]; resident {
		frame := &bpm.frames[frameID]
		frame.pinCount++
		_ = bpm.replacer.RecordAccess(frameID)
		_ = bpm.replacer.SetEvictable(frameID, false)
		bpm.log.Debug("fetch page hit", "page_id", id, "frame_id", frameID)
		return frame, true
	}

	frameID, ok := bpm.acquireVictim()
	if !ok {
		return nil, false
	}

	frame := &bpm.frames[frameID]
	frame.reset()
	if err := bpm.dm.ReadPage(id, frame.Data()); err != nil {
		bpm.log.Warn("fetch page disk read failed", "page_id", id, "err", err)
	}
	frame.pageID = id
	frame.pinCount = 1

	bpm.pageTable[id] = frameID
	_ = bpm.replacer.RecordAccess(frameID)
	_ = bpm.replacer.SetEvictable(frameID, false)

	bpm.log.Debug("fetch page miss", "page_id", id, "frame_id", frameID)
	return frame, true
}

// UnpinPage decrements id's pin count, marking it evictable once the count
// reaches zero. Returns false if id is not resident or was already
// unpinned. dirty, if true, sticks: it is OR'd into the frame's dirty
// flag and is never cleared here.
func (bpm *BufferPoolManager) UnpinPage(id page.ID, dirty bool) bool {
	bpm.latch.Lock()
	defer bpm.latch.Unlock()

	frameID, resident := bpm.pageTable[id]
	if !resident {
		return false
	}
	frame := &bpm.frames[frameID]
	if frame.pinCount <= 0 {
		return false
	}

	if dirty {
		frame.dirty = true
	}
	frame.pinCount--
	if frame.pinCount == 0 {
		_ = bpm.replacer.SetEvictable(frameID, true)
	}
	return true
}

// FlushPage unconditionally writes id's resident page to disk, regardless
// of its dirty flag, and clears the flag. Returns false if id is
// page.InvalidID or not resident.
func (bpm *BufferPoolManager) FlushPage(id page.ID) bool {
	bpm.latch.Lock()
	defer bpm.latch.Unlock()
	return bpm.flushPageLocked(id)
}

func (bpm *BufferPoolManager) flushPageLocked(id page.ID) bool {
	if id == page.InvalidID {
		return false
	}
	frameID, resident := bpm.pageTable[id]
	if !resident {
		return false
	}
	frame := &bpm.frames[frameID]
	if err := bpm.dm.WritePage(id, frame.Data()); err != nil {
		bpm.log.Warn("flush page disk write failed", "page_id", id, "err", err)
	}
	frame.dirty = false
	bpm.log.Debug("flush page", "page_id", id)
	return true
}

// FlushAllPages flushes every currently resident page.
//
// The reference implementation this is modeled on iterates frame indices
// 0..pool_size and calls FlushPage on each as if it were a page id, which
// only happens to work while every page id equals its frame index. This
// iterates the page table instead, which flushes the correct set of pages
// regardless of how ids and frames have diverged.
func (bpm *BufferPoolManager) FlushAllPages() {
	bpm.latch.Lock()
	defer bpm.latch.Unlock()

	for id := range bpm.pageTable {
		bpm.flushPageLocked(id)
	}
}

// DeletePage removes id from the pool. A no-op returning true if id is
// page.InvalidID or not resident. Fails with false if id is resident and
// still pinned.
func (bpm *BufferPoolManager) DeletePage(id page.ID) bool {
	bpm.latch.Lock()
	defer bpm.latch.Unlock()

	if id == page.InvalidID {
		return true
	}
	frameID, resident := bpm.pageTable[id]
	if !resident {
		return true
	}
	frame := &bpm.frames[frameID]
	if frame.pinCount > 0 {
		return false
	}

	bpm.replacer.Remove(frameID)
	frame.reset()
	delete(bpm.pageTable, id)
	bpm.freeList = append(bpm.freeList, frameID)

	bpm.log.Debug("delete page", "page_id", id)
	return true
}

// acquireVictim returns a free or evicted frame id, writing back its
// current contents first if dirty. The caller must hold bpm.latch.
func (bpm *BufferPoolManager) acquireVictim() (page.FrameID, bool) {
	if len(bpm.freeList) > 0 {
		frameID := bpm.freeList[0]
		bpm.freeList = bpm.freeList[1:]
		return frameID, true
	}

	frameID, ok := bpm.replacer.Evict()
	if !ok {
		return 0, false
	}

	frame := &bpm.frames[frameID]
	if frame.dirty {
		if err := bpm.dm.WritePage(frame.pageID, frame.Data()); err != nil {
			bpm.log.Warn("evict write-back failed", "page_id", frame.pageID, "err", err)
		}
	}
	delete(bpm.pageTable, frame.pageID)
	return frameID, true
}

// errNoDiskManager is the (wrapped) panic value of New when dm is nil.
var errNoDiskManager = errors.New("bufferpool: disk manager is nil")

func checkDiskManager(dm diskmanager.DiskManager) error {
	if dm == nil {
		return fmt.Errorf("bufferpool: %w", errNoDiskManager)
	}
	return nil
}
