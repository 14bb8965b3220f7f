// Package replacer implements the LRU-K eviction policy used by the
// buffer pool manager to pick victim frames. Grounded in the original
// BusTub LRUKReplacer (original_source/CPP/buffer_pool_manager/lru_k_replacer.cpp),
// re-expressed with the map+mutex shape every Go analog in the retrieved
// pack uses for the same job (e.g.
// bietkhonhungvandi212-array-db/internal/storage/buffer/pool_lru.go,
// Adarsh-Kmt-DragonDB__lru_replacer.go). A generic cache library
// (ristretto, hashicorp/golang-lru) can't serve here: both are black-box
// caches with automatic, cost/recency-driven eviction, and this policy
// needs an explicit, inspectable record_access/set_evictable/remove/evict
// API gated by pin count; see DESIGN.md.
package replacer

import (
	"errors"
	"sync"

	"corestore/storage/page"
)

// ErrInvalidFrame is the fatal precondition-violation error for
// RecordAccess on an out-of-range frame id, or SetEvictable on an unknown
// one. This is a caller bug, not a recoverable outcome.
var ErrInvalidFrame = errors.New("replacer: invalid frame id")

type node struct {
	history   []int64 // oldest-first, capped at length k
	evictable bool
}

// LRUKReplacer selects eviction victims by the LRU-K rule: evict the frame
// with the largest backward k-distance (current_time minus the time of its
// kth-most-recent access); frames with fewer than k recorded accesses have
// +infinity backward k-distance and are preferred over any frame with a
// full history, tie-broken by earliest first access.
type LRUKReplacer struct {
	mu sync.Mutex

	nodes            map[page.FrameID]*node
	currentTimestamp int64
	currSize         int
	replacerSize     int
	k                int
}

// New returns an LRU-K replacer for a pool of numFrames frames, looking
// back k accesses.
func New(numFrames, k int) *LRUKReplacer {
	return &LRUKReplacer{
		nodes:        make(map[page.FrameID]*node),
		replacerSize: numFrames,
		k:            k,
	}
}

// RecordAccess appends an access timestamp for frameID, creating its
// history if this is the first access. Fails with ErrInvalidFrame if
// frameID is outside [0, replacerSize).
func (r *LRUKReplacer) RecordAccess(frameID page.FrameID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if frameID < 0 || int(frameID) >= r.replacerSize {
		return ErrInvalidFrame
	}

	n, ok := r.nodes[frameID]
	if !ok {
		n = &node{}
		r.nodes[frameID] = n
	}
	if len(n.history) == r.k {
		n.history = n.history[1:]
	}
	n.history = append(n.history, r.currentTimestamp)
	r.currentTimestamp++
	return nil
}

// SetEvictable marks frameID evictable or not. It is a no-op if the
// transition doesn't change the flag, and fails with ErrInvalidFrame if
// frameID was never recorded.
func (r *LRUKReplacer) SetEvictable(frameID page.FrameID, evictable bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.nodes[frameID]
	if !ok {
		return ErrInvalidFrame
	}

	switch {
	case n.evictable && !evictable:
		r.currSize--
	case !n.evictable && evictable:
		r.currSize++
	default:
		return nil
	}
	n.evictable = evictable
	return nil
}

// Remove clears frameID's history and un-marks it evictable. A no-op if
// frameID is unknown or currently pinned (not evictable); removal of a
// pinned frame is the caller's bug to avoid, not this replacer's to catch.
func (r *LRUKReplacer) Remove(frameID page.FrameID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.nodes[frameID]
	if !ok || !n.evictable {
		return
	}
	n.history = nil
	n.evictable = false
	r.currSize--
}

// Evict selects and returns a victim frame per the LRU-K rule, or false if
// no frame is currently evictable.
func (r *LRUKReplacer) Evict() (page.FrameID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currSize == 0 {
		return 0, false
	}

	var victim page.FrameID
	found := false
	hasInfiniteCandidate := false
	var maxDistance int64 = -1
	var earliestFirstAccess int64 = 1<<63 - 1

	for id, n := range r.nodes {
		if !n.evictable {
			continue
		}
		if len(n.history) != r.k {
			// +infinity backward k-distance tier: tie-break by earliest
			// first access. Once any such candidate is seen, finite-history
			// frames are never preferred over it.
			hasInfiniteCandidate = true
			if n.history[0] < earliestFirstAccess {
				earliestFirstAccess = n.history[0]
				victim = id
				found = true
			}
			continue
		}
		if hasInfiniteCandidate {
			continue
		}
		distance := r.currentTimestamp - n.history[0]
		if distance > maxDistance {
			maxDistance = distance
			victim = id
			found = true
		}
	}

	if !found {
		return 0, false
	}

	n := r.nodes[victim]
	n.history = nil
	n.evictable = false
	r.currSize--
	return victim, true
}

// Size returns the current number of evictable frames.
func (r *LRUKReplacer) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currSize
}
