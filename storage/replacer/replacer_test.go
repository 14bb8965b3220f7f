package replacer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corestore/storage/page"
)

func TestRecordAccessInvalidFrame(t *testing.T) {
	r := New(4, 2)
	require.Error(t, r.RecordAccess(-1))
	require.Error(t, r.RecordAccess(4))
	require.NoError(t, r.RecordAccess(0))
}

func TestSetEvictableUnknownFrame(t *testing.T) {
	r := New(4, 2)
	require.Error(t, r.SetEvictable(0, true))
}

func TestSetEvictableIsIdempotent(t *testing.T) {
	r := New(4, 2)
	require.NoError(t, r.RecordAccess(0))

	require.NoError(t, r.SetEvictable(0, true))
	assert.Equal(t, 1, r.Size())

	// Setting the same flag again must not double-count.
	require.NoError(t, r.SetEvictable(0, true))
	assert.Equal(t, 1, r.Size())

	require.NoError(t, r.SetEvictable(0, false))
	assert.Equal(t, 0, r.Size())
}

func TestRemoveIsNoOpOnPinnedOrUnknown(t *testing.T) {
	r := New(4, 2)
	r.Remove(0) // unknown: no-op, must not panic

	require.NoError(t, r.RecordAccess(0))
	r.Remove(0) // not evictable: no-op
	assert.Equal(t, 0, r.Size())

	require.NoError(t, r.SetEvictable(0, true))
	r.Remove(0)
	assert.Equal(t, 0, r.Size())
}

func TestEvictEmptyReplacerReturnsFalse(t *testing.T) {
	r := New(4, 2)
	_, ok := r.Evict()
	assert.False(t, ok)
}

// TestEvictTieBreak exercises the tie-break rules end to end: pool_size=7, k=2,
// accesses on frames 1,2,3,4,1,2,3,4,5,6. Frames 5 and 6 have fewer than
// k accesses (+infinity backward distance); between them, eviction prefers
// the earlier first access (5, then 6). Once both are gone, eviction
// falls back to the largest backward-2-distance among {1,2,3,4}, which is
// frame 1 (smallest, hence oldest, front timestamp).
func TestEvictTieBreak(t *testing.T) {
	r := New(7, 2)
	for _, f := range []page.FrameID{1, 2, 3, 4, 1, 2, 3, 4, 5, 6} {
		require.NoError(t, r.RecordAccess(f))
	}
	for _, f := range []page.FrameID{1, 2, 3, 4, 5, 6} {
		require.NoError(t, r.SetEvictable(f, true))
	}

	victim, ok := r.Evict()
	require.True(t, ok)
	assert.Equal(t, page.FrameID(5), victim)

	victim, ok = r.Evict()
	require.True(t, ok)
	assert.Equal(t, page.FrameID(6), victim)

	victim, ok = r.Evict()
	require.True(t, ok)
	assert.Equal(t, page.FrameID(1), victim)
}

func TestRecordAccessCapsHistoryAtK(t *testing.T) {
	r := New(2, 2)
	for i := 0; i < 5; i++ {
		require.NoError(t, r.RecordAccess(0))
	}
	require.NoError(t, r.SetEvictable(0, true))
	require.NoError(t, r.RecordAccess(1))
	require.NoError(t, r.SetEvictable(1, true))

	// Frame 1 has < k accesses (infinite distance), so it is always
	// preferred over frame 0, which has a full k-length history.
	victim, ok := r.Evict()
	require.True(t, ok)
	assert.Equal(t, page.FrameID(1), victim)
}

func TestEvictRespectsEvictableFlag(t *testing.T) {
	r := New(2, 2)
	require.NoError(t, r.RecordAccess(0))
	require.NoError(t, r.RecordAccess(1))
	require.NoError(t, r.SetEvictable(1, true))

	victim, ok := r.Evict()
	require.True(t, ok)
	assert.Equal(t, page.FrameID(1), victim)
}
