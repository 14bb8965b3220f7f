// Package page defines the identifier types shared by the disk manager,
// the LRU-K replacer, and the buffer pool manager. It is kept as a small
// leaf package (no imports of its own) so the replacer never needs to know
// about the buffer pool, and vice versa, the same role
// ShubhamNegi4-DaemonDB's storage_engine/page package plays for the rest of
// that engine.
package page

// ID identifies a page on disk. InvalidID is reserved and never allocated by
// a BufferPoolManager.
type ID int64

// InvalidID is the reserved page id meaning "no page".
const InvalidID ID = -1

// FrameID identifies a slot in a buffer pool's fixed frame array, an
// integer in [0, pool_size).
type FrameID int

// Size is the fixed size, in bytes, of every page and every frame buffer.
const Size = 4096
