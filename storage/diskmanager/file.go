package diskmanager

import (
	"fmt"
	"os"
	"sync"

	"corestore/storage/page"
)

// FileDiskManager backs pages by a single flat file, addressed by
// page.ID*page.Size byte offsets via ReadAt/WriteAt, the same
// offset-addressed-file approach as
// ShubhamNegi4-DaemonDB/storage_engine/disk_manager, minus that package's
// multi-file/fileID indirection, which has no use here: the buffer pool
// manager only ever sees one flat page-id space.
type FileDiskManager struct {
	mu   sync.Mutex
	file *os.File
}

// NewFileDiskManager opens (creating if necessary) the backing file at path.
func NewFileDiskManager(path string) (*FileDiskManager, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("open disk file %s: %w", path, err)
	}
	return &FileDiskManager{file: f}, nil
}

// Close releases the backing file handle.
func (dm *FileDiskManager) Close() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return dm.file.Close()
}

func (dm *FileDiskManager) ReadPage(id page.ID, buf []byte) error {
	if len(buf) != page.Size {
		return fmt.Errorf("read page %d: buffer size %d does not match page size %d", id, len(buf), page.Size)
	}

	dm.mu.Lock()
	defer dm.mu.Unlock()

	offset := int64(id) * int64(page.Size)
	n, err := dm.file.ReadAt(buf, offset)
	if err != nil && n == 0 {
		// Never-written page: contents are undefined; zero-fill.
		for i := range buf {
			buf[i] = 0
		}
		return nil
	}
	for i := n; i < page.Size; i++ {
		buf[i] = 0
	}
	return nil
}

func (dm *FileDiskManager) WritePage(id page.ID, buf []byte) error {
	if len(buf) != page.Size {
		return fmt.Errorf("write page %d: buffer size %d does not match page size %d", id, len(buf), page.Size)
	}

	dm.mu.Lock()
	defer dm.mu.Unlock()

	offset := int64(id) * int64(page.Size)
	if _, err := dm.file.WriteAt(buf, offset); err != nil {
		return fmt.Errorf("write page %d: %w", id, err)
	}
	return nil
}
