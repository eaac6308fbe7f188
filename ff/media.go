package ff

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
)

// Media supplies the storage behind each logical drive.
type Media interface {
	// Initialize prepares the drive for access. It is called each time
	// a drive is mounted or formatted.
	Initialize(drive int) error
	// Filesystem returns the storage of an initialized drive.
	Filesystem(drive int) (billy.Filesystem, error)
}

// MemoryMedia keeps every drive in a go-billy memfs. Contents survive
// unmount and remount for the lifetime of the MemoryMedia.
type MemoryMedia struct {
	mu    sync.Mutex
	disks map[int]billy.Filesystem
}

func NewMemoryMedia() *MemoryMedia {
	return &MemoryMedia{disks: make(map[int]billy.Filesystem)}
}

func (m *MemoryMedia) Initialize(drive int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.disks[drive]; !ok {
		m.disks[drive] = memfs.New()
	}
	return nil
}

func (m *MemoryMedia) Filesystem(drive int) (billy.Filesystem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	disk, ok := m.disks[drive]
	if !ok {
		return nil, os.ErrNotExist
	}
	return disk, nil
}

// HostMedia keeps drive N in the host directory Root/N.
type HostMedia struct {
	Root string
}

func NewHostMedia(root string) *HostMedia {
	return &HostMedia{Root: root}
}

func (h *HostMedia) dir(drive int) string {
	return filepath.Join(h.Root, strconv.Itoa(drive))
}

func (h *HostMedia) Initialize(drive int) error {
	return os.MkdirAll(h.dir(drive), 0o755)
}

func (h *HostMedia) Filesystem(drive int) (billy.Filesystem, error) {
	dir := h.dir(drive)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "media", Path: dir, Err: os.ErrInvalid}
	}
	return osfs.New(dir), nil
}
