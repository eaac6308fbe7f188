package fatvol

import (
	"io"
	"os"
)

// A FileSystemLike is a named filesystem offering POSIX-style access to
// the files and directories of one volume.
type FileSystemLike interface {
	// Name returns the name the filesystem was created with.
	Name() string
	// Open opens name with os.O_* flags.
	Open(name string, flags int) (FileHandle, error)
	Remove(name string) error
	Rename(oldName, newName string) error
	Stat(name string) (*DirEntry, error)
	// Mkdir creates a directory. Implementations without a permission
	// model ignore perm.
	Mkdir(name string, perm os.FileMode) error
	OpenDir(name string) (DirHandle, error)
	CloseDir(dir DirHandle) error
	// Format erases the volume.
	Format() error
}

// FileHandle is an open file.
type FileHandle interface {
	io.ReadWriteSeeker
	io.Closer
	Name() string
	Sync() error
	// Len returns the current file length.
	Len() int64
}

// DirHandle is an open directory cursor.
type DirHandle interface {
	// ReadDir returns the next entry, or io.EOF after the last one.
	ReadDir() (*DirEntry, error)
	Rewind() error
	// Tell returns the index of the next entry ReadDir will return.
	Tell() int64
	// Seek positions the cursor so the next ReadDir returns entry loc.
	Seek(loc int64) error
	Close() error
}
