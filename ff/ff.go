// Package ff is a FAT filesystem library with the FatFs call contract:
// numbered logical drives addressed as "N:/path", explicit mount and
// unmount of each drive, bitmask open modes, and FRESULT-style result
// codes instead of Go errors.
//
// Storage for each drive is supplied by a Media. MemoryMedia keeps drives
// in memory and HostMedia keeps each drive in a directory on the host,
// both through go-billy filesystems. A drive holds a 512-byte boot record
// written by Mkfs; a drive without one reports NoFilesystem.
package ff

import (
	"time"

	"github.com/rstms/fatvol"
	"github.com/rstms/fatvol/fattime"
)

// Library is the set of calls an adapter makes against the FAT library.
type Library interface {
	// Init links the media drivers. It must be called before any drive
	// can be accessed.
	Init() Result
	Mount(path string, opt MountOption) Result
	// Unmount unregisters a drive, discarding its state. Objects opened
	// on the drive become invalid.
	Unmount(path string) Result
	Open(path string, mode Mode) (File, Result)
	Unlink(path string) Result
	Rename(oldPath, newPath string) Result
	Stat(path string) (FileInfo, Result)
	Mkdir(path string) Result
	OpenDir(path string) (Dir, Result)
	// Mkfs creates a new volume on the drive named by path. au is the
	// allocation unit in bytes; 0 selects a default.
	Mkfs(path string, rule PartitionRule, au uint32) Result
}

// File is an open file object.
type File interface {
	Read(p []byte) (int, Result)
	Write(p []byte) (int, Result)
	// Seek moves the file pointer to ofs bytes from the start. Seeking
	// past the end extends a file opened for writing and clamps to the
	// end otherwise.
	Seek(ofs int64) Result
	Tell() int64
	Size() int64
	// Truncate cuts the file at the current file pointer.
	Truncate() Result
	Sync() Result
	Close() Result
}

// Dir is an open directory object.
type Dir interface {
	// Read returns the next entry. At the end of the directory it returns
	// a FileInfo with an empty Name and OK.
	Read() (FileInfo, Result)
	Rewind() Result
	Close() Result
}

// FileInfo is a directory entry as reported by Stat and Dir.Read.
type FileInfo struct {
	Name string
	Size int64
	Date uint16
	Time uint16
	Attr fatvol.DirectoryAttr
}

func (fi FileInfo) ModTime() time.Time {
	return fattime.Unpack(fattime.Join(fi.Date, fi.Time))
}

func (fi FileInfo) IsDir() bool {
	return fi.Attr.Has(fatvol.AttrDirectory)
}

// DirEntry converts fi to the package-neutral entry type.
func (fi FileInfo) DirEntry() *fatvol.DirEntry {
	return &fatvol.DirEntry{
		Name:    fi.Name,
		Size:    fi.Size,
		Attr:    fi.Attr,
		ModTime: fi.ModTime(),
	}
}
