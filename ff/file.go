package ff

import (
	"io"

	"github.com/go-git/go-billy/v5"
)

// file implements File. The file pointer and size are tracked here so
// that seeking past the end can be clamped or zero-filled as FatFs does.
type file struct {
	lib    *FS
	drive  int
	gen    uint32
	bf     billy.File
	mode   Mode
	size   int64
	pos    int64
	closed bool
}

// ensure file implements File
var _ File = (*file)(nil)

// check returns InvalidObject once the file is closed or its volume was
// unmounted or formatted. f.lib.mu must be held.
func (f *file) check() Result {
	if f.closed || !f.lib.live(f.drive, f.gen) {
		return InvalidObject
	}
	return OK
}

func (f *file) Read(p []byte) (int, Result) {
	f.lib.mu.Lock()
	defer f.lib.mu.Unlock()
	if res := f.check(); res != OK {
		return 0, res
	}
	if f.mode&ModeRead == 0 {
		return 0, Denied
	}
	remain := f.size - f.pos
	if remain <= 0 {
		return 0, OK
	}
	if int64(len(p)) > remain {
		p = p[:remain]
	}
	n, err := io.ReadFull(f.bf, p)
	f.pos += int64(n)
	if err != nil {
		return n, DiskErr
	}
	return n, OK
}

func (f *file) Write(p []byte) (int, Result) {
	f.lib.mu.Lock()
	defer f.lib.mu.Unlock()
	if res := f.check(); res != OK {
		return 0, res
	}
	if f.mode&ModeWrite == 0 {
		return 0, Denied
	}
	n, err := f.bf.Write(p)
	f.pos += int64(n)
	if f.pos > f.size {
		f.size = f.pos
	}
	if err != nil {
		return n, DiskErr
	}
	return n, OK
}

func (f *file) Seek(ofs int64) Result {
	f.lib.mu.Lock()
	defer f.lib.mu.Unlock()
	if res := f.check(); res != OK {
		return res
	}
	if ofs < 0 {
		return InvalidParameter
	}
	if ofs > f.size {
		if f.mode&ModeWrite == 0 {
			ofs = f.size
		} else {
			if err := f.bf.Truncate(ofs); err != nil {
				return DiskErr
			}
			f.size = ofs
		}
	}
	if _, err := f.bf.Seek(ofs, io.SeekStart); err != nil {
		return DiskErr
	}
	f.pos = ofs
	return OK
}

func (f *file) Tell() int64 {
	f.lib.mu.Lock()
	defer f.lib.mu.Unlock()
	return f.pos
}

func (f *file) Size() int64 {
	f.lib.mu.Lock()
	defer f.lib.mu.Unlock()
	return f.size
}

func (f *file) Truncate() Result {
	f.lib.mu.Lock()
	defer f.lib.mu.Unlock()
	if res := f.check(); res != OK {
		return res
	}
	if f.mode&ModeWrite == 0 {
		return Denied
	}
	if f.pos >= f.size {
		return OK
	}
	if err := f.bf.Truncate(f.pos); err != nil {
		return DiskErr
	}
	f.size = f.pos
	return OK
}

func (f *file) Sync() Result {
	f.lib.mu.Lock()
	defer f.lib.mu.Unlock()
	if res := f.check(); res != OK {
		return res
	}
	if syncer, ok := f.bf.(interface{ Sync() error }); ok {
		if err := syncer.Sync(); err != nil {
			return DiskErr
		}
	}
	return OK
}

// Close releases the file. The storage handle is released even when the
// object was invalidated by an unmount, but the result reports it.
func (f *file) Close() Result {
	f.lib.mu.Lock()
	defer f.lib.mu.Unlock()
	if f.closed {
		return InvalidObject
	}
	res := f.check()
	f.closed = true
	if err := f.bf.Close(); err != nil && res == OK {
		res = DiskErr
	}
	return res
}
