package fat

import (
	"io"
	"io/fs"

	"github.com/rstms/fatvol"
	"github.com/rstms/fatvol/ff"
)

// File is an open file on a FileSystem. It owns the library file object
// and releases it on Close.
type File struct {
	name string
	fp   ff.File
}

var _ fatvol.FileHandle = (*File)(nil)

func newFile(name string, fp ff.File) *File {
	return &File{name: name, fp: fp}
}

func (f *File) Name() string {
	return f.name
}

func (f *File) Read(p []byte) (int, error) {
	n, res := f.fp.Read(p)
	if res != ff.OK {
		return n, f.fail("read", res)
	}
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (f *File) Write(p []byte) (int, error) {
	n, res := f.fp.Write(p)
	if res != ff.OK {
		return n, f.fail("write", res)
	}
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// Seek sets the position for the next Read or Write. Seeking past the
// end of a writable file extends it.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = f.fp.Tell()
	case io.SeekEnd:
		base = f.fp.Size()
	default:
		return f.fp.Tell(), &fs.PathError{Op: "seek", Path: f.name, Err: fs.ErrInvalid}
	}
	pos := base + offset
	if pos < 0 {
		return f.fp.Tell(), &fs.PathError{Op: "seek", Path: f.name, Err: fs.ErrInvalid}
	}
	if res := f.fp.Seek(pos); res != ff.OK {
		return f.fp.Tell(), f.fail("seek", res)
	}
	return f.fp.Tell(), nil
}

func (f *File) Sync() error {
	if res := f.fp.Sync(); res != ff.OK {
		return f.fail("sync", res)
	}
	return nil
}

// Truncate cuts the file at the current position.
func (f *File) Truncate() error {
	if res := f.fp.Truncate(); res != ff.OK {
		return f.fail("truncate", res)
	}
	return nil
}

func (f *File) Len() int64 {
	return f.fp.Size()
}

func (f *File) Close() error {
	if res := f.fp.Close(); res != ff.OK {
		return f.fail("close", res)
	}
	return nil
}

func (f *File) fail(op string, res ff.Result) error {
	return &fs.PathError{Op: op, Path: f.name, Err: res}
}
