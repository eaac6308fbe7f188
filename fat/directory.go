package fat

import (
	"io"
	"io/fs"

	"github.com/rstms/fatvol"
	"github.com/rstms/fatvol/ff"
)

// Dir is an open directory on a FileSystem. It owns the library
// directory object and releases it on Close.
type Dir struct {
	name string
	dp   ff.Dir
	loc  int64
}

var _ fatvol.DirHandle = (*Dir)(nil)

func newDir(name string, dp ff.Dir) *Dir {
	return &Dir{name: name, dp: dp}
}

// ReadDir returns the next entry, or io.EOF after the last one.
func (d *Dir) ReadDir() (*fatvol.DirEntry, error) {
	info, res := d.dp.Read()
	if res != ff.OK {
		return nil, d.fail("readdir", res)
	}
	if info.Name == "" {
		return nil, io.EOF
	}
	d.loc++
	return info.DirEntry(), nil
}

func (d *Dir) Rewind() error {
	if res := d.dp.Rewind(); res != ff.OK {
		return d.fail("rewind", res)
	}
	d.loc = 0
	return nil
}

// Tell returns the number of entries read since the last rewind.
func (d *Dir) Tell() int64 {
	return d.loc
}

// Seek positions the directory so the next ReadDir returns entry loc.
// Seeking past the last entry leaves the directory at its end.
func (d *Dir) Seek(loc int64) error {
	if loc < 0 {
		return &fs.PathError{Op: "seekdir", Path: d.name, Err: fs.ErrInvalid}
	}
	if err := d.Rewind(); err != nil {
		return err
	}
	for d.loc < loc {
		_, err := d.ReadDir()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *Dir) Close() error {
	if d == nil || d.dp == nil {
		return ErrNilHandle
	}
	if res := d.dp.Close(); res != ff.OK {
		return d.fail("closedir", res)
	}
	return nil
}

func (d *Dir) fail(op string, res ff.Result) error {
	return &fs.PathError{Op: op, Path: d.name, Err: res}
}
