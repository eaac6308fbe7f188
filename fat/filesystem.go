package fat

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rstms/fatvol"
	"github.com/rstms/fatvol/ff"
)

// ErrNilHandle is returned by CloseDir when given no directory handle.
var ErrNilHandle = errors.New("nil directory handle")

// FileSystem presents one volume of an ff.Library as a
// fatvol.FileSystemLike. Each FileSystem owns a volume slot in a
// Registry; the slot number is the drive number every library path
// carries.
type FileSystem struct {
	name string
	id   int
	slot int
	lib  ff.Library
	reg  *Registry
	ns   *fatvol.Namespace
	log  zerolog.Logger
}

var _ fatvol.FileSystemLike = (*FileSystem)(nil)

type Option func(*FileSystem)

func WithLogger(log zerolog.Logger) Option {
	return func(f *FileSystem) {
		f.log = log
	}
}

// WithNamespace registers the filesystem under its name in ns for the
// lifetime of the FileSystem.
func WithNamespace(ns *fatvol.Namespace) Option {
	return func(f *FileSystem) {
		f.ns = ns
	}
}

// WithSlot binds the filesystem to a specific volume slot instead of
// the first free one.
func WithSlot(slot int) Option {
	return func(f *FileSystem) {
		f.slot = slot
	}
}

// VolumeRoot returns the library path of the root of volume slot.
func VolumeRoot(slot int) string {
	return strconv.Itoa(slot) + ":/"
}

// New binds a FileSystem named name to a free slot of reg and mounts
// the matching volume of lib. The mount is deferred: a volume without a
// filesystem is reported by the first operation that touches it, and
// Format can still create one.
func New(name string, lib ff.Library, reg *Registry, opts ...Option) (*FileSystem, error) {
	f := &FileSystem{
		name: name,
		id:   -1,
		slot: -1,
		lib:  lib,
		reg:  reg,
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.log = f.log.With().Str("fs", name).Logger()

	if res := lib.Init(); res != ff.OK {
		f.log.Debug().Int("result", int(res)).Msg("driver init failed")
	}

	if f.slot < 0 {
		id, err := reg.Acquire(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		f.id = id
	} else {
		if err := reg.Bind(f.slot, f); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		f.id = f.slot
	}

	if f.ns != nil {
		if err := f.ns.Register(f); err != nil {
			reg.Release(f, nil)
			return nil, err
		}
	}

	root := VolumeRoot(f.id)
	f.log.Debug().Int("drive", f.id).Str("path", root).Msg("mount")
	if res := lib.Mount(root, ff.MountDeferred); res != ff.OK {
		f.log.Debug().Int("drive", f.id).Int("result", int(res)).Msg("mount failed")
	}
	return f, nil
}

// MustNew is like New but panics if the FileSystem cannot be created.
func MustNew(name string, lib ff.Library, reg *Registry, opts ...Option) *FileSystem {
	f, err := New(name, lib, reg, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// Close unmounts every volume slot bound to f and frees it. Slots are
// freed even when an unmount fails; the first failure is returned.
func (f *FileSystem) Close() error {
	var first error
	f.reg.Release(f, func(slot int) {
		root := VolumeRoot(slot)
		f.log.Debug().Int("drive", slot).Str("path", root).Msg("unmount")
		if res := f.lib.Unmount(root); res != ff.OK {
			err := f.fail("unmount", root, res)
			if first == nil {
				first = err
			}
		}
	})
	if f.ns != nil {
		f.ns.Unregister(f)
	}
	f.id = -1
	return first
}

func (f *FileSystem) Name() string {
	return f.name
}

// ID returns the volume slot assigned at construction, or -1 once the
// FileSystem is closed.
func (f *FileSystem) ID() int {
	return f.id
}

func (f *FileSystem) path(name string) string {
	return VolumeRoot(f.id) + strings.TrimLeft(name, "/")
}

// closed reports the error for an operation on a closed FileSystem. The
// slot it held may already belong to another FileSystem.
func (f *FileSystem) closed(op, name string) error {
	if f.id >= 0 {
		return nil
	}
	f.log.Debug().Str("op", op).Str("path", name).Msg("filesystem closed")
	return &fs.PathError{Op: op, Path: name, Err: fs.ErrClosed}
}

func (f *FileSystem) fail(op, path string, res ff.Result) error {
	f.log.Debug().Str("op", op).Str("path", path).Int("result", int(res)).Msg("failed")
	return &fs.PathError{Op: op, Path: path, Err: res}
}

func (f *FileSystem) Open(name string, flags int) (fatvol.FileHandle, error) {
	if err := f.closed("open", name); err != nil {
		return nil, err
	}
	p := f.path(name)
	mode := OpenMode(flags)
	f.log.Debug().Str("path", p).Stringer("mode", mode).Msg("open")
	fp, res := f.lib.Open(p, mode)
	if res != ff.OK {
		return nil, f.fail("open", p, res)
	}
	if flags&os.O_APPEND != 0 {
		if res := fp.Seek(fp.Size()); res != ff.OK {
			if cres := fp.Close(); cres != ff.OK {
				f.log.Debug().Str("op", "close").Str("path", p).Int("result", int(cres)).Msg("failed")
			}
			return nil, f.fail("seek", p, res)
		}
	}
	return newFile(name, fp), nil
}

func (f *FileSystem) Remove(name string) error {
	if err := f.closed("remove", name); err != nil {
		return err
	}
	p := f.path(name)
	f.log.Debug().Str("path", p).Msg("remove")
	if res := f.lib.Unlink(p); res != ff.OK {
		return f.fail("remove", p, res)
	}
	return nil
}

func (f *FileSystem) Rename(oldname, newname string) error {
	if err := f.closed("rename", oldname); err != nil {
		return err
	}
	from, to := f.path(oldname), f.path(newname)
	f.log.Debug().Str("from", from).Str("to", to).Msg("rename")
	if res := f.lib.Rename(from, to); res != ff.OK {
		return f.fail("rename", from, res)
	}
	return nil
}

func (f *FileSystem) Stat(name string) (*fatvol.DirEntry, error) {
	if err := f.closed("stat", name); err != nil {
		return nil, err
	}
	p := f.path(name)
	info, res := f.lib.Stat(p)
	if res != ff.OK {
		return nil, f.fail("stat", p, res)
	}
	return info.DirEntry(), nil
}

// Mkdir creates a directory. FAT has no permission bits, so perm is
// ignored.
func (f *FileSystem) Mkdir(name string, perm os.FileMode) error {
	if err := f.closed("mkdir", name); err != nil {
		return err
	}
	p := f.path(name)
	f.log.Debug().Str("path", p).Msg("mkdir")
	if res := f.lib.Mkdir(p); res != ff.OK {
		return f.fail("mkdir", p, res)
	}
	return nil
}

func (f *FileSystem) OpenDir(name string) (fatvol.DirHandle, error) {
	if err := f.closed("opendir", name); err != nil {
		return nil, err
	}
	p := f.path(name)
	f.log.Debug().Str("path", p).Msg("opendir")
	dp, res := f.lib.OpenDir(p)
	if res != ff.OK {
		return nil, f.fail("opendir", p, res)
	}
	return newDir(name, dp), nil
}

func (f *FileSystem) CloseDir(dir fatvol.DirHandle) error {
	if d, ok := dir.(*Dir); dir == nil || (ok && d == nil) {
		return ErrNilHandle
	}
	return dir.Close()
}

// Format creates an empty FAT volume, erasing everything on it. Files
// and directories open on the volume become unusable.
func (f *FileSystem) Format() error {
	if err := f.closed("format", "/"); err != nil {
		return err
	}
	root := VolumeRoot(f.id)
	f.log.Debug().Int("drive", f.id).Msg("format")
	if res := f.lib.Mkfs(root, ff.PartitionFDisk, 512); res != ff.OK {
		return f.fail("format", root, res)
	}
	return nil
}
