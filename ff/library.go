package ff

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"github.com/rstms/fatvol"
	"github.com/rstms/fatvol/fattime"
)

// DefaultVolumes is the number of logical drives a library serves unless
// WithVolumes says otherwise.
const DefaultVolumes = 4

// FS implements Library on top of a Media.
type FS struct {
	mu      sync.Mutex
	media   Media
	clock   func() uint32
	log     zerolog.Logger
	ready   bool
	volumes []volume
}

// volume is the work area of one logical drive.
type volume struct {
	registered bool
	// gen changes whenever the drive is mounted, unmounted or formatted;
	// objects opened under an older gen are invalid.
	gen  uint32
	data billy.Filesystem
	boot bootRecord
}

// ensure FS implements Library
var _ Library = (*FS)(nil)

type Option func(*FS)

// WithVolumes sets the number of logical drives.
func WithVolumes(n int) Option {
	return func(l *FS) {
		if n > 0 {
			l.volumes = make([]volume, n)
		}
	}
}

// WithClock sets the clock Mkfs stamps into the boot record as the
// volume serial. The default is fattime.Now. Entry times reported by
// Stat and Dir.Read are the modification times kept by the media.
func WithClock(clock func() uint32) Option {
	return func(l *FS) {
		l.clock = clock
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(l *FS) {
		l.log = log
	}
}

func New(media Media, opts ...Option) *FS {
	l := &FS{
		media:   media,
		clock:   fattime.Now,
		log:     zerolog.Nop(),
		volumes: make([]volume, DefaultVolumes),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Volumes returns the number of logical drives.
func (l *FS) Volumes() int {
	return len(l.volumes)
}

func (l *FS) Init() Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.media == nil {
		return NotReady
	}
	l.ready = true
	return OK
}

func (l *FS) Mount(p string, opt MountOption) Result {
	drive, _, res := splitDrive(p, len(l.volumes))
	if res != OK {
		return res
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	v := &l.volumes[drive]
	v.registered = true
	v.data = nil
	v.gen++
	if opt == MountNow {
		_, res = l.volume(drive)
		return res
	}
	return OK
}

func (l *FS) Unmount(p string) Result {
	drive, _, res := splitDrive(p, len(l.volumes))
	if res != OK {
		return res
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	v := &l.volumes[drive]
	v.registered = false
	v.data = nil
	v.gen++
	l.log.Debug().Int("drive", drive).Msg("unmounted")
	return OK
}

// volume returns the work area of a registered drive, mounting the media
// on first access. l.mu must be held.
func (l *FS) volume(drive int) (*volume, Result) {
	if !l.ready {
		return nil, NotReady
	}
	v := &l.volumes[drive]
	if !v.registered {
		return nil, NotEnabled
	}
	if v.data != nil {
		return v, OK
	}
	if err := l.media.Initialize(drive); err != nil {
		l.log.Debug().Err(err).Int("drive", drive).Msg("media initialize failed")
		return nil, NotReady
	}
	raw, err := l.media.Filesystem(drive)
	if err != nil {
		l.log.Debug().Err(err).Int("drive", drive).Msg("media unavailable")
		return nil, NotReady
	}
	data, err := util.ReadFile(raw, bootRecordName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NoFilesystem
		}
		return nil, DiskErr
	}
	var br bootRecord
	if err := br.UnmarshalBinary(data); err != nil {
		l.log.Debug().Err(err).Int("drive", drive).Msg("bad boot record")
		return nil, NoFilesystem
	}
	if info, err := raw.Stat(dataDir); err != nil || !info.IsDir() {
		return nil, NoFilesystem
	}
	sub, err := raw.Chroot(dataDir)
	if err != nil {
		return nil, DiskErr
	}
	v.data = sub
	v.boot = br
	l.log.Debug().Int("drive", drive).Uint32("serial", br.Serial).Int("cluster", br.ClusterSize()).Msg("mounted")
	return v, OK
}

// live reports whether an object opened under gen is still valid.
// l.mu must be held.
func (l *FS) live(drive int, gen uint32) bool {
	v := &l.volumes[drive]
	return v.registered && v.gen == gen
}

// resolve parses p and returns the mounted volume it addresses.
// l.mu must be held.
func (l *FS) resolve(p string) (int, *volume, []string, Result) {
	drive, comps, res := parse(p, len(l.volumes))
	if res != OK {
		return 0, nil, nil, res
	}
	v, res := l.volume(drive)
	if res != OK {
		return 0, nil, nil, res
	}
	return drive, v, comps, OK
}

// located is the result of walking a path on a volume. Names match
// case-insensitively and path carries the stored spelling of every
// existing component.
type located struct {
	path string
	// info is nil when the final component does not exist.
	info fs.FileInfo
	root bool
}

func locate(bfs billy.Filesystem, comps []string) (located, Result) {
	if len(comps) == 0 {
		return located{path: "/", root: true}, OK
	}
	cur := "/"
	for i, name := range comps {
		infos, err := bfs.ReadDir(cur)
		if err != nil {
			if os.IsNotExist(err) {
				return located{}, NoPath
			}
			return located{}, DiskErr
		}
		var found fs.FileInfo
		for _, info := range infos {
			if strings.EqualFold(info.Name(), name) {
				found = info
				break
			}
		}
		last := i == len(comps)-1
		if found == nil {
			if last {
				return located{path: path.Join(cur, name)}, OK
			}
			return located{}, NoPath
		}
		cur = path.Join(cur, found.Name())
		if last {
			return located{path: cur, info: found}, OK
		}
		if !found.IsDir() {
			return located{}, NoPath
		}
	}
	return located{}, IntErr
}

func readOnly(info fs.FileInfo) bool {
	return info.Mode().Perm()&0o200 == 0
}

func (l *FS) fileInfo(info fs.FileInfo) FileInfo {
	date, tm := fattime.Split(fattime.Pack(info.ModTime()))
	fi := FileInfo{
		Name: info.Name(),
		Date: date,
		Time: tm,
	}
	if info.IsDir() {
		fi.Attr = fatvol.AttrDirectory
	} else {
		fi.Attr = fatvol.AttrArchive
		fi.Size = info.Size()
	}
	if readOnly(info) {
		fi.Attr |= fatvol.AttrReadOnly
	}
	return fi
}

// resultOf maps a storage error onto a result code.
func resultOf(err error) Result {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, fs.ErrNotExist):
		return NoFile
	case errors.Is(err, fs.ErrExist):
		return Exist
	case errors.Is(err, fs.ErrPermission):
		return Denied
	}
	return DiskErr
}

func (l *FS) Open(p string, mode Mode) (File, Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	drive, v, comps, res := l.resolve(p)
	if res != OK {
		return nil, res
	}
	loc, res := locate(v.data, comps)
	if res != OK {
		return nil, res
	}
	if loc.root {
		return nil, InvalidName
	}

	flag := os.O_RDONLY
	if mode&ModeWrite != 0 {
		flag = os.O_RDWR
	}
	if loc.info == nil {
		if mode&modeCreate == 0 {
			return nil, NoFile
		}
		flag = os.O_RDWR | os.O_CREATE | os.O_EXCL
	} else {
		switch {
		case mode&ModeCreateNew != 0:
			return nil, Exist
		case loc.info.IsDir():
			if mode&modeCreate != 0 {
				return nil, Denied
			}
			return nil, NoFile
		case readOnly(loc.info) && mode&(ModeWrite|ModeCreateAlways) != 0:
			return nil, Denied
		case mode&ModeCreateAlways != 0:
			flag = os.O_RDWR | os.O_TRUNC
		}
	}

	bf, err := v.data.OpenFile(loc.path, flag, 0o666)
	if err != nil {
		l.log.Debug().Err(err).Int("drive", drive).Str("path", loc.path).Msg("open failed")
		return nil, resultOf(err)
	}
	f := &file{
		lib:   l,
		drive: drive,
		gen:   v.gen,
		bf:    bf,
		mode:  mode,
	}
	if loc.info != nil && flag&os.O_TRUNC == 0 {
		f.size = loc.info.Size()
	}
	if mode&modeAppendBit != 0 && f.size > 0 {
		if _, err := bf.Seek(f.size, io.SeekStart); err != nil {
			_ = bf.Close()
			return nil, DiskErr
		}
		f.pos = f.size
	}
	return f, OK
}

func (l *FS) Unlink(p string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, v, comps, res := l.resolve(p)
	if res != OK {
		return res
	}
	loc, res := locate(v.data, comps)
	switch {
	case res != OK:
		return res
	case loc.root:
		return InvalidName
	case loc.info == nil:
		return NoFile
	case readOnly(loc.info):
		return Denied
	}
	if loc.info.IsDir() {
		children, err := v.data.ReadDir(loc.path)
		if err != nil {
			return resultOf(err)
		}
		if len(children) > 0 {
			return Denied
		}
	}
	return resultOf(v.data.Remove(loc.path))
}

func (l *FS) Rename(oldPath, newPath string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	drive, v, oldComps, res := l.resolve(oldPath)
	if res != OK {
		return res
	}
	newDrive, _, newComps, res := l.resolve(newPath)
	if res != OK {
		return res
	}
	if newDrive != drive {
		return InvalidDrive
	}
	src, res := locate(v.data, oldComps)
	switch {
	case res != OK:
		return res
	case src.root:
		return InvalidName
	case src.info == nil:
		return NoFile
	}
	dst, res := locate(v.data, newComps)
	switch {
	case res != OK:
		return res
	case dst.root:
		return InvalidName
	case strings.HasPrefix(strings.ToUpper(dst.path), strings.ToUpper(src.path)+"/"):
		return InvalidName
	case dst.info != nil && !strings.EqualFold(dst.path, src.path):
		return Exist
	}
	if dst.info != nil {
		// case change of the same entry; keep the requested spelling
		dst.path = path.Join(path.Dir(src.path), newComps[len(newComps)-1])
	}
	return resultOf(v.data.Rename(src.path, dst.path))
}

func (l *FS) Stat(p string) (FileInfo, Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, v, comps, res := l.resolve(p)
	if res != OK {
		return FileInfo{}, res
	}
	loc, res := locate(v.data, comps)
	switch {
	case res != OK:
		return FileInfo{}, res
	case loc.root:
		return FileInfo{}, InvalidName
	case loc.info == nil:
		return FileInfo{}, NoFile
	}
	return l.fileInfo(loc.info), OK
}

func (l *FS) Mkdir(p string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, v, comps, res := l.resolve(p)
	if res != OK {
		return res
	}
	loc, res := locate(v.data, comps)
	switch {
	case res != OK:
		return res
	case loc.root:
		return InvalidName
	case loc.info != nil:
		return Exist
	}
	return resultOf(v.data.MkdirAll(loc.path, 0o755))
}

func (l *FS) OpenDir(p string) (Dir, Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	drive, v, comps, res := l.resolve(p)
	if res != OK {
		return nil, res
	}
	loc, res := locate(v.data, comps)
	if res != OK {
		return nil, res
	}
	if !loc.root && (loc.info == nil || !loc.info.IsDir()) {
		return nil, NoPath
	}
	infos, err := v.data.ReadDir(loc.path)
	if err != nil {
		return nil, resultOf(err)
	}
	entries := make([]FileInfo, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, l.fileInfo(info))
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return &dir{
		lib:     l,
		drive:   drive,
		gen:     v.gen,
		entries: entries,
	}, OK
}

func (l *FS) Mkfs(p string, rule PartitionRule, au uint32) Result {
	drive, _, res := splitDrive(p, len(l.volumes))
	if res != OK {
		return res
	}
	if rule > PartitionSFD || !validAllocationUnit(au) {
		return InvalidParameter
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.ready {
		return NotReady
	}
	v := &l.volumes[drive]
	if !v.registered {
		return NotEnabled
	}
	if err := l.media.Initialize(drive); err != nil {
		return NotReady
	}
	raw, err := l.media.Filesystem(drive)
	if err != nil {
		return NotReady
	}

	// the volume is unusable from here on until the new record is written
	v.data = nil
	v.gen++

	infos, err := raw.ReadDir("/")
	if err != nil {
		return DiskErr
	}
	for _, info := range infos {
		if err := util.RemoveAll(raw, info.Name()); err != nil {
			l.log.Debug().Err(err).Int("drive", drive).Str("path", info.Name()).Msg("mkfs erase failed")
			return MkfsAborted
		}
	}
	if err := raw.MkdirAll(dataDir, 0o755); err != nil {
		return DiskErr
	}
	br := newBootRecord(rule, au, l.clock())
	data, err := br.MarshalBinary()
	if err != nil {
		return IntErr
	}
	if err := util.WriteFile(raw, bootRecordName, data, 0o644); err != nil {
		return DiskErr
	}
	l.log.Debug().Int("drive", drive).Uint32("serial", br.Serial).Int("cluster", br.ClusterSize()).Msg("formatted")
	return OK
}

// GetLabel returns the volume label and serial number recorded by Mkfs.
func (l *FS) GetLabel(p string) (string, uint32, Result) {
	drive, _, res := splitDrive(p, len(l.volumes))
	if res != OK {
		return "", 0, res
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	v, res := l.volume(drive)
	if res != OK {
		return "", 0, res
	}
	return strings.TrimRight(string(v.boot.Label[:]), " "), v.boot.Serial, OK
}
