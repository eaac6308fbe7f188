package ff

// dir implements Dir over a snapshot of the directory taken at OpenDir.
type dir struct {
	lib     *FS
	drive   int
	gen     uint32
	entries []FileInfo
	next    int
	closed  bool
}

// ensure dir implements Dir
var _ Dir = (*dir)(nil)

func (d *dir) check() Result {
	if d.closed || !d.lib.live(d.drive, d.gen) {
		return InvalidObject
	}
	return OK
}

func (d *dir) Read() (FileInfo, Result) {
	d.lib.mu.Lock()
	defer d.lib.mu.Unlock()
	if res := d.check(); res != OK {
		return FileInfo{}, res
	}
	if d.next >= len(d.entries) {
		return FileInfo{}, OK
	}
	fi := d.entries[d.next]
	d.next++
	return fi, OK
}

func (d *dir) Rewind() Result {
	d.lib.mu.Lock()
	defer d.lib.mu.Unlock()
	if res := d.check(); res != OK {
		return res
	}
	d.next = 0
	return OK
}

func (d *dir) Close() Result {
	d.lib.mu.Lock()
	defer d.lib.mu.Unlock()
	if d.closed {
		return InvalidObject
	}
	res := d.check()
	d.closed = true
	return res
}
