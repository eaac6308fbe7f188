package fatvol

import "time"

// DirectoryAttr holds the attribute bits of a FAT directory entry.
type DirectoryAttr uint8

const (
	AttrReadOnly  DirectoryAttr = 0x01
	AttrHidden    DirectoryAttr = 0x02
	AttrSystem    DirectoryAttr = 0x04
	AttrVolumeId  DirectoryAttr = 0x08
	AttrDirectory DirectoryAttr = 0x10
	AttrArchive   DirectoryAttr = 0x20
	AttrLongName                = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeId
)

// Has reports whether all bits of mask are set.
func (a DirectoryAttr) Has(mask DirectoryAttr) bool {
	return a&mask == mask
}

func (a DirectoryAttr) String() string {
	flags := []byte("------")
	for i, bit := range []DirectoryAttr{AttrDirectory, AttrArchive, AttrReadOnly, AttrHidden, AttrSystem, AttrVolumeId} {
		if a.Has(bit) {
			flags[i] = "darhsv"[i]
		}
	}
	return string(flags)
}

// DirEntry describes a single file or directory returned by a directory
// handle or by Stat.
type DirEntry struct {
	Name    string
	Size    int64
	Attr    DirectoryAttr
	ModTime time.Time
}

func (e *DirEntry) IsDir() bool {
	return e.Attr.Has(AttrDirectory)
}

func (e *DirEntry) IsReadOnly() bool {
	return e.Attr.Has(AttrReadOnly)
}

func (e *DirEntry) IsHidden() bool {
	return e.Attr.Has(AttrHidden)
}

func (e *DirEntry) IsSystem() bool {
	return e.Attr.Has(AttrSystem)
}
