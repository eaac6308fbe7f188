package ff

import "strings"

// Mode is the open mode bitmask passed to Open.
type Mode uint8

const (
	ModeRead         Mode = 0x01
	ModeWrite        Mode = 0x02
	ModeOpenExisting Mode = 0x00
	ModeCreateNew    Mode = 0x04
	ModeCreateAlways Mode = 0x08
	ModeOpenAlways   Mode = 0x10
	ModeOpenAppend   Mode = 0x30

	modeAppendBit = ModeOpenAppend &^ ModeOpenAlways
	modeCreate    = ModeCreateNew | ModeCreateAlways | ModeOpenAlways
)

func (m Mode) String() string {
	var parts []string
	if m&ModeRead != 0 {
		parts = append(parts, "read")
	}
	if m&ModeWrite != 0 {
		parts = append(parts, "write")
	}
	switch {
	case m&ModeCreateNew != 0:
		parts = append(parts, "create-new")
	case m&ModeCreateAlways != 0:
		parts = append(parts, "create-always")
	case m&ModeOpenAppend == ModeOpenAppend:
		parts = append(parts, "open-append")
	case m&ModeOpenAlways != 0:
		parts = append(parts, "open-always")
	default:
		parts = append(parts, "open-existing")
	}
	return strings.Join(parts, "|")
}

// MountOption selects when Mount checks the media.
type MountOption uint8

const (
	// MountDeferred registers the volume; the media is checked on first
	// access.
	MountDeferred MountOption = 0
	// MountNow registers the volume and checks the media immediately.
	MountNow MountOption = 1
)

// PartitionRule is the partitioning rule passed to Mkfs.
type PartitionRule uint8

const (
	PartitionFDisk PartitionRule = 0
	PartitionSFD   PartitionRule = 1
)
