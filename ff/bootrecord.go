package ff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	sectorSize     = 512
	bootRecordName = "BOOTSECT.BIN"
	dataDir        = "data"

	// defaultClusterSectors is used when Mkfs is called with au == 0.
	defaultClusterSectors = 8
	maxAllocationUnit     = 128 * sectorSize
)

var (
	jumpCode      = [3]byte{0xEB, 0x3C, 0x90}
	oemName       = [8]byte{'F', 'A', 'T', 'V', 'O', 'L', ' ', ' '}
	noName        = [11]byte{'N', 'O', ' ', 'N', 'A', 'M', 'E', ' ', ' ', ' ', ' '}
	fsTypeFAT     = [8]byte{'F', 'A', 'T', ' ', ' ', ' ', ' ', ' '}
	bootSignature = [2]byte{0x55, 0xAA}

	errBadBootRecord = errors.New("not a FAT boot record")
)

// bootRecord is the volume header Mkfs writes at the start of a drive.
type bootRecord struct {
	OEMName           [8]byte
	BytesPerSector    uint16
	SectorsPerCluster uint8
	Rule              PartitionRule
	Serial            uint32
	Label             [11]byte
	FSType            [8]byte
}

func newBootRecord(rule PartitionRule, au uint32, serial uint32) *bootRecord {
	spc := uint8(defaultClusterSectors)
	if au != 0 {
		spc = uint8(au / sectorSize)
	}
	return &bootRecord{
		OEMName:           oemName,
		BytesPerSector:    sectorSize,
		SectorsPerCluster: spc,
		Rule:              rule,
		Serial:            serial,
		Label:             noName,
		FSType:            fsTypeFAT,
	}
}

// ClusterSize returns the allocation unit in bytes.
func (b *bootRecord) ClusterSize() int {
	return int(b.BytesPerSector) * int(b.SectorsPerCluster)
}

func (b *bootRecord) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	for _, v := range []interface{}{
		jumpCode,
		b.OEMName,
		b.BytesPerSector,
		b.SectorsPerCluster,
		uint8(b.Rule),
		b.Serial,
		b.Label,
		b.FSType,
	} {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			return nil, err
		}
	}
	buf.Write(make([]byte, sectorSize-len(bootSignature)-buf.Len()))
	buf.Write(bootSignature[:])
	return buf.Bytes(), nil
}

func (b *bootRecord) UnmarshalBinary(data []byte) error {
	if len(data) != sectorSize {
		return fmt.Errorf("%w: %d bytes", errBadBootRecord, len(data))
	}
	if !bytes.Equal(data[sectorSize-2:], bootSignature[:]) {
		return fmt.Errorf("%w: missing signature", errBadBootRecord)
	}
	r := bytes.NewReader(data[len(jumpCode):])
	var rule uint8
	for _, v := range []interface{}{
		&b.OEMName,
		&b.BytesPerSector,
		&b.SectorsPerCluster,
		&rule,
		&b.Serial,
		&b.Label,
		&b.FSType,
	} {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	b.Rule = PartitionRule(rule)
	if !bytes.HasPrefix(b.FSType[:], []byte("FAT")) {
		return fmt.Errorf("%w: filesystem type %q", errBadBootRecord, b.FSType[:])
	}
	if b.BytesPerSector != sectorSize || b.SectorsPerCluster == 0 {
		return fmt.Errorf("%w: geometry %d/%d", errBadBootRecord, b.BytesPerSector, b.SectorsPerCluster)
	}
	return nil
}

// validAllocationUnit reports whether au is 0 or a power of two between
// one sector and 128 sectors.
func validAllocationUnit(au uint32) bool {
	if au == 0 {
		return true
	}
	return au >= sectorSize && au <= maxAllocationUnit && au&(au-1) == 0
}
