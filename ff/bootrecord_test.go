package ff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestBootRecordRoundTrip(t *testing.T) {
	want := newBootRecord(PartitionSFD, 4096, 0xCAFEF00D)
	data, err := want.MarshalBinary()
	require.Nil(t, err)
	require.Len(t, data, sectorSize)
	require.Equal(t, []byte{0x55, 0xAA}, data[510:])
	require.Equal(t, jumpCode[:], data[:3])

	var got bootRecord
	require.Nil(t, got.UnmarshalBinary(data))
	if diff := cmp.Diff(*want, got); diff != "" {
		t.Fatalf("unexpected boot record: diff (-want +got):\n%s", diff)
	}
	require.Equal(t, 4096, got.ClusterSize())
}

func TestBootRecordDefaultCluster(t *testing.T) {
	br := newBootRecord(PartitionFDisk, 0, 1)
	require.Equal(t, defaultClusterSectors*sectorSize, br.ClusterSize())
}

func TestBootRecordRejects(t *testing.T) {
	var br bootRecord
	require.ErrorIs(t, br.UnmarshalBinary(make([]byte, 10)), errBadBootRecord)
	require.ErrorIs(t, br.UnmarshalBinary(make([]byte, sectorSize)), errBadBootRecord)

	data, err := newBootRecord(PartitionFDisk, 512, 1).MarshalBinary()
	require.Nil(t, err)
	copy(data[30:], "NTFS    ")
	require.ErrorIs(t, br.UnmarshalBinary(data), errBadBootRecord)
}

func TestValidAllocationUnit(t *testing.T) {
	for au, want := range map[uint32]bool{
		0:      true,
		512:    true,
		1024:   true,
		65536:  true,
		256:    false,
		768:    false,
		131072: false,
	} {
		require.Equal(t, want, validAllocationUnit(au), au)
	}
}
