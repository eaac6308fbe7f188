package fattime

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestPackLayout(t *testing.T) {
	t.Parallel()

	for _, entry := range []struct {
		in   time.Time
		want uint32
	}{
		{
			in:   time.Date(1980, 1, 1, 0, 0, 0, 0, time.Local),
			want: Epoch,
		},
		{
			in: time.Date(2017, 9, 6, 8, 13, 28, 0, time.Local),
			want: uint32(2017-1980)<<25 | 9<<21 | 6<<16 |
				8<<11 | 13<<5 | 14,
		},
		{
			in:   time.Date(2001, 8, 20, 0, 0, 0, 0, time.Local),
			want: 0x2B140000,
		},
		{
			// odd seconds truncate
			in:   time.Date(1980, 1, 1, 10, 32, 3, 0, time.Local),
			want: 0x00215401,
		},
		{
			in:   time.Date(1970, 1, 1, 0, 0, 0, 0, time.Local),
			want: Epoch,
		},
		{
			in:   time.Date(2200, 6, 1, 0, 0, 0, 0, time.Local),
			want: Latest,
		},
	} {
		entry := entry
		t.Run(entry.in.String(), func(t *testing.T) {
			t.Parallel()
			require.Equal(t, entry.want, Pack(entry.in))
		})
	}
}

func TestUnpackRoundTrip(t *testing.T) {
	t.Parallel()

	arbitrary := time.Date(2017, 9, 6, 8, 13, 28, 0, time.Local)
	if diff := cmp.Diff(arbitrary, Unpack(Pack(arbitrary))); diff != "" {
		t.Fatalf("unexpected time: diff (-want +got):\n%s", diff)
	}

	require.True(t, Unpack(Latest).Equal(time.Date(2107, 12, 31, 23, 59, 58, 0, time.Local)))
}

func TestUnpackZeroFields(t *testing.T) {
	got := Unpack(0)
	require.True(t, got.Equal(time.Date(1980, 1, 1, 0, 0, 0, 0, time.Local)))
}

func TestSplitJoin(t *testing.T) {
	v := Pack(time.Date(2024, 2, 29, 23, 59, 58, 0, time.Local))
	date, tm := Split(v)
	require.Equal(t, uint16(v>>16), date)
	require.Equal(t, uint16(v&0xFFFF), tm)
	require.Equal(t, v, Join(date, tm))
}

func TestNowIsStable(t *testing.T) {
	before := Pack(time.Now())
	now := Now()
	after := Pack(time.Now())
	require.GreaterOrEqual(t, now, before)
	require.LessOrEqual(t, now, after)
}
