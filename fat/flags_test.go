package fat

import (
	"os"
	"testing"

	"github.com/rstms/fatvol/ff"
	"github.com/stretchr/testify/require"
)

func TestOpenMode(t *testing.T) {
	for _, tc := range []struct {
		name  string
		flags int
		want  ff.Mode
	}{
		{"rdonly", os.O_RDONLY, ff.ModeRead},
		{"wronly", os.O_WRONLY, ff.ModeWrite},
		{"rdwr", os.O_RDWR, ff.ModeRead | ff.ModeWrite},
		{"rdwr wins", os.O_RDWR | os.O_WRONLY, ff.ModeRead | ff.ModeWrite},
		{"create", os.O_WRONLY | os.O_CREATE, ff.ModeWrite | ff.ModeOpenAlways},
		{"create trunc", os.O_WRONLY | os.O_CREATE | os.O_TRUNC, ff.ModeWrite | ff.ModeCreateAlways},
		{"rdwr create trunc", os.O_RDWR | os.O_CREATE | os.O_TRUNC, ff.ModeRead | ff.ModeWrite | ff.ModeCreateAlways},
		{"trunc alone", os.O_WRONLY | os.O_TRUNC, ff.ModeWrite},
		{"append", os.O_WRONLY | os.O_APPEND, ff.ModeWrite},
		{"append create", os.O_WRONLY | os.O_APPEND | os.O_CREATE, ff.ModeWrite | ff.ModeOpenAlways},
		{"excl ignored", os.O_RDONLY | os.O_EXCL, ff.ModeRead},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, OpenMode(tc.flags))
		})
	}
}
