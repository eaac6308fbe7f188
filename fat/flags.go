package fat

import (
	"os"

	"github.com/rstms/fatvol/ff"
)

// OpenMode translates os.O_* flags into a library open mode.
//
// O_RDWR wins over O_WRONLY, and anything else opens for reading. With
// O_CREATE, O_TRUNC selects create-always (an existing file is emptied)
// and its absence selects open-always (an existing file keeps its
// contents). O_TRUNC without O_CREATE has no library equivalent and is
// ignored. O_APPEND is not a mode bit; Open seeks to the end instead.
func OpenMode(flags int) ff.Mode {
	var mode ff.Mode
	switch {
	case flags&os.O_RDWR != 0:
		mode = ff.ModeRead | ff.ModeWrite
	case flags&os.O_WRONLY != 0:
		mode = ff.ModeWrite
	default:
		mode = ff.ModeRead
	}
	if flags&os.O_CREATE != 0 {
		if flags&os.O_TRUNC != 0 {
			mode |= ff.ModeCreateAlways
		} else {
			mode |= ff.ModeOpenAlways
		}
	}
	return mode
}
