package ff

import (
	"io/fs"
	"strconv"
)

// Result is the return code of every library call. The values match the
// FatFs FRESULT enumeration so codes logged by this package can be read
// against FatFs documentation.
type Result int

const (
	OK               Result = iota // succeeded
	DiskErr                        // hard error in the low level disk I/O layer
	IntErr                         // assertion failed
	NotReady                       // the physical drive cannot work
	NoFile                         // could not find the file
	NoPath                         // could not find the path
	InvalidName                    // the path name format is invalid
	Denied                         // access denied or directory full
	Exist                          // the object already exists
	InvalidObject                  // the file/directory object is invalid
	WriteProtected                 // the physical drive is write protected
	InvalidDrive                   // the logical drive number is invalid
	NotEnabled                     // the volume has no work area
	NoFilesystem                   // there is no valid FAT volume
	MkfsAborted                    // mkfs aborted due to a parameter or media problem
	Timeout                        // could not get a grant to access the volume
	Locked                         // rejected by the file sharing policy
	NotEnoughCore                  // working buffer could not be allocated
	TooManyOpenFiles               // too many open objects
	InvalidParameter               // given parameter is invalid
)

var resultNames = [...]string{
	OK:               "FR_OK",
	DiskErr:          "FR_DISK_ERR",
	IntErr:           "FR_INT_ERR",
	NotReady:         "FR_NOT_READY",
	NoFile:           "FR_NO_FILE",
	NoPath:           "FR_NO_PATH",
	InvalidName:      "FR_INVALID_NAME",
	Denied:           "FR_DENIED",
	Exist:            "FR_EXIST",
	InvalidObject:    "FR_INVALID_OBJECT",
	WriteProtected:   "FR_WRITE_PROTECTED",
	InvalidDrive:     "FR_INVALID_DRIVE",
	NotEnabled:       "FR_NOT_ENABLED",
	NoFilesystem:     "FR_NO_FILESYSTEM",
	MkfsAborted:      "FR_MKFS_ABORTED",
	Timeout:          "FR_TIMEOUT",
	Locked:           "FR_LOCKED",
	NotEnoughCore:    "FR_NOT_ENOUGH_CORE",
	TooManyOpenFiles: "FR_TOO_MANY_OPEN_FILES",
	InvalidParameter: "FR_INVALID_PARAMETER",
}

func (r Result) String() string {
	if r >= 0 && int(r) < len(resultNames) {
		return resultNames[r]
	}
	return "FR_" + strconv.Itoa(int(r))
}

func (r Result) Error() string {
	return "ff: " + r.String() + " (" + strconv.Itoa(int(r)) + ")"
}

// Err returns nil for OK and r otherwise.
func (r Result) Err() error {
	if r == OK {
		return nil
	}
	return r
}

// Is maps result codes onto the io/fs sentinel errors so callers can use
// errors.Is(err, fs.ErrNotExist) and friends.
func (r Result) Is(target error) bool {
	switch target {
	case fs.ErrNotExist:
		return r == NoFile || r == NoPath
	case fs.ErrExist:
		return r == Exist
	case fs.ErrPermission:
		return r == Denied || r == WriteProtected || r == Locked
	case fs.ErrClosed:
		return r == InvalidObject
	case fs.ErrInvalid:
		return r == InvalidName || r == InvalidParameter || r == InvalidDrive
	}
	return false
}
