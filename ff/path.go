package ff

import (
	"strconv"
	"strings"
)

const maxNameLength = 255

// splitDrive separates the logical drive number from the rest of p. A
// path without a drive prefix addresses drive 0.
func splitDrive(p string, volumes int) (int, string, Result) {
	i := strings.IndexByte(p, ':')
	if i < 0 {
		return 0, p, OK
	}
	prefix := p[:i]
	if prefix == "" {
		return 0, "", InvalidDrive
	}
	for _, c := range prefix {
		if c < '0' || c > '9' {
			return 0, "", InvalidDrive
		}
	}
	drive, err := strconv.Atoi(prefix)
	if err != nil || drive >= volumes {
		return 0, "", InvalidDrive
	}
	return drive, p[i+1:], OK
}

// splitPath breaks a drive-relative path into validated components.
// Both slash and backslash separate components; empty components are
// dropped so "0:/", "0:" and "0://" all name the root.
func splitPath(p string) ([]string, Result) {
	fields := strings.FieldsFunc(p, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	for _, name := range fields {
		if res := checkName(name); res != OK {
			return nil, res
		}
	}
	return fields, OK
}

func checkName(name string) Result {
	if name == "." || name == ".." || len(name) > maxNameLength {
		return InvalidName
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < ' ' || c == 0x7F || strings.IndexByte(`"*:<>?|`, c) >= 0 {
			return InvalidName
		}
	}
	return OK
}

// parse resolves p to a drive number and its path components.
func parse(p string, volumes int) (int, []string, Result) {
	drive, rest, res := splitDrive(p, volumes)
	if res != OK {
		return 0, nil, res
	}
	comps, res := splitPath(rest)
	if res != OK {
		return 0, nil, res
	}
	return drive, comps, OK
}
