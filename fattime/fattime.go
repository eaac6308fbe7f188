// Package fattime converts between wall-clock time and the packed 32-bit
// date/time word stored in FAT directory entries.
//
// Layout of the packed word:
//
//	bits 31:25  year - 1980
//	bits 24:21  month (1-12)
//	bits 20:16  day (1-31)
//	bits 15:11  hour
//	bits 10:5   minute
//	bits 4:0    seconds / 2
package fattime

import "time"

const (
	minYear = 1980
	maxYear = minYear + 0x7F
)

// Epoch is the packed value of the earliest representable time,
// 1980-01-01 00:00:00.
const Epoch uint32 = 1<<21 | 1<<16

// Latest is the packed value of 2107-12-31 23:59:58.
const Latest uint32 = 0x7F<<25 | 12<<21 | 31<<16 | 23<<11 | 59<<5 | 29

// Pack returns t packed into a FAT date/time word. Times outside the
// representable range clamp to Epoch or Latest.
func Pack(t time.Time) uint32 {
	year := t.Year()
	switch {
	case year < minYear:
		return Epoch
	case year > maxYear:
		return Latest
	}
	return uint32(year-minYear)<<25 |
		uint32(t.Month())<<21 |
		uint32(t.Day())<<16 |
		uint32(t.Hour())<<11 |
		uint32(t.Minute())<<5 |
		uint32(t.Second()/2)
}

// Now returns the current local time packed into a FAT date/time word.
func Now() uint32 {
	return Pack(time.Now())
}

// Split returns the date and time halves of a packed word, as stored in
// the separate date and time fields of a directory entry.
func Split(v uint32) (date, tm uint16) {
	return uint16(v >> 16), uint16(v)
}

// Join is the inverse of Split.
func Join(date, tm uint16) uint32 {
	return uint32(date)<<16 | uint32(tm)
}

// Unpack converts a packed word back to a local time. Zero month or day
// fields, which FAT tools leave in never-written entries, read as 1.
func Unpack(v uint32) time.Time {
	month := int(v>>21) & 0x0F
	if month == 0 {
		month = 1
	}
	day := int(v>>16) & 0x1F
	if day == 0 {
		day = 1
	}
	return time.Date(
		int(v>>25)+minYear,
		time.Month(month),
		day,
		int(v>>11)&0x1F,
		int(v>>5)&0x3F,
		int(v&0x1F)*2,
		0,
		time.Local)
}
