package xrit

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Julian dates of the supported time origins
const (
	EpochTAI   = 2436204.5 // 1958-01-01, origin of the CDS day count
	EpochUnix  = 2440587.5
	EpochJ2000 = 2451545.0

	// CdsTimeLength is the encoded size of a CdsTime (2 byte day, 4 byte msec)
	CdsTimeLength = 6

	unixDayOffset = 4383
	msecPerDay    = 86400000.0
)

// CdsTime is a CCSDS day segmented time code counted from 1958-01-01.
type CdsTime struct {
	Days uint16 `json:"days"` // days since 1958-01-01
	Msec uint32 `json:"msec"` // milliseconds of day
}

// DecodeCdsTime reads a big endian day/millisecond pair from the start of b.
func DecodeCdsTime(b []byte) CdsTime {
	return CdsTime{
		Days: binary.BigEndian.Uint16(b[0:2]),
		Msec: binary.BigEndian.Uint32(b[2:6]),
	}
}

// CdsFromUnix converts unix seconds to a CdsTime.
func CdsFromUnix(t int64) CdsTime {
	days, sec := t/86400, t%86400
	if sec < 0 {
		days--
		sec += 86400
	}
	return CdsTime{
		Days: uint16(days + unixDayOffset),
		Msec: uint32(sec) * 1000,
	}
}

// Unix seconds, rounded to the nearest second
func (t CdsTime) Unix() int64 {
	return (int64(t.Msec)+500)/1000 + (int64(t.Days)-unixDayOffset)*86400
}

// Time this timestamp is valid for
func (t CdsTime) Time() time.Time {
	return time.Date(1958, time.January, 1, 0, 0, 0, 0, time.UTC).
		Add(time.Duration(t.Days) * time.Hour * 24).
		Add(time.Duration(t.Msec) * time.Millisecond)
}

// JulianDate relative to epoch, e.g. EpochJ2000 gives days since J2000.0
// and 0 gives the absolute Julian date.
func (t CdsTime) JulianDate(epoch float64) float64 {
	return EpochTAI - epoch + float64(t.Days) + float64(t.Msec)/msecPerDay
}

// Sub returns t-u in (fractional) days.
func (t CdsTime) Sub(u CdsTime) float64 {
	return float64(int(t.Days)-int(u.Days)) + (float64(t.Msec)-float64(u.Msec))/msecPerDay
}

// Add a fractional day count to t.
func (t CdsTime) Add(days float64) CdsTime {
	ms := int64(float64(t.Days)*msecPerDay + float64(t.Msec) + days*msecPerDay + 0.5)
	return CdsTime{Days: uint16(ms / 86400000), Msec: uint32(ms % 86400000)}
}

func (t CdsTime) IsZero() bool {
	return t.Days == 0 && t.Msec == 0
}

func (t CdsTime) String() string {
	return fmt.Sprintf("%s (day=%d msec=%d)", t.Time().Format("2006-01-02T15:04:05.000Z"), t.Days, t.Msec)
}
