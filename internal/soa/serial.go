package soa

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Serial numbers at or below this value are treated as plain counters.
// Anything above is assumed to follow the YYYYMMDDRR date+revision scheme.
const dateSerialFloor = 1979999999

const serialMax = 4294967295 // serials are 32-bit per RFC 1982

// Clock resolves "today" in the zone management timezone.
type Clock struct {
	loc *time.Location
}

// NewClock builds a clock for the given IANA timezone name.
// An empty name means UTC.
func NewClock(timezone string) (Clock, error) {
	if timezone == "" {
		return Clock{loc: time.UTC}, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Clock{}, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return Clock{loc: loc}, nil
}

func (c Clock) Today() time.Time {
	loc := c.loc
	if loc == nil {
		loc = time.UTC
	}
	return time.Now().In(loc)
}

// NextSerial computes the next zone serial from the current one.
//
// Slaves only transfer a zone when the serial grows (RFC 1982), so the
// result is never lower than curr, with two deliberate exceptions: the
// sentinel 0 disables serial management entirely, and 1979999999 wraps
// to 1. The wrap is a Bind-era compatibility rule carried over from the
// days when date-based serials started at 1980; it is preserved as-is.
//
// Date-based serials (YYYYMMDDRR) get their two-digit revision bumped,
// rolling to the next day after 99 changes. A serial dated in the
// future is kept on its own date rather than regressed to today.
func NextSerial(curr string, today time.Time) string {
	n, err := strconv.ParseUint(strings.TrimSpace(curr), 10, 64)
	if err != nil {
		// Not a number at all; start a fresh date-based serial.
		return formatDate(today) + "00"
	}
	if n == 0 {
		return "0"
	}
	if n < dateSerialFloor {
		return strconv.FormatUint(n+1, 10)
	}
	if n == dateSerialFloor {
		return "1"
	}

	s := strconv.FormatUint(n, 10)
	if len(s) != 10 {
		// Too long to be YYYYMMDDRR; plain increment with 32-bit wrap.
		if n >= serialMax {
			return "1"
		}
		return strconv.FormatUint(n+1, 10)
	}

	serDate := s[:8]
	revision, _ := strconv.Atoi(s[8:])
	todayStr := formatDate(today)

	switch {
	case serDate == todayStr && revision == 99:
		return nextDate(todayStr) + "00"
	case serDate == todayStr:
		return todayStr + pad2(revision+1)
	case serDate > todayStr:
		// Future-dated serial, keep its date.
		if revision == 99 {
			return nextDate(serDate) + "00"
		}
		return serDate + pad2(revision+1)
	default:
		return todayStr + "00"
	}
}

// InitialSerial is the serial stamped into freshly created zones:
// today's date with revision 00.
func InitialSerial(today time.Time) string {
	return formatDate(today) + "00"
}

func formatDate(t time.Time) string {
	return t.Format("20060102")
}

// nextDate returns the YYYYMMDD date one calendar day after d.
// Malformed input falls through unchanged.
func nextDate(d string) string {
	t, err := time.Parse("20060102", d)
	if err != nil {
		return d
	}
	return t.AddDate(0, 0, 1).Format("20060102")
}

func pad2(n int) string {
	return fmt.Sprintf("%02d", n)
}
