package oid

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lattice-db/pgwire/pgerr"
)

// pgEpochUnixSeconds is the Unix time of 2000-01-01 00:00:00 UTC, the
// reference instant PostgreSQL's binary timestamp format counts
// microseconds from. The Unix epoch sits 946684800 seconds earlier.
const pgEpochUnixSeconds = 946684800

// TimestampValue is the timestamp (without time zone) scalar (OID 1114):
// binary wire value is microseconds since 2000-01-01, but the Go-side value
// is kept as a plain time.Time in UTC (no zone is transmitted on the wire
// for this type — the zone is a convention of whatever the client and
// server agreed to interpret it as).
type TimestampValue struct {
	Time  time.Time
	Valid bool
}

func (v TimestampValue) OID() uint32  { return Timestamp }
func (v TimestampValue) IsNull() bool { return !v.Valid }
func (v TimestampValue) EncodeBinary() []byte {
	return writeInt64(unixToPGMicros(v.Time))
}
func (v TimestampValue) EncodeText() string { return formatTimestampText(v.Time, false) }

// TimestamptzValue is the timestamp with time zone scalar (OID 1184): the
// wire representation is identical to TimestampValue (microseconds since
// 2000-01-01 UTC); the "with time zone" distinction is purely in how the
// server formats/parses the text form, not the bytes on the wire.
type TimestamptzValue struct {
	Time  time.Time
	Valid bool
}

func (v TimestamptzValue) OID() uint32  { return Timestamptz }
func (v TimestamptzValue) IsNull() bool { return !v.Valid }
func (v TimestamptzValue) EncodeBinary() []byte {
	return writeInt64(unixToPGMicros(v.Time))
}
func (v TimestamptzValue) EncodeText() string { return formatTimestampText(v.Time, true) }

func unixToPGMicros(t time.Time) int64 {
	secs := t.Unix() - pgEpochUnixSeconds
	return secs*1_000_000 + int64(t.Nanosecond())/1000
}

func pgMicrosToUnix(micros int64) time.Time {
	secs := micros / 1_000_000
	rem := micros % 1_000_000
	if rem < 0 {
		rem += 1_000_000
		secs--
	}
	return time.Unix(secs+pgEpochUnixSeconds, rem*1000).UTC()
}

// DecodeTimestamp decodes a binary timestamp/timestamptz field (8-byte
// microsecond count since 2000-01-01).
func DecodeTimestamp(b []byte) (time.Time, error) {
	micros, err := DecodeInt8(b)
	if err != nil {
		return time.Time{}, err
	}
	return pgMicrosToUnix(micros), nil
}

func formatTimestampText(t time.Time, withZone bool) string {
	u := t.UTC()
	base := fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), u.Second())
	if us := u.Nanosecond() / 1000; us != 0 {
		base += fmt.Sprintf(".%06d", us)
	}
	if withZone {
		base += "+00"
	}
	return base
}

// DecodeTextTimestamp parses the single accepted text grammar:
// YYYY-MM-DD HH:MM:SS[.ffffff][±HH[:MM]]. Anything else is rejected rather
// than guessed at, since PostgreSQL's own timestamp text grammar is far
// richer than this client needs to support.
func DecodeTextTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	datePart, rest, ok := cutFixed(s, 10)
	if !ok || rest == "" || rest[0] != ' ' {
		return time.Time{}, malformedTimestamp(s)
	}
	rest = rest[1:]

	year, month, day, ok := parseDate(datePart)
	if !ok {
		return time.Time{}, malformedTimestamp(s)
	}

	timePart, zonePart := splitTimeZone(rest)
	hour, min, sec, nsec, ok := parseClock(timePart)
	if !ok {
		return time.Time{}, malformedTimestamp(s)
	}

	loc := time.UTC
	offset := 0
	if zonePart != "" {
		var ok2 bool
		offset, ok2 = parseZoneOffset(zonePart)
		if !ok2 {
			return time.Time{}, malformedTimestamp(s)
		}
	}

	t := time.Date(year, time.Month(month), day, hour, min, sec, nsec, loc)
	return t.Add(-time.Duration(offset) * time.Second).UTC(), nil
}

func malformedTimestamp(s string) error {
	return pgerr.New(pgerr.KindProtocolViolation, "oid: malformed timestamp literal %q", s)
}

func cutFixed(s string, n int) (head, rest string, ok bool) {
	if len(s) < n {
		return "", "", false
	}
	return s[:n], s[n:], true
}

func parseDate(s string) (year, month, day int, ok bool) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return 0, 0, 0, false
	}
	y, err1 := strconv.Atoi(s[0:4])
	m, err2 := strconv.Atoi(s[5:7])
	d, err3 := strconv.Atoi(s[8:10])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}
	return y, m, d, true
}

// splitTimeZone separates a trailing +HH, +HH:MM, -HH, or -HH:MM zone
// offset from the HH:MM:SS[.ffffff] time portion.
func splitTimeZone(s string) (timePart, zonePart string) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '+' || s[i] == '-' {
			return s[:i], s[i:]
		}
		if s[i] < '0' || s[i] > '9' {
			if s[i] != ':' && s[i] != '.' {
				break
			}
		}
	}
	return s, ""
}

func parseClock(s string) (hour, min, sec, nsec int, ok bool) {
	if len(s) < 8 || s[2] != ':' || s[5] != ':' {
		return 0, 0, 0, 0, false
	}
	h, err1 := strconv.Atoi(s[0:2])
	m, err2 := strconv.Atoi(s[3:5])
	sc, err3 := strconv.Atoi(s[6:8])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, 0, false
	}
	nsec = 0
	if len(s) > 8 {
		if s[8] != '.' {
			return 0, 0, 0, 0, false
		}
		frac := s[9:]
		if frac == "" || len(frac) > 6 {
			return 0, 0, 0, 0, false
		}
		us, err := strconv.Atoi(frac)
		if err != nil {
			return 0, 0, 0, 0, false
		}
		for i := len(frac); i < 6; i++ {
			us *= 10
		}
		nsec = us * 1000
	}
	return h, m, sc, nsec, true
}

func parseZoneOffset(s string) (offsetSeconds int, ok bool) {
	sign := 1
	if s[0] == '-' {
		sign = -1
	} else if s[0] != '+' {
		return 0, false
	}
	s = s[1:]
	var hh, mm int
	switch len(s) {
	case 2:
		h, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		hh = h
	case 5:
		if s[2] != ':' {
			return 0, false
		}
		h, err1 := strconv.Atoi(s[0:2])
		m, err2 := strconv.Atoi(s[3:5])
		if err1 != nil || err2 != nil {
			return 0, false
		}
		hh, mm = h, m
	default:
		return 0, false
	}
	return sign * (hh*3600 + mm*60), true
}
