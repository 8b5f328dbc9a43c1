package oid

import (
	"testing"
	"time"
)

func TestTimestampEpochShift(t *testing.T) {
	// 2000-01-01 00:00:00 UTC is PostgreSQL's epoch: micros since epoch = 0.
	epoch := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	v := TimestampValue{Time: epoch, Valid: true}
	got := v.EncodeBinary()
	micros, err := DecodeInt8(got)
	if err != nil {
		t.Fatal(err)
	}
	if micros != 0 {
		t.Errorf("micros since pg epoch = %d, want 0", micros)
	}
}

func TestTimestampBinaryRoundTrip(t *testing.T) {
	cases := []time.Time{
		time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1999, 12, 31, 23, 59, 59, 500000000, time.UTC),
		time.Date(2026, 7, 30, 12, 34, 56, 123000000, time.UTC),
		time.Unix(0, 0).UTC(),
	}
	for _, want := range cases {
		v := TimestampValue{Time: want, Valid: true}
		got, err := DecodeTimestamp(v.EncodeBinary())
		if err != nil {
			t.Fatalf("DecodeTimestamp(%v): %v", want, err)
		}
		if !got.Equal(want) {
			t.Errorf("round trip = %v, want %v", got, want)
		}
	}
}

func TestDecodeTextTimestamp(t *testing.T) {
	cases := map[string]time.Time{
		"2026-07-30 12:34:56":            time.Date(2026, 7, 30, 12, 34, 56, 0, time.UTC),
		"2026-07-30 12:34:56.123456":     time.Date(2026, 7, 30, 12, 34, 56, 123456000, time.UTC),
		"2026-07-30 12:34:56+00":         time.Date(2026, 7, 30, 12, 34, 56, 0, time.UTC),
		"2026-07-30 12:34:56+05:30":      time.Date(2026, 7, 30, 7, 4, 56, 0, time.UTC),
		"2026-07-30 12:34:56-05":         time.Date(2026, 7, 30, 17, 34, 56, 0, time.UTC),
	}
	for s, want := range cases {
		got, err := DecodeTextTimestamp(s)
		if err != nil {
			t.Fatalf("DecodeTextTimestamp(%q): %v", s, err)
		}
		if !got.Equal(want) {
			t.Errorf("DecodeTextTimestamp(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestDecodeTextTimestampRejectsOtherGrammars(t *testing.T) {
	cases := []string{
		"2026/07/30 12:34:56",
		"July 30, 2026 12:34:56",
		"2026-07-30T12:34:56",
		"2026-07-30 12:34",
		"not a timestamp",
	}
	for _, s := range cases {
		if _, err := DecodeTextTimestamp(s); err == nil {
			t.Errorf("DecodeTextTimestamp(%q): want error, got nil", s)
		}
	}
}
