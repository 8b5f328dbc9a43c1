package oid

import (
	"bytes"
	"math"
	"testing"
)

func TestBoolBinaryRoundTrip(t *testing.T) {
	for _, b := range []bool{true, false} {
		v := BoolValue{Bool: b, Valid: true}
		got, err := DecodeBool(v.EncodeBinary())
		if err != nil {
			t.Fatalf("DecodeBool(%v): %v", b, err)
		}
		if got != b {
			t.Errorf("round trip = %v, want %v", got, b)
		}
	}
}

func TestBoolTextLiterals(t *testing.T) {
	cases := map[string]bool{"t": true, "f": false, "true": true, "false": false}
	for s, want := range cases {
		got, err := DecodeTextBool(s)
		if err != nil {
			t.Fatalf("DecodeTextBool(%q): %v", s, err)
		}
		if got != want {
			t.Errorf("DecodeTextBool(%q) = %v, want %v", s, got, want)
		}
	}
	if _, err := DecodeTextBool("maybe"); err == nil {
		t.Fatal("DecodeTextBool(\"maybe\"): want error, got nil")
	}
}

func TestIntBinaryRoundTrip(t *testing.T) {
	i2 := Int2Value{Int16: -1234, Valid: true}
	got2, err := DecodeInt2(i2.EncodeBinary())
	if err != nil || got2 != -1234 {
		t.Errorf("Int2 round trip = %d, %v", got2, err)
	}

	i4 := Int4Value{Int32: -123456789, Valid: true}
	got4, err := DecodeInt4(i4.EncodeBinary())
	if err != nil || got4 != -123456789 {
		t.Errorf("Int4 round trip = %d, %v", got4, err)
	}

	i8 := Int8Value{Int64: 9223372036854775807, Valid: true}
	got8, err := DecodeInt8(i8.EncodeBinary())
	if err != nil || got8 != 9223372036854775807 {
		t.Errorf("Int8 round trip = %d, %v", got8, err)
	}
}

func TestFloatBinaryRoundTrip(t *testing.T) {
	f8 := Float8Value{Float64: 3.14159265358979, Valid: true}
	got, err := DecodeFloat8(f8.EncodeBinary())
	if err != nil || got != f8.Float64 {
		t.Errorf("Float8 round trip = %v, %v", got, err)
	}
}

func TestFloatTextSpecialValues(t *testing.T) {
	cases := map[string]func(float64) bool{
		"NaN":      math.IsNaN,
		"Infinity": func(f float64) bool { return math.IsInf(f, 1) },
		"-Infinity": func(f float64) bool { return math.IsInf(f, -1) },
	}
	for s, check := range cases {
		got, err := DecodeTextFloat(s)
		if err != nil {
			t.Fatalf("DecodeTextFloat(%q): %v", s, err)
		}
		if !check(got) {
			t.Errorf("DecodeTextFloat(%q) = %v, failed check", s, got)
		}
		if formatFloat(got, 64) != s {
			t.Errorf("formatFloat round trip = %q, want %q", formatFloat(got, 64), s)
		}
	}
}

func TestByteaEmptyIsNotNull(t *testing.T) {
	v := ByteaValue{Bytes: []byte{}, Valid: true}
	b := v.EncodeBinary()
	if b == nil || len(b) != 0 {
		t.Errorf("empty bytea EncodeBinary() = %v, want non-nil empty slice", b)
	}
}

func TestByteaTextRoundTrip(t *testing.T) {
	orig := []byte{0x00, 0xff, 0x10, 0xab}
	v := ByteaValue{Bytes: orig, Valid: true}
	text := v.EncodeText()
	got, err := DecodeTextBytea(text)
	if err != nil {
		t.Fatalf("DecodeTextBytea(%q): %v", text, err)
	}
	if !bytes.Equal(got, orig) {
		t.Errorf("round trip = %v, want %v", got, orig)
	}
}

func TestByteaTextRejectsMissingPrefix(t *testing.T) {
	if _, err := DecodeTextBytea("deadbeef"); err == nil {
		t.Fatal("DecodeTextBytea without \\x prefix: want error, got nil")
	}
}
