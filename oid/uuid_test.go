package oid

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDBinaryRoundTrip(t *testing.T) {
	u := uuid.New()
	v := UUIDValue{UUID: u, Valid: true}
	got, err := DecodeUUID(v.EncodeBinary())
	if err != nil {
		t.Fatal(err)
	}
	if got != u {
		t.Errorf("round trip = %v, want %v", got, u)
	}
}

func TestUUIDTextRoundTrip(t *testing.T) {
	u := uuid.New()
	v := UUIDValue{UUID: u, Valid: true}
	got, err := DecodeTextUUID(v.EncodeText())
	if err != nil {
		t.Fatal(err)
	}
	if got != u {
		t.Errorf("round trip = %v, want %v", got, u)
	}
}

func TestUUIDRejectsWrongLength(t *testing.T) {
	if _, err := DecodeUUID([]byte{1, 2, 3}); err == nil {
		t.Fatal("DecodeUUID with 3 bytes: want error, got nil")
	}
}
