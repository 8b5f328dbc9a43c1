package oid

import (
	"github.com/google/uuid"

	"github.com/lattice-db/pgwire/pgerr"
)

// UUIDValue is the uuid scalar (OID 2950): 16 raw bytes on the wire, backed
// by google/uuid's UUID type rather than a bare [16]byte so callers get
// parsing, formatting, and generation for free.
type UUIDValue struct {
	UUID  uuid.UUID
	Valid bool
}

func (v UUIDValue) OID() uint32          { return UUID }
func (v UUIDValue) IsNull() bool         { return !v.Valid }
func (v UUIDValue) EncodeBinary() []byte { b := v.UUID; return b[:] }
func (v UUIDValue) EncodeText() string   { return v.UUID.String() }

// DecodeUUID decodes a binary uuid field (16 raw bytes).
func DecodeUUID(b []byte) (uuid.UUID, error) {
	if len(b) != 16 {
		return uuid.UUID{}, pgerr.New(pgerr.KindProtocolViolation, "oid: uuid length = %d, want 16", len(b))
	}
	var u uuid.UUID
	copy(u[:], b)
	return u, nil
}

// DecodeTextUUID parses PostgreSQL's hyphenated uuid text form.
func DecodeTextUUID(s string) (uuid.UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, pgerr.Wrap(pgerr.KindProtocolViolation, err, "oid: invalid uuid literal %q", s)
	}
	return u, nil
}
