package oid

import (
	"encoding/json"

	"github.com/lattice-db/pgwire/pgerr"
)

// jsonbVersion is the single version byte PostgreSQL's binary jsonb format
// has ever defined.
const jsonbVersion = 1

// JSONBValue is the jsonb scalar (OID 3802). Raw holds the JSON document
// exactly as received or to be sent — this client does not re-order or
// otherwise normalize object keys; a jsonb document decodes as plain UTF-8
// JSON text, not as an ordered list of key/value pairs.
type JSONBValue struct {
	Raw   json.RawMessage
	Valid bool
}

func (v JSONBValue) OID() uint32  { return JSONB }
func (v JSONBValue) IsNull() bool { return !v.Valid }
func (v JSONBValue) EncodeBinary() []byte {
	out := make([]byte, 0, 1+len(v.Raw))
	out = append(out, jsonbVersion)
	out = append(out, v.Raw...)
	return out
}
func (v JSONBValue) EncodeText() string { return string(v.Raw) }

// DecodeJSONB strips the version byte and returns the remaining UTF-8 JSON
// payload unparsed, so the caller can decode it into whatever Go type fits.
func DecodeJSONB(b []byte) (json.RawMessage, error) {
	if len(b) < 1 {
		return nil, pgerr.New(pgerr.KindProtocolViolation, "oid: jsonb payload is empty")
	}
	if b[0] != jsonbVersion {
		return nil, pgerr.New(pgerr.KindProtocolViolation, "oid: unsupported jsonb version byte %d", b[0])
	}
	return json.RawMessage(append([]byte(nil), b[1:]...)), nil
}

// NewJSONBValue marshals v with encoding/json and wraps the result.
func NewJSONBValue(v interface{}) (JSONBValue, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return JSONBValue{}, pgerr.Wrap(pgerr.KindProtocolViolation, err, "oid: marshal jsonb value")
	}
	return JSONBValue{Raw: raw, Valid: true}, nil
}
