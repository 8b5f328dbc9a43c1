package oid

import (
	"math"
	"strconv"
	"strings"

	"github.com/lattice-db/pgwire/pgerr"
	"github.com/lattice-db/pgwire/wire"
)

// BoolValue is the bool scalar (OID 16): one byte, 0 or 1 on the wire.
type BoolValue struct {
	Bool  bool
	Valid bool
}

func (v BoolValue) OID() uint32  { return Bool }
func (v BoolValue) IsNull() bool { return !v.Valid }
func (v BoolValue) EncodeBinary() []byte {
	if v.Bool {
		return []byte{1}
	}
	return []byte{0}
}
func (v BoolValue) EncodeText() string {
	if v.Bool {
		return "t"
	}
	return "f"
}

// DecodeBool decodes a binary bool field (1 byte, 0 or 1).
func DecodeBool(b []byte) (bool, error) {
	if len(b) != 1 {
		return false, pgerr.New(pgerr.KindProtocolViolation, "oid: bool length = %d, want 1", len(b))
	}
	return b[0] != 0, nil
}

// DecodeTextBool parses PostgreSQL's boolean literal spellings.
func DecodeTextBool(s string) (bool, error) {
	switch s {
	case "t", "true", "TRUE", "T":
		return true, nil
	case "f", "false", "FALSE", "F":
		return false, nil
	default:
		return false, pgerr.New(pgerr.KindProtocolViolation, "oid: invalid bool literal %q", s)
	}
}

// Int2Value is the int2/smallint scalar (OID 21).
type Int2Value struct {
	Int16 int16
	Valid bool
}

func (v Int2Value) OID() uint32          { return Int2 }
func (v Int2Value) IsNull() bool         { return !v.Valid }
func (v Int2Value) EncodeBinary() []byte { return writeInt16(v.Int16) }
func (v Int2Value) EncodeText() string   { return strconv.FormatInt(int64(v.Int16), 10) }

// DecodeInt2 decodes a binary int2 field.
func DecodeInt2(b []byte) (int16, error) {
	if len(b) != 2 {
		return 0, pgerr.New(pgerr.KindProtocolViolation, "oid: int2 length = %d, want 2", len(b))
	}
	r := wire.NewReader(b)
	v, err := r.Int16()
	if err != nil {
		return 0, err
	}
	return v, nil
}

// Int4Value is the int4/integer scalar (OID 23).
type Int4Value struct {
	Int32 int32
	Valid bool
}

func (v Int4Value) OID() uint32          { return Int4 }
func (v Int4Value) IsNull() bool         { return !v.Valid }
func (v Int4Value) EncodeBinary() []byte { return writeInt32(v.Int32) }
func (v Int4Value) EncodeText() string   { return strconv.FormatInt(int64(v.Int32), 10) }

// DecodeInt4 decodes a binary int4 field.
func DecodeInt4(b []byte) (int32, error) {
	if len(b) != 4 {
		return 0, pgerr.New(pgerr.KindProtocolViolation, "oid: int4 length = %d, want 4", len(b))
	}
	r := wire.NewReader(b)
	return r.Int32()
}

// Int8Value is the int8/bigint scalar (OID 20).
type Int8Value struct {
	Int64 int64
	Valid bool
}

func (v Int8Value) OID() uint32          { return Int8 }
func (v Int8Value) IsNull() bool         { return !v.Valid }
func (v Int8Value) EncodeBinary() []byte { return writeInt64(v.Int64) }
func (v Int8Value) EncodeText() string   { return strconv.FormatInt(v.Int64, 10) }

// DecodeInt8 decodes a binary int8 field.
func DecodeInt8(b []byte) (int64, error) {
	if len(b) != 8 {
		return 0, pgerr.New(pgerr.KindProtocolViolation, "oid: int8 length = %d, want 8", len(b))
	}
	r := wire.NewReader(b)
	return r.Int64()
}

// Float4Value is the float4/real scalar (OID 700).
type Float4Value struct {
	Float32 float32
	Valid   bool
}

func (v Float4Value) OID() uint32          { return Float4 }
func (v Float4Value) IsNull() bool         { return !v.Valid }
func (v Float4Value) EncodeBinary() []byte { return writeFloat32(v.Float32) }
func (v Float4Value) EncodeText() string   { return formatFloat(float64(v.Float32), 32) }

// DecodeFloat4 decodes a binary float4 field.
func DecodeFloat4(b []byte) (float32, error) {
	if len(b) != 4 {
		return 0, pgerr.New(pgerr.KindProtocolViolation, "oid: float4 length = %d, want 4", len(b))
	}
	r := wire.NewReader(b)
	return r.Float32()
}

// Float8Value is the float8/double precision scalar (OID 701).
type Float8Value struct {
	Float64 float64
	Valid   bool
}

func (v Float8Value) OID() uint32          { return Float8 }
func (v Float8Value) IsNull() bool         { return !v.Valid }
func (v Float8Value) EncodeBinary() []byte { return writeFloat64(v.Float64) }
func (v Float8Value) EncodeText() string   { return formatFloat(v.Float64, 64) }

// DecodeFloat8 decodes a binary float8 field.
func DecodeFloat8(b []byte) (float64, error) {
	if len(b) != 8 {
		return 0, pgerr.New(pgerr.KindProtocolViolation, "oid: float8 length = %d, want 8", len(b))
	}
	r := wire.NewReader(b)
	return r.Float64()
}

func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	default:
		return strconv.FormatFloat(f, 'g', -1, bitSize)
	}
}

// DecodeTextFloat parses PostgreSQL's float literals, including the
// NaN/Infinity/-Infinity spellings.
func DecodeTextFloat(s string) (float64, error) {
	switch strings.TrimSpace(s) {
	case "NaN":
		return math.NaN(), nil
	case "Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	default:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, pgerr.New(pgerr.KindProtocolViolation, "oid: invalid float literal %q", s)
		}
		return f, nil
	}
}

// TextValue is the text scalar (OID 25): raw UTF-8, no terminator on the wire.
type TextValue struct {
	String string
	Valid  bool
}

func (v TextValue) OID() uint32          { return Text }
func (v TextValue) IsNull() bool         { return !v.Valid }
func (v TextValue) EncodeBinary() []byte { return []byte(v.String) }
func (v TextValue) EncodeText() string   { return v.String }

// VarcharValue is the varchar scalar (OID 1043): identical wire shape to TextValue.
type VarcharValue struct {
	String string
	Valid  bool
}

func (v VarcharValue) OID() uint32          { return Varchar }
func (v VarcharValue) IsNull() bool         { return !v.Valid }
func (v VarcharValue) EncodeBinary() []byte { return []byte(v.String) }
func (v VarcharValue) EncodeText() string   { return v.String }

// ByteaValue is the bytea scalar (OID 17): raw bytes, no escaping on the
// binary wire. A non-null empty slice encodes as length 0, never as NULL.
type ByteaValue struct {
	Bytes []byte
	Valid bool
}

func (v ByteaValue) OID() uint32  { return Bytea }
func (v ByteaValue) IsNull() bool { return !v.Valid }
func (v ByteaValue) EncodeBinary() []byte {
	if v.Bytes == nil {
		return []byte{}
	}
	return v.Bytes
}
func (v ByteaValue) EncodeText() string { return "\\x" + hexEncode(v.Bytes) }

// DecodeTextBytea parses PostgreSQL's bytea hex format: \x followed by hex digits.
func DecodeTextBytea(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "\\x") {
		return nil, pgerr.New(pgerr.KindProtocolViolation, "oid: bytea text literal missing \\x prefix: %q", s)
	}
	return hexDecode(s[2:])
}

func hexEncode(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = digits[c>>4]
		out[i*2+1] = digits[c&0xf]
	}
	return string(out)
}

func hexDecode(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, pgerr.New(pgerr.KindProtocolViolation, "oid: odd-length bytea hex literal")
	}
	out := make([]byte, len(s)/2)
	for i := 0; i < len(out); i++ {
		hi, err := hexNibble(s[i*2])
		if err != nil {
			return nil, err
		}
		lo, err := hexNibble(s[i*2+1])
		if err != nil {
			return nil, err
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexNibble(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, pgerr.New(pgerr.KindProtocolViolation, "oid: invalid hex digit %q", c)
	}
}
