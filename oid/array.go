package oid

import (
	"github.com/lattice-db/pgwire/pgerr"
	"github.com/lattice-db/pgwire/wire"
)

// arrayHasNullFlag is bit 0 of the array header's flags word.
const arrayHasNullFlag = 1

// encodeArray1D builds the binary representation of a 1-dimensional
// PostgreSQL array: a fixed header (ndim, has-null flag, element OID, one
// (length, lower-bound) pair) followed by each element as a NULL (-1,
// no payload) or length-prefixed binary value. Callers must not invoke this
// for a value whose IsNull() is true — every ArrayValue type reports
// IsNull() for both an invalid value and a valid-but-empty one, so an empty
// array never reaches here via the normal param-marshalling path and is
// encoded as wire NULL instead, matching spec. The zero-dimension body
// below only guards a direct, out-of-contract call with zero elements.
func encodeArray1D(elemOID uint32, elems []Param) []byte {
	hasNull := false
	for _, e := range elems {
		if e == nil || e.IsNull() {
			hasNull = true
			break
		}
	}
	flags := int32(0)
	if hasNull {
		flags = arrayHasNullFlag
	}

	w := wire.NewWriter(20 + len(elems)*8)
	if len(elems) == 0 {
		w.Int32(0)
		w.Int32(flags)
		w.Int32(int32(elemOID))
		return w.Bytes()
	}
	w.Int32(1)
	w.Int32(flags)
	w.Int32(int32(elemOID))
	w.Int32(int32(len(elems)))
	w.Int32(1) // lower bound
	for _, e := range elems {
		if e == nil || e.IsNull() {
			w.Int32(-1)
			continue
		}
		b := e.EncodeBinary()
		w.LengthPrefixed32(b, false)
	}
	return w.Bytes()
}

// decodedArrayElement is one element of a decoded 1-D array: Null is true
// when the element's wire length was -1, in which case Bytes is nil.
type decodedArrayElement struct {
	Bytes []byte
	Null  bool
}

// decodeArray1D parses a 1-dimensional PostgreSQL array, rejecting ndim > 1
// (this client has no use for multi-dimensional arrays and would rather
// fail loudly than silently flatten them).
func decodeArray1D(b []byte) (elemOID uint32, elems []decodedArrayElement, err error) {
	r := wire.NewReader(b)
	ndim, err := r.Int32()
	if err != nil {
		return 0, nil, err
	}
	flags, err := r.Int32()
	_ = flags
	if err != nil {
		return 0, nil, err
	}
	oidVal, err := r.Uint32()
	if err != nil {
		return 0, nil, err
	}
	if ndim == 0 {
		return oidVal, nil, nil
	}
	if ndim != 1 {
		return 0, nil, pgerr.New(pgerr.KindProtocolViolation, "oid: array ndim = %d, only 1 is supported", ndim)
	}
	dimSize, err := r.Int32()
	if err != nil {
		return 0, nil, err
	}
	if _, err := r.Int32(); err != nil { // lower bound, unused
		return 0, nil, err
	}
	out := make([]decodedArrayElement, 0, dimSize)
	for i := int32(0); i < dimSize; i++ {
		length, err := r.Int32()
		if err != nil {
			return 0, nil, err
		}
		if length < 0 {
			out = append(out, decodedArrayElement{Null: true})
			continue
		}
		data, err := r.Bytes(int(length))
		if err != nil {
			return 0, nil, err
		}
		out = append(out, decodedArrayElement{Bytes: append([]byte(nil), data...)})
	}
	return oidVal, out, nil
}

// Int4ArrayValue is a 1-D int4[] array (OID 1007).
type Int4ArrayValue struct {
	Elements []Int4Value
	Valid    bool
}

func (v Int4ArrayValue) OID() uint32  { return Int4Array }
// IsNull reports SQL NULL for an invalid value and also for a valid-but-
// empty array: PostgreSQL's wire protocol encodes an empty array parameter
// as NULL (length -1), not as a zero-dimension array body.
func (v Int4ArrayValue) IsNull() bool { return !v.Valid || len(v.Elements) == 0 }
func (v Int4ArrayValue) EncodeBinary() []byte {
	elems := make([]Param, len(v.Elements))
	for i, e := range v.Elements {
		elems[i] = e
	}
	return encodeArray1D(Int4, elems)
}
func (v Int4ArrayValue) EncodeText() string { return encodeArrayText(v.Elements, Int4Value.EncodeText) }

// DecodeInt4Array decodes a binary int4[] field.
func DecodeInt4Array(b []byte) ([]Int4Value, error) {
	_, elems, err := decodeArray1D(b)
	if err != nil {
		return nil, err
	}
	out := make([]Int4Value, len(elems))
	for i, e := range elems {
		if e.Null {
			continue
		}
		n, err := DecodeInt4(e.Bytes)
		if err != nil {
			return nil, err
		}
		out[i] = Int4Value{Int32: n, Valid: true}
	}
	return out, nil
}

// Int8ArrayValue is a 1-D int8[] array (OID 1016).
type Int8ArrayValue struct {
	Elements []Int8Value
	Valid    bool
}

func (v Int8ArrayValue) OID() uint32  { return Int8Array }
// IsNull reports SQL NULL for an invalid value and also for a valid-but-
// empty array: PostgreSQL's wire protocol encodes an empty array parameter
// as NULL (length -1), not as a zero-dimension array body.
func (v Int8ArrayValue) IsNull() bool { return !v.Valid || len(v.Elements) == 0 }
func (v Int8ArrayValue) EncodeBinary() []byte {
	elems := make([]Param, len(v.Elements))
	for i, e := range v.Elements {
		elems[i] = e
	}
	return encodeArray1D(Int8, elems)
}
func (v Int8ArrayValue) EncodeText() string { return encodeArrayText(v.Elements, Int8Value.EncodeText) }

// DecodeInt8Array decodes a binary int8[] field.
func DecodeInt8Array(b []byte) ([]Int8Value, error) {
	_, elems, err := decodeArray1D(b)
	if err != nil {
		return nil, err
	}
	out := make([]Int8Value, len(elems))
	for i, e := range elems {
		if e.Null {
			continue
		}
		n, err := DecodeInt8(e.Bytes)
		if err != nil {
			return nil, err
		}
		out[i] = Int8Value{Int64: n, Valid: true}
	}
	return out, nil
}

// Float8ArrayValue is a 1-D float8[] array (OID 1022).
type Float8ArrayValue struct {
	Elements []Float8Value
	Valid    bool
}

func (v Float8ArrayValue) OID() uint32  { return Float8Array }
// IsNull reports SQL NULL for an invalid value and also for a valid-but-
// empty array: PostgreSQL's wire protocol encodes an empty array parameter
// as NULL (length -1), not as a zero-dimension array body.
func (v Float8ArrayValue) IsNull() bool { return !v.Valid || len(v.Elements) == 0 }
func (v Float8ArrayValue) EncodeBinary() []byte {
	elems := make([]Param, len(v.Elements))
	for i, e := range v.Elements {
		elems[i] = e
	}
	return encodeArray1D(Float8, elems)
}
func (v Float8ArrayValue) EncodeText() string {
	return encodeArrayText(v.Elements, Float8Value.EncodeText)
}

// DecodeFloat8Array decodes a binary float8[] field.
func DecodeFloat8Array(b []byte) ([]Float8Value, error) {
	_, elems, err := decodeArray1D(b)
	if err != nil {
		return nil, err
	}
	out := make([]Float8Value, len(elems))
	for i, e := range elems {
		if e.Null {
			continue
		}
		f, err := DecodeFloat8(e.Bytes)
		if err != nil {
			return nil, err
		}
		out[i] = Float8Value{Float64: f, Valid: true}
	}
	return out, nil
}

// TextArrayValue is a 1-D text[] array (OID 1009). Bound through
// params.TextFallbackMask it is sent as one text-format array literal
// parameter; its elements are not expanded into separate parameters.
type TextArrayValue struct {
	Elements []TextValue
	Valid    bool
}

func (v TextArrayValue) OID() uint32  { return TextArray }
// IsNull reports SQL NULL for an invalid value and also for a valid-but-
// empty array: PostgreSQL's wire protocol encodes an empty array parameter
// as NULL (length -1), not as a zero-dimension array body.
func (v TextArrayValue) IsNull() bool { return !v.Valid || len(v.Elements) == 0 }
func (v TextArrayValue) EncodeBinary() []byte {
	elems := make([]Param, len(v.Elements))
	for i, e := range v.Elements {
		elems[i] = e
	}
	return encodeArray1D(Text, elems)
}
func (v TextArrayValue) EncodeText() string { return encodeArrayText(v.Elements, TextValue.EncodeText) }

// DecodeTextArray decodes a binary text[] field.
func DecodeTextArray(b []byte) ([]TextValue, error) {
	_, elems, err := decodeArray1D(b)
	if err != nil {
		return nil, err
	}
	out := make([]TextValue, len(elems))
	for i, e := range elems {
		if e.Null {
			continue
		}
		out[i] = TextValue{String: string(e.Bytes), Valid: true}
	}
	return out, nil
}

// BoolArrayValue is a 1-D bool[] array (OID 1000).
type BoolArrayValue struct {
	Elements []BoolValue
	Valid    bool
}

func (v BoolArrayValue) OID() uint32  { return BoolArray }
// IsNull reports SQL NULL for an invalid value and also for a valid-but-
// empty array: PostgreSQL's wire protocol encodes an empty array parameter
// as NULL (length -1), not as a zero-dimension array body.
func (v BoolArrayValue) IsNull() bool { return !v.Valid || len(v.Elements) == 0 }
func (v BoolArrayValue) EncodeBinary() []byte {
	elems := make([]Param, len(v.Elements))
	for i, e := range v.Elements {
		elems[i] = e
	}
	return encodeArray1D(Bool, elems)
}
func (v BoolArrayValue) EncodeText() string { return encodeArrayText(v.Elements, BoolValue.EncodeText) }

// DecodeBoolArray decodes a binary bool[] field.
func DecodeBoolArray(b []byte) ([]BoolValue, error) {
	_, elems, err := decodeArray1D(b)
	if err != nil {
		return nil, err
	}
	out := make([]BoolValue, len(elems))
	for i, e := range elems {
		if e.Null {
			continue
		}
		bv, err := DecodeBool(e.Bytes)
		if err != nil {
			return nil, err
		}
		out[i] = BoolValue{Bool: bv, Valid: true}
	}
	return out, nil
}

// encodeArrayText renders the PostgreSQL array literal form ({a,b,c}),
// quoting elements that need it. Used only by the text-format batch-insert
// special case, never on the binary wire.
func encodeArrayText[T any](elems []T, encode func(T) string) string {
	out := make([]byte, 0, 2+len(elems)*4)
	out = append(out, '{')
	for i, e := range elems {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, quoteArrayElement(encode(e))...)
	}
	out = append(out, '}')
	return string(out)
}

func quoteArrayElement(s string) string {
	needsQuote := s == ""
	for _, c := range s {
		switch c {
		case ',', '{', '}', '"', '\\', ' ':
			needsQuote = true
		}
	}
	if !needsQuote {
		return s
	}
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	out = append(out, '"')
	return string(out)
}
