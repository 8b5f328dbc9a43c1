// Package oid is the type registry (C2): the fixed table of built-in
// PostgreSQL OIDs this client supports, and per-OID binary/text
// encode/decode. Every supported application type is a concrete Go struct
// implementing Param, mirroring the {Value, Valid} nullable-value shape
// jackc/pgx/v5's pgtype package uses, rather than a single closed sum type —
// this keeps each scalar's zero value usable (an unset Int4Value{} is SQL
// NULL) while still being a small, closed set of concrete types.
package oid

// Built-in OIDs.
const (
	Bool        uint32 = 16
	Bytea       uint32 = 17
	Int8        uint32 = 20
	Int2        uint32 = 21
	Int4        uint32 = 23
	Text        uint32 = 25
	JSONB       uint32 = 3802
	Float4      uint32 = 700
	Float8      uint32 = 701
	Varchar     uint32 = 1043
	UUID        uint32 = 2950
	Timestamp   uint32 = 1114
	Timestamptz uint32 = 1184
)

// Array OIDs, one per scalar above.
const (
	BoolArray        uint32 = 1000
	ByteaArray       uint32 = 1001
	Int8Array        uint32 = 1016
	Int2Array        uint32 = 1005
	Int4Array        uint32 = 1007
	TextArray        uint32 = 1009
	JSONBArray       uint32 = 3807
	Float4Array      uint32 = 1021
	Float8Array      uint32 = 1022
	VarcharArray     uint32 = 1015
	UUIDArray        uint32 = 2951
	TimestampArray   uint32 = 1115
	TimestamptzArray uint32 = 1185
)

// TypeSize returns the RowDescription type_size for oid: a fixed width for
// fixed-width scalars, or -1 for variable-length types (text, bytea, jsonb,
// arrays).
func TypeSize(o uint32) int16 {
	switch o {
	case Bool:
		return 1
	case Int2:
		return 2
	case Int4, Float4:
		return 4
	case Int8, Float8, Timestamp, Timestamptz:
		return 8
	case UUID:
		return 16
	default:
		return -1
	}
}

// ElementOID returns the scalar OID backing an array OID, and ok=false if
// arr isn't one of the array OIDs this registry knows.
func ElementOID(arr uint32) (elem uint32, ok bool) {
	switch arr {
	case BoolArray:
		return Bool, true
	case ByteaArray:
		return Bytea, true
	case Int8Array:
		return Int8, true
	case Int2Array:
		return Int2, true
	case Int4Array:
		return Int4, true
	case TextArray:
		return Text, true
	case JSONBArray:
		return JSONB, true
	case Float4Array:
		return Float4, true
	case Float8Array:
		return Float8, true
	case VarcharArray:
		return Varchar, true
	case UUIDArray:
		return UUID, true
	case TimestampArray:
		return Timestamp, true
	case TimestamptzArray:
		return Timestamptz, true
	default:
		return 0, false
	}
}

// ArrayOID returns the array OID for a scalar OID, and ok=false if elem
// isn't a scalar this registry knows.
func ArrayOID(elem uint32) (arr uint32, ok bool) {
	switch elem {
	case Bool:
		return BoolArray, true
	case Bytea:
		return ByteaArray, true
	case Int8:
		return Int8Array, true
	case Int2:
		return Int2Array, true
	case Int4:
		return Int4Array, true
	case Text:
		return TextArray, true
	case JSONB:
		return JSONBArray, true
	case Float4:
		return Float4Array, true
	case Float8:
		return Float8Array, true
	case Varchar:
		return VarcharArray, true
	case UUID:
		return UUIDArray, true
	case Timestamp:
		return TimestampArray, true
	case Timestamptz:
		return TimestamptzArray, true
	default:
		return 0, false
	}
}

// Name returns a human-readable type name for diagnostics (TypeMismatch errors).
func Name(o uint32) string {
	switch o {
	case Bool:
		return "bool"
	case Bytea:
		return "bytea"
	case Int8:
		return "int8"
	case Int2:
		return "int2"
	case Int4:
		return "int4"
	case Float4:
		return "float4"
	case Float8:
		return "float8"
	case Text:
		return "text"
	case Varchar:
		return "varchar"
	case UUID:
		return "uuid"
	case Timestamp:
		return "timestamp"
	case Timestamptz:
		return "timestamptz"
	case JSONB:
		return "jsonb"
	default:
		if elem, ok := ElementOID(o); ok {
			return Name(elem) + "[]"
		}
		return "unknown"
	}
}
