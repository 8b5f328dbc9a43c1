package oid

import "github.com/lattice-db/pgwire/wire"

// Param is implemented by every scalar and array value the parameter
// marshaller (C6) and result assembler (C8) can move across the wire. It
// is a small interface by design: a host application can add a new type by
// implementing Param itself.
type Param interface {
	// OID reports the PostgreSQL type this value binds as.
	OID() uint32
	// IsNull reports whether this value is SQL NULL (wire length -1, no
	// payload); EncodeBinary and EncodeText are not called when IsNull is true.
	IsNull() bool
	// EncodeBinary returns this value's PostgreSQL binary representation.
	EncodeBinary() []byte
	// EncodeText returns this value's PostgreSQL text representation, used
	// only by the batch-insert text-format special case.
	EncodeText() string
}

func writeInt16(v int16) []byte {
	w := wire.NewWriter(2)
	w.Int16(v)
	return w.Bytes()
}

func writeInt32(v int32) []byte {
	w := wire.NewWriter(4)
	w.Int32(v)
	return w.Bytes()
}

func writeInt64(v int64) []byte {
	w := wire.NewWriter(8)
	w.Int64(v)
	return w.Bytes()
}

func writeFloat32(v float32) []byte {
	w := wire.NewWriter(4)
	w.Float32(v)
	return w.Bytes()
}

func writeFloat64(v float64) []byte {
	w := wire.NewWriter(8)
	w.Float64(v)
	return w.Bytes()
}
