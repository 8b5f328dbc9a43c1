// Package wire implements the PostgreSQL frontend/backend protocol version
// 3.0: fixed-width integer and float encoding in network byte order (C1),
// and the framing of complete backend messages out of an incoming byte
// stream plus the serialization of outgoing frontend messages (C3).
//
// Nothing in this package performs I/O. Reader consumes byte slices handed
// to it by the host's transport; Writer appends to a growing buffer that the
// caller is responsible for writing out. This mirrors the client's
// single-threaded, cooperative model: the core never blocks and never owns
// a socket.
package wire

import (
	"encoding/binary"
	"math"

	"github.com/lattice-db/pgwire/pgerr"
)

// Reader consumes a byte slice left-to-right, failing with a ProtocolViolation
// pgerr.Error when the declared length exceeds what remains.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential decoding.
func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) - r.pos }

func (r *Reader) need(n int) error {
	if r.Len() < n {
		return pgerr.New(pgerr.KindProtocolViolation, "wire: need %d bytes, have %d", n, r.Len())
	}
	return nil
}

// Byte reads one byte.
func (r *Reader) Byte() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// Int16 reads a network-order signed 16-bit integer.
func (r *Reader) Int16() (int16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := int16(binary.BigEndian.Uint16(r.buf[r.pos:]))
	r.pos += 2
	return v, nil
}

// Uint16 reads a network-order unsigned 16-bit integer.
func (r *Reader) Uint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// Int32 reads a network-order signed 32-bit integer.
func (r *Reader) Int32() (int32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := int32(binary.BigEndian.Uint32(r.buf[r.pos:]))
	r.pos += 4
	return v, nil
}

// Uint32 reads a network-order unsigned 32-bit integer.
func (r *Reader) Uint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// Int64 reads a network-order signed 64-bit integer.
func (r *Reader) Int64() (int64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := int64(binary.BigEndian.Uint64(r.buf[r.pos:]))
	r.pos += 8
	return v, nil
}

// Float32 reads IEEE-754 bits in network byte order.
func (r *Reader) Float32() (float32, error) {
	bits, err := r.Uint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// Float64 reads IEEE-754 bits in network byte order.
func (r *Reader) Float64() (float64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	bits := binary.BigEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return math.Float64frombits(bits), nil
}

// Bytes reads exactly n raw bytes. The returned slice aliases the Reader's
// backing array; callers that retain it across further reads must copy.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, pgerr.New(pgerr.KindProtocolViolation, "wire: negative length %d", n)
	}
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Rest returns every remaining unread byte, advancing the cursor to the end.
func (r *Reader) Rest() []byte {
	b := r.buf[r.pos:]
	r.pos = len(r.buf)
	return b
}

// CString reads a null-terminated string, consuming the terminator.
func (r *Reader) CString() (string, error) {
	start := r.pos
	for r.pos < len(r.buf) {
		if r.buf[r.pos] == 0 {
			s := string(r.buf[start:r.pos])
			r.pos++
			return s, nil
		}
		r.pos++
	}
	return "", pgerr.New(pgerr.KindProtocolViolation, "wire: unterminated string")
}

// Writer appends encoded values to a growing buffer (C1 write side).
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with capacity reserved up front, to avoid
// reallocation on hot paths (Bind payloads, row assembly).
func NewWriter(capacityHint int) *Writer {
	return &Writer{buf: make([]byte, 0, capacityHint)}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Byte appends one byte.
func (w *Writer) Byte(b byte) { w.buf = append(w.buf, b) }

// Int16 appends a network-order signed 16-bit integer.
func (w *Writer) Int16(v int16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(v))
}

// Int32 appends a network-order signed 32-bit integer.
func (w *Writer) Int32(v int32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, uint32(v))
}

// Int64 appends a network-order signed 64-bit integer.
func (w *Writer) Int64(v int64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, uint64(v))
}

// Float32 appends IEEE-754 bits in network byte order.
func (w *Writer) Float32(v float32) {
	w.Int32(int32(math.Float32bits(v)))
}

// Float64 appends IEEE-754 bits in network byte order.
func (w *Writer) Float64(v float64) {
	w.Int64(int64(math.Float64bits(v)))
}

// RawBytes appends raw bytes with no length prefix.
func (w *Writer) RawBytes(b []byte) { w.buf = append(w.buf, b...) }

// CString appends s followed by a single NUL terminator.
func (w *Writer) CString(s string) {
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
}

// LengthPrefixed32 appends a 4-byte length prefix (len(b)) followed by b —
// the shape used for Bind parameter values and result column values. If
// isNull is true, the prefix is -1 and no payload is written — the NULL
// contract used throughout the wire format.
func (w *Writer) LengthPrefixed32(b []byte, isNull bool) {
	if isNull {
		w.Int32(-1)
		return
	}
	w.Int32(int32(len(b)))
	w.RawBytes(b)
}
