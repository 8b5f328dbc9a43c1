package wire

import "github.com/lattice-db/pgwire/pgerr"

// Framer assembles complete backend messages out of a byte stream that may
// arrive in arbitrary chunks of any size. It never
// blocks: Feed hands it newly received bytes, and Next pulls at most one
// complete message per call, returning ok=false ("NeedMore") when fewer than
// the 5 header bytes are buffered or the declared length exceeds what has
// arrived so far. Partial messages are retained across calls.
type Framer struct {
	buf []byte
}

// NewFramer returns an empty Framer.
func NewFramer() *Framer { return &Framer{} }

// Feed appends newly received bytes to the internal buffer.
func (f *Framer) Feed(data []byte) {
	f.buf = append(f.buf, data...)
}

// Buffered reports how many bytes are waiting to be framed.
func (f *Framer) Buffered() int { return len(f.buf) }

// Message is one fully-framed backend message: a one-byte tag and its
// payload (the bytes after the 4-byte length, i.e. length-4 bytes long).
type Message struct {
	Tag     byte
	Payload []byte
}

// Next attempts to pull one complete message from the buffer. ok is false
// ("NeedMore") when the buffer doesn't yet hold a full message; err is only
// set for a malformed length (caller should treat it as ProtocolViolation
// and close the connection). On success the consumed bytes are dropped from
// the internal buffer and Payload aliases a fresh copy (safe to retain).
func (f *Framer) Next() (msg Message, ok bool, err error) {
	const headerLen = 5 // 1 tag byte + 4 length bytes
	if len(f.buf) < headerLen {
		return Message{}, false, nil
	}
	tag := f.buf[0]
	length := int32(f.buf[1])<<24 | int32(f.buf[2])<<16 | int32(f.buf[3])<<8 | int32(f.buf[4])
	if length < 4 {
		return Message{}, false, pgerr.New(pgerr.KindProtocolViolation, "wire: malformed message length %d", length)
	}
	total := 1 + int(length) // tag byte + length field + payload
	if len(f.buf) < total {
		return Message{}, false, nil
	}
	payload := make([]byte, int(length)-4)
	copy(payload, f.buf[headerLen:total])
	f.buf = f.buf[total:]
	return Message{Tag: tag, Payload: payload}, true, nil
}
