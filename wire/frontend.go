package wire

import "sort"

// StartupMessage carries protocol version 196608 and a null-terminated
// sequence of key\0value\0 pairs, terminated by a final \0.
type StartupMessage struct {
	User       string
	Database   string
	Parameters map[string]string // additional client_params, e.g. application_name
}

// Encode serializes the length-only (no tag) StartupMessage.
func (m StartupMessage) Encode() []byte {
	w := NewWriter(64)
	w.Int32(0) // length placeholder
	w.Int32(ProtocolVersion3)
	w.CString("user")
	w.CString(m.User)
	if m.Database != "" {
		w.CString("database")
		w.CString(m.Database)
	}
	// Deterministic ordering makes wire output reproducible for tests.
	keys := make([]string, 0, len(m.Parameters))
	for k := range m.Parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		w.CString(k)
		w.CString(m.Parameters[k])
	}
	w.Byte(0)
	backpatchLength(w)
	return w.Bytes()
}

// SSLRequest is the 8-byte length-only probe the client may send before
// StartupMessage to ask whether the server will upgrade to TLS.
func SSLRequest() []byte {
	w := NewWriter(8)
	w.Int32(8)
	w.Int32(SSLRequestCode)
	return w.Bytes()
}

// backpatchLength writes the total message length into the first 4 bytes of
// w: a placeholder length is written first, back-patched once the payload
// is complete.
func backpatchLength(w *Writer) {
	b := w.buf
	n := int32(len(b))
	b[0] = byte(n >> 24)
	b[1] = byte(n >> 16)
	b[2] = byte(n >> 8)
	b[3] = byte(n)
}

// taggedMessage starts a frontend message with its tag and a 4-byte length
// placeholder, returning the Writer for the caller to append the payload to
// before calling backpatchTagged.
func taggedMessage(tag byte, capacityHint int) *Writer {
	w := NewWriter(capacityHint)
	w.Byte(tag)
	w.Int32(0) // placeholder; length covers itself + payload, not the tag byte
	return w
}

// backpatchTagged back-patches the length field of a message started with
// taggedMessage (the length excludes the tag byte but includes itself).
func backpatchTagged(w *Writer) []byte {
	b := w.buf
	n := int32(len(b) - 1) // exclude tag byte
	b[1] = byte(n >> 24)
	b[2] = byte(n >> 16)
	b[3] = byte(n >> 8)
	b[4] = byte(n)
	return b
}

// Query encodes a simple-protocol 'Q' SimpleQuery message.
func Query(text string) []byte {
	w := taggedMessage(TagQuery, 16+len(text))
	w.CString(text)
	return backpatchTagged(w)
}

// Parse encodes a 'P' Parse message.
type ParseMessage struct {
	StatementName string
	Query         string
	ParamOIDs     []uint32
}

func (m ParseMessage) Encode() []byte {
	w := taggedMessage(TagParse, 32+len(m.Query))
	w.CString(m.StatementName)
	w.CString(m.Query)
	w.Int16(int16(len(m.ParamOIDs)))
	for _, oid := range m.ParamOIDs {
		w.Int32(int32(oid))
	}
	return backpatchTagged(w)
}

// BindMessage encodes a 'B' Bind message. The unnamed portal is always used
// (the unnamed portal); ParamFormats/ResultFormats follow the Bind
// layout: all-binary except the explicit batch-insert text-format case.
type BindMessage struct {
	StatementName string
	ParamFormats  []FieldFormat
	ParamValues   [][]byte // nil element means SQL NULL
	ResultFormats []FieldFormat
}

func (m BindMessage) Encode() []byte {
	w := taggedMessage(TagBind, 64)
	w.CString("") // destination portal: always unnamed
	w.CString(m.StatementName)
	w.Int16(int16(len(m.ParamFormats)))
	for _, f := range m.ParamFormats {
		w.Int16(int16(f))
	}
	w.Int16(int16(len(m.ParamValues)))
	for _, v := range m.ParamValues {
		w.LengthPrefixed32(v, v == nil)
	}
	w.Int16(int16(len(m.ResultFormats)))
	for _, f := range m.ResultFormats {
		w.Int16(int16(f))
	}
	return backpatchTagged(w)
}

// Execute encodes an 'E' Execute message against the unnamed portal.
func Execute(maxRows int32) []byte {
	w := taggedMessage(TagExecute, 16)
	w.CString("")
	w.Int32(maxRows)
	return backpatchTagged(w)
}

// Describe encodes a 'D' Describe message. target is DescribeStatement or
// DescribePortal; name is "" for the unnamed portal/statement.
func Describe(target byte, name string) []byte {
	w := taggedMessage(TagDescribe, 16+len(name))
	w.Byte(target)
	w.CString(name)
	return backpatchTagged(w)
}

// Sync encodes an 'S' Sync message.
func Sync() []byte {
	w := taggedMessage(TagSync, 5)
	return backpatchTagged(w)
}

// Terminate encodes an 'X' Terminate message.
func Terminate() []byte {
	w := taggedMessage(TagTerminate, 5)
	return backpatchTagged(w)
}

// PasswordMessage encodes a 'p' password/SASL response carrying raw bytes
// (the caller supplies the exact payload: cleartext password, MD5 hex
// string, or a SCRAM client-first/client-final message).
func PasswordMessage(payload []byte) []byte {
	w := taggedMessage(TagPassword, 16+len(payload))
	w.RawBytes(payload)
	return backpatchTagged(w)
}

// Close with CloseTargetStatement/CloseTargetPortal supports deallocating a named prepared
// statement cleanly via the extended protocol ('C' Close) in addition to
// the simple-query DEALLOCATE path C5 also supports.
const (
	CloseTargetStatement byte = 'S'
	CloseTargetPortal    byte = 'P'
)

// Close encodes a 'C' Close message for the named statement or portal.
func Close(target byte, name string) []byte {
	w := taggedMessage(TagCloseMsg, 16+len(name))
	w.Byte(target)
	w.CString(name)
	return backpatchTagged(w)
}
