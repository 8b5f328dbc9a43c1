package pgerr

// Decode parses the body of a backend ErrorResponse ('E') or NoticeResponse
// ('N') message: a sequence of `{code byte}{value}\0` pairs terminated by a
// final zero byte. It captures every field
// code the backend sends (S, V, C, M, D, H, P, p, q, W, s, t, c, d, n, F, L,
// R), not only the commonly used handful.
func Decode(payload []byte) *Error {
	fields := make(map[byte]string)
	i := 0
	for i < len(payload) {
		code := payload[i]
		if code == 0 {
			break
		}
		i++
		start := i
		for i < len(payload) && payload[i] != 0 {
			i++
		}
		fields[code] = string(payload[start:i])
		if i < len(payload) {
			i++ // skip the terminating NUL
		}
	}

	sqlstate := fields['C']
	e := &Error{
		Kind:     ClassifySQLState(sqlstate),
		Message:  fields['M'],
		SQLState: sqlstate,
		Severity: fields['S'],
		Detail:   fields['D'],
		Fields:   fields,
	}
	return e
}

// IsNotice reports whether tag denotes a NoticeResponse, which must never
// fail a command.
func IsNotice(tag byte) bool { return tag == 'N' }
