// Package auth drives the authentication state machine a connection runs
// through in response to backend AuthenticationRequest messages: cleartext
// password, MD5, and SCRAM-SHA-256. It never touches a socket — callers
// feed it the decoded AuthenticationRequest and it returns the bytes of the
// PasswordMessage to send back, or a final error.
package auth

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/lattice-db/pgwire/pgerr"
	"github.com/lattice-db/pgwire/wire"
)

// Cleartext returns the null-terminated UTF-8 password bytes a
// PasswordMessage carries: the field is a wire String, not a raw byte
// array, unlike the SASL response payloads below.
func Cleartext(password string) []byte {
	return append([]byte(password), 0)
}

// MD5 computes PostgreSQL's challenge-response MD5 password hash:
// "md5" || hex(md5(hex(md5(password || user)) || salt)), null-terminated
// for the same reason as Cleartext.
func MD5(user, password string, salt []byte) []byte {
	inner := md5Hex([]byte(password + user))
	outer := md5Hex(append([]byte(inner), salt...))
	return append([]byte("md5"+outer), 0)
}

func md5Hex(b []byte) string {
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}

// Step is one pending action in an authentication exchange: either a
// PasswordMessage payload to send (Send != nil), or Done when the backend's
// AuthenticationOK has already been consumed by the caller's message loop.
type Step struct {
	Send []byte
	Done bool
}

// RequireAuthOK validates that an AuthOK request carries no further payload
// expectations; it exists so callers have one place to assert this rather
// than inlining the check at each call site.
func RequireAuthOK(req wire.AuthenticationRequest) error {
	if req.Type != wire.AuthOK {
		return pgerr.New(pgerr.KindProtocolViolation, "auth: expected AuthenticationOK, got type %d", req.Type)
	}
	return nil
}
