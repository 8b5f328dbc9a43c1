package auth

import (
	"github.com/lattice-db/pgwire/pgerr"
	"github.com/lattice-db/pgwire/wire"
)

// FSM drives one connection's authentication exchange from the first
// AuthenticationRequest through AuthenticationOK. The caller's message loop
// owns the socket; FSM only ever transforms decoded requests into response
// bytes.
type FSM struct {
	user     string
	password string
	scram    *ScramClient
}

// New returns an FSM ready to authenticate user with password against
// whatever method the server requests.
func New(user, password string) *FSM {
	return &FSM{user: user, password: password}
}

// Handle processes one AuthenticationRequest and returns the bytes of a
// PasswordMessage to send in response, or done=true once AuthenticationOK has
// been observed and no further response is needed.
func (f *FSM) Handle(req wire.AuthenticationRequest) (response []byte, done bool, err error) {
	switch req.Type {
	case wire.AuthOK:
		return nil, true, nil

	case wire.AuthCleartextPassword:
		return Cleartext(f.password), false, nil

	case wire.AuthMD5Password:
		if len(req.MD5Salt) != 4 {
			return nil, false, pgerr.New(pgerr.KindProtocolViolation, "auth: md5 salt length = %d, want 4", len(req.MD5Salt))
		}
		return MD5(f.user, f.password, req.MD5Salt), false, nil

	case wire.AuthSASL:
		if !MechanismOffered(req.Mechanisms) {
			return nil, false, pgerr.New(pgerr.KindAuthenticationFailed, "auth: server did not offer %s, offered %v", ScramSHA256Mechanism, req.Mechanisms)
		}
		c, err := NewScramClient(f.user, f.password)
		if err != nil {
			return nil, false, err
		}
		f.scram = c
		return sasInitialResponse(ScramSHA256Mechanism, c.ClientFirstMessage()), false, nil

	case wire.AuthSASLContinue:
		if f.scram == nil {
			return nil, false, pgerr.New(pgerr.KindProtocolViolation, "auth: SASLContinue before SASL request")
		}
		final, err := f.scram.ClientFinalMessage(req.SASLData)
		if err != nil {
			return nil, false, err
		}
		return final, false, nil

	case wire.AuthSASLFinal:
		if f.scram == nil {
			return nil, false, pgerr.New(pgerr.KindProtocolViolation, "auth: SASLFinal before SASL request")
		}
		if err := f.scram.VerifyServerFinal(req.SASLData); err != nil {
			return nil, false, err
		}
		return nil, false, nil

	default:
		return nil, false, pgerr.New(pgerr.KindAuthenticationFailed, "auth: unsupported authentication request type %d", req.Type)
	}
}

// sasInitialResponse wraps a SCRAM client-first message in the envelope a
// SASLInitialResponse ('p' message) requires: the selected mechanism name,
// then the response length, then the raw response bytes. Every later SASL
// round trip (client-final, server-final) carries only the raw bytes with
// no such envelope.
func sasInitialResponse(mechanism string, clientFirst []byte) []byte {
	out := make([]byte, 0, len(mechanism)+1+4+len(clientFirst))
	out = append(out, mechanism...)
	out = append(out, 0)
	n := int32(len(clientFirst))
	out = append(out, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
	out = append(out, clientFirst...)
	return out
}
