package wire

// Backend message payloads, decoded from a Framer.Message's Payload. Each
// type corresponds to one of the backend tags this client handles.

// AuthenticationRequestType enumerates the sub-codes of an 'R' message.
type AuthenticationRequestType int32

const (
	AuthOK                AuthenticationRequestType = 0
	AuthCleartextPassword AuthenticationRequestType = 3
	AuthMD5Password       AuthenticationRequestType = 5
	AuthSASL              AuthenticationRequestType = 10
	AuthSASLContinue      AuthenticationRequestType = 11
	AuthSASLFinal         AuthenticationRequestType = 12
)

// AuthenticationRequest is the decoded body of an 'R' message.
type AuthenticationRequest struct {
	Type AuthenticationRequestType
	// MD5Salt is populated only for AuthMD5Password (4 bytes).
	MD5Salt []byte
	// Mechanisms is populated only for AuthSASL (list of SASL mechanism names).
	Mechanisms []string
	// SASLData is populated for AuthSASLContinue/AuthSASLFinal: the raw
	// server-first / server-final message bytes.
	SASLData []byte
}

// DecodeAuthenticationRequest parses an 'R' message payload.
func DecodeAuthenticationRequest(payload []byte) (AuthenticationRequest, error) {
	r := NewReader(payload)
	code, err := r.Int32()
	if err != nil {
		return AuthenticationRequest{}, err
	}
	req := AuthenticationRequest{Type: AuthenticationRequestType(code)}
	switch req.Type {
	case AuthMD5Password:
		salt, err := r.Bytes(4)
		if err != nil {
			return AuthenticationRequest{}, err
		}
		req.MD5Salt = append([]byte(nil), salt...)
	case AuthSASL:
		for r.Len() > 0 {
			name, err := r.CString()
			if err != nil {
				return AuthenticationRequest{}, err
			}
			if name == "" {
				break
			}
			req.Mechanisms = append(req.Mechanisms, name)
		}
	case AuthSASLContinue, AuthSASLFinal:
		req.SASLData = append([]byte(nil), r.Rest()...)
	}
	return req, nil
}

// BackendKeyData is the decoded body of a 'K' message.
type BackendKeyData struct {
	ProcessID uint32
	SecretKey uint32
}

func DecodeBackendKeyData(payload []byte) (BackendKeyData, error) {
	r := NewReader(payload)
	pid, err := r.Uint32()
	if err != nil {
		return BackendKeyData{}, err
	}
	secret, err := r.Uint32()
	if err != nil {
		return BackendKeyData{}, err
	}
	return BackendKeyData{ProcessID: pid, SecretKey: secret}, nil
}

// ParameterStatus is the decoded body of an 'S' message.
type ParameterStatus struct {
	Name  string
	Value string
}

func DecodeParameterStatus(payload []byte) (ParameterStatus, error) {
	r := NewReader(payload)
	name, err := r.CString()
	if err != nil {
		return ParameterStatus{}, err
	}
	value, err := r.CString()
	if err != nil {
		return ParameterStatus{}, err
	}
	return ParameterStatus{Name: name, Value: value}, nil
}

// ReadyForQuery is the decoded body of a 'Z' message.
type ReadyForQuery struct {
	TxStatus byte // 'I' idle, 'T' in transaction, 'E' failed transaction
}

func DecodeReadyForQuery(payload []byte) (ReadyForQuery, error) {
	r := NewReader(payload)
	b, err := r.Byte()
	if err != nil {
		return ReadyForQuery{}, err
	}
	return ReadyForQuery{TxStatus: b}, nil
}

// RowDescription is the decoded body of a 'T' message.
type RowDescription struct {
	Fields []FieldDescription
}

func DecodeRowDescription(payload []byte) (RowDescription, error) {
	r := NewReader(payload)
	n, err := r.Int16()
	if err != nil {
		return RowDescription{}, err
	}
	fields := make([]FieldDescription, 0, n)
	for i := int16(0); i < n; i++ {
		name, err := r.CString()
		if err != nil {
			return RowDescription{}, err
		}
		tableOID, err := r.Uint32()
		if err != nil {
			return RowDescription{}, err
		}
		attrNum, err := r.Int16()
		if err != nil {
			return RowDescription{}, err
		}
		typeOID, err := r.Uint32()
		if err != nil {
			return RowDescription{}, err
		}
		typeSize, err := r.Int16()
		if err != nil {
			return RowDescription{}, err
		}
		typeMod, err := r.Int32()
		if err != nil {
			return RowDescription{}, err
		}
		format, err := r.Int16()
		if err != nil {
			return RowDescription{}, err
		}
		fields = append(fields, FieldDescription{
			Name:            name,
			TableOID:        tableOID,
			AttributeNumber: attrNum,
			TypeOID:         typeOID,
			TypeSize:        typeSize,
			TypeMod:         typeMod,
			Format:          FieldFormat(format),
		})
	}
	return RowDescription{Fields: fields}, nil
}

// DataRow is the decoded body of a 'D' message: one field buffer per column,
// nil meaning SQL NULL.
type DataRow struct {
	Values [][]byte
}

func DecodeDataRow(payload []byte) (DataRow, error) {
	r := NewReader(payload)
	n, err := r.Int16()
	if err != nil {
		return DataRow{}, err
	}
	values := make([][]byte, n)
	for i := int16(0); i < n; i++ {
		length, err := r.Int32()
		if err != nil {
			return DataRow{}, err
		}
		if length < 0 {
			values[i] = nil
			continue
		}
		v, err := r.Bytes(int(length))
		if err != nil {
			return DataRow{}, err
		}
		values[i] = append(make([]byte, 0, length), v...)
	}
	return DataRow{Values: values}, nil
}

// CommandComplete is the decoded body of a 'C' message.
type CommandComplete struct {
	Tag string
}

func DecodeCommandComplete(payload []byte) (CommandComplete, error) {
	r := NewReader(payload)
	tag, err := r.CString()
	if err != nil {
		// Some command tags arrive without a NUL if truncated by a buggy
		// middlebox; fall back to the raw remainder rather than failing
		// the whole command.
		return CommandComplete{Tag: string(payload)}, nil
	}
	return CommandComplete{Tag: tag}, nil
}

// ParameterDescription is the decoded body of a 't' message.
type ParameterDescription struct {
	OIDs []uint32
}

func DecodeParameterDescription(payload []byte) (ParameterDescription, error) {
	r := NewReader(payload)
	n, err := r.Int16()
	if err != nil {
		return ParameterDescription{}, err
	}
	oids := make([]uint32, n)
	for i := range oids {
		oid, err := r.Uint32()
		if err != nil {
			return ParameterDescription{}, err
		}
		oids[i] = oid
	}
	return ParameterDescription{OIDs: oids}, nil
}
