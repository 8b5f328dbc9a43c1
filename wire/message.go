package wire

// Frontend message tags. StartupMessage and SSLRequest carry no tag.
const (
	TagQuery       byte = 'Q'
	TagParse       byte = 'P'
	TagBind        byte = 'B'
	TagExecute     byte = 'E'
	TagDescribe    byte = 'D'
	TagSync        byte = 'S'
	TagTerminate   byte = 'X'
	TagPassword    byte = 'p' // also used for SASLInitialResponse / SASLResponse
	TagCloseMsg    byte = 'C'
	TagFlush       byte = 'H'
)

// Backend message tags handled by this client.
const (
	TagAuthentication      byte = 'R'
	TagBackendKeyData      byte = 'K'
	TagParameterStatus     byte = 'S'
	TagReadyForQuery       byte = 'Z'
	TagRowDescription      byte = 'T'
	TagDataRow             byte = 'D'
	TagCommandComplete     byte = 'C'
	TagParseComplete       byte = '1'
	TagBindComplete        byte = '2'
	TagParameterDescription byte = 't'
	TagNoData              byte = 'n'
	TagPortalSuspended      byte = 's'
	TagNoticeResponse      byte = 'N'
	TagErrorResponse       byte = 'E'
	TagCloseComplete       byte = '3'
)

// ProtocolVersion3 is the protocol version sent in StartupMessage: 3 << 16.
const ProtocolVersion3 int32 = 196608

// SSLRequestCode is the magic number identifying an SSLRequest in place of a
// StartupMessage: 1234 << 16 | 5679.
const SSLRequestCode int32 = 80877103

// DescribeStatement and DescribePortal select Describe's target.
const (
	DescribeStatement byte = 'S'
	DescribePortal    byte = 'P'
)

// FieldFormat is the per-column/per-parameter format code.
type FieldFormat int16

const (
	FormatText   FieldFormat = 0
	FormatBinary FieldFormat = 1
)

// FieldDescription mirrors a single RowDescription field.
type FieldDescription struct {
	Name             string
	TableOID         uint32
	AttributeNumber  int16
	TypeOID          uint32
	TypeSize         int16
	TypeMod          int32
	Format           FieldFormat
}
