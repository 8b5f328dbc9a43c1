// Package pgerr classifies PostgreSQL ErrorResponse/NoticeResponse messages
// into a closed set of error kinds and decodes every field the backend
// sends, not just the commonly used handful.
package pgerr

import "fmt"

// Kind is the closed set of error variants a command callback can receive.
type Kind int

const (
	// KindConnectionError covers transport closure, TLS failure, and framing errors.
	KindConnectionError Kind = iota
	// KindAuthenticationFailed covers unsupported methods, bad credentials, and SCRAM signature mismatches.
	KindAuthenticationFailed
	// KindProtocolViolation covers malformed messages and unexpected tags.
	KindProtocolViolation
	// KindQueryError is the catch-all for server-reported query failures.
	KindQueryError
	// KindSqlSyntaxOrBindingError covers SQLSTATE class 42.
	KindSqlSyntaxOrBindingError
	// KindConstraintViolation covers SQLSTATE class 23.
	KindConstraintViolation
	// KindTransactionSerializationFailure covers SQLSTATE class 40.
	KindTransactionSerializationFailure
	// KindTypeMismatch is raised application-side when a requested Go type is incompatible with a column's OID.
	KindTypeMismatch
	// KindFieldIsNull is raised application-side when a null field is extracted into a non-nullable target.
	KindFieldIsNull
	// KindInvalidState covers e.g. a savepoint outside a transaction or a duplicate prepared statement name.
	KindInvalidState
)

func (k Kind) String() string {
	switch k {
	case KindConnectionError:
		return "ConnectionError"
	case KindAuthenticationFailed:
		return "AuthenticationFailed"
	case KindProtocolViolation:
		return "ProtocolViolation"
	case KindQueryError:
		return "QueryError"
	case KindSqlSyntaxOrBindingError:
		return "SqlSyntaxOrBindingError"
	case KindConstraintViolation:
		return "ConstraintViolation"
	case KindTransactionSerializationFailure:
		return "TransactionSerializationFailure"
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindFieldIsNull:
		return "FieldIsNull"
	case KindInvalidState:
		return "InvalidState"
	default:
		return "Unknown"
	}
}

// Error is the single error type every command callback, and every
// application-facing API call, returns.
type Error struct {
	Kind     Kind
	Message  string
	SQLState string
	Severity string
	Detail   string
	// Fields holds every raw ErrorResponse/NoticeResponse field code the
	// backend sent (S, V, C, M, D, H, P, p, q, W, s, t, c, d, n, F, L, R —
	// see original_source/src/error.cpp), keyed by its single-byte code.
	Fields  map[byte]string
	Wrapped error
}

func (e *Error) Error() string {
	if e.SQLState != "" {
		return fmt.Sprintf("pgwire: %s [%s]: %s", e.Kind, e.SQLState, e.Message)
	}
	return fmt.Sprintf("pgwire: %s: %s", e.Kind, e.Message)
}

// Unwrap supports errors.Is/errors.As against a wrapped cause (e.g. the
// underlying transport error for a ConnectionError).
func (e *Error) Unwrap() error { return e.Wrapped }

// New builds a plain application-side error (no SQLSTATE involved).
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an error of the given kind around cause (e.g. a ConnectionError
// around a transport-level failure).
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Wrapped: cause}
}

// ClassifySQLState maps a 5-character SQLSTATE to an error Kind.
func ClassifySQLState(sqlstate string) Kind {
	if len(sqlstate) < 2 {
		return KindQueryError
	}
	switch sqlstate[:2] {
	case "08":
		return KindConnectionError
	case "28", "0P":
		return KindAuthenticationFailed
	case "23":
		return KindConstraintViolation
	case "42":
		return KindSqlSyntaxOrBindingError
	case "40":
		return KindTransactionSerializationFailure
	case "57":
		return KindConnectionError // server shutdown or statement_timeout
	default:
		return KindQueryError
	}
}
