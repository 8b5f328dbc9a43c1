// Package result assembles a query's RowDescription and DataRow messages
// into a queryable ResultSet, and decodes individual field values into
// oid package types on demand.
package result

import (
	"github.com/lattice-db/pgwire/oid"
	"github.com/lattice-db/pgwire/pgerr"
	"github.com/lattice-db/pgwire/wire"
)

// ResultSet is the decoded output of one completed command: its column
// shape (from RowDescription) and the rows accumulated from DataRow
// messages, terminated by CommandComplete.
type ResultSet struct {
	Fields []wire.FieldDescription
	Rows   []Row
	// Tag is CommandComplete's raw command tag, e.g. "SELECT 3" or
	// "INSERT 0 1".
	Tag string
}

// Row is one DataRow's worth of column values, still in wire form; field
// extraction happens lazily via Value/Int4/Text/etc. so a caller that only
// needs two of twenty columns never pays to decode the rest.
type Row struct {
	resultSet *ResultSet
	Values    [][]byte
}

// NewResultSet starts an empty result set with the given column shape.
func NewResultSet(fields []wire.FieldDescription) *ResultSet {
	return &ResultSet{Fields: fields}
}

// AppendRow adds a DataRow's decoded field buffers.
func (rs *ResultSet) AppendRow(values [][]byte) {
	rs.Rows = append(rs.Rows, Row{resultSet: rs, Values: values})
}

// ColumnIndex returns the 0-based index of name, or -1 if no field matches.
// Matching is case-sensitive, following PostgreSQL's own unquoted-identifier
// folding: callers that need case-insensitive lookup should lowercase name
// themselves before calling, matching how they'd have quoted the column.
func (rs *ResultSet) ColumnIndex(name string) int {
	for i, f := range rs.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// IsNull reports whether column i of this row is SQL NULL, without
// decoding it — the O(1) check the result assembler promises.
func (r Row) IsNull(i int) bool {
	return r.Values[i] == nil
}

func (r Row) checkOID(i int, want uint32) error {
	got := r.resultSet.Fields[i].TypeOID
	if got != want {
		return pgerr.New(pgerr.KindTypeMismatch, "result: column %d (%s) has OID %s, requested %s",
			i, r.resultSet.Fields[i].Name, oid.Name(got), oid.Name(want))
	}
	return nil
}

func (r Row) nonNull(i int) error {
	if r.IsNull(i) {
		return pgerr.New(pgerr.KindFieldIsNull, "result: column %d (%s) is NULL", i, r.resultSet.Fields[i].Name)
	}
	return nil
}

// Bool decodes column i as bool. Returns KindFieldIsNull if the value is
// NULL, or KindTypeMismatch if the column's OID isn't bool.
func (r Row) Bool(i int) (bool, error) {
	if err := r.checkOID(i, oid.Bool); err != nil {
		return false, err
	}
	if err := r.nonNull(i); err != nil {
		return false, err
	}
	return oid.DecodeBool(r.Values[i])
}

// Int4 decodes column i as int4.
func (r Row) Int4(i int) (int32, error) {
	if err := r.checkOID(i, oid.Int4); err != nil {
		return 0, err
	}
	if err := r.nonNull(i); err != nil {
		return 0, err
	}
	return oid.DecodeInt4(r.Values[i])
}

// Int8 decodes column i as int8.
func (r Row) Int8(i int) (int64, error) {
	if err := r.checkOID(i, oid.Int8); err != nil {
		return 0, err
	}
	if err := r.nonNull(i); err != nil {
		return 0, err
	}
	return oid.DecodeInt8(r.Values[i])
}

// Float8 decodes column i as float8.
func (r Row) Float8(i int) (float64, error) {
	if err := r.checkOID(i, oid.Float8); err != nil {
		return 0, err
	}
	if err := r.nonNull(i); err != nil {
		return 0, err
	}
	return oid.DecodeFloat8(r.Values[i])
}

// Text decodes column i as text or varchar.
func (r Row) Text(i int) (string, error) {
	colOID := r.resultSet.Fields[i].TypeOID
	if colOID != oid.Text && colOID != oid.Varchar {
		return "", pgerr.New(pgerr.KindTypeMismatch, "result: column %d (%s) has OID %s, requested text",
			i, r.resultSet.Fields[i].Name, oid.Name(colOID))
	}
	if err := r.nonNull(i); err != nil {
		return "", err
	}
	return string(r.Values[i]), nil
}

// Bytea decodes column i as bytea.
func (r Row) Bytea(i int) ([]byte, error) {
	if err := r.checkOID(i, oid.Bytea); err != nil {
		return nil, err
	}
	if err := r.nonNull(i); err != nil {
		return nil, err
	}
	// A non-null empty bytea decodes to a non-nil empty slice, never nil,
	// so callers can distinguish "empty" from "not yet decoded".
	v := r.Values[i]
	if v == nil {
		v = []byte{}
	}
	return v, nil
}

// Value returns the raw field bytes (nil for NULL) with no OID check or
// decode, for callers building their own type on top of oid.Param.
func (r Row) Value(i int) []byte {
	return r.Values[i]
}
