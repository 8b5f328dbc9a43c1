package params

import (
	"github.com/lattice-db/pgwire/oid"
	"github.com/lattice-db/pgwire/pgerr"
)

// BuildUnnestColumns transposes row-major parameter values into column-major
// arrays suitable for the classic PostgreSQL batch-insert idiom:
//
//	INSERT INTO t (a, b) SELECT * FROM unnest($1::int4[], $2::text[])
//
// Every row must have the same number of columns and each column's values
// must share one OID; mismatched OIDs within a column return a TypeMismatch
// error rather than silently picking the first row's type.
func BuildUnnestColumns(rows [][]oid.Param) ([]oid.Param, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	numCols := len(rows[0])
	for _, row := range rows {
		if len(row) != numCols {
			return nil, pgerr.New(pgerr.KindInvalidState, "params: batch rows have mismatched column counts (%d vs %d)", len(row), numCols)
		}
	}

	columns := make([]oid.Param, numCols)
	for col := 0; col < numCols; col++ {
		colOID := rows[0][col].OID()
		for _, row := range rows {
			if row[col].OID() != colOID {
				return nil, pgerr.New(pgerr.KindTypeMismatch, "params: batch column %d mixes OID %d and %d", col, colOID, row[col].OID())
			}
		}
		arr, err := buildColumnArray(colOID, rows, col)
		if err != nil {
			return nil, err
		}
		columns[col] = arr
	}
	return columns, nil
}

// buildColumnArray collects one column across every row into the matching
// concrete array type. Only the scalar OIDs this client's array types cover
// are supported; anything else is a TypeMismatch, not a silent drop.
func buildColumnArray(colOID uint32, rows [][]oid.Param, col int) (oid.Param, error) {
	switch colOID {
	case oid.Int4:
		elems := make([]oid.Int4Value, len(rows))
		for i, row := range rows {
			elems[i] = row[col].(oid.Int4Value)
		}
		return oid.Int4ArrayValue{Elements: elems, Valid: true}, nil
	case oid.Int8:
		elems := make([]oid.Int8Value, len(rows))
		for i, row := range rows {
			elems[i] = row[col].(oid.Int8Value)
		}
		return oid.Int8ArrayValue{Elements: elems, Valid: true}, nil
	case oid.Float8:
		elems := make([]oid.Float8Value, len(rows))
		for i, row := range rows {
			elems[i] = row[col].(oid.Float8Value)
		}
		return oid.Float8ArrayValue{Elements: elems, Valid: true}, nil
	case oid.Text, oid.Varchar:
		elems := make([]oid.TextValue, len(rows))
		for i, row := range rows {
			switch v := row[col].(type) {
			case oid.TextValue:
				elems[i] = v
			case oid.VarcharValue:
				elems[i] = oid.TextValue{String: v.String, Valid: v.Valid}
			default:
				return nil, pgerr.New(pgerr.KindTypeMismatch, "params: batch column %d value of type %T is not text", col, v)
			}
		}
		return oid.TextArrayValue{Elements: elems, Valid: true}, nil
	case oid.Bool:
		elems := make([]oid.BoolValue, len(rows))
		for i, row := range rows {
			elems[i] = row[col].(oid.BoolValue)
		}
		return oid.BoolArrayValue{Elements: elems, Valid: true}, nil
	default:
		return nil, pgerr.New(pgerr.KindTypeMismatch, "params: batch insert does not support OID %d (%s)", colOID, oid.Name(colOID))
	}
}

// TextFallbackMask builds the useText mask BindValues consumes: true at
// every position whose value is a TextArrayValue, since large string arrays are cheaper to
// inspect as text literals in server-side logs than as opaque binary blobs,
// and PostgreSQL accepts both with no behavioral difference for this type.
func TextFallbackMask(values []oid.Param) []bool {
	mask := make([]bool, len(values))
	for i, v := range values {
		if _, ok := v.(oid.TextArrayValue); ok {
			mask[i] = true
		}
	}
	return mask
}
