package result

import (
	"testing"

	"github.com/lattice-db/pgwire/oid"
	"github.com/lattice-db/pgwire/wire"
)

func TestResultSetDecodeAndNullCheck(t *testing.T) {
	fields := []wire.FieldDescription{
		{Name: "id", TypeOID: oid.Int4},
		{Name: "label", TypeOID: oid.Text},
	}
	rs := NewResultSet(fields)
	rs.AppendRow([][]byte{oid.Int4Value{Int32: 42, Valid: true}.EncodeBinary(), nil})
	rs.Tag = "SELECT 1"

	row := rs.Rows[0]
	id, err := row.Int4(0)
	if err != nil || id != 42 {
		t.Fatalf("Int4(0) = %d, %v", id, err)
	}
	if !row.IsNull(1) {
		t.Error("IsNull(1) = false, want true")
	}
	if _, err := row.Text(1); err == nil {
		t.Fatal("Text(1) on NULL column: want error, got nil")
	}
}

func TestResultSetTypeMismatch(t *testing.T) {
	fields := []wire.FieldDescription{{Name: "id", TypeOID: oid.Int4}}
	rs := NewResultSet(fields)
	rs.AppendRow([][]byte{oid.Int4Value{Int32: 1, Valid: true}.EncodeBinary()})
	if _, err := rs.Rows[0].Text(0); err == nil {
		t.Fatal("Text() on int4 column: want TypeMismatch error, got nil")
	}
}

func TestColumnIndex(t *testing.T) {
	fields := []wire.FieldDescription{{Name: "a"}, {Name: "b"}}
	rs := NewResultSet(fields)
	if rs.ColumnIndex("b") != 1 {
		t.Errorf("ColumnIndex(b) = %d, want 1", rs.ColumnIndex("b"))
	}
	if rs.ColumnIndex("missing") != -1 {
		t.Errorf("ColumnIndex(missing) = %d, want -1", rs.ColumnIndex("missing"))
	}
}
