package params

import (
	"testing"

	"github.com/lattice-db/pgwire/oid"
	"github.com/lattice-db/pgwire/wire"
)

func TestBindValuesNullEncodesAsNilWithBinaryFormat(t *testing.T) {
	values := []oid.Param{oid.Int4Value{Valid: false}}
	paramValues, formats := BindValues(values, nil)
	if paramValues[0] != nil {
		t.Errorf("paramValues[0] = %v, want nil", paramValues[0])
	}
	if formats[0] != wire.FormatBinary {
		t.Errorf("formats[0] = %v, want FormatBinary", formats[0])
	}
}

func TestBindValuesTextMask(t *testing.T) {
	values := []oid.Param{
		oid.Int4Value{Int32: 7, Valid: true},
		oid.TextArrayValue{Elements: []oid.TextValue{{String: "a", Valid: true}}, Valid: true},
	}
	mask := []bool{false, true}
	paramValues, formats := BindValues(values, mask)
	if formats[0] != wire.FormatBinary {
		t.Errorf("formats[0] = %v, want FormatBinary", formats[0])
	}
	if formats[1] != wire.FormatText {
		t.Errorf("formats[1] = %v, want FormatText", formats[1])
	}
	if string(paramValues[1]) != "{a}" {
		t.Errorf("paramValues[1] = %q, want {a}", paramValues[1])
	}
}

func TestOIDs(t *testing.T) {
	values := []oid.Param{oid.Int4Value{Valid: true}, oid.TextValue{Valid: true}}
	got := OIDs(values)
	if got[0] != oid.Int4 || got[1] != oid.Text {
		t.Errorf("OIDs() = %v", got)
	}
}

func TestBuildUnnestColumns(t *testing.T) {
	rows := [][]oid.Param{
		{oid.Int4Value{Int32: 1, Valid: true}, oid.TextValue{String: "a", Valid: true}},
		{oid.Int4Value{Int32: 2, Valid: true}, oid.TextValue{String: "b", Valid: true}},
	}
	cols, err := BuildUnnestColumns(rows)
	if err != nil {
		t.Fatal(err)
	}
	intCol, ok := cols[0].(oid.Int4ArrayValue)
	if !ok || len(intCol.Elements) != 2 || intCol.Elements[1].Int32 != 2 {
		t.Errorf("cols[0] = %+v", cols[0])
	}
	textCol, ok := cols[1].(oid.TextArrayValue)
	if !ok || textCol.Elements[0].String != "a" {
		t.Errorf("cols[1] = %+v", cols[1])
	}
}

func TestBuildUnnestColumnsRejectsMismatchedOIDs(t *testing.T) {
	rows := [][]oid.Param{
		{oid.Int4Value{Int32: 1, Valid: true}},
		{oid.Int8Value{Int64: 2, Valid: true}},
	}
	if _, err := BuildUnnestColumns(rows); err == nil {
		t.Fatal("BuildUnnestColumns with mixed OIDs: want error, got nil")
	}
}
