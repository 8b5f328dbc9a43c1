package oid

import "testing"

func TestInt4ArrayBinaryRoundTrip(t *testing.T) {
	v := Int4ArrayValue{
		Elements: []Int4Value{
			{Int32: 1, Valid: true},
			{Int32: 2, Valid: true},
			{Valid: false},
			{Int32: -7, Valid: true},
		},
		Valid: true,
	}
	got, err := DecodeInt4Array(v.EncodeBinary())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	if got[2].Valid {
		t.Errorf("element 2 Valid = true, want false (NULL)")
	}
	if got[0].Int32 != 1 || got[1].Int32 != 2 || got[3].Int32 != -7 {
		t.Errorf("got = %+v", got)
	}
}

// TestEmptyArrayIsNull locks in the spec's explicit rule that an empty
// array parameter is SQL NULL on the wire (length -1), not a zero-element
// array body: params.BindValues (and anything else that marshals a Param)
// decides NULL purely from IsNull(), so this is the one place that decision
// has to be made correctly.
func TestEmptyArrayIsNull(t *testing.T) {
	v := TextArrayValue{Elements: nil, Valid: true}
	if !v.IsNull() {
		t.Fatalf("IsNull() = false for an empty valid array, want true")
	}
}

func TestTextArrayBinaryRoundTrip(t *testing.T) {
	v := TextArrayValue{
		Elements: []TextValue{
			{String: "alpha", Valid: true},
			{Valid: false},
			{String: "", Valid: true},
		},
		Valid: true,
	}
	got, err := DecodeTextArray(v.EncodeBinary())
	if err != nil {
		t.Fatal(err)
	}
	if got[0].String != "alpha" || got[0].Valid != true {
		t.Errorf("element 0 = %+v", got[0])
	}
	if got[1].Valid {
		t.Errorf("element 1 Valid = true, want false")
	}
	if got[2].String != "" || !got[2].Valid {
		t.Errorf("element 2 = %+v", got[2])
	}
}

func TestArrayTextLiteralQuoting(t *testing.T) {
	v := TextArrayValue{Elements: []TextValue{
		{String: "plain", Valid: true},
		{String: "has,comma", Valid: true},
		{String: "", Valid: true},
	}}
	got := v.EncodeText()
	want := `{plain,"has,comma",""}`
	if got != want {
		t.Errorf("EncodeText() = %q, want %q", got, want)
	}
}

func TestBoolArrayBinaryRoundTrip(t *testing.T) {
	v := BoolArrayValue{Elements: []BoolValue{
		{Bool: true, Valid: true},
		{Bool: false, Valid: true},
	}, Valid: true}
	got, err := DecodeBoolArray(v.EncodeBinary())
	if err != nil {
		t.Fatal(err)
	}
	if !got[0].Bool || got[1].Bool {
		t.Errorf("got = %+v", got)
	}
}
