// Package params builds the Bind message payload (parameter formats, values,
// and result formats) from a list of oid.Param values, and derives the
// Parse message's parameter OID list.
package params

import (
	"github.com/lattice-db/pgwire/oid"
	"github.com/lattice-db/pgwire/wire"
)

// OIDs returns the OID of each parameter, for Parse's ParamOIDs list.
func OIDs(values []oid.Param) []uint32 {
	out := make([]uint32, len(values))
	for i, v := range values {
		out[i] = v.OID()
	}
	return out
}

// BindValues renders values into the (nil for NULL, or the encoded payload)
// form BindMessage.ParamValues expects, and the matching format code list.
// Every value is sent binary except when textMask is true for that value's
// position, where its EncodeText form is sent with the text format code —
// PostgreSQL text array literals are simpler to eyeball in
// logs/pg_stat_activity. A TextArrayValue sent this way stays one parameter
// holding a {a,b,c} literal; its elements are not expanded into separate
// parameters.
func BindValues(values []oid.Param, textMask []bool) (paramValues [][]byte, formats []wire.FieldFormat) {
	paramValues = make([][]byte, len(values))
	formats = make([]wire.FieldFormat, len(values))
	for i, v := range values {
		useText := textMask != nil && i < len(textMask) && textMask[i]
		if v == nil || v.IsNull() {
			paramValues[i] = nil
			formats[i] = wire.FormatBinary
			continue
		}
		if useText {
			paramValues[i] = []byte(v.EncodeText())
			formats[i] = wire.FormatText
		} else {
			paramValues[i] = v.EncodeBinary()
			formats[i] = wire.FormatBinary
		}
	}
	return paramValues, formats
}

// ResultFormatsAllBinary returns n copies of FormatBinary: this client
// always requests binary results, since the result assembler (package
// result) decodes every supported OID from its binary form.
func ResultFormatsAllBinary(n int) []wire.FieldFormat {
	out := make([]wire.FieldFormat, n)
	for i := range out {
		out[i] = wire.FormatBinary
	}
	return out
}
