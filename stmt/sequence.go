package stmt

import (
	"github.com/lattice-db/pgwire/wire"
)

// ExtendedQuerySequence builds the Parse/Bind/Describe/Execute/Sync message
// sequence for one extended-protocol round trip against a (possibly
// anonymous) prepared statement. Query is only sent when SkipParse is false;
// set SkipParse on later executions of a named statement to skip re-Parsing
// (the caller is expected to have already called Cache.Prepare with the same
// name/query pair to catch a duplicate name with different text early).
type ExtendedQuerySequence struct {
	StatementName string
	Query         string
	ParamOIDs     []uint32
	ParamValues   [][]byte
	ParamFormats  []wire.FieldFormat
	ResultFormats []wire.FieldFormat
	MaxRows       int32
	// SkipParse is true when StatementName already names a previously
	// Parsed statement — the caller only needs Bind/Describe/Execute/Sync.
	SkipParse bool
}

// Encode renders the full message sequence, in send order.
func (s ExtendedQuerySequence) Encode() [][]byte {
	var out [][]byte
	if !s.SkipParse {
		out = append(out, wire.ParseMessage{
			StatementName: s.StatementName,
			Query:         s.Query,
			ParamOIDs:     s.ParamOIDs,
		}.Encode())
	}
	out = append(out, wire.BindMessage{
		StatementName: s.StatementName,
		ParamFormats:  s.ParamFormats,
		ParamValues:   s.ParamValues,
		ResultFormats: s.ResultFormats,
	}.Encode())
	out = append(out, wire.Describe(wire.DescribePortal, ""))
	out = append(out, wire.Execute(s.MaxRows))
	out = append(out, wire.Sync())
	return out
}

// Deallocate builds the Close+Sync sequence that drops a named prepared
// statement server-side.
func Deallocate(name string) [][]byte {
	return [][]byte{wire.Close(wire.CloseTargetStatement, name), wire.Sync()}
}
