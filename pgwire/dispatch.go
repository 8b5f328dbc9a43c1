package pgwire

import (
	"github.com/lattice-db/pgwire/pgerr"
	"github.com/lattice-db/pgwire/stmt"
	"github.com/lattice-db/pgwire/txtree"
	"github.com/lattice-db/pgwire/wire"
)

// queryRequest is the Payload a CommandExecute/CommandExecuteInline carries:
// everything sendCommand needs to render the extended-protocol message
// sequence, built ahead of time by Execute/ExecuteInline/Prepare so txtree
// itself never has to know about parameters or wire encoding.
type queryRequest struct {
	statementName string
	query         string
	paramOIDs     []uint32
	paramValues   [][]byte
	paramFormats  []wire.FieldFormat
	skipParse     bool
}

// sendCommand renders cmd's wire bytes and hands them to the transport.
func (c *Conn) sendCommand(cmd txtree.Command) error {
	switch cmd.Kind {
	case txtree.CommandSimpleQuery,
		txtree.CommandBegin,
		txtree.CommandCommit,
		txtree.CommandRollback,
		txtree.CommandSavepoint,
		txtree.CommandReleaseSavepoint,
		txtree.CommandRollbackToSavepoint:
		return c.send(wire.Query(cmd.SQL))

	case txtree.CommandPrepare:
		oids, _ := cmd.Payload.([]uint32)
		buf := wire.ParseMessage{StatementName: cmd.StatementName, Query: cmd.SQL, ParamOIDs: oids}.Encode()
		buf = append(buf, wire.Sync()...)
		return c.send(buf)

	case txtree.CommandExecute, txtree.CommandExecuteInline:
		qr, ok := cmd.Payload.(*queryRequest)
		if !ok {
			return c.fail(pgerr.New(pgerr.KindInvalidState, "pgwire: execute command missing its query request"))
		}
		seq := stmt.ExtendedQuerySequence{
			StatementName: qr.statementName,
			Query:         qr.query,
			ParamOIDs:     qr.paramOIDs,
			ParamValues:   qr.paramValues,
			ParamFormats:  qr.paramFormats,
			ResultFormats: []wire.FieldFormat{wire.FormatBinary}, // a single code broadcasts to every column
			SkipParse:     qr.skipParse,
		}
		var buf []byte
		for _, m := range seq.Encode() {
			buf = append(buf, m...)
		}
		return c.send(buf)

	default:
		return c.fail(pgerr.New(pgerr.KindInvalidState, "pgwire: unhandled command kind %d", cmd.Kind))
	}
}
