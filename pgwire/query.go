package pgwire

import (
	"github.com/lattice-db/pgwire/oid"
	"github.com/lattice-db/pgwire/params"
	"github.com/lattice-db/pgwire/pgerr"
	"github.com/lattice-db/pgwire/pkg/postgres"
	"github.com/lattice-db/pgwire/result"
	"github.com/lattice-db/pgwire/txtree"
)

// Query runs sql via the simple query protocol, inside the current
// transaction node if one is open or as an autocommit statement otherwise.
// onComplete receives the accumulated result set and any server-reported
// error; a statement that returns no rows still yields a ResultSet with no
// Rows and its CommandComplete Tag set.
func (c *Conn) Query(sql string, onComplete func(*result.ResultSet, error)) error {
	if c.closed {
		return pgerr.New(pgerr.KindConnectionError, "pgwire: Query on a closed connection")
	}
	c.tx.Query(txtree.NewSimpleQuery(sql, func(err error) {
		if onComplete != nil {
			onComplete(c.currentResult, err)
		}
	}))
	return c.pump()
}

// Prepare registers name against query. Re-preparing the same name with
// identical text is a no-op success; re-preparing it with different text
// fails with InvalidState before any bytes reach the server — the
// duplicate check happens entirely against the local cache. The anonymous
// name "" always re-Parses on every use and never touches the cache.
func (c *Conn) Prepare(name, query string, paramOIDs []uint32, onResult func(error)) error {
	if c.closed {
		return pgerr.New(pgerr.KindConnectionError, "pgwire: Prepare on a closed connection")
	}
	if err := c.stmts.Prepare(name, query); err != nil {
		return err
	}
	if name != "" && c.wireNames[name] {
		if onResult != nil {
			onResult(nil)
		}
		return nil
	}
	cmd := txtree.Command{
		Kind:          txtree.CommandPrepare,
		SQL:           query,
		StatementName: name,
		Payload:       paramOIDs,
		OnResult: func(err error) {
			if err == nil && name != "" {
				c.wireNames[name] = true
			}
			if onResult != nil {
				onResult(err)
			}
		},
	}
	c.tx.Query(cmd)
	return c.pump()
}

// Execute runs a previously Prepared named statement with values bound
// against its parameters. Parameters are sent binary except any
// TextArrayValue, which is sent as a single text-format array literal
// parameter; its elements are not expanded into separate parameters.
func (c *Conn) Execute(name string, values []oid.Param, onComplete func(*result.ResultSet, error)) error {
	if c.closed {
		return pgerr.New(pgerr.KindConnectionError, "pgwire: Execute on a closed connection")
	}
	if _, ok := c.stmts.Lookup(name); !ok {
		return pgerr.New(pgerr.KindInvalidState, "pgwire: statement %q has not been prepared", name)
	}
	qr := &queryRequest{statementName: name, skipParse: true}
	qr.paramOIDs = params.OIDs(values)
	qr.paramValues, qr.paramFormats = params.BindValues(values, params.TextFallbackMask(values))

	cmd := txtree.Command{
		Kind:          txtree.CommandExecute,
		StatementName: name,
		Payload:       qr,
		OnResult: func(err error) {
			if onComplete != nil {
				onComplete(c.currentResult, err)
			}
		},
	}
	c.tx.Query(cmd)
	return c.pump()
}

// ExecuteInline runs sql once through the extended protocol against the
// anonymous statement, bypassing the prepared-statement cache entirely —
// for one-shot parameterized queries a caller doesn't intend to reuse.
func (c *Conn) ExecuteInline(sql string, values []oid.Param, onComplete func(*result.ResultSet, error)) error {
	if c.closed {
		return pgerr.New(pgerr.KindConnectionError, "pgwire: ExecuteInline on a closed connection")
	}
	qr := &queryRequest{query: sql, skipParse: false}
	qr.paramOIDs = params.OIDs(values)
	qr.paramValues, qr.paramFormats = params.BindValues(values, params.TextFallbackMask(values))

	cmd := txtree.Command{
		Kind:    txtree.CommandExecuteInline,
		SQL:     sql,
		Payload: qr,
		OnResult: func(err error) {
			if onComplete != nil {
				onComplete(c.currentResult, err)
			}
		},
	}
	c.tx.Query(cmd)
	return c.pump()
}

// Deallocate drops a previously Prepared statement, both from the local
// cache and from the server.
func (c *Conn) Deallocate(name string, onResult func(error)) error {
	if c.closed {
		return pgerr.New(pgerr.KindConnectionError, "pgwire: Deallocate on a closed connection")
	}
	cmd := txtree.Command{
		Kind: txtree.CommandSimpleQuery,
		SQL:  "DEALLOCATE " + postgres.QuoteIdentifier(name),
		OnResult: func(err error) {
			if err == nil {
				c.stmts.Deallocate(name)
				delete(c.wireNames, name)
			}
			if onResult != nil {
				onResult(err)
			}
		},
	}
	c.tx.Query(cmd)
	return c.pump()
}

// Begin starts a new top-level transaction; rejected if one is already
// open (nest with Savepoint instead, the way PostgreSQL itself refuses a
// nested BEGIN).
func (c *Conn) Begin(isolation txtree.Isolation, readOnly, deferrable bool, onResult func(error)) error {
	if c.closed {
		return pgerr.New(pgerr.KindConnectionError, "pgwire: Begin on a closed connection")
	}
	if err := c.tx.Begin(isolation, readOnly, deferrable, onResult); err != nil {
		return err
	}
	return c.pump()
}

// Savepoint nests a new savepoint under the current transaction node.
func (c *Conn) Savepoint(onResult func(error)) (*txtree.Node, error) {
	if c.closed {
		return nil, pgerr.New(pgerr.KindConnectionError, "pgwire: Savepoint on a closed connection")
	}
	node, err := c.tx.Savepoint(onResult)
	if err != nil {
		return nil, err
	}
	return node, c.pump()
}

// Commit commits the current node: COMMIT at the root, RELEASE SAVEPOINT
// otherwise.
func (c *Conn) Commit(onResult func(error)) error {
	if c.closed {
		return pgerr.New(pgerr.KindConnectionError, "pgwire: Commit on a closed connection")
	}
	if err := c.tx.Commit(onResult); err != nil {
		return err
	}
	return c.pump()
}

// Rollback rolls back the current node: ROLLBACK at the root, ROLLBACK TO
// SAVEPOINT otherwise.
func (c *Conn) Rollback(onResult func(error)) error {
	if c.closed {
		return pgerr.New(pgerr.KindConnectionError, "pgwire: Rollback on a closed connection")
	}
	if err := c.tx.Rollback(onResult); err != nil {
		return err
	}
	return c.pump()
}
