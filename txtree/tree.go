// Package txtree models one connection's transaction tree: the top-level
// transaction plus any nested savepoints, each tracked as a node so that an
// error deep inside a savepoint rolls back only as far up the tree as
// necessary, the way a human running psql by hand would.
package txtree

import (
	"fmt"

	"github.com/lattice-db/pgwire/pkg/postgres"
)

// State is a transaction node's lifecycle stage.
type State int

const (
	StatePending State = iota
	StateActive
	StateCommitting
	StateRollingBack
	StateDone
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateActive:
		return "active"
	case StateCommitting:
		return "committing"
	case StateRollingBack:
		return "rolling_back"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Isolation is the transaction isolation level named in BEGIN/START
// TRANSACTION; only the top-level node carries one (savepoints inherit it).
type Isolation int

const (
	IsolationDefault Isolation = iota
	IsolationReadCommitted
	IsolationRepeatableRead
	IsolationSerializable
)

func (i Isolation) sql() string {
	switch i {
	case IsolationReadCommitted:
		return "READ COMMITTED"
	case IsolationRepeatableRead:
		return "REPEATABLE READ"
	case IsolationSerializable:
		return "SERIALIZABLE"
	default:
		return ""
	}
}

// Node is one level of the transaction tree: the root node is the
// top-level transaction (BEGIN); every child is a SAVEPOINT nested inside
// its parent.
type Node struct {
	Parent   *Node
	Children []*Node
	State    State

	// Depth is 0 for the root transaction, 1 for its first-level
	// savepoints, and so on.
	Depth int
	// savepointSeq numbers savepoints across the whole tree (every node
	// under one root shares the same counter) so repeated SAVEPOINT cycles
	// never reuse a name still visible to the server within the same
	// top-level transaction.
	savepointSeq *int

	ReadOnly    bool
	Deferrable  bool
	Isolation   Isolation

	// ResultFlag is false once this node itself has failed (MarkFailed
	// touches no other node); a failed node can only be rolled back, never
	// committed or released.
	ResultFlag bool

	// Commands records, in order, every command enqueued against this
	// node. Dispatch order comes from the Driver's own queue, and entries
	// are not removed here when dispatched or discarded.
	Commands []Command

	// SavepointName is "" for the root node, and the server-side name a
	// child node's SAVEPOINT/RELEASE/ROLLBACK TO commands reference.
	SavepointName string
}

// NewRoot starts a fresh top-level transaction node in StatePending: the
// caller still needs to send BEGIN and observe it succeed before moving it
// to StateActive.
func NewRoot(isolation Isolation, readOnly, deferrable bool) *Node {
	seq := 0
	return &Node{
		State:      StatePending,
		ResultFlag: true,
		Isolation:  isolation,
		ReadOnly:   readOnly,
		Deferrable: deferrable,
		savepointSeq: &seq,
	}
}

// Begin renders this root node's BEGIN statement text.
func (n *Node) Begin() string {
	sql := "BEGIN"
	if mode := n.Isolation.sql(); mode != "" {
		sql += " ISOLATION LEVEL " + mode
	}
	if n.ReadOnly {
		sql += " READ ONLY"
	}
	if n.Deferrable {
		sql += " DEFERRABLE"
	}
	return sql
}

// Savepoint starts a new child node nested under n, in StatePending.
func (n *Node) Savepoint() *Node {
	*n.savepointSeq++
	name := fmt.Sprintf("pgwire_sp_%d", *n.savepointSeq)
	child := &Node{
		Parent:        n,
		State:         StatePending,
		ResultFlag:    true,
		Depth:         n.Depth + 1,
		SavepointName: name,
		savepointSeq:  n.savepointSeq,
	}
	n.Children = append(n.Children, child)
	return child
}

// SavepointSQL renders this node's SAVEPOINT statement (only valid for a
// non-root node).
func (n *Node) SavepointSQL() string {
	return "SAVEPOINT " + postgres.QuoteIdentifier(n.SavepointName)
}

// ReleaseSQL renders this node's RELEASE SAVEPOINT statement.
func (n *Node) ReleaseSQL() string {
	return "RELEASE SAVEPOINT " + postgres.QuoteIdentifier(n.SavepointName)
}

// RollbackToSQL renders this node's ROLLBACK TO SAVEPOINT statement.
func (n *Node) RollbackToSQL() string {
	return "ROLLBACK TO SAVEPOINT " + postgres.QuoteIdentifier(n.SavepointName)
}

// CommitSQL renders the root node's COMMIT statement.
func (n *Node) CommitSQL() string { return "COMMIT" }

// RollbackSQL renders the root node's ROLLBACK statement.
func (n *Node) RollbackSQL() string { return "ROLLBACK" }

// IsRoot reports whether n is the top-level transaction node.
func (n *Node) IsRoot() bool { return n.Parent == nil }

// Enqueue appends cmd to this node's FIFO.
func (n *Node) Enqueue(cmd Command) {
	n.Commands = append(n.Commands, cmd)
}

// Dequeue pops the next command off this node's FIFO, or ok=false if empty.
func (n *Node) Dequeue() (cmd Command, ok bool) {
	if len(n.Commands) == 0 {
		return Command{}, false
	}
	cmd = n.Commands[0]
	n.Commands = n.Commands[1:]
	return cmd, true
}

// MarkFailed sets ResultFlag false on n alone. A failure at one savepoint
// level never taints its parent: PostgreSQL recovers a failed subtransaction
// with ROLLBACK TO SAVEPOINT without disturbing the transaction it's nested
// in, and this client models the same scoping.
func (n *Node) MarkFailed() {
	n.ResultFlag = false
}

// Descendants returns every node nested under n, in no particular order —
// used to find queued work that becomes moot once n fails and must be
// rolled back before anything nested under it can run again.
func (n *Node) Descendants() []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, c := range cur.Children {
			out = append(out, c)
			walk(c)
		}
	}
	walk(n)
	return out
}

