package txtree

import "github.com/lattice-db/pgwire/pgerr"

// queuedCommand pairs a Command with the Node it was enqueued against, so
// completion can update the right node's state.
type queuedCommand struct {
	node *Node
	cmd  Command
}

// Driver is the single-in-flight command dispatcher for one connection:
// at most one command is ever outstanding against the server at a time,
// matching the single-threaded, cooperative design the rest of this client
// follows. Completion of the in-flight command (signaled by the caller
// observing ReadyForQuery) triggers dispatch of the next queued command.
type Driver struct {
	root    *Node
	current *Node
	queue   []queuedCommand
	inFlight *queuedCommand
}

// NewDriver returns a Driver with no open transaction; commands enqueued
// before any Begin run outside any tree node (plain autocommit).
func NewDriver() *Driver {
	return &Driver{}
}

// Current returns the innermost active node (nil outside any transaction).
func (d *Driver) Current() *Node { return d.current }

// InTransaction reports whether any transaction node is currently open.
func (d *Driver) InTransaction() bool { return d.current != nil }

// Begin starts a new top-level transaction: rejected if one is already
// open, since this client models exactly one transaction tree per
// connection (nested BEGIN must be expressed as Savepoint, matching
// PostgreSQL's own refusal to nest BEGIN).
func (d *Driver) Begin(isolation Isolation, readOnly, deferrable bool, onResult func(error)) error {
	if d.current != nil {
		return pgerr.New(pgerr.KindInvalidState, "txtree: BEGIN while a transaction is already open")
	}
	node := NewRoot(isolation, readOnly, deferrable)
	d.root = node
	d.current = node
	d.enqueue(node, Command{Kind: CommandBegin, SQL: node.Begin(), OnResult: onResult})
	return nil
}

// Savepoint nests a new child node under the current node.
func (d *Driver) Savepoint(onResult func(error)) (*Node, error) {
	if d.current == nil {
		return nil, pgerr.New(pgerr.KindInvalidState, "txtree: SAVEPOINT outside a transaction")
	}
	child := d.current.Savepoint()
	d.current = child
	d.enqueue(child, Command{Kind: CommandSavepoint, SQL: child.SavepointSQL(), OnResult: onResult})
	return child, nil
}

// Commit issues COMMIT against the root node, or RELEASE SAVEPOINT against
// a savepoint node, whichever is current — PostgreSQL's own SQL has no
// separate "release" verb for the user to remember, and neither does this
// client's public surface.
func (d *Driver) Commit(onResult func(error)) error {
	if d.current == nil {
		return pgerr.New(pgerr.KindInvalidState, "txtree: COMMIT outside a transaction")
	}
	node := d.current
	if !node.ResultFlag {
		return pgerr.New(pgerr.KindInvalidState, "txtree: cannot commit a transaction already marked failed; ROLLBACK required")
	}
	if node.IsRoot() {
		d.enqueue(node, Command{Kind: CommandCommit, SQL: node.CommitSQL(), OnResult: onResult})
	} else {
		d.enqueue(node, Command{Kind: CommandReleaseSavepoint, SQL: node.ReleaseSQL(), OnResult: onResult})
	}
	return nil
}

// Rollback issues ROLLBACK against the root node, or ROLLBACK TO SAVEPOINT
// against a savepoint node.
func (d *Driver) Rollback(onResult func(error)) error {
	if d.current == nil {
		return pgerr.New(pgerr.KindInvalidState, "txtree: ROLLBACK outside a transaction")
	}
	node := d.current
	if node.IsRoot() {
		d.enqueue(node, Command{Kind: CommandRollback, SQL: node.RollbackSQL(), OnResult: onResult})
	} else {
		d.enqueue(node, Command{Kind: CommandRollbackToSavepoint, SQL: node.RollbackToSQL(), OnResult: onResult})
	}
	return nil
}

// Query enqueues a plain user query against the current node (or outside
// any node, for autocommit statements).
func (d *Driver) Query(cmd Command) {
	d.enqueue(d.current, cmd)
}

func (d *Driver) enqueue(node *Node, cmd Command) {
	if node != nil {
		node.Enqueue(cmd)
	}
	d.queue = append(d.queue, queuedCommand{node: node, cmd: cmd})
}

// Dispatch returns the next command to send, or ok=false if nothing is
// queued or a command is already in flight.
func (d *Driver) Dispatch() (cmd Command, ok bool) {
	if d.inFlight != nil || len(d.queue) == 0 {
		return Command{}, false
	}
	next := d.queue[0]
	d.queue = d.queue[1:]
	d.inFlight = &next
	return next.cmd, true
}

// Complete reports the result of the in-flight command, observed at the
// backend's ReadyForQuery. A nil err advances the node's state machine
// normally; a non-nil err marks that node alone as failed and schedules the
// rollback walk (see scheduleRollbackWalk), which queues ROLLBACK (root) or
// ROLLBACK TO SAVEPOINT (savepoint) for that same node. No check is made
// for a node that is already rolling back.
func (d *Driver) Complete(err error) {
	if d.inFlight == nil {
		return
	}
	entry := d.inFlight
	d.inFlight = nil

	node := entry.node
	if err != nil {
		if node != nil {
			node.MarkFailed()
		}
		d.scheduleRollbackWalk(node)
	} else if node != nil {
		d.advance(node, entry.cmd.Kind)
	}

	if entry.cmd.OnResult != nil {
		entry.cmd.OnResult(err)
	}
}

// advance transitions node's state machine forward on a successful
// completion of cmd.
func (d *Driver) advance(node *Node, kind CommandKind) {
	switch kind {
	case CommandBegin, CommandSavepoint:
		node.State = StateActive
	case CommandCommit:
		node.State = StateDone
		d.detach(node)
	case CommandReleaseSavepoint:
		node.State = StateDone
		d.detach(node)
	case CommandRollback:
		node.State = StateDone
		d.detach(node)
	case CommandRollbackToSavepoint:
		// A successful ROLLBACK TO SAVEPOINT returns the node to Active,
		// ready to run more statements or be released/rolled back again
		// — it does not retire the node the way COMMIT/ROLLBACK do. Any
		// deeper savepoints it had are gone server-side too.
		node.State = StateActive
		node.ResultFlag = true
		node.Children = nil
		d.current = node
	}
}

// detach removes node from the tree once it (and, transitively, its
// parent chain up to the root for a root-level Commit/Rollback) is done,
// moving d.current to whichever ancestor is still open.
func (d *Driver) detach(node *Node) {
	if node.IsRoot() {
		d.root = nil
		d.current = nil
		return
	}
	parent := node.Parent
	for i, c := range parent.Children {
		if c == node {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			break
		}
	}
	d.current = parent
}

// FailAll aborts the in-flight command, if any, and every command still
// queued, with err, and discards the tree — used when the connection itself
// is being torn down and no further dispatch makes sense.
func (d *Driver) FailAll(err error) {
	if d.inFlight != nil {
		entry := d.inFlight
		d.inFlight = nil
		if entry.cmd.OnResult != nil {
			entry.cmd.OnResult(err)
		}
	}
	pending := d.queue
	d.queue = nil
	for _, qc := range pending {
		if qc.cmd.OnResult != nil {
			qc.cmd.OnResult(err)
		}
	}
	d.root = nil
	d.current = nil
}

// scheduleRollbackWalk recovers from a command failing at failedNode: every
// queued command belonging to failedNode or anything nested under it is now
// moot (their savepoint scope is about to be unwound) and is failed back to
// its caller without ever being sent, and failedNode's own
// ROLLBACK/ROLLBACK TO SAVEPOINT is queued in their place. Commands queued
// against an ancestor of failedNode are untouched — PostgreSQL recovers a
// failed savepoint without disturbing the transaction it's nested in. If
// failedNode is nil (the failing command ran outside any transaction),
// there is nothing to walk.
func (d *Driver) scheduleRollbackWalk(failedNode *Node) {
	if failedNode == nil {
		return
	}
	moot := map[*Node]bool{failedNode: true}
	for _, desc := range failedNode.Descendants() {
		moot[desc] = true
	}

	kept := d.queue[:0:0]
	for _, qc := range d.queue {
		if qc.node != nil && moot[qc.node] {
			if qc.cmd.OnResult != nil {
				qc.cmd.OnResult(pgerr.New(pgerr.KindInvalidState, "txtree: command discarded, its savepoint scope failed and is rolling back"))
			}
			continue
		}
		kept = append(kept, qc)
	}
	d.queue = kept

	failedNode.State = StateRollingBack
	if failedNode.IsRoot() {
		d.enqueue(failedNode, Command{Kind: CommandRollback, SQL: failedNode.RollbackSQL()})
	} else {
		d.enqueue(failedNode, Command{Kind: CommandRollbackToSavepoint, SQL: failedNode.RollbackToSQL()})
	}
}
