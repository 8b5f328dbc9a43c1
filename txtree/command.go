package txtree

// CommandKind is the closed set of things a transaction node's FIFO can
// hold.
type CommandKind int

const (
	CommandSimpleQuery CommandKind = iota
	CommandPrepare
	CommandExecute
	CommandExecuteInline
	CommandBegin
	CommandCommit
	CommandRollback
	CommandSavepoint
	CommandReleaseSavepoint
	CommandRollbackToSavepoint
)

// Command is one queued unit of work against a Node: either a user query
// (simple or extended protocol) or a transaction-control statement the
// dispatcher generates itself (Begin/Commit/Rollback/Savepoint/...).
type Command struct {
	Kind CommandKind

	// SQL is the literal text to send for CommandSimpleQuery,
	// CommandExecuteInline (a one-shot anonymous Parse+Bind+Execute), and
	// every transaction-control kind (rendered by the owning Node's
	// *SQL() methods).
	SQL string

	// StatementName applies to CommandPrepare/CommandExecute: a named
	// prepared statement, previously registered via CommandPrepare.
	StatementName string

	// OnResult is invoked once this command's result (or error) is
	// available. A nil OnResult is valid for transaction-control commands
	// the dispatcher issues on the user's behalf with no user-visible
	// callback.
	OnResult func(err error)

	// Payload carries whatever command-kind-specific wire-building context
	// the caller needs once this Command is dispatched (e.g. bind
	// parameters and result formats for CommandExecute/ExecuteInline).
	// txtree never inspects it; it only ever FIFOs Commands in order.
	Payload any
}

// NewSimpleQuery builds a CommandSimpleQuery command.
func NewSimpleQuery(sql string, onResult func(err error)) Command {
	return Command{Kind: CommandSimpleQuery, SQL: sql, OnResult: onResult}
}

// NewExecuteInline builds a one-shot extended-protocol command against the
// anonymous statement.
func NewExecuteInline(sql string, onResult func(err error)) Command {
	return Command{Kind: CommandExecuteInline, SQL: sql, OnResult: onResult}
}

// NewExecute builds a command against an already-prepared named statement.
func NewExecute(statementName string, onResult func(err error)) Command {
	return Command{Kind: CommandExecute, StatementName: statementName, OnResult: onResult}
}
