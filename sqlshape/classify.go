// Package sqlshape answers a few structural questions about a SQL string:
// how many statements does it contain, does it start a transaction or
// savepoint, and how many $n parameters does it reference. pgwire.Conn does
// not call this package itself. It is a thin, read-only layer
// over pg_query_go — this package never mutates or rewrites SQL text, it
// only classifies it.
package sqlshape

import (
	"reflect"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v5"
)

// Kind is the statement shape the dispatcher cares about; anything not
// listed collapses to Other.
type Kind int

const (
	Other Kind = iota
	Select
	Insert
	Update
	Delete
	Begin
	Commit
	Rollback
	Savepoint
	Release
	RollbackToSavepoint
	Deallocate
)

func (k Kind) String() string {
	switch k {
	case Select:
		return "SELECT"
	case Insert:
		return "INSERT"
	case Update:
		return "UPDATE"
	case Delete:
		return "DELETE"
	case Begin:
		return "BEGIN"
	case Commit:
		return "COMMIT"
	case Rollback:
		return "ROLLBACK"
	case Savepoint:
		return "SAVEPOINT"
	case Release:
		return "RELEASE"
	case RollbackToSavepoint:
		return "ROLLBACK TO SAVEPOINT"
	case Deallocate:
		return "DEALLOCATE"
	default:
		return "OTHER"
	}
}

// Statement is one parsed statement out of a (possibly multi-statement)
// query string, with its own substring of the original text.
type Statement struct {
	Kind Kind
	Text string
	node *pg_query.Node
}

// Parse splits sql into its constituent statements. A syntax error the
// parser itself rejects is returned as-is; the caller typically surfaces it
// to the application rather than sending the text to the server, since the
// server would reject it too.
func Parse(sql string) ([]Statement, error) {
	tree, err := pg_query.Parse(sql)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, nil
	}
	out := make([]Statement, 0, len(tree.Stmts))
	for _, raw := range tree.Stmts {
		node := raw.GetStmt()
		out = append(out, Statement{
			Kind: classify(node),
			Text: commandText(sql, raw),
			node: node,
		})
	}
	return out, nil
}

// commandText recovers the substring of query this RawStmt spans, using
// pg_query's 0-based byte offset StmtLocation and its StmtLen, where a
// StmtLen of 0 means the statement runs to the end of query.
func commandText(query string, raw *pg_query.RawStmt) string {
	if raw == nil {
		return ""
	}
	start := int(raw.GetStmtLocation())
	length := int(raw.GetStmtLen())
	if start < 0 || start >= len(query) {
		return ""
	}
	end := len(query)
	if length > 0 && start+length < end {
		end = start + length
	}
	return strings.TrimSpace(query[start:end])
}

func classify(node *pg_query.Node) Kind {
	if node == nil {
		return Other
	}
	switch {
	case node.GetSelectStmt() != nil:
		return Select
	case node.GetInsertStmt() != nil:
		return Insert
	case node.GetUpdateStmt() != nil:
		return Update
	case node.GetDeleteStmt() != nil:
		return Delete
	case node.GetDeallocateStmt() != nil:
		return Deallocate
	}
	if t := node.GetTransactionStmt(); t != nil {
		switch t.GetKind() {
		case pg_query.TransactionStmtKind_TRANS_STMT_BEGIN, pg_query.TransactionStmtKind_TRANS_STMT_START:
			return Begin
		case pg_query.TransactionStmtKind_TRANS_STMT_COMMIT:
			return Commit
		case pg_query.TransactionStmtKind_TRANS_STMT_ROLLBACK:
			return Rollback
		case pg_query.TransactionStmtKind_TRANS_STMT_SAVEPOINT:
			return Savepoint
		case pg_query.TransactionStmtKind_TRANS_STMT_RELEASE:
			return Release
		case pg_query.TransactionStmtKind_TRANS_STMT_ROLLBACK_TO:
			return RollbackToSavepoint
		}
	}
	return Other
}

// ReturnsResultSet reports whether the statement produces rows the client
// should expect to read (currently just SELECT; RETURNING-bearing
// INSERT/UPDATE/DELETE are left to RowDescription to announce, since this
// package does no column synthesis).
func (s Statement) ReturnsResultSet() bool {
	return s.Kind == Select
}

// SavepointName returns the name named in a SAVEPOINT, RELEASE SAVEPOINT,
// or ROLLBACK TO SAVEPOINT statement, or "" for any other kind.
func (s Statement) SavepointName() string {
	if s.node == nil {
		return ""
	}
	t := s.node.GetTransactionStmt()
	if t == nil {
		return ""
	}
	return t.GetSavepointName()
}

// DeallocateTarget returns (name, isAll) for a DEALLOCATE statement;
// isAll is true for bare "DEALLOCATE ALL".
func (s Statement) DeallocateTarget() (name string, isAll bool) {
	if s.node == nil {
		return "", false
	}
	d := s.node.GetDeallocateStmt()
	if d == nil {
		return "", false
	}
	if n := d.GetName(); n != "" {
		return n, false
	}
	return "", true
}

// MaxParamIndex returns the highest $n parameter index referenced anywhere
// in the statement (1-based), or 0 if it references none. Nothing in this
// module compares it with a Bind message's parameter count.
func (s Statement) MaxParamIndex() int {
	if s.node == nil {
		return 0
	}
	max := 0
	walkParamRefs(s.node, func(n int32) {
		if int(n) > max {
			max = int(n)
		}
	})
	return max
}

// walkParamRefs visits every ParamRef node reachable from node via
// reflection over pg_query's generated oneof/struct tree — there is no
// visitor API exposed by the library itself.
func walkParamRefs(node *pg_query.Node, visit func(number int32)) {
	if node == nil {
		return
	}
	if pr := node.GetParamRef(); pr != nil {
		visit(pr.GetNumber())
	}
	nodeVal := reflect.ValueOf(node).Elem()
	oneof := nodeVal.FieldByName("Node")
	if !oneof.IsValid() || oneof.IsNil() {
		return
	}
	walkValue(oneof.Interface(), visit)
}

func walkValue(val interface{}, visit func(number int32)) {
	if val == nil {
		return
	}
	v := reflect.ValueOf(val)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}
	nodeType := reflect.TypeOf((*pg_query.Node)(nil))
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if !f.CanInterface() {
			continue
		}
		switch f.Kind() {
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			if f.Type().AssignableTo(nodeType) {
				walkParamRefs(f.Interface().(*pg_query.Node), visit)
			} else if f.Elem().Kind() == reflect.Struct {
				walkValue(f.Interface(), visit)
			}
		case reflect.Slice:
			for j := 0; j < f.Len(); j++ {
				item := f.Index(j)
				if item.Kind() != reflect.Ptr || item.IsNil() {
					continue
				}
				if item.Type().AssignableTo(nodeType) {
					walkParamRefs(item.Interface().(*pg_query.Node), visit)
				} else if item.Elem().Kind() == reflect.Struct {
					walkValue(item.Interface(), visit)
				}
			}
		}
	}
}
