//go:build cgo
// +build cgo

package sqlshape

import "testing"

func mustParse(t *testing.T, sql string) []Statement {
	t.Helper()
	stmts, err := Parse(sql)
	if err != nil {
		t.Fatalf("Parse(%q): %v", sql, err)
	}
	return stmts
}

func TestParseSplitsMultipleStatements(t *testing.T) {
	stmts := mustParse(t, "SELECT 1; SELECT 2")
	if len(stmts) != 2 {
		t.Fatalf("len = %d, want 2", len(stmts))
	}
	if stmts[0].Text != "SELECT 1" || stmts[1].Text != "SELECT 2" {
		t.Fatalf("texts = %q, %q", stmts[0].Text, stmts[1].Text)
	}
}

func TestParseQuotedSemicolonIsNotASplit(t *testing.T) {
	stmts := mustParse(t, `SELECT 'a;b'`)
	if len(stmts) != 1 {
		t.Fatalf("len = %d, want 1", len(stmts))
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		sql  string
		want Kind
	}{
		{"SELECT 1", Select},
		{"INSERT INTO t VALUES (1)", Insert},
		{"UPDATE t SET a = 1", Update},
		{"DELETE FROM t", Delete},
		{"BEGIN", Begin},
		{"START TRANSACTION", Begin},
		{"COMMIT", Commit},
		{"ROLLBACK", Rollback},
		{"SAVEPOINT sp1", Savepoint},
		{"RELEASE SAVEPOINT sp1", Release},
		{"ROLLBACK TO SAVEPOINT sp1", RollbackToSavepoint},
		{"DEALLOCATE foo", Deallocate},
		{"CREATE TABLE t (a int)", Other},
	}
	for _, tt := range tests {
		stmts := mustParse(t, tt.sql)
		if len(stmts) != 1 {
			t.Fatalf("%q: expected 1 statement, got %d", tt.sql, len(stmts))
		}
		if got := stmts[0].Kind; got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.sql, got, tt.want)
		}
	}
}

func TestReturnsResultSet(t *testing.T) {
	sel := mustParse(t, "SELECT 1")[0]
	if !sel.ReturnsResultSet() {
		t.Fatal("SELECT should report ReturnsResultSet = true")
	}
	ins := mustParse(t, "INSERT INTO t VALUES (1)")[0]
	if ins.ReturnsResultSet() {
		t.Fatal("plain INSERT should report ReturnsResultSet = false")
	}
}

func TestSavepointName(t *testing.T) {
	stmt := mustParse(t, "SAVEPOINT my_sp")[0]
	if got := stmt.SavepointName(); got != "my_sp" {
		t.Fatalf("SavepointName() = %q, want my_sp", got)
	}
}

func TestDeallocateTarget(t *testing.T) {
	named := mustParse(t, "DEALLOCATE stmt1")[0]
	name, isAll := named.DeallocateTarget()
	if name != "stmt1" || isAll {
		t.Fatalf("named DEALLOCATE = (%q, %v)", name, isAll)
	}

	all := mustParse(t, "DEALLOCATE ALL")[0]
	name, isAll = all.DeallocateTarget()
	if name != "" || !isAll {
		t.Fatalf("DEALLOCATE ALL = (%q, %v)", name, isAll)
	}
}

func TestMaxParamIndex(t *testing.T) {
	stmt := mustParse(t, "SELECT * FROM t WHERE a = $1 AND b = $3")[0]
	if got := stmt.MaxParamIndex(); got != 3 {
		t.Fatalf("MaxParamIndex() = %d, want 3", got)
	}

	noParams := mustParse(t, "SELECT 1")[0]
	if got := noParams.MaxParamIndex(); got != 0 {
		t.Fatalf("MaxParamIndex() = %d, want 0", got)
	}
}
