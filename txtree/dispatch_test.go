package txtree

import (
	"errors"
	"testing"

	"github.com/lattice-db/pgwire/internal/testutil"
)

func TestBeginCommitLifecycle(t *testing.T) {
	d := NewDriver()
	if err := d.Begin(IsolationDefault, false, false, nil); err != nil {
		t.Fatal(err)
	}
	cmd, ok := d.Dispatch()
	if !ok || cmd.Kind != CommandBegin {
		t.Fatalf("Dispatch() = %+v, %v", cmd, ok)
	}
	d.Complete(nil)
	if d.Current().State != StateActive {
		t.Fatalf("state after BEGIN = %v, want active", d.Current().State)
	}

	var queryErr error
	d.Query(NewSimpleQuery("SELECT 1", func(err error) { queryErr = err }))
	cmd, ok = d.Dispatch()
	if !ok || cmd.Kind != CommandSimpleQuery {
		t.Fatalf("Dispatch() = %+v", cmd)
	}
	d.Complete(nil)
	if queryErr != nil {
		t.Fatalf("queryErr = %v", queryErr)
	}

	if err := d.Commit(nil); err != nil {
		t.Fatal(err)
	}
	cmd, ok = d.Dispatch()
	if !ok || cmd.Kind != CommandCommit {
		t.Fatalf("Dispatch() = %+v", cmd)
	}
	d.Complete(nil)
	if d.InTransaction() {
		t.Fatal("InTransaction() = true after COMMIT")
	}
}

func TestSavepointFailureRollsBackOnlyThatLevel(t *testing.T) {
	d := NewDriver()
	d.Begin(IsolationDefault, false, false, nil)
	beginCmd, _ := d.Dispatch()
	_ = beginCmd
	d.Complete(nil)
	root := d.Current()

	sp, err := d.Savepoint(nil)
	if err != nil {
		t.Fatal(err)
	}
	spCmd, _ := d.Dispatch()
	if spCmd.Kind != CommandSavepoint {
		t.Fatalf("kind = %v", spCmd.Kind)
	}
	d.Complete(nil)
	if sp.State != StateActive {
		t.Fatalf("savepoint state = %v", sp.State)
	}

	var queryErr error
	d.Query(NewSimpleQuery("INSERT INTO t VALUES (bad)", func(err error) { queryErr = err }))
	d.Dispatch()
	d.Complete(errors.New("syntax error"))

	if queryErr == nil {
		t.Fatal("queryErr = nil, want the syntax error")
	}
	if sp.ResultFlag {
		t.Fatal("savepoint ResultFlag = true after failure, want false")
	}
	if root.ResultFlag != true {
		t.Fatal("root ResultFlag = false, want true (failure should not propagate to parent)")
	}

	rbCmd, ok := d.Dispatch()
	testutil.LogIfVerboseWithTest(t, "auto-scheduled rollback after savepoint failure: %s", testutil.Dump(rbCmd))
	if !ok || rbCmd.Kind != CommandRollbackToSavepoint {
		t.Fatalf("Dispatch() after failure = %+v, %v, want ROLLBACK TO SAVEPOINT", rbCmd, ok)
	}
	d.Complete(nil)
	if sp.State != StateActive || !sp.ResultFlag {
		t.Fatalf("savepoint after rollback-to = %+v", sp)
	}
	if d.Current() != sp {
		t.Fatal("Current() != the rolled-back-to savepoint")
	}
}

func TestDiscardsQueuedWorkUnderFailedSavepoint(t *testing.T) {
	d := NewDriver()
	d.Begin(IsolationDefault, false, false, nil)
	d.Dispatch()
	d.Complete(nil)

	d.Savepoint(nil)
	d.Dispatch()
	d.Complete(nil)

	d.Query(Command{Kind: CommandSimpleQuery, SQL: "bad sql"}) // will fail
	var discardedErr error
	d.Query(Command{Kind: CommandSimpleQuery, SQL: "SELECT 1", OnResult: func(err error) { discardedErr = err }})

	failCmd, ok := d.Dispatch()
	if !ok || failCmd.SQL != "bad sql" {
		t.Fatalf("Dispatch() = %+v, %v", failCmd, ok)
	}
	d.Complete(errors.New("boom"))

	testutil.LogIfVerboseWithTest(t, "discarded-query error: %v", discardedErr)
	if discardedErr == nil {
		t.Fatal("the still-queued query under the failed savepoint should have been discarded with an error")
	}
}
