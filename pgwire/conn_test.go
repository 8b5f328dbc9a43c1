package pgwire

import (
	"testing"

	"github.com/lattice-db/pgwire/internal/testutil"
	"github.com/lattice-db/pgwire/oid"
	"github.com/lattice-db/pgwire/result"
	"github.com/lattice-db/pgwire/txtree"
)

// fakeTransport records every buffer Send receives instead of writing to a
// real socket, and can replay canned server responses straight into a
// Conn's Feed for a fully in-memory round trip.
type fakeTransport struct {
	sent [][]byte
	err  error
}

func (t *fakeTransport) Send(b []byte) error {
	if t.err != nil {
		return t.err
	}
	cp := append([]byte(nil), b...)
	t.sent = append(t.sent, cp)
	return nil
}

func be32(n int32) []byte {
	return []byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
}

func be16(n int16) []byte {
	return []byte{byte(n >> 8), byte(n)}
}

func cstr(s string) []byte {
	return append([]byte(s), 0)
}

func backendMessage(tag byte, payload []byte) []byte {
	out := []byte{tag}
	out = append(out, be32(int32(len(payload)+4))...)
	out = append(out, payload...)
	return out
}

func authOK() []byte { return backendMessage('R', be32(0)) }

func authCleartext() []byte { return backendMessage('R', be32(3)) }

func parameterStatus(name, value string) []byte {
	p := append(cstr(name), cstr(value)...)
	return backendMessage('S', p)
}

func backendKeyData(pid, secret uint32) []byte {
	p := append(be32(int32(pid)), be32(int32(secret))...)
	return backendMessage('K', p)
}

func readyForQuery(status byte) []byte {
	return backendMessage('Z', []byte{status})
}

func rowDescription(names []string, typeOIDs []uint32) []byte {
	p := be16(int16(len(names)))
	for i, name := range names {
		p = append(p, cstr(name)...)
		p = append(p, be32(0)...)                 // table OID
		p = append(p, be16(0)...)                 // attribute number
		p = append(p, be32(int32(typeOIDs[i]))...) // type OID
		p = append(p, be16(-1)...)                // type size
		p = append(p, be32(-1)...)                // type mod
		p = append(p, be16(1)...)                 // binary format
	}
	return backendMessage('T', p)
}

func dataRow(values [][]byte) []byte {
	p := be16(int16(len(values)))
	for _, v := range values {
		if v == nil {
			p = append(p, be32(-1)...)
			continue
		}
		p = append(p, be32(int32(len(v)))...)
		p = append(p, v...)
	}
	return backendMessage('D', p)
}

func commandComplete(tag string) []byte {
	return backendMessage('C', cstr(tag))
}

func errorResponse(sqlstate, message string) []byte {
	var p []byte
	p = append(p, 'S')
	p = append(p, cstr("ERROR")...)
	p = append(p, 'C')
	p = append(p, cstr(sqlstate)...)
	p = append(p, 'M')
	p = append(p, cstr(message)...)
	p = append(p, 0)
	return backendMessage('E', p)
}

// newReadyConn drives a Conn through startup + cleartext auth and returns it
// Ready, with its fakeTransport for inspecting subsequent sends.
func newReadyConn(t *testing.T) (*Conn, *fakeTransport) {
	t.Helper()
	ft := &fakeTransport{}
	c := New(Options{User: "alice", Database: "db", Password: "secret", TLSMode: TLSDisable}, ft, nil)
	if err := c.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.Feed(authCleartext()); err != nil {
		t.Fatalf("Feed(authCleartext): %v", err)
	}
	if err := c.Feed(authOK()); err != nil {
		t.Fatalf("Feed(authOK): %v", err)
	}
	if err := c.Feed(parameterStatus("server_version", "16.1")); err != nil {
		t.Fatalf("Feed(parameterStatus): %v", err)
	}
	if err := c.Feed(backendKeyData(42, 99)); err != nil {
		t.Fatalf("Feed(backendKeyData): %v", err)
	}
	if err := c.Feed(readyForQuery('I')); err != nil {
		t.Fatalf("Feed(readyForQuery): %v", err)
	}
	if !c.Ready() {
		t.Fatal("Conn not Ready after startup sequence")
	}
	return c, ft
}

func TestStartupCleartextAuth(t *testing.T) {
	c, ft := newReadyConn(t)

	if len(ft.sent) != 2 {
		t.Fatalf("sent %d messages during startup, want 2 (StartupMessage, PasswordMessage)", len(ft.sent))
	}
	if tag := ft.sent[1][0]; tag != 'p' {
		t.Fatalf("second startup message tag = %q, want 'p'", tag)
	}
	if v, ok := c.ParameterStatus("server_version"); !ok || v != "16.1" {
		t.Fatalf("ParameterStatus(server_version) = %q, %v", v, ok)
	}
	if bkd := c.BackendKeyData(); bkd.ProcessID != 42 || bkd.SecretKey != 99 {
		t.Fatalf("BackendKeyData = %+v", bkd)
	}
}

func TestSimpleQueryRoundTrip(t *testing.T) {
	c, ft := newReadyConn(t)

	var gotResult *result.ResultSet
	var gotErr error
	done := false
	sentBefore := len(ft.sent)
	if err := c.Query("SELECT 1", func(rs *result.ResultSet, err error) {
		gotResult, gotErr, done = rs, err, true
	}); err != nil {
		t.Fatalf("Query: %v", err)
	}

	if len(ft.sent) != sentBefore+1 || ft.sent[len(ft.sent)-1][0] != 'Q' {
		t.Fatalf("expected one Query message sent, got %d new sends", len(ft.sent)-sentBefore)
	}

	feedServerResponse(t, c,
		rowDescription([]string{"?column?"}, []uint32{oid.Int4}),
		dataRow([][]byte{{0, 0, 0, 1}}),
		commandComplete("SELECT 1"),
		readyForQuery('I'),
	)

	if !done {
		t.Fatal("onComplete never called")
	}
	if gotErr != nil {
		t.Fatalf("gotErr = %v", gotErr)
	}
	if len(gotResult.Rows) != 1 {
		t.Fatalf("len(Rows) = %d, want 1", len(gotResult.Rows))
	}
	v, err := gotResult.Rows[0].Int4(0)
	if err != nil || v != 1 {
		t.Fatalf("Int4(0) = %d, %v, want 1, nil\nresult set: %s", v, err, testutil.Dump(gotResult))
	}
}

func feedServerResponse(t *testing.T, c *Conn, msgs ...[]byte) {
	t.Helper()
	var buf []byte
	for _, m := range msgs {
		buf = append(buf, m...)
	}
	if err := c.Feed(buf); err != nil {
		t.Fatalf("Feed: %v", err)
	}
}

// TestSavepointRollbackScopedToFailingNode exercises the scenario where an
// error at a savepoint rolls back only that savepoint, leaving the
// enclosing transaction (and its earlier statement) untouched — exactly
// one ROLLBACK TO SAVEPOINT is sent, and the root transaction is never
// touched.
func TestSavepointRollbackScopedToFailingNode(t *testing.T) {
	c, ft := newReadyConn(t)

	beginDone := false
	if err := c.Begin(txtree.IsolationDefault, false, false, func(err error) {
		beginDone = true
		if err != nil {
			t.Fatalf("BEGIN failed: %v", err)
		}
	}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	feedServerResponse(t, c, commandComplete("BEGIN"), readyForQuery('T'))
	if !beginDone {
		t.Fatal("BEGIN callback never fired")
	}

	outerDone := false
	if err := c.Query("INSERT INTO t VALUES ('outer')", func(rs *result.ResultSet, err error) {
		outerDone = true
		if err != nil {
			t.Fatalf("outer insert failed: %v", err)
		}
	}); err != nil {
		t.Fatalf("Query(outer): %v", err)
	}
	feedServerResponse(t, c, commandComplete("INSERT 0 1"), readyForQuery('T'))
	if !outerDone {
		t.Fatal("outer insert callback never fired")
	}

	spDone := false
	if _, err := c.Savepoint(func(err error) {
		spDone = true
		if err != nil {
			t.Fatalf("SAVEPOINT failed: %v", err)
		}
	}); err != nil {
		t.Fatalf("Savepoint: %v", err)
	}
	feedServerResponse(t, c, commandComplete("SAVEPOINT"), readyForQuery('T'))
	if !spDone {
		t.Fatal("SAVEPOINT callback never fired")
	}

	var innerErr error
	if err := c.Query("INSERT INTO t VALUES ('inner')", func(rs *result.ResultSet, err error) {
		innerErr = err
	}); err != nil {
		t.Fatalf("Query(inner): %v", err)
	}

	sentBefore := len(ft.sent)
	// Completing the failing command (ErrorResponse + ReadyForQuery)
	// schedules and immediately dispatches exactly one ROLLBACK TO
	// SAVEPOINT, in the same Feed call.
	feedServerResponse(t, c, errorResponse("23505", "duplicate key"), readyForQuery('E'))
	if innerErr == nil {
		t.Fatal("inner insert should have failed")
	}
	if len(ft.sent) != sentBefore+1 {
		t.Fatalf("expected exactly one rollback statement sent, got %d new sends", len(ft.sent)-sentBefore)
	}
	last := ft.sent[len(ft.sent)-1]
	if last[0] != 'Q' {
		t.Fatalf("rollback message tag = %q, want 'Q'", last[0])
	}

	// Complete the ROLLBACK TO SAVEPOINT itself; no further command is
	// queued, so nothing new is sent.
	feedServerResponse(t, c, commandComplete("ROLLBACK"), readyForQuery('T'))

	if c.InTransaction() {
		// ROLLBACK TO SAVEPOINT leaves the savepoint node open and current;
		// the root transaction (from BEGIN) is still open too.
	} else {
		t.Fatal("root transaction should still be open after a savepoint-scoped rollback")
	}
}
