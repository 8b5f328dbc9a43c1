// Package pgwire is an asynchronous, single-threaded PostgreSQL wire
// protocol client: it owns no socket and spawns no goroutine. A host
// supplies a Transport that delivers received bytes to Feed and accepts the
// write buffers Conn produces in return; Conn drives the startup, auth,
// query, and transaction-tree state machines cooperatively as those bytes
// arrive.
package pgwire

import (
	"github.com/lattice-db/pgwire/auth"
	"github.com/lattice-db/pgwire/logging"
	"github.com/lattice-db/pgwire/pgerr"
	"github.com/lattice-db/pgwire/result"
	"github.com/lattice-db/pgwire/stmt"
	"github.com/lattice-db/pgwire/txtree"
	"github.com/lattice-db/pgwire/wire"
)

// Transport is the host's half of the cooperative contract: Send hands one
// already-framed write buffer to whatever delivers bytes to the server
// (a socket, a test harness, anything). Conn never reads; the host calls
// Feed whenever bytes arrive.
type Transport interface {
	Send(b []byte) error
}

// TLSMode selects how a Conn negotiates TLS during startup.
type TLSMode int

const (
	// TLSDisable sends StartupMessage directly in cleartext; no SSLRequest
	// is sent.
	TLSDisable TLSMode = iota
	// TLSPrefer sends SSLRequest first, upgrades if the server accepts, and
	// falls back to cleartext if it doesn't.
	TLSPrefer
	// TLSRequire sends SSLRequest first and fails the connection outright if
	// the server responds 'N'.
	TLSRequire
)

// Options is a connection's immutable configuration, fixed for its whole
// lifetime.
type Options struct {
	// Host is either a hostname/IP (TCP) or a Unix domain socket path,
	// depending on how the host dials the underlying Transport — this
	// package never dials anything itself.
	Host string
	Port int

	Database string
	User     string
	Password string

	TLSMode TLSMode

	// Params are additional StartupMessage client_params, e.g.
	// application_name.
	Params map[string]string
}

type phase int

const (
	phaseInit phase = iota
	phaseAwaitingSSLResponse
	phaseAwaitingTLSUpgrade
	phaseAwaitingAuth
	phaseAwaitingStartupReady
	phaseReady
	phaseClosed
)

// Conn is one PostgreSQL connection's client-side state machine: startup
// and auth, the prepared-statement cache, parameter marshalling, the
// transaction tree, and result assembly, all driven by Feed with no
// internal concurrency.
type Conn struct {
	opts      Options
	transport Transport
	logger    *logging.Logger

	framer  *wire.Framer
	authFSM *auth.FSM
	stmts   *stmt.Cache
	tx      *txtree.Driver

	// OnNotice, if set, is called with every NoticeResponse the server
	// sends (outside the normal command-result flow).
	OnNotice func(*pgerr.Error)

	phase     phase
	closed    bool
	pendingErr error

	backendKeyData wire.BackendKeyData
	paramStatus    map[string]string
	txStatus       byte

	// wireNames tracks which named statements have actually had a Parse
	// sent over this connection — distinct from stmts, which tracks the
	// name->text mapping regardless of whether the wire round trip has
	// happened yet.
	wireNames map[string]bool

	currentResult *result.ResultSet
}

// New returns a Conn ready to have Open called on it. logger may be nil.
func New(opts Options, transport Transport, logger *logging.Logger) *Conn {
	return &Conn{
		opts:        opts,
		transport:   transport,
		logger:      logger,
		framer:      wire.NewFramer(),
		authFSM:     auth.New(opts.User, opts.Password),
		stmts:       stmt.New(),
		tx:          txtree.NewDriver(),
		paramStatus: make(map[string]string),
		wireNames:   make(map[string]bool),
		phase:       phaseInit,
	}
}

// BackendKeyData returns the process/secret key pair the server sent after
// authentication, used to build a CancelRequest on another connection.
func (c *Conn) BackendKeyData() wire.BackendKeyData { return c.backendKeyData }

// ParameterStatus returns the current value of a run-time parameter the
// server has reported (e.g. "server_version", "TimeZone"), and ok=false if
// it has never been reported.
func (c *Conn) ParameterStatus(name string) (string, bool) {
	v, ok := c.paramStatus[name]
	return v, ok
}

// TxStatus returns the most recently observed ReadyForQuery status byte:
// 'I' idle, 'T' in a transaction, 'E' in a failed transaction.
func (c *Conn) TxStatus() byte { return c.txStatus }

// Closed reports whether the connection has been torn down, by either Close
// or Fail.
func (c *Conn) Closed() bool { return c.closed }

// Ready reports whether the connection has completed startup/auth. It stays
// true while a command is in flight; commands submitted then are queued.
func (c *Conn) Ready() bool { return c.phase == phaseReady }

// InTransaction reports whether a transaction is currently open.
func (c *Conn) InTransaction() bool { return c.tx.InTransaction() }
