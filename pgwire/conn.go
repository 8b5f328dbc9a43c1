package pgwire

import (
	"github.com/lattice-db/pgwire/pgerr"
	"github.com/lattice-db/pgwire/result"
	"github.com/lattice-db/pgwire/wire"
)

// Open starts the connection: either the StartupMessage directly
// (TLSDisable) or an SSLRequest probe first (TLSPrefer/TLSRequire).
func (c *Conn) Open() error {
	if c.opts.TLSMode == TLSDisable {
		return c.sendStartup()
	}
	c.phase = phaseAwaitingSSLResponse
	return c.send(wire.SSLRequest())
}

// NeedsTLSUpgrade reports whether the server accepted SSLRequest and is
// waiting for the host to wrap the transport in TLS and call
// ContinueAfterTLS — no further bytes should be fed to this Conn on the old
// transport until that happens.
func (c *Conn) NeedsTLSUpgrade() bool { return c.phase == phaseAwaitingTLSUpgrade }

// ContinueAfterTLS resumes startup once the host has upgraded the
// transport to TLS, sending StartupMessage over the new transport.
func (c *Conn) ContinueAfterTLS(transport Transport) error {
	if c.phase != phaseAwaitingTLSUpgrade {
		return pgerr.New(pgerr.KindInvalidState, "pgwire: ContinueAfterTLS called without a pending TLS upgrade")
	}
	c.transport = transport
	return c.sendStartup()
}

func (c *Conn) sendStartup() error {
	msg := wire.StartupMessage{User: c.opts.User, Database: c.opts.Database, Parameters: c.opts.Params}.Encode()
	c.phase = phaseAwaitingAuth
	return c.send(msg)
}

// Close sends Terminate and tears down the connection, failing any command
// still queued or in flight with a ConnectionError.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	sendErr := c.send(wire.Terminate())
	c.teardown(pgerr.New(pgerr.KindConnectionError, "pgwire: connection closed"))
	return sendErr
}

// Fail aborts the connection immediately without sending Terminate — for
// use when the host observes the transport itself has failed (read error,
// forcible disconnect, keepalive timeout). err is reported to every command
// still queued or in flight; a nil err is replaced with a generic
// ConnectionError.
func (c *Conn) Fail(err error) {
	if err == nil {
		err = pgerr.New(pgerr.KindConnectionError, "pgwire: connection terminated by host")
	}
	c.teardown(err)
}

func (c *Conn) teardown(err error) {
	if c.closed {
		return
	}
	c.closed = true
	c.phase = phaseClosed
	c.tx.FailAll(err)
}

func (c *Conn) fail(err error) error {
	c.teardown(err)
	return err
}

func (c *Conn) send(b []byte) error {
	if err := c.transport.Send(b); err != nil {
		return c.fail(pgerr.Wrap(pgerr.KindConnectionError, err, "pgwire: transport send failed"))
	}
	return nil
}

// Feed hands newly received bytes to the connection. It may call
// Transport.Send in return (e.g. a password message in response to an
// authentication challenge) and may invoke command callbacks registered via
// Query/Execute/Begin/etc.
func (c *Conn) Feed(data []byte) error {
	if c.closed {
		return pgerr.New(pgerr.KindConnectionError, "pgwire: Feed called on a closed connection")
	}

	if c.phase == phaseAwaitingSSLResponse {
		if len(data) == 0 {
			return nil
		}
		b := data[0]
		data = data[1:]
		if err := c.handleSSLResponse(b); err != nil {
			return err
		}
		if c.closed || len(data) == 0 {
			return nil
		}
	}

	c.framer.Feed(data)
	for {
		msg, ok, err := c.framer.Next()
		if err != nil {
			return c.fail(err)
		}
		if !ok {
			return nil
		}
		if err := c.handleMessage(msg.Tag, msg.Payload); err != nil {
			return err
		}
		if c.closed {
			return nil
		}
	}
}

func (c *Conn) handleSSLResponse(b byte) error {
	switch b {
	case 'S':
		c.phase = phaseAwaitingTLSUpgrade
		return nil
	case 'N':
		if c.opts.TLSMode == TLSRequire {
			return c.fail(pgerr.New(pgerr.KindConnectionError, "pgwire: server refused TLS but TLSRequire was requested"))
		}
		return c.sendStartup()
	default:
		return c.fail(pgerr.New(pgerr.KindProtocolViolation, "pgwire: unexpected SSLRequest response byte %q", b))
	}
}

func (c *Conn) handleMessage(tag byte, payload []byte) error {
	switch tag {
	case wire.TagErrorResponse:
		return c.handleError(payload)

	case wire.TagNoticeResponse:
		n := pgerr.Decode(payload)
		if c.logger != nil {
			c.logger.Infof("server notice: %s", n.Message)
		}
		if c.OnNotice != nil {
			c.OnNotice(n)
		}
		return nil

	case wire.TagAuthentication:
		req, err := wire.DecodeAuthenticationRequest(payload)
		if err != nil {
			return c.fail(err)
		}
		return c.handleAuth(req)

	case wire.TagBackendKeyData:
		bkd, err := wire.DecodeBackendKeyData(payload)
		if err != nil {
			return c.fail(err)
		}
		c.backendKeyData = bkd
		return nil

	case wire.TagParameterStatus:
		ps, err := wire.DecodeParameterStatus(payload)
		if err != nil {
			return c.fail(err)
		}
		c.paramStatus[ps.Name] = ps.Value
		return nil

	case wire.TagReadyForQuery:
		rfq, err := wire.DecodeReadyForQuery(payload)
		if err != nil {
			return c.fail(err)
		}
		return c.handleReadyForQuery(rfq)

	case wire.TagRowDescription:
		rd, err := wire.DecodeRowDescription(payload)
		if err != nil {
			return c.fail(err)
		}
		c.currentResult = result.NewResultSet(rd.Fields)
		return nil

	case wire.TagDataRow:
		dr, err := wire.DecodeDataRow(payload)
		if err != nil {
			return c.fail(err)
		}
		if c.currentResult == nil {
			c.currentResult = result.NewResultSet(nil)
		}
		c.currentResult.AppendRow(dr.Values)
		return nil

	case wire.TagCommandComplete:
		cc, err := wire.DecodeCommandComplete(payload)
		if err != nil {
			return c.fail(err)
		}
		if c.currentResult == nil {
			c.currentResult = result.NewResultSet(nil)
		}
		c.currentResult.Tag = cc.Tag
		return nil

	case wire.TagParseComplete, wire.TagBindComplete, wire.TagParameterDescription,
		wire.TagNoData, wire.TagPortalSuspended, wire.TagCloseComplete:
		return nil

	default:
		if c.logger != nil {
			c.logger.Debugf("pgwire: unhandled backend message tag %q", tag)
		}
		return nil
	}
}

func (c *Conn) handleError(payload []byte) error {
	e := pgerr.Decode(payload)
	if c.logger != nil {
		c.logger.Warnf("server error: %v", e)
	}
	if c.phase != phaseReady {
		// An ErrorResponse before the connection ever reaches Ready means
		// startup or auth itself failed — there is no in-flight command to
		// report it to.
		return c.fail(e)
	}
	c.pendingErr = e
	return nil
}

func (c *Conn) handleAuth(req wire.AuthenticationRequest) error {
	resp, done, err := c.authFSM.Handle(req)
	if err != nil {
		return c.fail(err)
	}
	if resp != nil {
		if err := c.send(wire.PasswordMessage(resp)); err != nil {
			return err
		}
	}
	if done {
		c.phase = phaseAwaitingStartupReady
	}
	return nil
}

func (c *Conn) handleReadyForQuery(rfq wire.ReadyForQuery) error {
	c.txStatus = rfq.TxStatus
	switch c.phase {
	case phaseAwaitingStartupReady:
		c.phase = phaseReady
		return c.pump()
	case phaseReady:
		err := c.pendingErr
		c.pendingErr = nil
		c.tx.Complete(err)
		return c.pump()
	default:
		return nil
	}
}

// pump sends the next queued command's wire bytes, if the connection is
// Ready and nothing is already in flight.
func (c *Conn) pump() error {
	if c.phase != phaseReady {
		return nil
	}
	cmd, ok := c.tx.Dispatch()
	if !ok {
		return nil
	}
	c.currentResult = nil
	return c.sendCommand(cmd)
}
