package module

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/qubi-robotics/qubi-go/pkg/log"
	"github.com/qubi-robotics/qubi-go/pkg/wire"
)

// DefaultPollTimeout bounds how long a single Poll call waits for a
// pending datagram. Poll is intended to be non-blocking; the timeout
// exists only because a UDP read needs a deadline to return early.
const DefaultPollTimeout = time.Millisecond

// Endpoint errors.
var (
	// ErrModuleID indicates a missing module identifier.
	ErrModuleID = errors.New("module id must be a non-empty string")

	// ErrAlreadyBound indicates Bind was called on an initialized endpoint.
	ErrAlreadyBound = errors.New("endpoint already bound")

	// ErrNoSender indicates a reply was attempted before any datagram
	// arrived; there is no address to send it to.
	ErrNoSender = errors.New("no datagram received yet")
)

// Handler processes a single dispatched command. Handlers run synchronously
// inside Poll and are expected to reply at most once per command.
type Handler func(cmd *wire.Command)

// Config configures a Module.
type Config struct {
	// ID is the module identifier; must be non-empty.
	ID string

	// Type is the module category. Unknown values map to custom.
	Type wire.ModuleType

	// Addr is the UDP listen address. Empty means all interfaces on
	// wire.DefaultPort; use "host:0" for an ephemeral port.
	Addr string

	// Handler is the per-command callback. When nil, dispatched commands
	// are answered by the default handler with a 405 reply.
	Handler Handler

	// Logger receives protocol events (optional).
	Logger log.Logger

	// PollTimeout bounds the wait inside a single Poll call.
	// Zero means DefaultPollTimeout.
	PollTimeout time.Duration

	// Clock overrides the time source for reply timestamps. Nil means
	// time.Now. Reply timestamps are milliseconds since the endpoint
	// was created, mirroring a device-local millis() counter.
	Clock func() time.Time
}

// Module is a Qubi device endpoint. It owns the UDP socket, the module
// identity, and the last-sender slot used as the reply destination.
//
// A Module is not safe for concurrent use: Poll and the reply helpers
// must be called from a single goroutine (see the package documentation).
type Module struct {
	id  string
	typ wire.ModuleType

	addr        string
	conn        *net.UDPConn
	initialized bool
	lastSender  *net.UDPAddr

	handler     Handler
	pollTimeout time.Duration

	endpointID string
	logger     log.Logger
	clock      func() time.Time
	start      time.Time

	buf [wire.BufferSize]byte
}

// New creates an uninitialized endpoint. Call Bind to acquire the socket.
func New(cfg Config) (*Module, error) {
	if cfg.ID == "" {
		return nil, ErrModuleID
	}
	if cfg.Addr == "" {
		cfg.Addr = fmt.Sprintf(":%d", wire.DefaultPort)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NoopLogger{}
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = DefaultPollTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	m := &Module{
		id:          cfg.ID,
		typ:         wire.ParseModuleType(string(cfg.Type)),
		addr:        cfg.Addr,
		handler:     cfg.Handler,
		pollTimeout: cfg.PollTimeout,
		endpointID:  uuid.NewString(),
		logger:      cfg.Logger,
		clock:       cfg.Clock,
	}
	m.start = m.clock()
	return m, nil
}

// Bind acquires the UDP socket and marks the endpoint initialized.
// Binding an already-bound endpoint is an error; Close it first.
func (m *Module) Bind() error {
	if m.initialized {
		return ErrAlreadyBound
	}

	addr, err := net.ResolveUDPAddr("udp4", m.addr)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", m.addr, err)
	}
	conn, err := net.ListenUDP("udp4", addr)
	if err != nil {
		return fmt.Errorf("bind %q: %w", m.addr, err)
	}

	m.conn = conn
	m.initialized = true

	m.logEvent(log.Event{
		Category: log.CategoryState,
		Action:   "bind",
	})
	return nil
}

// Close releases the socket and returns the endpoint to the uninitialized
// state. Closing an uninitialized endpoint is a no-op.
func (m *Module) Close() error {
	if !m.initialized {
		return nil
	}

	m.initialized = false
	err := m.conn.Close()
	m.conn = nil

	m.logEvent(log.Event{
		Category: log.CategoryState,
		Action:   "teardown",
	})
	return err
}

// Initialized returns true after a successful Bind and before Close.
func (m *Module) Initialized() bool { return m.initialized }

// ID returns the module identifier.
func (m *Module) ID() string { return m.id }

// Type returns the module category.
func (m *Module) Type() wire.ModuleType { return m.typ }

// Port returns the UDP port the endpoint is bound to, or 0 when
// uninitialized. When bound to an ephemeral port this is the actual port.
func (m *Module) Port() int {
	if !m.initialized {
		return 0
	}
	return m.conn.LocalAddr().(*net.UDPAddr).Port
}

// LastSender returns the source address of the most recently received
// datagram, or nil if none arrived yet.
func (m *Module) LastSender() *net.UDPAddr { return m.lastSender }

// SetHandler installs the per-command callback, replacing the default
// 405 handler for all subsequently dispatched commands.
func (m *Module) SetHandler(h Handler) { m.handler = h }

// Poll examines the socket for at most one pending datagram and processes
// it: the sender is recorded, the payload decoded, and every command
// addressed to this module (by id or wildcard) is dispatched in order.
// A payload that fails to decode produces a single 400 reply.
//
// Poll waits at most Config.PollTimeout; with no pending datagram it
// returns nil. On an uninitialized endpoint Poll is a silent no-op.
func (m *Module) Poll() error {
	if !m.initialized {
		return nil
	}

	if err := m.conn.SetReadDeadline(m.clock().Add(m.pollTimeout)); err != nil {
		return fmt.Errorf("set read deadline: %w", err)
	}

	// Datagrams larger than the buffer are silently truncated at read;
	// the subsequent decode almost always fails and produces a 400.
	n, sender, err := m.conn.ReadFromUDP(m.buf[:wire.BufferSize-1])
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return nil
		}
		if !m.initialized {
			// Closed between checks; treat like an empty poll.
			return nil
		}
		return fmt.Errorf("read datagram: %w", err)
	}

	m.lastSender = sender
	data := m.buf[:n]

	m.logEvent(log.Event{
		Category:   log.CategoryDatagram,
		Direction:  log.DirectionIn,
		RemoteAddr: sender.String(),
		Size:       n,
	})

	msg, err := wire.DecodeMessage(data)
	if err != nil {
		m.logEvent(log.Event{
			Category:   log.CategoryError,
			Direction:  log.DirectionIn,
			RemoteAddr: sender.String(),
			Error:      err.Error(),
		})
		return m.SendError(wire.StatusBadRequest, "Invalid message format")
	}

	for i := range msg.Commands {
		cmd := &msg.Commands[i]
		if !cmd.Addresses(m.id) {
			// Addressed to another module sharing the datagram.
			continue
		}
		m.logEvent(log.Event{
			Category:   log.CategoryDispatch,
			Direction:  log.DirectionIn,
			RemoteAddr: sender.String(),
			Action:     cmd.Action,
		})
		if m.handler != nil {
			m.handler(cmd)
		} else {
			m.defaultHandler(cmd)
		}
	}
	return nil
}

// defaultHandler answers dispatched commands when no handler is installed.
func (m *Module) defaultHandler(cmd *wire.Command) {
	_ = m.SendError(wire.StatusMethodNotAllowed, "Command handler not implemented")
}

// logEvent stamps and forwards a protocol event.
func (m *Module) logEvent(ev log.Event) {
	ev.Timestamp = m.clock()
	ev.EndpointID = m.endpointID
	if ev.ModuleID == "" {
		ev.ModuleID = m.id
	}
	m.logger.Log(ev)
}
