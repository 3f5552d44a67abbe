package controller

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/qubi-robotics/qubi-go/pkg/log"
	"github.com/qubi-robotics/qubi-go/pkg/wire"
)

// Controller defaults.
const (
	// DefaultTimeout is the per-attempt reply timeout.
	DefaultTimeout = 5 * time.Second

	// DefaultRetries is the number of additional send attempts after the
	// first one fails.
	DefaultRetries = 3

	// maxSequence is the wrap point for the sequence counter.
	maxSequence = 1<<31 - 1
)

// ResponseHandler observes every reply envelope received while the
// controller is waiting, matched or not.
type ResponseHandler func(resp *wire.Response, addr *net.UDPAddr)

// ErrorHandler observes errors from undecodable datagrams.
type ErrorHandler func(err error)

// Config configures a Controller. Zero fields fall back to defaults.
type Config struct {
	// Timeout is the per-attempt reply timeout (default 5s).
	Timeout time.Duration

	// Retries is the number of additional attempts after a timeout
	// (default 3). Negative disables retries entirely.
	Retries int

	// NoSequenceTracking disables the outgoing sequence counter;
	// messages are sent without a sequence field and any reply matches.
	NoSequenceTracking bool

	// Backoff customizes the delay between retries.
	Backoff BackoffConfig

	// Logger receives protocol events (optional).
	Logger log.Logger
}

// Controller sends batched command messages to one module endpoint and
// waits for the reply envelope. It is safe for concurrent use; concurrent
// sends are serialized on the underlying socket.
type Controller struct {
	addr *net.UDPAddr
	cfg  Config

	endpointID string
	logger     log.Logger

	sendMu sync.Mutex // serializes exchanges on conn
	conn   *net.UDPConn

	mu     sync.Mutex // guards seq, handlers, closed
	seq    uint32
	closed bool

	responseHandlers map[int]ResponseHandler
	errorHandlers    map[int]ErrorHandler
	nextHandlerID    int
}

// New creates a controller targeting the module at addr ("host:port").
// A missing port defaults to wire.DefaultPort.
func New(addr string, cfg Config) (*Controller, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retries == 0 {
		cfg.Retries = DefaultRetries
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NoopLogger{}
	}

	udpAddr, err := resolveTarget(addr)
	if err != nil {
		return nil, err
	}

	conn, err := net.DialUDP("udp4", nil, udpAddr)
	if err != nil {
		return nil, fmt.Errorf("dial %q: %w", addr, err)
	}

	return &Controller{
		addr:             udpAddr,
		cfg:              cfg,
		endpointID:       uuid.NewString(),
		logger:           cfg.Logger,
		conn:             conn,
		responseHandlers: make(map[int]ResponseHandler),
		errorHandlers:    make(map[int]ErrorHandler),
	}, nil
}

// Addr returns the target module address.
func (c *Controller) Addr() *net.UDPAddr { return c.addr }

// Close releases the socket. It is safe to call Close multiple times;
// in-flight sends fail with a connection error.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// OnResponse registers a handler invoked for every reply envelope
// received while waiting. The returned function removes the handler.
func (c *Controller) OnResponse(h ResponseHandler) (remove func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextHandlerID
	c.nextHandlerID++
	c.responseHandlers[id] = h
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.responseHandlers, id)
	}
}

// OnError registers a handler invoked when a received datagram cannot be
// decoded. The returned function removes the handler.
func (c *Controller) OnError(h ErrorHandler) (remove func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextHandlerID
	c.nextHandlerID++
	c.errorHandlers[id] = h
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.errorHandlers, id)
	}
}

// SendCommand sends a single command and waits for the reply.
func (c *Controller) SendCommand(ctx context.Context, cmd wire.Command) (*wire.Response, error) {
	return c.SendBatch(ctx, []wire.Command{cmd})
}

// SendBatch sends up to wire.MaxCommands commands in a single message and
// waits for the reply. Well-behaved modules reply exactly once per
// datagram, so one reply envelope covers the whole batch.
//
// The message is strictly validated before it is sent. Replies with an
// error status surface as *StatusError and are not retried; timeouts are
// retried with exponential backoff up to Config.Retries times.
func (c *Controller) SendBatch(ctx context.Context, commands []wire.Command) (*wire.Response, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}

	msg := wire.NewMessage(commands, c.nextSequence())
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	payload, err := wire.EncodeMessage(msg)
	if err != nil {
		return nil, err
	}

	backoff := NewBackoff(c.cfg.Backoff)
	var lastErr error

	for attempt := 0; attempt <= c.cfg.Retries; attempt++ {
		if attempt > 0 {
			if err := sleepContext(ctx, backoff.Next()); err != nil {
				return nil, err
			}
		}

		resp, err := c.exchange(ctx, payload, msg.Sequence)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		// Status errors are definitive answers; don't retry them.
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if c.isClosed() {
			return nil, ErrClosed
		}
	}
	return nil, lastErr
}

// exchange performs one send attempt and waits for a matching reply.
func (c *Controller) exchange(ctx context.Context, payload []byte, sequence uint32) (*wire.Response, error) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	deadline := time.Now().Add(c.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if _, err := c.conn.Write(payload); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	c.logEvent(log.Event{
		Category:   log.CategoryDatagram,
		Direction:  log.DirectionOut,
		RemoteAddr: c.addr.String(),
		Size:       len(payload),
	})

	var buf [wire.BufferSize]byte
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := c.conn.SetReadDeadline(deadline); err != nil {
			return nil, fmt.Errorf("set read deadline: %w", err)
		}

		n, err := c.conn.Read(buf[:])
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				return nil, fmt.Errorf("%w after %s", ErrTimeout, c.cfg.Timeout)
			}
			return nil, fmt.Errorf("read response: %w", err)
		}

		c.logEvent(log.Event{
			Category:   log.CategoryDatagram,
			Direction:  log.DirectionIn,
			RemoteAddr: c.addr.String(),
			Size:       n,
		})

		resp, err := wire.DecodeResponse(buf[:n])
		if err != nil {
			c.callErrorHandlers(err)
			continue
		}
		c.callResponseHandlers(resp, c.addr)

		if !c.matchesSequence(resp, sequence) {
			continue
		}

		if resp.Status.IsError() {
			return nil, &StatusError{
				Status:   resp.Status,
				Message:  resp.Message,
				ModuleID: resp.ModuleID,
			}
		}
		return resp, nil
	}
}

// matchesSequence decides whether a reply answers the outstanding message.
// Module firmware does not echo the sequence, so a reply without a
// data.sequence field always matches; only a present-but-different
// sequence is rejected.
func (c *Controller) matchesSequence(resp *wire.Response, sequence uint32) bool {
	if c.cfg.NoSequenceTracking || sequence == 0 {
		return true
	}
	var data struct {
		Sequence *uint32 `json:"sequence"`
	}
	if err := resp.DecodeData(&data); err != nil || data.Sequence == nil {
		return true
	}
	return *data.Sequence == sequence
}

// nextSequence advances the outgoing sequence counter, wrapping at 2^31-1.
// Returns 0 (field omitted) when sequence tracking is disabled.
func (c *Controller) nextSequence() uint32 {
	if c.cfg.NoSequenceTracking {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = (c.seq + 1) % maxSequence
	if c.seq == 0 {
		c.seq = 1
	}
	return c.seq
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Controller) callResponseHandlers(resp *wire.Response, addr *net.UDPAddr) {
	c.mu.Lock()
	handlers := make([]ResponseHandler, 0, len(c.responseHandlers))
	for _, h := range c.responseHandlers {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()
	for _, h := range handlers {
		h(resp, addr)
	}
}

func (c *Controller) callErrorHandlers(err error) {
	c.mu.Lock()
	handlers := make([]ErrorHandler, 0, len(c.errorHandlers))
	for _, h := range c.errorHandlers {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()
	for _, h := range handlers {
		h(err)
	}
}

func (c *Controller) logEvent(ev log.Event) {
	ev.Timestamp = time.Now()
	ev.EndpointID = c.endpointID
	c.logger.Log(ev)
}

// resolveTarget parses "host:port" or "host" into a UDP address.
func resolveTarget(addr string) (*net.UDPAddr, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		host, portStr = addr, strconv.Itoa(wire.DefaultPort)
	}
	udpAddr, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(host, portStr))
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", addr, err)
	}
	return udpAddr, nil
}

// sleepContext waits for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
