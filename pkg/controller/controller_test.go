package controller

import (
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qubi-robotics/qubi-go/pkg/wire"
)

// fastBackoff keeps retry tests quick.
var fastBackoff = BackoffConfig{
	Initial: time.Millisecond,
	Max:     2 * time.Millisecond,
	Jitter:  0,
}

// responder simulates a module endpoint: every received message is
// handed to handle, and a non-nil result is sent back to the sender.
type responder struct {
	conn     *net.UDPConn
	received atomic.Int64
}

func newResponder(t *testing.T, handle func(msg *wire.Message) *wire.Response) *responder {
	t.Helper()

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	r := &responder{conn: conn}
	go func() {
		buf := make([]byte, wire.BufferSize)
		for {
			n, sender, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			r.received.Add(1)

			msg, err := wire.DecodeMessage(buf[:n])
			if err != nil {
				continue
			}
			resp := handle(msg)
			if resp == nil {
				continue
			}
			payload, err := wire.EncodeResponse(resp)
			if err != nil {
				continue
			}
			_, _ = conn.WriteToUDP(payload, sender)
		}
	}()
	return r
}

func (r *responder) addr() string {
	return r.conn.LocalAddr().String()
}

func okReply(moduleID, message string, data []byte) *wire.Response {
	return &wire.Response{
		Status:   wire.StatusSuccess,
		Message:  message,
		ModuleID: moduleID,
		Data:     data,
	}
}

func testCommand() wire.Command {
	return wire.Command{
		ModuleID:   "arm1",
		ModuleType: wire.ModuleTypeActuator,
		Action:     "set_servo",
		Params:     []byte(`{"angle":90}`),
	}
}

func TestSendCommand(t *testing.T) {
	r := newResponder(t, func(msg *wire.Message) *wire.Response {
		if len(msg.Commands) != 1 || msg.Commands[0].Action != "set_servo" {
			return nil
		}
		return okReply("arm1", "Servo position set", []byte(`{"angle":90}`))
	})

	c, err := New(r.addr(), Config{Backoff: fastBackoff})
	require.NoError(t, err)
	defer c.Close()

	resp, err := c.SendCommand(context.Background(), testCommand())
	require.NoError(t, err)
	assert.Equal(t, wire.StatusSuccess, resp.Status)
	assert.Equal(t, "arm1", resp.ModuleID)
	assert.Equal(t, "Servo position set", resp.Message)
}

func TestSendCommandStatusErrorNotRetried(t *testing.T) {
	r := newResponder(t, func(msg *wire.Message) *wire.Response {
		return &wire.Response{
			Status:   wire.StatusNotFound,
			Message:  "Unknown action",
			ModuleID: "arm1",
		}
	})

	c, err := New(r.addr(), Config{Retries: 3, Backoff: fastBackoff})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.SendCommand(context.Background(), testCommand())
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, wire.StatusNotFound, statusErr.Status)
	assert.Equal(t, "arm1", statusErr.ModuleID)
	assert.Contains(t, statusErr.Error(), "404 NOT_FOUND")

	// A definitive error answer is not retried.
	assert.Equal(t, int64(1), r.received.Load())
}

func TestSendCommandRetriesAfterTimeout(t *testing.T) {
	var drops atomic.Int64
	r := newResponder(t, func(msg *wire.Message) *wire.Response {
		if drops.Add(1) <= 2 {
			return nil // lose the first two requests
		}
		return okReply("arm1", "OK", nil)
	})

	c, err := New(r.addr(), Config{
		Timeout: 50 * time.Millisecond,
		Retries: 3,
		Backoff: fastBackoff,
	})
	require.NoError(t, err)
	defer c.Close()

	resp, err := c.SendCommand(context.Background(), testCommand())
	require.NoError(t, err)
	assert.Equal(t, wire.StatusSuccess, resp.Status)
	assert.Equal(t, int64(3), r.received.Load())
}

func TestSendCommandTimeoutExhausted(t *testing.T) {
	r := newResponder(t, func(msg *wire.Message) *wire.Response {
		return nil // never answer
	})

	c, err := New(r.addr(), Config{
		Timeout: 30 * time.Millisecond,
		Retries: -1,
		Backoff: fastBackoff,
	})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.SendCommand(context.Background(), testCommand())
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, int64(1), r.received.Load())
}

func TestSendCommandContextCancel(t *testing.T) {
	r := newResponder(t, func(msg *wire.Message) *wire.Response {
		return nil
	})

	c, err := New(r.addr(), Config{Timeout: 5 * time.Second, Backoff: fastBackoff})
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = c.SendCommand(ctx, testCommand())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSendBatchValidates(t *testing.T) {
	r := newResponder(t, func(msg *wire.Message) *wire.Response {
		t.Error("invalid message reached the wire")
		return nil
	})

	c, err := New(r.addr(), Config{Backoff: fastBackoff})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.SendBatch(context.Background(), []wire.Command{{ModuleID: "", Action: "x"}})
	assert.ErrorIs(t, err, wire.ErrValidation)
	assert.Equal(t, int64(0), r.received.Load())
}

func TestSequenceIncrements(t *testing.T) {
	var mu sync.Mutex
	var sequences []uint32
	r := newResponder(t, func(msg *wire.Message) *wire.Response {
		mu.Lock()
		sequences = append(sequences, msg.Sequence)
		mu.Unlock()
		return okReply("m1", "OK", nil)
	})

	c, err := New(r.addr(), Config{Backoff: fastBackoff})
	require.NoError(t, err)
	defer c.Close()

	for i := 0; i < 3; i++ {
		_, err := c.SendCommand(context.Background(), testCommand())
		require.NoError(t, err)
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []uint32{1, 2, 3}, sequences)
}

func TestNoSequenceTracking(t *testing.T) {
	var got atomic.Uint32
	got.Store(99)
	r := newResponder(t, func(msg *wire.Message) *wire.Response {
		got.Store(msg.Sequence)
		return okReply("m1", "OK", nil)
	})

	c, err := New(r.addr(), Config{NoSequenceTracking: true, Backoff: fastBackoff})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.SendCommand(context.Background(), testCommand())
	require.NoError(t, err)
	assert.Equal(t, uint32(0), got.Load())
}

func TestMismatchedSequenceIgnored(t *testing.T) {
	// Answer twice: first a stale reply with the wrong sequence, then the
	// real one. The controller must skip the stale reply.
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer conn.Close()

	go func() {
		buf := make([]byte, wire.BufferSize)
		n, sender, err := conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		msg, err := wire.DecodeMessage(buf[:n])
		if err != nil {
			return
		}
		stale, _ := wire.EncodeResponse(okReply("m1", "stale", []byte(`{"sequence":999}`)))
		_, _ = conn.WriteToUDP(stale, sender)

		current, _ := wire.EncodeResponse(okReply("m1", "current", []byte(`{"sequence":`+strconv.FormatUint(uint64(msg.Sequence), 10)+`}`)))
		_, _ = conn.WriteToUDP(current, sender)
	}()

	c, err := New(conn.LocalAddr().String(), Config{Backoff: fastBackoff})
	require.NoError(t, err)
	defer c.Close()

	resp, err := c.SendCommand(context.Background(), testCommand())
	require.NoError(t, err)
	assert.Equal(t, "current", resp.Message)
}

func TestReplyWithoutSequenceMatches(t *testing.T) {
	// Module firmware does not echo sequences; such replies must match.
	r := newResponder(t, func(msg *wire.Message) *wire.Response {
		return okReply("m1", "OK", []byte(`{"angle":90}`))
	})

	c, err := New(r.addr(), Config{Backoff: fastBackoff})
	require.NoError(t, err)
	defer c.Close()

	resp, err := c.SendCommand(context.Background(), testCommand())
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Message)
}

func TestOnResponseObserver(t *testing.T) {
	r := newResponder(t, func(msg *wire.Message) *wire.Response {
		return okReply("m1", "OK", nil)
	})

	c, err := New(r.addr(), Config{Backoff: fastBackoff})
	require.NoError(t, err)
	defer c.Close()

	var observed atomic.Int64
	remove := c.OnResponse(func(resp *wire.Response, addr *net.UDPAddr) {
		observed.Add(1)
	})

	_, err = c.SendCommand(context.Background(), testCommand())
	require.NoError(t, err)
	assert.Equal(t, int64(1), observed.Load())

	remove()
	_, err = c.SendCommand(context.Background(), testCommand())
	require.NoError(t, err)
	assert.Equal(t, int64(1), observed.Load())
}

func TestClosedController(t *testing.T) {
	r := newResponder(t, func(msg *wire.Message) *wire.Response { return nil })

	c, err := New(r.addr(), Config{Backoff: fastBackoff})
	require.NoError(t, err)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close()) // idempotent

	_, err = c.SendCommand(context.Background(), testCommand())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestResolveTargetDefaultPort(t *testing.T) {
	addr, err := resolveTarget("127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, wire.DefaultPort, addr.Port)

	addr, err = resolveTarget("127.0.0.1:9000")
	require.NoError(t, err)
	assert.Equal(t, 9000, addr.Port)
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{Status: wire.StatusBadRequest, Message: "Invalid message format", ModuleID: "arm1"}
	msg := err.Error()
	assert.True(t, strings.Contains(msg, "arm1"))
	assert.True(t, strings.Contains(msg, "400 BAD_REQUEST"))
	var target *StatusError
	assert.True(t, errors.As(err, &target))
}
