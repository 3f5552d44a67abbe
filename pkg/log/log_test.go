package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRoundTrip(t *testing.T) {
	ev := Event{
		Timestamp:  time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		EndpointID: "3f5a0d2e-0000-0000-0000-000000000001",
		Direction:  DirectionIn,
		Category:   CategoryDispatch,
		RemoteAddr: "192.168.4.10:40012",
		ModuleID:   "arm1",
		Action:     "set_servo",
		Size:       142,
	}

	data, err := EncodeEvent(ev)
	require.NoError(t, err)

	decoded, err := DecodeEvent(data)
	require.NoError(t, err)

	assert.True(t, decoded.Timestamp.Equal(ev.Timestamp))
	assert.Equal(t, ev.EndpointID, decoded.EndpointID)
	assert.Equal(t, ev.Direction, decoded.Direction)
	assert.Equal(t, ev.Category, decoded.Category)
	assert.Equal(t, ev.RemoteAddr, decoded.RemoteAddr)
	assert.Equal(t, ev.ModuleID, decoded.ModuleID)
	assert.Equal(t, ev.Action, decoded.Action)
	assert.Equal(t, ev.Size, decoded.Size)
}

func TestFileLoggerWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.qlog")

	fl, err := NewFileLogger(path)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		fl.Log(Event{
			Timestamp:  time.Now(),
			EndpointID: "ep1",
			Direction:  DirectionOut,
			Category:   CategoryDatagram,
			Size:       100 + i,
		})
	}
	require.NoError(t, fl.Close())
	// Close is idempotent.
	require.NoError(t, fl.Close())

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	var sizes []int
	for {
		ev, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		sizes = append(sizes, ev.Size)
	}
	assert.Equal(t, []int{100, 101, 102}, sizes)
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.qlog")

	fl, err := NewFileLogger(path)
	require.NoError(t, err)
	fl.Log(Event{EndpointID: "first", Category: CategoryState})
	require.NoError(t, fl.Close())

	fl, err = NewFileLogger(path)
	require.NoError(t, err)
	fl.Log(Event{EndpointID: "second", Category: CategoryState})
	require.NoError(t, fl.Close())

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	first, err := r.Next()
	require.NoError(t, err)
	second, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "first", first.EndpointID)
	assert.Equal(t, "second", second.EndpointID)
}

func TestMultiLoggerFanOut(t *testing.T) {
	var a, b []Event
	ml := NewMultiLogger(
		loggerFunc(func(ev Event) { a = append(a, ev) }),
		loggerFunc(func(ev Event) { b = append(b, ev) }),
	)

	ml.Log(Event{ModuleID: "m1"})
	assert.Len(t, a, 1)
	assert.Len(t, b, 1)
}

// loggerFunc adapts a function to the Logger interface.
type loggerFunc func(Event)

func (f loggerFunc) Log(ev Event) { f(ev) }

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "IN", DirectionIn.String())
	assert.Equal(t, "OUT", DirectionOut.String())
	assert.Equal(t, "DATAGRAM", CategoryDatagram.String())
	assert.Equal(t, "DISPATCH", CategoryDispatch.String())
	assert.Equal(t, "STATE", CategoryState.String())
	assert.Equal(t, "ERROR", CategoryError.String())
}
