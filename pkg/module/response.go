package module

import (
	"encoding/json"
	"fmt"

	"github.com/qubi-robotics/qubi-go/pkg/log"
	"github.com/qubi-robotics/qubi-go/pkg/wire"
)

// SendResponse builds the fixed-schema reply envelope and transmits it as
// a single datagram to the sender of the most recent received datagram.
// The timestamp is the device-local millisecond counter at reply time.
//
// data may be nil (the field is omitted), a *wire.Data builder, or any value
// that marshals to a JSON object. The envelope is bounded by construction;
// callers must keep the data object small enough for one datagram.
//
// On an uninitialized endpoint SendResponse is a silent no-op.
func (m *Module) SendResponse(status wire.Status, message string, data any) error {
	if !m.initialized {
		return nil
	}
	if m.lastSender == nil {
		return ErrNoSender
	}

	resp := &wire.Response{
		Status:    status,
		Message:   message,
		ModuleID:  m.id,
		Timestamp: m.uptimeMillis(),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("encode response data: %w", err)
		}
		resp.Data = raw
	}

	payload, err := wire.EncodeResponse(resp)
	if err != nil {
		return err
	}

	_, err = m.conn.WriteToUDP(payload, m.lastSender)
	if err != nil {
		m.logEvent(log.Event{
			Category:   log.CategoryError,
			Direction:  log.DirectionOut,
			RemoteAddr: m.lastSender.String(),
			Error:      err.Error(),
		})
		return fmt.Errorf("send response: %w", err)
	}

	m.logEvent(log.Event{
		Category:   log.CategoryDatagram,
		Direction:  log.DirectionOut,
		RemoteAddr: m.lastSender.String(),
		Status:     int(status),
		Size:       len(payload),
	})
	return nil
}

// SendSuccess replies with StatusSuccess. An empty message defaults to "OK".
func (m *Module) SendSuccess(message string, data any) error {
	if message == "" {
		message = "OK"
	}
	return m.SendResponse(wire.StatusSuccess, message, data)
}

// SendError replies with an error status and no data field.
func (m *Module) SendError(status wire.Status, message string) error {
	return m.SendResponse(status, message, nil)
}

// uptimeMillis returns milliseconds elapsed since the endpoint was created.
func (m *Module) uptimeMillis() uint64 {
	return uint64(m.clock().Sub(m.start).Milliseconds())
}
