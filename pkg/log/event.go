package log

import (
	"time"
)

// Event represents a protocol log event captured by an endpoint.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// EndpointID uniquely identifies the local endpoint instance (UUID).
	EndpointID string `cbor:"2,keyasint"`

	// Direction indicates datagram flow.
	Direction Direction `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// RemoteAddr is the peer address (ip:port), when known.
	RemoteAddr string `cbor:"7,keyasint,omitempty"`

	// ModuleID is the local module identifier, or for dispatch events
	// the command's addressee.
	ModuleID string `cbor:"8,keyasint,omitempty"`

	// Action is the command action for dispatch events.
	Action string `cbor:"9,keyasint,omitempty"`

	// Status is the reply status code for datagram-out events.
	Status int `cbor:"10,keyasint,omitempty"`

	// Size is the datagram size in bytes for datagram events.
	Size int `cbor:"11,keyasint,omitempty"`

	// Error describes the failure for error events.
	Error string `cbor:"14,keyasint,omitempty"`
}

// Direction indicates the direction of datagram flow.
type Direction uint8

const (
	// DirectionIn indicates a received datagram.
	DirectionIn Direction = 0
	// DirectionOut indicates a transmitted datagram.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryDatagram indicates a raw datagram received or sent.
	CategoryDatagram Category = 0
	// CategoryDispatch indicates a command handed to a handler.
	CategoryDispatch Category = 1
	// CategoryState indicates an endpoint lifecycle change (bind, teardown).
	CategoryState Category = 2
	// CategoryError indicates a parse or transmit failure.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryDatagram:
		return "DATAGRAM"
	case CategoryDispatch:
		return "DISPATCH"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
