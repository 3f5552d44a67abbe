package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Protocol constants shared by modules and controllers.
const (
	// ProtocolVersion is the only version literal accepted on the wire.
	ProtocolVersion = "1.0"

	// DefaultPort is the UDP port modules listen on by default.
	DefaultPort = 8888

	// BufferSize is the receive buffer size in bytes.
	BufferSize = 1024

	// MaxPacketSize is the largest encoded message accepted on the wire.
	// One byte below BufferSize: receivers null-terminate the buffer.
	MaxPacketSize = BufferSize - 1

	// MaxCommands is the maximum number of commands honored per message.
	// Longer command arrays are truncated, not rejected.
	MaxCommands = 16

	// Wildcard is the module id that addresses every receiving module.
	Wildcard = "*"
)

// Validation errors.
var (
	// ErrValidation is wrapped by all strict validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrVersionMismatch indicates a message with an unsupported version.
	ErrVersionMismatch = errors.New("unsupported protocol version")

	// ErrMessageTooLarge indicates an encoded message over MaxPacketSize.
	ErrMessageTooLarge = errors.New("message exceeds maximum packet size")
)

// emptyObject is the normalized form of absent command params.
var emptyObject = json.RawMessage("{}")

// Command is a single addressed operation within a message.
type Command struct {
	ModuleID   string          `json:"module_id"`
	ModuleType ModuleType      `json:"module_type"`
	Action     string          `json:"action"`
	Params     json.RawMessage `json:"params"`
}

// Addresses returns true if the command targets the module with the
// given id, either directly or via the wildcard.
func (c *Command) Addresses(moduleID string) bool {
	return c.ModuleID == moduleID || c.ModuleID == Wildcard
}

// DecodeParams unmarshals the command parameters into v.
func (c *Command) DecodeParams(v any) error {
	params := c.Params
	if len(params) == 0 {
		params = emptyObject
	}
	if err := json.Unmarshal(params, v); err != nil {
		return fmt.Errorf("decode params: %w", err)
	}
	return nil
}

// Validate performs the strict schema checks applied before a command is
// sent. Device-side decoding is deliberately more lenient; see DecodeMessage.
func (c *Command) Validate() error {
	if c.ModuleID == "" {
		return fmt.Errorf("%w: module_id must be a non-empty string", ErrValidation)
	}
	if !c.ModuleType.IsValid() {
		return fmt.Errorf("%w: invalid module_type %q", ErrValidation, string(c.ModuleType))
	}
	if c.Action == "" {
		return fmt.Errorf("%w: action must be a non-empty string", ErrValidation)
	}
	if !isJSONObject(c.Params) {
		return fmt.Errorf("%w: params must be an object", ErrValidation)
	}
	return nil
}

// Message is one decoded datagram: a batch of up to MaxCommands commands.
type Message struct {
	Version   string    `json:"version"`
	Timestamp uint64    `json:"timestamp"`
	Sequence  uint32    `json:"sequence,omitempty"`
	Commands  []Command `json:"commands"`
}

// NewMessage creates a message carrying the given commands, stamped with
// the current wall clock in milliseconds. A zero sequence omits the field.
func NewMessage(commands []Command, sequence uint32) *Message {
	return &Message{
		Version:   ProtocolVersion,
		Timestamp: uint64(time.Now().UnixMilli()),
		Sequence:  sequence,
		Commands:  commands,
	}
}

// Validate performs strict schema checks on an outgoing message.
func (m *Message) Validate() error {
	if m.Version != ProtocolVersion {
		return fmt.Errorf("%w: %q (want %q)", ErrVersionMismatch, m.Version, ProtocolVersion)
	}
	if m.Commands == nil {
		return fmt.Errorf("%w: missing commands field", ErrValidation)
	}
	if len(m.Commands) > MaxCommands {
		return fmt.Errorf("%w: %d commands exceeds maximum of %d", ErrValidation, len(m.Commands), MaxCommands)
	}
	for i := range m.Commands {
		if err := m.Commands[i].Validate(); err != nil {
			return fmt.Errorf("command %d: %w", i, err)
		}
	}
	return nil
}

// Response is the fixed-schema reply envelope. Field order on the wire is
// status, message, module_id, timestamp, data; data is omitted when absent.
type Response struct {
	Status    Status          `json:"status"`
	Message   string          `json:"message"`
	ModuleID  string          `json:"module_id"`
	Timestamp uint64          `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// DecodeData unmarshals the optional data object into v.
// Absent data decodes as an empty object.
func (r *Response) DecodeData(v any) error {
	data := r.Data
	if len(data) == 0 {
		data = emptyObject
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// isJSONObject reports whether raw is empty, JSON null, or a JSON object.
// Empty and null both normalize to the empty object on encode.
func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return true
	}
	return trimmed[0] == '{'
}
