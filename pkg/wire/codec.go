package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeMessage parses one datagram into a Message using the lenient
// device-side discipline:
//
//  1. The payload must be a single well-formed JSON document.
//  2. The version must equal ProtocolVersion; this is the only hard gate.
//  3. Missing timestamp and sequence fields decode as zero.
//  4. The commands array is truncated to the first MaxCommands entries.
//  5. Missing or malformed command fields fall back to zero values and the
//     command still dispatches; unknown module types map to ModuleTypeCustom.
//
// A message with an empty commands array is valid and decodes to a Message
// with no commands.
func DecodeMessage(data []byte) (*Message, error) {
	var raw struct {
		Version   string            `json:"version"`
		Timestamp uint64            `json:"timestamp"`
		Sequence  uint32            `json:"sequence"`
		Commands  []json.RawMessage `json:"commands"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}

	if raw.Version != ProtocolVersion {
		return nil, fmt.Errorf("%w: %q (want %q)", ErrVersionMismatch, raw.Version, ProtocolVersion)
	}

	entries := raw.Commands
	if len(entries) > MaxCommands {
		entries = entries[:MaxCommands]
	}

	msg := &Message{
		Version:   raw.Version,
		Timestamp: raw.Timestamp,
		Sequence:  raw.Sequence,
		Commands:  make([]Command, len(entries)),
	}

	for i, entry := range entries {
		cmd := &msg.Commands[i]
		// A malformed entry yields a zero command; per-command failures
		// never reject the message.
		_ = json.Unmarshal(entry, cmd)
		cmd.ModuleType = ParseModuleType(string(cmd.ModuleType))
		cmd.Params = normalizeParams(cmd.Params)
	}

	return msg, nil
}

// EncodeMessage serializes a message to compact JSON.
// Returns ErrMessageTooLarge if the result would not fit in one datagram.
func EncodeMessage(msg *Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	if len(data) > MaxPacketSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrMessageTooLarge, len(data), MaxPacketSize)
	}
	return data, nil
}

// EncodeResponse serializes a reply envelope to compact JSON. The envelope
// is bounded by construction (fixed field set plus a single data object),
// so no size check is applied here.
func EncodeResponse(resp *Response) ([]byte, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return data, nil
}

// DecodeResponse parses a reply envelope.
func DecodeResponse(data []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &resp, nil
}

// normalizeParams maps absent or null params to the canonical empty object
// so handlers always receive a valid JSON document.
func normalizeParams(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return emptyObject
	}
	return raw
}
