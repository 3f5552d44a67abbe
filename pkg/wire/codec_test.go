package wire

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDecodeMessage(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantErr  error
		commands int
	}{
		{
			name:     "single command",
			payload:  `{"version":"1.0","timestamp":1000,"commands":[{"module_id":"arm1","module_type":"actuator","action":"set_servo","params":{"angle":90}}]}`,
			commands: 1,
		},
		{
			name:     "empty commands array",
			payload:  `{"version":"1.0","timestamp":1000,"commands":[]}`,
			commands: 0,
		},
		{
			name:     "missing optional fields",
			payload:  `{"version":"1.0","commands":[{"action":"ping"}]}`,
			commands: 1,
		},
		{
			name:    "wrong version",
			payload: `{"version":"2.0","commands":[]}`,
			wantErr: ErrVersionMismatch,
		},
		{
			name:    "missing version",
			payload: `{"commands":[]}`,
			wantErr: ErrVersionMismatch,
		},
		{
			name:    "malformed JSON",
			payload: `{"version":"1.0","commands":[`,
			wantErr: errDecode,
		},
		{
			name:    "not an object",
			payload: `[1,2,3]`,
			wantErr: errDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := DecodeMessage([]byte(tt.payload))
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("DecodeMessage succeeded, want error %v", tt.wantErr)
				}
				if tt.wantErr != errDecode && !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodeMessage error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeMessage failed: %v", err)
			}
			if len(msg.Commands) != tt.commands {
				t.Errorf("command count = %d, want %d", len(msg.Commands), tt.commands)
			}
		})
	}
}

// errDecode marks cases where any decode error is acceptable.
var errDecode = errors.New("any decode error")

func TestDecodeMessageLenientDefaults(t *testing.T) {
	payload := `{"version":"1.0","commands":[{"action":"ping"}]}`
	msg, err := DecodeMessage([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeMessage failed: %v", err)
	}

	if msg.Timestamp != 0 {
		t.Errorf("Timestamp = %d, want 0", msg.Timestamp)
	}
	if msg.Sequence != 0 {
		t.Errorf("Sequence = %d, want 0", msg.Sequence)
	}

	cmd := msg.Commands[0]
	if cmd.ModuleID != "" {
		t.Errorf("ModuleID = %q, want empty", cmd.ModuleID)
	}
	if cmd.ModuleType != ModuleTypeCustom {
		t.Errorf("ModuleType = %q, want custom", cmd.ModuleType)
	}
	if string(cmd.Params) != "{}" {
		t.Errorf("Params = %s, want {}", cmd.Params)
	}
}

func TestDecodeMessageUnknownModuleType(t *testing.T) {
	payload := `{"version":"1.0","commands":[{"module_id":"x1","module_type":"gripper","action":"close"}]}`
	msg, err := DecodeMessage([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeMessage failed: %v", err)
	}
	if msg.Commands[0].ModuleType != ModuleTypeCustom {
		t.Errorf("ModuleType = %q, want custom", msg.Commands[0].ModuleType)
	}
}

func TestDecodeMessageNullParams(t *testing.T) {
	payload := `{"version":"1.0","commands":[{"module_id":"x1","module_type":"custom","action":"go","params":null}]}`
	msg, err := DecodeMessage([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeMessage failed: %v", err)
	}
	if string(msg.Commands[0].Params) != "{}" {
		t.Errorf("Params = %s, want {}", msg.Commands[0].Params)
	}
}

func TestDecodeMessageTruncatesCommands(t *testing.T) {
	var entries []string
	for i := 0; i < 20; i++ {
		entries = append(entries, fmt.Sprintf(`{"module_id":"m%d","module_type":"custom","action":"ping"}`, i))
	}
	payload := `{"version":"1.0","commands":[` + strings.Join(entries, ",") + `]}`

	msg, err := DecodeMessage([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeMessage failed: %v", err)
	}
	if len(msg.Commands) != MaxCommands {
		t.Fatalf("command count = %d, want %d", len(msg.Commands), MaxCommands)
	}
	// The first 16 survive in order.
	if msg.Commands[0].ModuleID != "m0" || msg.Commands[15].ModuleID != "m15" {
		t.Errorf("unexpected commands after truncation: first %q last %q",
			msg.Commands[0].ModuleID, msg.Commands[15].ModuleID)
	}
}

func TestDecodeMessageMalformedCommandEntry(t *testing.T) {
	// Second entry is a string, not an object. It decodes to a zero
	// command instead of rejecting the message.
	payload := `{"version":"1.0","commands":[{"module_id":"a","module_type":"sensor","action":"read"},"bogus"]}`
	msg, err := DecodeMessage([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeMessage failed: %v", err)
	}
	if len(msg.Commands) != 2 {
		t.Fatalf("command count = %d, want 2", len(msg.Commands))
	}
	if msg.Commands[1].Action != "" || msg.Commands[1].ModuleType != ModuleTypeCustom {
		t.Errorf("malformed entry decoded as %+v, want zero command", msg.Commands[1])
	}
}

func TestEncodeMessageRoundTrip(t *testing.T) {
	msg := NewMessage([]Command{
		{
			ModuleID:   "arm1",
			ModuleType: ModuleTypeActuator,
			Action:     "set_servo",
			Params:     []byte(`{"angle":90,"speed":120}`),
		},
	}, 7)

	data, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("EncodeMessage failed: %v", err)
	}

	decoded, err := DecodeMessage(data)
	if err != nil {
		t.Fatalf("DecodeMessage failed: %v", err)
	}
	if decoded.Sequence != 7 {
		t.Errorf("Sequence = %d, want 7", decoded.Sequence)
	}
	if decoded.Timestamp == 0 {
		t.Error("Timestamp not stamped")
	}
	got := decoded.Commands[0]
	if got.ModuleID != "arm1" || got.Action != "set_servo" {
		t.Errorf("unexpected command %+v", got)
	}
	// Params survive byte for byte.
	if string(got.Params) != `{"angle":90,"speed":120}` {
		t.Errorf("Params = %s", got.Params)
	}
}

func TestEncodeMessageTooLarge(t *testing.T) {
	big := strings.Repeat("x", MaxPacketSize)
	msg := NewMessage([]Command{
		{
			ModuleID:   "m1",
			ModuleType: ModuleTypeCustom,
			Action:     "blob",
			Params:     []byte(`{"blob":"` + big + `"}`),
		},
	}, 0)

	_, err := EncodeMessage(msg)
	if !errors.Is(err, ErrMessageTooLarge) {
		t.Fatalf("EncodeMessage error = %v, want ErrMessageTooLarge", err)
	}
}

func TestEncodeMessageOmitsZeroSequence(t *testing.T) {
	msg := NewMessage([]Command{}, 0)
	data, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("EncodeMessage failed: %v", err)
	}
	if strings.Contains(string(data), `"sequence"`) {
		t.Errorf("zero sequence serialized: %s", data)
	}
}

func TestResponseRoundTrip(t *testing.T) {
	resp := &Response{
		Status:    StatusSuccess,
		Message:   "Servo position set",
		ModuleID:  "arm1",
		Timestamp: 123456,
		Data:      []byte(`{"angle":90}`),
	}

	data, err := EncodeResponse(resp)
	if err != nil {
		t.Fatalf("EncodeResponse failed: %v", err)
	}

	decoded, err := DecodeResponse(data)
	if err != nil {
		t.Fatalf("DecodeResponse failed: %v", err)
	}
	if decoded.Status != StatusSuccess {
		t.Errorf("Status = %d, want 200", decoded.Status)
	}
	if decoded.ModuleID != "arm1" || decoded.Message != "Servo position set" {
		t.Errorf("unexpected envelope %+v", decoded)
	}
	var payload struct {
		Angle int `json:"angle"`
	}
	if err := decoded.DecodeData(&payload); err != nil {
		t.Fatalf("DecodeData failed: %v", err)
	}
	if payload.Angle != 90 {
		t.Errorf("Angle = %d, want 90", payload.Angle)
	}
}

func TestResponseKeyOrder(t *testing.T) {
	resp := &Response{
		Status:    StatusSuccess,
		Message:   "OK",
		ModuleID:  "m1",
		Timestamp: 1,
		Data:      []byte(`{"a":1}`),
	}
	data, err := EncodeResponse(resp)
	if err != nil {
		t.Fatalf("EncodeResponse failed: %v", err)
	}

	want := `{"status":200,"message":"OK","module_id":"m1","timestamp":1,"data":{"a":1}}`
	if string(data) != want {
		t.Errorf("encoded envelope = %s, want %s", data, want)
	}
}

func TestResponseOmitsEmptyData(t *testing.T) {
	resp := &Response{Status: StatusBadRequest, Message: "Invalid message format", ModuleID: "m1"}
	data, err := EncodeResponse(resp)
	if err != nil {
		t.Fatalf("EncodeResponse failed: %v", err)
	}
	if strings.Contains(string(data), `"data"`) {
		t.Errorf("empty data serialized: %s", data)
	}
}
