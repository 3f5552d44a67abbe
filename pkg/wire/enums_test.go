package wire

import "testing"

func TestParseModuleType(t *testing.T) {
	tests := []struct {
		in   string
		want ModuleType
	}{
		{"actuator", ModuleTypeActuator},
		{"display", ModuleTypeDisplay},
		{"mobile", ModuleTypeMobile},
		{"sensor", ModuleTypeSensor},
		{"custom", ModuleTypeCustom},
		{"gripper", ModuleTypeCustom},
		{"ACTUATOR", ModuleTypeCustom},
		{"", ModuleTypeCustom},
	}
	for _, tt := range tests {
		if got := ParseModuleType(tt.in); got != tt.want {
			t.Errorf("ParseModuleType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestModuleTypeIsValid(t *testing.T) {
	for _, typ := range []ModuleType{ModuleTypeActuator, ModuleTypeDisplay, ModuleTypeMobile, ModuleTypeSensor, ModuleTypeCustom} {
		if !typ.IsValid() {
			t.Errorf("%q should be valid", typ)
		}
	}
	if ModuleType("gripper").IsValid() {
		t.Error("unknown type reported valid")
	}
	if ModuleType("").IsValid() {
		t.Error("empty type reported valid")
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusSuccess, "SUCCESS"},
		{StatusBadRequest, "BAD_REQUEST"},
		{StatusNotFound, "NOT_FOUND"},
		{StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{StatusInternalError, "INTERNAL_ERROR"},
		{Status(418), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", int(tt.status), got, tt.want)
		}
	}
}

func TestStatusClassification(t *testing.T) {
	if !StatusSuccess.IsSuccess() || StatusSuccess.IsError() {
		t.Error("200 misclassified")
	}
	for _, s := range []Status{StatusBadRequest, StatusNotFound, StatusMethodNotAllowed, StatusInternalError} {
		if s.IsSuccess() || !s.IsError() {
			t.Errorf("%d misclassified", int(s))
		}
	}
}
