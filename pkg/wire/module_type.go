package wire

// ModuleType identifies the category of a module.
type ModuleType string

const (
	// ModuleTypeActuator is a module that moves something (servos, grippers).
	ModuleTypeActuator ModuleType = "actuator"

	// ModuleTypeDisplay is a module that renders something (eyes, expressions).
	ModuleTypeDisplay ModuleType = "display"

	// ModuleTypeMobile is a module that drives a mobile platform.
	ModuleTypeMobile ModuleType = "mobile"

	// ModuleTypeSensor is a module that samples the environment.
	ModuleTypeSensor ModuleType = "sensor"

	// ModuleTypeCustom is the catch-all category. Unknown type strings
	// decode to ModuleTypeCustom rather than failing.
	ModuleTypeCustom ModuleType = "custom"
)

// ParseModuleType maps a type string to a ModuleType.
// Unrecognized strings (including the empty string) map to ModuleTypeCustom.
func ParseModuleType(s string) ModuleType {
	switch ModuleType(s) {
	case ModuleTypeActuator, ModuleTypeDisplay, ModuleTypeMobile, ModuleTypeSensor, ModuleTypeCustom:
		return ModuleType(s)
	default:
		return ModuleTypeCustom
	}
}

// IsValid returns true if the module type is one of the enumerated categories.
func (t ModuleType) IsValid() bool {
	switch t {
	case ModuleTypeActuator, ModuleTypeDisplay, ModuleTypeMobile, ModuleTypeSensor, ModuleTypeCustom:
		return true
	default:
		return false
	}
}

// String returns the wire representation of the module type.
func (t ModuleType) String() string {
	return string(t)
}
