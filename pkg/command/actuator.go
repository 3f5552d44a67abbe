package command

import "github.com/qubi-robotics/qubi-go/pkg/wire"

// ActuatorBuilder constructs commands for actuator modules.
type ActuatorBuilder struct {
	moduleID string
}

// Actuator returns a builder for the actuator module with the given id.
func Actuator(moduleID string) ActuatorBuilder {
	return ActuatorBuilder{moduleID: moduleID}
}

// SetServo builds a servo control command. angle must be within 0..180.
// A negative speed is omitted; otherwise it must be within 0..255.
// An empty easing is omitted; otherwise it must be one of the Easing
// constants.
func (b ActuatorBuilder) SetServo(angle, speed int, easing string) (wire.Command, error) {
	if angle < 0 || angle > 180 {
		return wire.Command{}, errf("servo angle must be between 0 and 180, got %d", angle)
	}
	if speed > 255 {
		return wire.Command{}, errf("servo speed must be between 0 and 255, got %d", speed)
	}
	switch easing {
	case "", EasingLinear, EasingEaseIn, EasingEaseOut:
	default:
		return wire.Command{}, errf("invalid easing type %q", easing)
	}

	params := wire.NewData().Set("angle", angle)
	if speed >= 0 {
		params.Set("speed", speed)
	}
	if easing != "" {
		params.Set("easing", easing)
	}
	return build(b.moduleID, wire.ModuleTypeActuator, "set_servo", params)
}

// SetPosition builds a 3D position command. Coordinates must be finite.
func (b ActuatorBuilder) SetPosition(x, y, z float64) (wire.Command, error) {
	for _, c := range []struct {
		name  string
		value float64
	}{{"x", x}, {"y", y}, {"z", z}} {
		if !finite(c.value) {
			return wire.Command{}, errf("position coordinate %s must be a finite number", c.name)
		}
	}
	params := wire.NewData().Set("x", x).Set("y", y).Set("z", z)
	return build(b.moduleID, wire.ModuleTypeActuator, "set_position", params)
}

// GetPosition builds a position query command.
func (b ActuatorBuilder) GetPosition() (wire.Command, error) {
	return build(b.moduleID, wire.ModuleTypeActuator, "get_position", nil)
}

// Stop builds a stop command.
func (b ActuatorBuilder) Stop() (wire.Command, error) {
	return build(b.moduleID, wire.ModuleTypeActuator, "stop", nil)
}
