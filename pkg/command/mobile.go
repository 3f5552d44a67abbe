package command

import "github.com/qubi-robotics/qubi-go/pkg/wire"

// MobileBuilder constructs commands for mobile modules.
type MobileBuilder struct {
	moduleID string
}

// Mobile returns a builder for the mobile module with the given id.
func Mobile(moduleID string) MobileBuilder {
	return MobileBuilder{moduleID: moduleID}
}

// Move builds a movement command. velocity and direction must be finite.
// A duration <= 0 is omitted.
func (b MobileBuilder) Move(velocity, direction, duration float64) (wire.Command, error) {
	if !finite(velocity) {
		return wire.Command{}, errf("velocity must be a finite number")
	}
	if !finite(direction) {
		return wire.Command{}, errf("direction must be a finite number")
	}
	if duration > 0 && !finite(duration) {
		return wire.Command{}, errf("duration must be a finite number")
	}

	params := wire.NewData().
		Set("velocity", velocity).
		Set("direction", direction)
	if duration > 0 {
		params.Set("duration", duration)
	}
	return build(b.moduleID, wire.ModuleTypeMobile, "move", params)
}

// SetLocation builds a location setting command. All values must be
// finite.
func (b MobileBuilder) SetLocation(x, y, heading float64) (wire.Command, error) {
	for _, c := range []struct {
		name  string
		value float64
	}{{"x", x}, {"y", y}, {"heading", heading}} {
		if !finite(c.value) {
			return wire.Command{}, errf("location %s must be a finite number", c.name)
		}
	}
	params := wire.NewData().Set("x", x).Set("y", y).Set("heading", heading)
	return build(b.moduleID, wire.ModuleTypeMobile, "set_location", params)
}

// GetLocation builds a location query command.
func (b MobileBuilder) GetLocation() (wire.Command, error) {
	return build(b.moduleID, wire.ModuleTypeMobile, "get_location", nil)
}

// Rotate builds a rotation command. angle must be finite. A negative
// speed is omitted; otherwise it must be within 0..100.
func (b MobileBuilder) Rotate(angle, speed float64) (wire.Command, error) {
	if !finite(angle) {
		return wire.Command{}, errf("rotation angle must be a finite number")
	}
	if speed > 100 {
		return wire.Command{}, errf("rotation speed must be between 0 and 100")
	}

	params := wire.NewData().Set("angle", angle)
	if speed >= 0 {
		params.Set("speed", speed)
	}
	return build(b.moduleID, wire.ModuleTypeMobile, "rotate", params)
}

// Stop builds a stop command.
func (b MobileBuilder) Stop() (wire.Command, error) {
	return build(b.moduleID, wire.ModuleTypeMobile, "stop", nil)
}
