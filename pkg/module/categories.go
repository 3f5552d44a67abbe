package module

import (
	"github.com/qubi-robotics/qubi-go/pkg/wire"
)

// Actuator is an endpoint pre-tagged with the actuator category,
// with typed reply constructors for servo and position responses.
type Actuator struct {
	*Module
}

// NewActuator creates an actuator endpoint. Any Type in cfg is overridden.
func NewActuator(cfg Config) (*Actuator, error) {
	cfg.Type = wire.ModuleTypeActuator
	m, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &Actuator{Module: m}, nil
}

// SendServo replies with the servo angle. A negative speed is omitted.
func (a *Actuator) SendServo(angle, speed int) error {
	data := wire.NewData().Set("angle", angle)
	if speed >= 0 {
		data.Set("speed", speed)
	}
	return a.SendSuccess("Servo position set", data)
}

// SendPosition replies with a 3D position.
func (a *Actuator) SendPosition(x, y, z float64) error {
	data := wire.NewData().
		Set("x", x).
		Set("y", y).
		Set("z", z)
	return a.SendSuccess("Position set", data)
}

// Display is an endpoint pre-tagged with the display category,
// with typed reply constructors for eye and expression responses.
type Display struct {
	*Module
}

// NewDisplay creates a display endpoint. Any Type in cfg is overridden.
func NewDisplay(cfg Config) (*Display, error) {
	cfg.Type = wire.ModuleTypeDisplay
	m, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &Display{Module: m}, nil
}

// SendEyes replies with both eye positions. blink is omitted when false.
func (d *Display) SendEyes(leftX, leftY, rightX, rightY int, blink bool) error {
	data := wire.NewData().
		Set("left_eye", wire.NewData().Set("x", leftX).Set("y", leftY)).
		Set("right_eye", wire.NewData().Set("x", rightX).Set("y", rightY))
	if blink {
		data.Set("blink", true)
	}
	return d.SendSuccess("Eyes position set", data)
}

// SendExpression replies with the current expression.
// A negative intensity is omitted.
func (d *Display) SendExpression(expression string, intensity int) error {
	data := wire.NewData().Set("expression", expression)
	if intensity >= 0 {
		data.Set("intensity", intensity)
	}
	return d.SendSuccess("Expression set", data)
}

// Mobile is an endpoint pre-tagged with the mobile category,
// with typed reply constructors for movement and location responses.
type Mobile struct {
	*Module
}

// NewMobile creates a mobile endpoint. Any Type in cfg is overridden.
func NewMobile(cfg Config) (*Mobile, error) {
	cfg.Type = wire.ModuleTypeMobile
	m, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &Mobile{Module: m}, nil
}

// SendMovement replies with the executed movement.
func (m *Mobile) SendMovement(velocity, direction float64) error {
	data := wire.NewData().
		Set("velocity", velocity).
		Set("direction", direction)
	return m.SendSuccess("Movement command executed", data)
}

// SendLocation replies with the current location.
func (m *Mobile) SendLocation(x, y, heading float64) error {
	data := wire.NewData().
		Set("x", x).
		Set("y", y).
		Set("heading", heading)
	return m.SendSuccess("Location updated", data)
}

// Sensor is an endpoint pre-tagged with the sensor category,
// with typed reply constructors for sensor data and readings.
type Sensor struct {
	*Module
}

// NewSensor creates a sensor endpoint. Any Type in cfg is overridden.
func NewSensor(cfg Config) (*Sensor, error) {
	cfg.Type = wire.ModuleTypeSensor
	m, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &Sensor{Module: m}, nil
}

// SendData replies with an arbitrary sensor payload object.
func (s *Sensor) SendData(sensorType string, payload any) error {
	data := wire.NewData().
		Set("sensor_type", sensorType).
		Set("data", payload)
	return s.SendSuccess("Sensor data", data)
}

// SendReading replies with a single scalar reading.
// An empty unit is omitted.
func (s *Sensor) SendReading(sensorType string, value float64, unit string) error {
	data := wire.NewData().
		Set("sensor_type", sensorType).
		Set("value", value)
	if unit != "" {
		data.Set("unit", unit)
	}
	return s.SendSuccess("Sensor reading", data)
}

// Custom is an endpoint pre-tagged with the custom category.
// It carries no extra reply constructors; use the Module reply helpers.
type Custom struct {
	*Module
}

// NewCustom creates a custom endpoint. Any Type in cfg is overridden.
func NewCustom(cfg Config) (*Custom, error) {
	cfg.Type = wire.ModuleTypeCustom
	m, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &Custom{Module: m}, nil
}
