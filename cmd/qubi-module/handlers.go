package main

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/qubi-robotics/qubi-go/pkg/module"
	"github.com/qubi-robotics/qubi-go/pkg/wire"
)

// handleCommon answers the actions every simulated module supports.
// Returns false if the action is not a common one.
func handleCommon(m *module.Module, cmd *wire.Command) bool {
	switch cmd.Action {
	case "ping":
		_ = m.SendSuccess("pong", nil)
	case "discover", "get_info":
		data := wire.NewData().
			Set("module_type", m.Type()).
			Set("version", wire.ProtocolVersion)
		_ = m.SendSuccess("Module info", data)
	default:
		return false
	}
	return true
}

func unknownAction(m *module.Module, cmd *wire.Command) {
	_ = m.SendError(wire.StatusMethodNotAllowed, fmt.Sprintf("Unknown action: %s", cmd.Action))
}

// newActuatorHandler simulates a servo arm with a 3D end position.
func newActuatorHandler(m *module.Actuator) module.Handler {
	var (
		angle   = 90
		x, y, z float64
	)

	return func(cmd *wire.Command) {
		if handleCommon(m.Module, cmd) {
			return
		}
		switch cmd.Action {
		case "set_servo":
			var p struct {
				Angle int `json:"angle"`
				Speed int `json:"speed"`
			}
			p.Speed = -1
			if err := cmd.DecodeParams(&p); err != nil {
				_ = m.SendError(wire.StatusBadRequest, "Invalid servo params")
				return
			}
			if p.Angle < 0 || p.Angle > 180 {
				_ = m.SendError(wire.StatusBadRequest, "Servo angle out of range")
				return
			}
			angle = p.Angle
			_ = m.SendServo(angle, p.Speed)
		case "set_position":
			var p struct {
				X float64 `json:"x"`
				Y float64 `json:"y"`
				Z float64 `json:"z"`
			}
			if err := cmd.DecodeParams(&p); err != nil {
				_ = m.SendError(wire.StatusBadRequest, "Invalid position params")
				return
			}
			x, y, z = p.X, p.Y, p.Z
			_ = m.SendPosition(x, y, z)
		case "get_position":
			_ = m.SendPosition(x, y, z)
		case "stop":
			_ = m.SendSuccess("Stopped", nil)
		default:
			unknownAction(m.Module, cmd)
		}
	}
}

// newDisplayHandler simulates a face display with eyes and expressions.
func newDisplayHandler(m *module.Display) module.Handler {
	return func(cmd *wire.Command) {
		if handleCommon(m.Module, cmd) {
			return
		}
		switch cmd.Action {
		case "set_eyes":
			var p struct {
				LeftEye struct {
					X int `json:"x"`
					Y int `json:"y"`
				} `json:"left_eye"`
				RightEye struct {
					X int `json:"x"`
					Y int `json:"y"`
				} `json:"right_eye"`
				Blink bool `json:"blink"`
			}
			if err := cmd.DecodeParams(&p); err != nil {
				_ = m.SendError(wire.StatusBadRequest, "Invalid eye params")
				return
			}
			_ = m.SendEyes(p.LeftEye.X, p.LeftEye.Y, p.RightEye.X, p.RightEye.Y, p.Blink)
		case "set_expression":
			var p struct {
				Expression string `json:"expression"`
				Intensity  int    `json:"intensity"`
			}
			p.Intensity = -1
			if err := cmd.DecodeParams(&p); err != nil || p.Expression == "" {
				_ = m.SendError(wire.StatusBadRequest, "Invalid expression params")
				return
			}
			_ = m.SendExpression(p.Expression, p.Intensity)
		case "clear_display":
			_ = m.SendSuccess("Display cleared", nil)
		case "set_brightness":
			var p struct {
				Brightness int `json:"brightness"`
			}
			if err := cmd.DecodeParams(&p); err != nil || p.Brightness < 0 || p.Brightness > 100 {
				_ = m.SendError(wire.StatusBadRequest, "Brightness out of range")
				return
			}
			_ = m.SendSuccess("Brightness set", wire.NewData().Set("brightness", p.Brightness))
		default:
			unknownAction(m.Module, cmd)
		}
	}
}

// newMobileHandler simulates a differential drive base with dead
// reckoning.
func newMobileHandler(m *module.Mobile) module.Handler {
	var x, y, heading float64

	return func(cmd *wire.Command) {
		if handleCommon(m.Module, cmd) {
			return
		}
		switch cmd.Action {
		case "move":
			var p struct {
				Velocity  float64 `json:"velocity"`
				Direction float64 `json:"direction"`
				Duration  float64 `json:"duration"`
			}
			if err := cmd.DecodeParams(&p); err != nil {
				_ = m.SendError(wire.StatusBadRequest, "Invalid movement params")
				return
			}
			heading = p.Direction
			if p.Duration > 0 {
				rad := p.Direction * math.Pi / 180
				x += p.Velocity * p.Duration * math.Cos(rad)
				y += p.Velocity * p.Duration * math.Sin(rad)
			}
			_ = m.SendMovement(p.Velocity, p.Direction)
		case "set_location":
			var p struct {
				X       float64 `json:"x"`
				Y       float64 `json:"y"`
				Heading float64 `json:"heading"`
			}
			if err := cmd.DecodeParams(&p); err != nil {
				_ = m.SendError(wire.StatusBadRequest, "Invalid location params")
				return
			}
			x, y, heading = p.X, p.Y, p.Heading
			_ = m.SendLocation(x, y, heading)
		case "get_location":
			_ = m.SendLocation(x, y, heading)
		case "rotate":
			var p struct {
				Angle float64 `json:"angle"`
			}
			if err := cmd.DecodeParams(&p); err != nil {
				_ = m.SendError(wire.StatusBadRequest, "Invalid rotation params")
				return
			}
			heading = math.Mod(heading+p.Angle, 360)
			_ = m.SendLocation(x, y, heading)
		case "stop":
			_ = m.SendSuccess("Stopped", nil)
		default:
			unknownAction(m.Module, cmd)
		}
	}
}

// newSensorHandler simulates a temperature sensor with a slow drift.
func newSensorHandler(m *module.Sensor) module.Handler {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	streaming := false

	return func(cmd *wire.Command) {
		if handleCommon(m.Module, cmd) {
			return
		}
		switch cmd.Action {
		case "read":
			value := 21.0 + rng.Float64()*2
			_ = m.SendReading("temperature", math.Round(value*100)/100, "C")
		case "start_streaming":
			var p struct {
				SensorType string  `json:"sensor_type"`
				Interval   float64 `json:"interval"`
			}
			if err := cmd.DecodeParams(&p); err != nil || p.Interval <= 0 {
				_ = m.SendError(wire.StatusBadRequest, "Invalid streaming params")
				return
			}
			streaming = true
			_ = m.SendSuccess("Streaming started", wire.NewData().
				Set("sensor_type", p.SensorType).
				Set("interval", p.Interval))
		case "stop_streaming":
			streaming = false
			_ = m.SendSuccess("Streaming stopped", nil)
		case "calibrate":
			_ = m.SendSuccess("Calibration complete", nil)
		case "get_status":
			_ = m.SendSuccess("Sensor status", wire.NewData().
				Set("streaming", streaming).
				Set("healthy", true))
		default:
			unknownAction(m.Module, cmd)
		}
	}
}

// newCustomHandler echoes any action back with its raw params.
func newCustomHandler(m *module.Custom) module.Handler {
	return func(cmd *wire.Command) {
		if handleCommon(m.Module, cmd) {
			return
		}
		data := wire.NewData().Set("action", cmd.Action)
		if len(cmd.Params) > 0 {
			data.Set("params", cmd.Params)
		}
		_ = m.SendSuccess("Acknowledged", data)
	}
}
