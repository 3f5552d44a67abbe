package command

import "github.com/qubi-robotics/qubi-go/pkg/wire"

// SensorBuilder constructs commands for sensor modules.
type SensorBuilder struct {
	moduleID string
}

// Sensor returns a builder for the sensor module with the given id.
func Sensor(moduleID string) SensorBuilder {
	return SensorBuilder{moduleID: moduleID}
}

// Read builds a sensor reading command. An empty sensorType is omitted
// and reads the module's default sensor.
func (b SensorBuilder) Read(sensorType string) (wire.Command, error) {
	params := wire.NewData()
	if sensorType != "" {
		params.Set("sensor_type", sensorType)
	}
	return build(b.moduleID, wire.ModuleTypeSensor, "read", params)
}

// StartStreaming builds a streaming start command. sensorType must be
// non-empty and interval positive (in seconds).
func (b SensorBuilder) StartStreaming(sensorType string, interval float64) (wire.Command, error) {
	if sensorType == "" {
		return wire.Command{}, errf("sensor type must be a non-empty string")
	}
	if !finite(interval) || interval <= 0 {
		return wire.Command{}, errf("streaming interval must be a positive number")
	}
	params := wire.NewData().
		Set("sensor_type", sensorType).
		Set("interval", interval)
	return build(b.moduleID, wire.ModuleTypeSensor, "start_streaming", params)
}

// StopStreaming builds a streaming stop command. An empty sensorType is
// omitted and stops all streams.
func (b SensorBuilder) StopStreaming(sensorType string) (wire.Command, error) {
	params := wire.NewData()
	if sensorType != "" {
		params.Set("sensor_type", sensorType)
	}
	return build(b.moduleID, wire.ModuleTypeSensor, "stop_streaming", params)
}

// Calibrate builds a calibration command. sensorType must be non-empty.
func (b SensorBuilder) Calibrate(sensorType string) (wire.Command, error) {
	if sensorType == "" {
		return wire.Command{}, errf("sensor type must be a non-empty string")
	}
	params := wire.NewData().Set("sensor_type", sensorType)
	return build(b.moduleID, wire.ModuleTypeSensor, "calibrate", params)
}

// GetStatus builds a status query command.
func (b SensorBuilder) GetStatus() (wire.Command, error) {
	return build(b.moduleID, wire.ModuleTypeSensor, "get_status", nil)
}
