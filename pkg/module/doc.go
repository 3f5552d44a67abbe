// Package module implements the device side of the Qubi protocol: a UDP
// endpoint that receives batched command messages, dispatches the commands
// addressed to it, and replies with a fixed-schema JSON envelope.
//
// # Lifecycle
//
// A Module is created uninitialized, becomes initialized on a successful
// Bind, and returns to uninitialized on Close. While uninitialized, Poll
// and the reply helpers are silent no-ops.
//
//	m, err := module.New(module.Config{ID: "arm1", Type: wire.ModuleTypeActuator})
//	if err != nil { ... }
//	if err := m.Bind(); err != nil { ... }
//	defer m.Close()
//
//	m.SetHandler(func(cmd *wire.Command) {
//	    switch cmd.Action {
//	    case "set_servo":
//	        ...
//	    default:
//	        m.SendError(wire.StatusNotFound, "Unknown action: "+cmd.Action)
//	    }
//	})
//
//	for {
//	    if err := m.Poll(); err != nil { ... }
//	}
//
// # Threading model
//
// The endpoint performs no background work. Poll must be called repeatedly
// from a single goroutine; handlers run synchronously inside Poll and must
// finish before the next Poll call. Replies always go to the sender of the
// most recently received datagram.
//
// # Category helpers
//
// Actuator, Display, Mobile, Sensor and Custom wrap a Module pre-tagged
// with a category and add typed reply constructors (SendServo, SendEyes,
// SendMovement, SendReading, ...). All helpers route through SendSuccess.
package module
