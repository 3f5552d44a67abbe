// Package controller implements the controller side of the Qubi protocol:
// building batched command messages, sending them to a module over UDP,
// and awaiting the reply envelope with timeout and retry handling.
//
//	c, err := controller.New("192.168.4.20:8888", controller.Config{})
//	if err != nil { ... }
//	defer c.Close()
//
//	cmd, err := command.Actuator("arm1").SetServo(90, -1, "")
//	if err != nil { ... }
//	resp, err := c.SendCommand(ctx, cmd)
//
// Replies with an error status (>= 400) surface as *StatusError. Messages
// are strictly validated before they leave the controller; the lenient
// decoding rules apply only on the device side.
//
// Discover broadcasts a wildcard "discover" command on the local network
// and collects the modules that answer. For mDNS-based discovery see the
// discovery package.
package controller
