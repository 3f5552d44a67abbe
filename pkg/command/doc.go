// Package command provides typed constructors for Qubi commands, one
// builder per module category. Builders validate parameter ranges before
// the command ever reaches the wire and keep params keys in a stable
// order.
//
//	cmd, err := command.Actuator("arm1").SetServo(90, 120, "ease-in")
//	if err != nil { ... }
//	resp, err := c.SendCommand(ctx, cmd)
//
// Optional numeric parameters follow an omit-when-negative convention;
// optional strings are omitted when empty. Validation failures wrap
// wire.ErrValidation.
package command
