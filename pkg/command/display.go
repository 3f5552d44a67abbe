package command

import "github.com/qubi-robotics/qubi-go/pkg/wire"

// DisplayBuilder constructs commands for display modules.
type DisplayBuilder struct {
	moduleID string
}

// Display returns a builder for the display module with the given id.
func Display(moduleID string) DisplayBuilder {
	return DisplayBuilder{moduleID: moduleID}
}

// SetEyes builds an eye position command. Coordinates must be
// non-negative. blink is omitted when false.
func (b DisplayBuilder) SetEyes(leftX, leftY, rightX, rightY int, blink bool) (wire.Command, error) {
	for _, c := range []struct {
		name  string
		value int
	}{{"left eye x", leftX}, {"left eye y", leftY}, {"right eye x", rightX}, {"right eye y", rightY}} {
		if c.value < 0 {
			return wire.Command{}, errf("%s coordinate must be non-negative, got %d", c.name, c.value)
		}
	}

	params := wire.NewData().
		Set("left_eye", wire.NewData().Set("x", leftX).Set("y", leftY)).
		Set("right_eye", wire.NewData().Set("x", rightX).Set("y", rightY))
	if blink {
		params.Set("blink", true)
	}
	return build(b.moduleID, wire.ModuleTypeDisplay, "set_eyes", params)
}

// SetExpression builds a facial expression command. expression must be
// one of the Expression constants. A negative intensity is omitted;
// otherwise it must be within 0..100.
func (b DisplayBuilder) SetExpression(expression string, intensity int) (wire.Command, error) {
	switch expression {
	case ExpressionHappy, ExpressionSad, ExpressionSurprised, ExpressionNeutral, ExpressionAngry:
	default:
		return wire.Command{}, errf("invalid expression %q", expression)
	}
	if intensity > 100 {
		return wire.Command{}, errf("expression intensity must be between 0 and 100, got %d", intensity)
	}

	params := wire.NewData().Set("expression", expression)
	if intensity >= 0 {
		params.Set("intensity", intensity)
	}
	return build(b.moduleID, wire.ModuleTypeDisplay, "set_expression", params)
}

// ClearDisplay builds a clear display command.
func (b DisplayBuilder) ClearDisplay() (wire.Command, error) {
	return build(b.moduleID, wire.ModuleTypeDisplay, "clear_display", nil)
}

// SetBrightness builds a brightness command. brightness must be within
// 0..100.
func (b DisplayBuilder) SetBrightness(brightness int) (wire.Command, error) {
	if brightness < 0 || brightness > 100 {
		return wire.Command{}, errf("brightness must be between 0 and 100, got %d", brightness)
	}
	params := wire.NewData().Set("brightness", brightness)
	return build(b.moduleID, wire.ModuleTypeDisplay, "set_brightness", params)
}
