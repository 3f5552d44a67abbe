package command

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/qubi-robotics/qubi-go/pkg/wire"
)

// Easing modes accepted by SetServo.
const (
	EasingLinear  = "linear"
	EasingEaseIn  = "ease-in"
	EasingEaseOut = "ease-out"
)

// Expressions accepted by SetExpression.
const (
	ExpressionHappy     = "happy"
	ExpressionSad       = "sad"
	ExpressionSurprised = "surprised"
	ExpressionNeutral   = "neutral"
	ExpressionAngry     = "angry"
)

// build assembles a command, marshalling params into raw JSON.
func build(moduleID string, typ wire.ModuleType, action string, params *wire.Data) (wire.Command, error) {
	cmd := wire.Command{
		ModuleID:   moduleID,
		ModuleType: typ,
		Action:     action,
	}
	if params != nil && params.Len() > 0 {
		raw, err := json.Marshal(params)
		if err != nil {
			return wire.Command{}, fmt.Errorf("encode params: %w", err)
		}
		cmd.Params = raw
	}
	return cmd, nil
}

// errf builds a validation error.
func errf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", wire.ErrValidation, fmt.Sprintf(format, args...))
}

// finite reports whether f is a usable coordinate value.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
