package command

import (
	"encoding/json"
	"fmt"

	"github.com/qubi-robotics/qubi-go/pkg/wire"
)

// CustomBuilder constructs commands for custom modules.
type CustomBuilder struct {
	moduleID string
}

// Custom returns a builder for the custom module with the given id.
func Custom(moduleID string) CustomBuilder {
	return CustomBuilder{moduleID: moduleID}
}

// Do builds a command with an arbitrary action. action must be
// non-empty. params may be nil, a *wire.Data builder, or any value that
// marshals to a JSON object.
func (b CustomBuilder) Do(action string, params any) (wire.Command, error) {
	if action == "" {
		return wire.Command{}, errf("action must be a non-empty string")
	}

	cmd := wire.Command{
		ModuleID:   b.moduleID,
		ModuleType: wire.ModuleTypeCustom,
		Action:     action,
	}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return wire.Command{}, fmt.Errorf("encode params: %w", err)
		}
		cmd.Params = raw
	}
	return cmd, nil
}
