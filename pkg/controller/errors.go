package controller

import (
	"errors"
	"fmt"

	"github.com/qubi-robotics/qubi-go/pkg/wire"
)

// Controller errors.
var (
	// ErrClosed indicates the controller has been closed.
	ErrClosed = errors.New("controller closed")

	// ErrTimeout indicates no matching reply arrived within the timeout.
	ErrTimeout = errors.New("timed out waiting for response")
)

// StatusError is returned when a module answers with an error status.
type StatusError struct {
	// Status is the reply status code (>= 400).
	Status wire.Status

	// Message is the human-readable reply message.
	Message string

	// ModuleID identifies the replying module.
	ModuleID string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("module %q: %d %s: %s", e.ModuleID, int(e.Status), e.Status, e.Message)
}
