package wire

// Status is a reply status code. The taxonomy mirrors a small subset of
// HTTP: the protocol core emits StatusSuccess, StatusBadRequest and
// StatusMethodNotAllowed; StatusNotFound and StatusInternalError are
// reserved for application handlers.
type Status int

const (
	// StatusSuccess indicates the command completed normally.
	StatusSuccess Status = 200

	// StatusBadRequest indicates a malformed message or version mismatch.
	StatusBadRequest Status = 400

	// StatusNotFound indicates the handler does not recognize the action.
	StatusNotFound Status = 404

	// StatusMethodNotAllowed indicates no command handler is installed.
	StatusMethodNotAllowed Status = 405

	// StatusInternalError indicates the handler hit an unexpected fault.
	StatusInternalError Status = 500
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusBadRequest:
		return "BAD_REQUEST"
	case StatusNotFound:
		return "NOT_FOUND"
	case StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case StatusInternalError:
		return "INTERNAL_ERROR"
	default:
		return "UNKNOWN"
	}
}

// IsSuccess returns true if the status indicates success.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess
}

// IsError returns true if the status indicates an error.
func (s Status) IsError() bool {
	return s >= StatusBadRequest
}
