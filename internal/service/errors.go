package service

import "errors"

// Common service errors
var (
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrModuleNotFound is returned when a module does not exist
	ErrModuleNotFound = errors.New("module not found")

	// ErrProjectNotFound is returned when a project does not exist
	ErrProjectNotFound = errors.New("project not found")

	// ErrStaffingRequestNotFound is returned when a staffing request does not exist
	ErrStaffingRequestNotFound = errors.New("staffing request not found")

	// ErrPositionNotFound is returned when an input references an unknown position
	ErrPositionNotFound = errors.New("position not found")

	// ErrInvalidWorkCalendar is returned when a module's work day length is not positive
	// or its work day count is negative
	ErrInvalidWorkCalendar = errors.New("invalid module work calendar")

	// ErrTransactionConflict is returned when a concurrent writer aborted the transaction.
	// Callers may retry the whole action.
	ErrTransactionConflict = errors.New("transaction conflict")

	// ErrNotImplemented is returned for estimate views that are not supported
	ErrNotImplemented = errors.New("not implemented")
)
