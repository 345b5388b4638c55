package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness. Code is the
// stable kind callers branch on; Details carries free text for end users.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound        = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden       = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized    = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrValidation      = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal        = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss       = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrPayloadTooLarge = New("PAYLOAD_TOO_LARGE", http.StatusRequestEntityTooLarge, "request body too large")

	// Pre-solve feasibility failures. They never reach the solver.
	ErrRoomCapacityConflict = New("ROOM_CAPACITY_CONFLICT", http.StatusBadRequest, "Validation Failed: Room Capacity Conflict.")
	ErrCourseHoursConflict  = New("COURSE_HOURS_CONFLICT", http.StatusBadRequest, "Validation Failed: Course Hours Conflict.")
	ErrTeacherLoadConflict  = New("TEACHER_LOAD_CONFLICT", http.StatusBadRequest, "Validation Failed: Teacher Load Conflict (Absolute Max).")

	// Solver outcomes other than success.
	ErrSolverSystem           = New("SOLVER_SYSTEM_ERROR", http.StatusInternalServerError, "Timetable generation failed (System Error).")
	ErrSolverInfeasible       = New("SOLVER_INFEASIBLE", http.StatusUnprocessableEntity, "Timetable generation failed: The problem is INFEASIBLE.")
	ErrSolverOutput           = New("SOLVER_OUTPUT_ERROR", http.StatusBadGateway, "Solver ran but returned an invalid JSON format.")
	ErrSolverMissingTimetable = New("SOLVER_MISSING_TIMETABLE", http.StatusBadGateway, "Solver returned no timetable.")

	// ErrNoPublished is kept apart from ErrNotFound so clients can say
	// "not yet published" instead of a generic missing-data message.
	ErrNoPublished = New("NO_PUBLISHED", http.StatusNotFound, "Final timetable not yet published.")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// WithDetails returns a copy of err carrying the given detail text.
func WithDetails(err *Error, details string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	clone.Details = details
	return &clone
}

// HasCode reports whether err is an *Error with the given code.
func HasCode(err error, code string) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}
