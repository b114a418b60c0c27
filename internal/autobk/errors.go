package autobk

import "errors"

// Error classes. Callers wrap these with %w so ExitCode can classify any error.
var (
	ErrValidation = errors.New("invalid input")
	ErrConfig     = errors.New("configuration error")
	ErrConnection = errors.New("connection error")
	ErrQuery      = errors.New("query error")
	ErrTrigger    = errors.New("backup trigger error")

	// ErrNotFound and ErrAmbiguous are query-class errors.
	ErrNotFound  = errors.New("device not found")
	ErrAmbiguous = errors.New("device name matches more than one row")
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitValidation = 1
	ExitConnection = 2
	ExitQuery      = 3
	ExitConfig     = 4
	ExitTrigger    = 5
)

// ExitCode maps an error to the process exit code.
// Errors that carry no class are treated as query errors.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrValidation):
		return ExitValidation
	case errors.Is(err, ErrConfig):
		return ExitConfig
	case errors.Is(err, ErrConnection):
		return ExitConnection
	case errors.Is(err, ErrTrigger):
		return ExitTrigger
	default:
		return ExitQuery
	}
}
