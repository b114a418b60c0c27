package app

import "time"

// Operation statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// opIDLayout stamps every log line of one invocation.
const opIDLayout = "20060102T150405Z"

// Operation tracks the CLI command being run. It starts as a success and is
// marked as an error by the first failing call.
type Operation struct {
	ID     string
	Name   string
	Status string
}

// NewOperation creates an operation whose ID is derived from start.
func NewOperation(name string, start time.Time) *Operation {
	return &Operation{
		ID:     start.UTC().Format(opIDLayout),
		Name:   name,
		Status: StatusSuccess,
	}
}

// Record marks the operation failed when err is non-nil and returns err.
func (op *Operation) Record(err error) error {
	if err != nil {
		op.Status = StatusError
	}
	return err
}

// Failed reports whether any recorded call failed.
func (op *Operation) Failed() bool {
	return op.Status == StatusError
}
