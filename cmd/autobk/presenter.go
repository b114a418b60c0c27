package main

import (
	"errors"
	"fmt"
	"io"

	"autobk/internal/autobk"
)

// Messages printed when input validation fails.
const (
	msgInvalidData     = "Invalid data"
	msgInvalidName     = "Invalid name"
	msgInvalidDeviceID = "Invalid device id"
)

// presenter writes the user-facing result lines to stdout.
type presenter struct {
	w io.Writer
}

func (p presenter) added(name string)    { fmt.Fprintf(p.w, "%s added successfully\n", name) }
func (p presenter) modified(name string) { fmt.Fprintf(p.w, "%s modified successfully\n", name) }
func (p presenter) deleted(name string)  { fmt.Fprintf(p.w, "%s deleted successfully\n", name) }

func (p presenter) device(d autobk.Device) error {
	_, err := fmt.Fprintf(p.w, "Name: %s, ID: %d\n", d.Name, d.ID)
	return err
}

func (p presenter) backupTriggered(d *autobk.Device, h *autobk.BackupHandle) {
	fmt.Fprintf(p.w, "Backup triggered for %s (ID: %d): %s\n", d.Name, d.ID, h)
}

// failure prints invalidMsg for validation errors and "Error: ..." otherwise,
// and returns err marked as reported.
func (p presenter) failure(err error, invalidMsg string) error {
	if errors.Is(err, autobk.ErrValidation) {
		fmt.Fprintln(p.w, invalidMsg)
	} else {
		fmt.Fprintf(p.w, "Error: %v\n", err)
	}
	return &reportedError{err: err}
}
