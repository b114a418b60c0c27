package autobk

import (
	"fmt"
	"strings"
)

// Recurrence is the backup interval in weeks stored in iAutoWeeks.
// The value is persisted verbatim; only the zero value has a name.
type Recurrence uint8

// RecurrenceUnset means no interval was recorded for the device. Whether the
// backup executor treats it as "run once" or "never repeat" is up to the executor.
const RecurrenceUnset Recurrence = 0

func (r Recurrence) String() string {
	if r == RecurrenceUnset {
		return "unset"
	}
	if r == 1 {
		return "every week"
	}
	return fmt.Sprintf("every %d weeks", uint8(r))
}

// DeviceFields are the user-supplied values of a Device row.
type DeviceFields struct {
	Name       string
	DeviceType string
	IPv4       string
	Day        uint8
	Hour       uint8
	Weeks      Recurrence
}

// Device is a row of the Device table.
type Device struct {
	ID int64
	DeviceFields
}

// Validate checks the required string fields are non-empty. Their content is
// not inspected. It performs no I/O.
func (f DeviceFields) Validate() error {
	var missing []string
	if f.Name == "" {
		missing = append(missing, "name")
	}
	if f.DeviceType == "" {
		missing = append(missing, "device type")
	}
	if f.IPv4 == "" {
		missing = append(missing, "ipv4")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateName rejects an empty device name.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: missing name", ErrValidation)
	}
	return nil
}

// ValidateDeviceID rejects ids that cannot belong to a row.
func ValidateDeviceID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: device id must be positive, got %d", ErrValidation, id)
	}
	return nil
}
