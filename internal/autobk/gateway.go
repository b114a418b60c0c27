package autobk

import "context"

// Gateway translates validated actions into single SQL statements.
// Implementations must bind every user value as a statement parameter.
type Gateway interface {
	// AddDevice inserts a new Device row.
	AddDevice(ctx context.Context, fields DeviceFields) error

	// FindDevicesByName streams rows matching name to fn, in database order.
	// Only ID and Name are populated. Zero matches is not an error.
	FindDevicesByName(ctx context.Context, name string, fn func(Device) error) error

	// LookupDevicesByName returns fully populated rows matching name.
	LookupDevicesByName(ctx context.Context, name string) ([]*Device, error)

	// FindDeviceByID returns the row with the given primary key, or nil if none exists.
	FindDeviceByID(ctx context.Context, id int64) (*Device, error)

	// ModifyDevice replaces the values of the row(s) named fields.Name.
	// Returns ErrNotFound if no row matched.
	ModifyDevice(ctx context.Context, fields DeviceFields) error

	// DeleteDevice removes the row(s) with the given name.
	// Returns ErrNotFound if no row matched.
	DeleteDevice(ctx context.Context, name string) error

	// Close releases the connection pool.
	Close() error
}
