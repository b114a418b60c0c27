package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"autobk/internal/autobk"
)

// Statements issued against the Device table. User values are always bound
// through placeholders.
const (
	insertDeviceSQL = "INSERT INTO Device (sName, sType, sIP, iAutoDay, iAutoHour, iAutoWeeks) VALUES (?, ?, ?, ?, ?, ?)"
	selectByNameSQL = "SELECT kSelf, sName FROM Device WHERE sName = ?"
	lookupByNameSQL = "SELECT kSelf, sName, sType, sIP, iAutoDay, iAutoHour, iAutoWeeks FROM Device WHERE sName = ?"
	lookupByIDSQL   = "SELECT kSelf, sName, sType, sIP, iAutoDay, iAutoHour, iAutoWeeks FROM Device WHERE kSelf = ?"
	updateDeviceSQL = "UPDATE Device SET sType = ?, sIP = ?, iAutoDay = ?, iAutoHour = ?, iAutoWeeks = ? WHERE sName = ?"
	deleteDeviceSQL = "DELETE FROM Device WHERE sName = ?"
)

// SQLGateway implements autobk.Gateway over a database/sql pool.
// The same statements serve the MySQL and SQLite drivers.
type SQLGateway struct {
	db     *sql.DB
	driver string
}

// NewSQLGateway wraps an existing pool. The gateway owns db and closes it on Close.
func NewSQLGateway(db *sql.DB, driver string) *SQLGateway {
	return &SQLGateway{db: db, driver: driver}
}

// Driver returns the database/sql driver name backing the gateway.
func (g *SQLGateway) Driver() string {
	return g.driver
}

func (g *SQLGateway) AddDevice(ctx context.Context, f autobk.DeviceFields) error {
	_, err := g.db.ExecContext(ctx, insertDeviceSQL, f.Name, f.DeviceType, f.IPv4, f.Day, f.Hour, uint8(f.Weeks))
	if err != nil {
		return queryError("inserting device", err)
	}
	return nil
}

func (g *SQLGateway) FindDevicesByName(ctx context.Context, name string, fn func(autobk.Device) error) error {
	rows, err := g.db.QueryContext(ctx, selectByNameSQL, name)
	if err != nil {
		return queryError("selecting devices", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d autobk.Device
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return queryError("reading device row", err)
		}
		if err := fn(d); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return queryError("iterating device rows", err)
	}
	return nil
}

func (g *SQLGateway) LookupDevicesByName(ctx context.Context, name string) ([]*autobk.Device, error) {
	rows, err := g.db.QueryContext(ctx, lookupByNameSQL, name)
	if err != nil {
		return nil, queryError("looking up device by name", err)
	}
	defer rows.Close()

	var result []*autobk.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, queryError("reading device row", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError("iterating device rows", err)
	}
	return result, nil
}

func (g *SQLGateway) FindDeviceByID(ctx context.Context, id int64) (*autobk.Device, error) {
	d, err := scanDevice(g.db.QueryRowContext(ctx, lookupByIDSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, queryError("looking up device by id", err)
	}
	return d, nil
}

func (g *SQLGateway) ModifyDevice(ctx context.Context, f autobk.DeviceFields) error {
	res, err := g.db.ExecContext(ctx, updateDeviceSQL, f.DeviceType, f.IPv4, f.Day, f.Hour, uint8(f.Weeks), f.Name)
	if err != nil {
		return queryError("updating device", err)
	}
	return requireAffected(res, f.Name)
}

func (g *SQLGateway) DeleteDevice(ctx context.Context, name string) error {
	res, err := g.db.ExecContext(ctx, deleteDeviceSQL, name)
	if err != nil {
		return queryError("deleting device", err)
	}
	return requireAffected(res, name)
}

// Close closes the connection pool.
func (g *SQLGateway) Close() error {
	if g.db != nil {
		return g.db.Close()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDevice(row rowScanner) (*autobk.Device, error) {
	var d autobk.Device
	var weeks uint8
	if err := row.Scan(&d.ID, &d.Name, &d.DeviceType, &d.IPv4, &d.Day, &d.Hour, &weeks); err != nil {
		return nil, err
	}
	d.Weeks = autobk.Recurrence(weeks)
	return &d, nil
}

// requireAffected turns a zero-row UPDATE or DELETE into ErrNotFound.
// MySQL reports matched rows only when CLIENT_FOUND_ROWS is set, so an UPDATE
// that rewrites identical values also counts as a match there (see mysqlDSN).
func requireAffected(res sql.Result, name string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return queryError("reading affected rows", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", autobk.ErrNotFound, name)
	}
	return nil
}

func queryError(action string, err error) error {
	return fmt.Errorf("%w: %s: %w", autobk.ErrQuery, action, err)
}

// Compile-time check that SQLGateway implements autobk.Gateway
var _ autobk.Gateway = (*SQLGateway)(nil)
