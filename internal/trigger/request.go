package trigger

import (
	"encoding/json"
	"fmt"
	"time"

	"autobk/internal/autobk"
)

// BackupRequest is the document handed to the backup executor.
type BackupRequest struct {
	ID          string    `json:"id"`
	DeviceID    int64     `json:"device_id"`
	DeviceName  string    `json:"device_name"`
	DeviceType  string    `json:"device_type"`
	IPv4        string    `json:"ipv4"`
	Day         uint8     `json:"day"`
	Hour        uint8     `json:"hour"`
	Weeks       uint8     `json:"weeks"`
	RequestedAt time.Time `json:"requested_at"`
}

// requestBuilder stamps requests with an ID and time.
type requestBuilder struct {
	clock autobk.Clock
	idgen autobk.RequestIDGenerator
}

func newRequestBuilder(clock autobk.Clock, idgen autobk.RequestIDGenerator) requestBuilder {
	if clock == nil {
		clock = autobk.RealClock{}
	}
	if idgen == nil {
		idgen = autobk.UUIDRequestIDs{}
	}
	return requestBuilder{clock: clock, idgen: idgen}
}

func (b requestBuilder) build(d *autobk.Device) *BackupRequest {
	return &BackupRequest{
		ID:          b.idgen.NewRequestID(),
		DeviceID:    d.ID,
		DeviceName:  d.Name,
		DeviceType:  d.DeviceType,
		IPv4:        d.IPv4,
		Day:         d.Day,
		Hour:        d.Hour,
		Weeks:       uint8(d.Weeks),
		RequestedAt: b.clock.Now().UTC(),
	}
}

func (r *BackupRequest) encode() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encoding backup request: %w", err)
	}
	return data, nil
}

func (r *BackupRequest) handle(backend, location string) *autobk.BackupHandle {
	return &autobk.BackupHandle{
		ID:          r.ID,
		DeviceID:    r.DeviceID,
		DeviceName:  r.DeviceName,
		Backend:     backend,
		Location:    location,
		RequestedAt: r.RequestedAt,
	}
}

func triggerError(action string, err error) error {
	return fmt.Errorf("%w: %s: %w", autobk.ErrTrigger, action, err)
}
