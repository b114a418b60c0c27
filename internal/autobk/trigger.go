package autobk

import (
	"context"
	"fmt"
	"time"
)

// BackupHandle identifies a backup request accepted by a BackupTrigger.
type BackupHandle struct {
	ID          string
	DeviceID    int64
	DeviceName  string
	Backend     string
	Location    string // where the request was handed off (path, object key, stream entry)
	RequestedAt time.Time
}

func (h *BackupHandle) String() string {
	return fmt.Sprintf("%s via %s at %s", h.ID, h.Backend, h.Location)
}

// BackupTrigger hands a backup request for a device to the external executor.
type BackupTrigger interface {
	TriggerBackup(ctx context.Context, device *Device) (*BackupHandle, error)
}
