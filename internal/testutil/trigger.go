package testutil

import (
	"context"
	"sync"

	"autobk/internal/autobk"
)

// FailingTrigger is a BackupTrigger that always returns Err and records the
// devices it was asked to back up.
type FailingTrigger struct {
	Err error

	mu      sync.Mutex
	devices []*autobk.Device
}

func (f *FailingTrigger) TriggerBackup(_ context.Context, device *autobk.Device) (*autobk.BackupHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.devices = append(f.devices, device)
	return nil, f.Err
}

// Calls returns the number of TriggerBackup calls.
func (f *FailingTrigger) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.devices)
}
