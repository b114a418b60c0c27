package trigger

import (
	"context"
	"fmt"
	"sync"

	"autobk/internal/autobk"
)

// MemoryTrigger records backup requests in memory, making it useful for testing.
// This implementation is safe for concurrent use.
type MemoryTrigger struct {
	mu       sync.Mutex
	requests []*BackupRequest
	requestBuilder
}

// NewMemoryTrigger creates an empty in-memory trigger.
func NewMemoryTrigger(clock autobk.Clock, idgen autobk.RequestIDGenerator) *MemoryTrigger {
	return &MemoryTrigger{requestBuilder: newRequestBuilder(clock, idgen)}
}

func (m *MemoryTrigger) TriggerBackup(ctx context.Context, device *autobk.Device) (*autobk.BackupHandle, error) {
	req := m.build(device)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)

	return req.handle("memory", fmt.Sprintf("memory#%d", len(m.requests))), nil
}

// Requests returns a copy of the recorded requests in trigger order.
func (m *MemoryTrigger) Requests() []*BackupRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*BackupRequest(nil), m.requests...)
}

var _ autobk.BackupTrigger = (*MemoryTrigger)(nil)
