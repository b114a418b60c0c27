package trigger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"autobk/internal/autobk"
)

// SpoolTrigger writes each backup request as a JSON file into a directory
// watched by the backup executor:
//
//	<dir>/
//	  <request id>.json
type SpoolTrigger struct {
	dir string
	requestBuilder
}

// NewSpoolTrigger creates a spool trigger rooted at dir, creating it if needed.
func NewSpoolTrigger(dir string, clock autobk.Clock, idgen autobk.RequestIDGenerator) (*SpoolTrigger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create spool directory: %w", err)
	}
	return &SpoolTrigger{dir: dir, requestBuilder: newRequestBuilder(clock, idgen)}, nil
}

// TriggerBackup writes the request atomically so the executor never sees a
// partial file.
func (s *SpoolTrigger) TriggerBackup(ctx context.Context, device *autobk.Device) (*autobk.BackupHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, triggerError("spooling request", err)
	}

	req := s.build(device)
	data, err := req.encode()
	if err != nil {
		return nil, triggerError("spooling request", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".request-*.tmp")
	if err != nil {
		return nil, triggerError("creating spool file", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, triggerError("writing spool file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, triggerError("closing spool file", err)
	}

	dest := filepath.Join(s.dir, req.ID+".json")
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return nil, triggerError("publishing spool file", err)
	}

	return req.handle("spool", dest), nil
}

var _ autobk.BackupTrigger = (*SpoolTrigger)(nil)
