package autobk

import (
	"context"
	"errors"
	"fmt"
)

// Service coordinates validation, the database gateway, and the backup trigger
// for the operations exposed by the CLI. Every operation validates its input
// before touching the gateway.
type Service struct {
	gateway Gateway
	trigger BackupTrigger
	logger  Logger
}

// NewService creates a Service. trigger may be nil when no backup is requested.
func NewService(gateway Gateway, trigger BackupTrigger, logger Logger) *Service {
	if logger == nil {
		logger = discardLogger{}
	}
	return &Service{
		gateway: gateway,
		trigger: trigger,
		logger:  logger,
	}
}

// Add inserts a new device.
func (s *Service) Add(ctx context.Context, fields DeviceFields) error {
	if err := fields.Validate(); err != nil {
		return err
	}
	if err := s.gateway.AddDevice(ctx, fields); err != nil {
		s.logger.Error("add failed", "name", fields.Name, "error", err)
		return err
	}
	s.logger.Info("device added", "name", fields.Name, "type", fields.DeviceType, "ipv4", fields.IPv4,
		"day", fields.Day, "hour", fields.Hour, "weeks", uint8(fields.Weeks))
	return nil
}

// Modify replaces the stored values of the device identified by fields.Name.
func (s *Service) Modify(ctx context.Context, fields DeviceFields) error {
	if err := fields.Validate(); err != nil {
		return err
	}
	if err := s.gateway.ModifyDevice(ctx, fields); err != nil {
		s.logger.Error("modify failed", "name", fields.Name, "error", err)
		return err
	}
	s.logger.Info("device modified", "name", fields.Name)
	return nil
}

// Delete removes the device with the given name.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := s.gateway.DeleteDevice(ctx, name); err != nil {
		s.logger.Error("delete failed", "name", name, "error", err)
		return err
	}
	s.logger.Info("device deleted", "name", name)
	return nil
}

// Get streams every device named name to fn. No match is not an error.
func (s *Service) Get(ctx context.Context, name string, fn func(Device) error) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	count := 0
	err := s.gateway.FindDevicesByName(ctx, name, func(d Device) error {
		count++
		return fn(d)
	})
	if err != nil {
		s.logger.Error("get failed", "name", name, "error", err)
		return err
	}
	s.logger.Debug("devices listed", "name", name, "count", count)
	return nil
}

// BackupByName resolves a single device by name and triggers its backup.
func (s *Service) BackupByName(ctx context.Context, name string) (*Device, *BackupHandle, error) {
	if err := ValidateName(name); err != nil {
		return nil, nil, err
	}
	devices, err := s.gateway.LookupDevicesByName(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	switch len(devices) {
	case 0:
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	case 1:
	default:
		return nil, nil, fmt.Errorf("%w: %q matches %d devices, use --device-id", ErrAmbiguous, name, len(devices))
	}
	handle, err := s.triggerBackup(ctx, devices[0])
	if err != nil {
		return nil, nil, err
	}
	return devices[0], handle, nil
}

// BackupByID resolves a device by primary key and triggers its backup.
func (s *Service) BackupByID(ctx context.Context, id int64) (*Device, *BackupHandle, error) {
	if err := ValidateDeviceID(id); err != nil {
		return nil, nil, err
	}
	device, err := s.gateway.FindDeviceByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if device == nil {
		return nil, nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	handle, err := s.triggerBackup(ctx, device)
	if err != nil {
		return nil, nil, err
	}
	return device, handle, nil
}

func (s *Service) triggerBackup(ctx context.Context, device *Device) (*BackupHandle, error) {
	if s.trigger == nil {
		return nil, fmt.Errorf("%w: no backup trigger configured", ErrTrigger)
	}
	handle, err := s.trigger.TriggerBackup(ctx, device)
	if err != nil {
		s.logger.Error("backup trigger failed", "device_id", device.ID, "name", device.Name, "error", err)
		if !errors.Is(err, ErrTrigger) {
			err = fmt.Errorf("%w: %w", ErrTrigger, err)
		}
		return nil, err
	}
	s.logger.Info("backup triggered", "device_id", device.ID, "name", device.Name,
		"handle", handle.ID, "backend", handle.Backend, "location", handle.Location)
	return handle, nil
}
