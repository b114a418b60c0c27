package app

import (
	"context"
	"fmt"
	"io"

	"autobk/internal/autobk"
	"autobk/internal/config"
	"autobk/internal/database"
	"autobk/internal/encryption"
	"autobk/internal/trigger"
)

// Options controls which optional collaborators NewApp builds.
type Options struct {
	// Trigger builds the [trigger] backend. Only the backup command needs it.
	Trigger bool
	// Passphrase unlocks db_pass_age. Required only when db_pass is empty.
	Passphrase func() (string, error)
	// Clock and RequestIDs default to the real clock and random UUIDs.
	Clock      autobk.Clock
	RequestIDs autobk.RequestIDGenerator
}

// App is the application layer between the CLI and autobk.Service.
// It constructs all dependencies from config and releases them on Close.
type App struct {
	gateway autobk.Gateway
	trigger autobk.BackupTrigger
	service *autobk.Service
	op      *Operation
	logger  *slogAdapter
	logFile io.Closer
}

// NewApp creates a fully wired App from the given config.
// operation identifies the CLI command being run (e.g. "add", "backup").
// The caller must call Close when done.
func NewApp(ctx context.Context, cfg *config.Config, operation string, opts Options) (*App, error) {
	if opts.Clock == nil {
		opts.Clock = autobk.RealClock{}
	}
	if opts.RequestIDs == nil {
		opts.RequestIDs = autobk.UUIDRequestIDs{}
	}

	op := NewOperation(operation, opts.Clock.Now())
	l, logFile, err := newLogger(cfg.LogDir, cfg.Log, op.ID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: l}
	logger.Debug("operation started", "operation", operation, "db_type", cfg.Type, "db_host", cfg.Host, "db_name", cfg.Name)

	// fail logs the setup error and releases what was built so far.
	fail := func(err error, closers ...io.Closer) (*App, error) {
		logger.Error("operation setup failed", "operation", operation, "error", err)
		for _, c := range closers {
			c.Close()
		}
		logFile.Close()
		return nil, err
	}

	if opts.Passphrase == nil {
		opts.Passphrase = func() (string, error) {
			return "", fmt.Errorf("db_pass is empty and no passphrase source is available")
		}
	}
	if err := encryption.UnlockPassword(&cfg.DatabaseConfig, opts.Passphrase); err != nil {
		return fail(err)
	}

	gw, err := database.NewGatewayFromConfig(ctx, cfg.DatabaseConfig)
	if err != nil {
		return fail(err)
	}

	var trig autobk.BackupTrigger
	if opts.Trigger {
		trig, err = trigger.NewTriggerFromConfig(ctx, cfg.Trigger, opts.Clock, opts.RequestIDs)
		if err != nil {
			return fail(err, gw)
		}
	}

	return &App{
		gateway: gw,
		trigger: trig,
		service: autobk.NewService(gw, trig, logger),
		op:      op,
		logger:  logger,
		logFile: logFile,
	}, nil
}

// Operation returns the operation this App is running.
func (a *App) Operation() *Operation {
	return a.op
}

// Add inserts a device.
func (a *App) Add(ctx context.Context, fields autobk.DeviceFields) error {
	return a.op.Record(a.service.Add(ctx, fields))
}

// Modify replaces the stored values of the named device.
func (a *App) Modify(ctx context.Context, fields autobk.DeviceFields) error {
	return a.op.Record(a.service.Modify(ctx, fields))
}

// Delete removes the named device.
func (a *App) Delete(ctx context.Context, name string) error {
	return a.op.Record(a.service.Delete(ctx, name))
}

// Get streams the devices with the given name to fn.
func (a *App) Get(ctx context.Context, name string, fn func(autobk.Device) error) error {
	return a.op.Record(a.service.Get(ctx, name, fn))
}

// BackupByName triggers a backup for the single device with the given name.
func (a *App) BackupByName(ctx context.Context, name string) (*autobk.Device, *autobk.BackupHandle, error) {
	d, h, err := a.service.BackupByName(ctx, name)
	return d, h, a.op.Record(err)
}

// BackupByID triggers a backup for the device with the given primary key.
func (a *App) BackupByID(ctx context.Context, id int64) (*autobk.Device, *autobk.BackupHandle, error) {
	d, h, err := a.service.BackupByID(ctx, id)
	return d, h, a.op.Record(err)
}

// Close logs the operation status and closes the trigger, the database pool
// and the log file. It returns the first close error.
func (a *App) Close() error {
	var firstErr error

	a.logger.Info("operation finished", "operation", a.op.Name, "status", a.op.Status)

	if c, ok := a.trigger.(io.Closer); ok {
		if err := c.Close(); err != nil {
			firstErr = fmt.Errorf("closing backup trigger: %w", err)
		}
	}

	if err := a.gateway.Close(); err != nil {
		if firstErr == nil {
			firstErr = fmt.Errorf("closing database: %w", err)
		}
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
