package main

import (
	"github.com/spf13/cobra"

	"autobk/internal/autobk"
)

// deviceFlags binds the six device columns to command flags.
type deviceFlags struct {
	name       string
	deviceType string
	ipv4       string
	day        uint8
	hour       uint8
	weeks      uint8
}

func (f *deviceFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.name, "name", "n", "", "device name")
	fl.StringVarP(&f.deviceType, "device-type", "t", "", "device type")
	fl.StringVarP(&f.ipv4, "ipv4", "i", "", "device IPv4 address")
	fl.Uint8VarP(&f.day, "day", "d", 0, "backup day (0-255)")
	fl.Uint8VarP(&f.hour, "hour", "r", 0, "backup hour (0-255)")
	fl.Uint8VarP(&f.weeks, "weeks", "w", 0, "backup recurrence in weeks (0-255, 0 = unset)")
}

func (f *deviceFlags) requireAll(cmd *cobra.Command) {
	for _, name := range []string{"name", "device-type", "ipv4", "day", "hour", "weeks"} {
		cmd.MarkFlagRequired(name)
	}
}

func (f *deviceFlags) fields() autobk.DeviceFields {
	return autobk.DeviceFields{
		Name:       f.name,
		DeviceType: f.deviceType,
		IPv4:       f.ipv4,
		Day:        f.day,
		Hour:       f.hour,
		Weeks:      autobk.Recurrence(f.weeks),
	}
}

func newAddCmd(c *cli) *cobra.Command {
	var flags deviceFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := presenter{w: c.stdout}
			fields := flags.fields()
			if err := fields.Validate(); err != nil {
				return p.failure(err, msgInvalidData)
			}

			a, err := c.newApp(cmd.Context(), "add", false)
			if err != nil {
				return p.failure(err, msgInvalidData)
			}
			defer a.Close()

			if err := a.Add(cmd.Context(), fields); err != nil {
				return p.failure(err, msgInvalidData)
			}
			p.added(fields.Name)
			return nil
		},
	}
	flags.register(cmd)
	flags.requireAll(cmd)
	return cmd
}

func newModifyCmd(c *cli) *cobra.Command {
	var flags deviceFlags
	cmd := &cobra.Command{
		Use:   "modify",
		Short: "Replace the stored values of a device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := presenter{w: c.stdout}
			fields := flags.fields()
			if err := fields.Validate(); err != nil {
				return p.failure(err, msgInvalidData)
			}

			a, err := c.newApp(cmd.Context(), "modify", false)
			if err != nil {
				return p.failure(err, msgInvalidData)
			}
			defer a.Close()

			if err := a.Modify(cmd.Context(), fields); err != nil {
				return p.failure(err, msgInvalidData)
			}
			p.modified(fields.Name)
			return nil
		},
	}
	flags.register(cmd)
	flags.requireAll(cmd)
	return cmd
}

// newDeleteCmd takes the same six flags as add. Only --name selects the rows.
func newDeleteCmd(c *cli) *cobra.Command {
	var flags deviceFlags
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a device by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := presenter{w: c.stdout}
			if err := flags.fields().Validate(); err != nil {
				return p.failure(err, msgInvalidData)
			}

			a, err := c.newApp(cmd.Context(), "delete", false)
			if err != nil {
				return p.failure(err, msgInvalidData)
			}
			defer a.Close()

			if err := a.Delete(cmd.Context(), flags.name); err != nil {
				return p.failure(err, msgInvalidData)
			}
			p.deleted(flags.name)
			return nil
		},
	}
	flags.register(cmd)
	flags.requireAll(cmd)
	return cmd
}

func newGetCmd(c *cli) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "get",
		Short: "List the devices with a name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := presenter{w: c.stdout}
			if err := autobk.ValidateName(name); err != nil {
				return p.failure(err, msgInvalidName)
			}

			a, err := c.newApp(cmd.Context(), "get", false)
			if err != nil {
				return p.failure(err, msgInvalidName)
			}
			defer a.Close()

			if err := a.Get(cmd.Context(), name, p.device); err != nil {
				return p.failure(err, msgInvalidName)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "device name")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newBackupCmd(c *cli) *cobra.Command {
	var (
		name     string
		deviceID int64
	)
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Trigger a backup for a device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := presenter{w: c.stdout}
			byID := cmd.Flags().Changed("device-id")

			invalidMsg := msgInvalidName
			validate := func() error { return autobk.ValidateName(name) }
			if byID {
				invalidMsg = msgInvalidDeviceID
				validate = func() error { return autobk.ValidateDeviceID(deviceID) }
			}
			if err := validate(); err != nil {
				return p.failure(err, invalidMsg)
			}

			a, err := c.newApp(cmd.Context(), "backup", true)
			if err != nil {
				return p.failure(err, invalidMsg)
			}
			defer a.Close()

			var (
				device *autobk.Device
				handle *autobk.BackupHandle
			)
			if byID {
				device, handle, err = a.BackupByID(cmd.Context(), deviceID)
			} else {
				device, handle, err = a.BackupByName(cmd.Context(), name)
			}
			if err != nil {
				return p.failure(err, invalidMsg)
			}
			p.backupTriggered(device, handle)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "device name")
	cmd.Flags().Int64VarP(&deviceID, "device-id", "d", 0, "device primary key (kSelf)")
	cmd.MarkFlagsMutuallyExclusive("name", "device-id")
	cmd.MarkFlagsOneRequired("name", "device-id")
	return cmd
}
