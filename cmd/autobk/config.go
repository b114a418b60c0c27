package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"autobk/internal/app"
	"autobk/internal/autobk"
	"autobk/internal/config"
	"autobk/internal/encryption"
)

func newConfigCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}
	cmd.AddCommand(
		newConfigInitCmd(c),
		newConfigShowCmd(c),
		newConfigEncryptPasswordCmd(c),
	)
	return cmd
}

func newConfigInitCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := presenter{w: c.stdout}

			// Get application defaults
			defaults, err := app.GetDefaults()
			if err != nil {
				return p.failure(fmt.Errorf("%w: %w", autobk.ErrConfig, err), msgInvalidData)
			}

			// Create config with defaults
			cfg := config.NewConfig(defaults["base_dir"])

			// Initialize config file
			if err := config.Init(defaults["config_path"], cfg); err != nil {
				return p.failure(fmt.Errorf("%w: %w", autobk.ErrConfig, err), msgInvalidData)
			}

			fmt.Fprintf(c.stdout, "Configuration initialized at %s\n", defaults["config_path"])
			fmt.Fprintf(c.stdout, "Base Dir: %s\n", defaults["base_dir"])
			fmt.Fprintln(c.stdout, "Set db_pass (or db_pass_age) before running device commands.")
			return nil
		},
	}
}

func newConfigShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "View configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := presenter{w: c.stdout}

			defaults, err := app.GetDefaults()
			if err != nil {
				return p.failure(fmt.Errorf("%w: %w", autobk.ErrConfig, err), msgInvalidData)
			}

			cfg, err := config.ReadFromFile(defaults["config_path"])
			if err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					return p.failure(fmt.Errorf("%w: %w", autobk.ErrConfig, err), msgInvalidData)
				}
				cfg = &config.Config{}
			}
			if err := cfg.ApplyEnv(os.Getenv); err != nil {
				return p.failure(err, msgInvalidData)
			}
			app.FillDefaults(cfg, defaults)

			fmt.Fprintf(c.stdout, "# Configuration from %s\n\n", defaults["config_path"])
			m := &config.Manager{}
			if err := m.Write(c.stdout, cfg.Redacted()); err != nil {
				return p.failure(err, msgInvalidData)
			}
			return nil
		},
	}
}

func newConfigEncryptPasswordCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt-password",
		Short: "Encrypt the database password for db_pass_age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := presenter{w: c.stdout}

			password, err := c.prompt.ReadSecret("Database password: ")
			if err != nil {
				return p.failure(fmt.Errorf("%w: %w", autobk.ErrConfig, err), msgInvalidData)
			}
			passphrase, err := c.prompt.ReadSecret("Passphrase: ")
			if err != nil {
				return p.failure(fmt.Errorf("%w: %w", autobk.ErrConfig, err), msgInvalidData)
			}
			confirm, err := c.prompt.ReadSecret("Confirm passphrase: ")
			if err != nil {
				return p.failure(fmt.Errorf("%w: %w", autobk.ErrConfig, err), msgInvalidData)
			}
			if password == "" || passphrase == "" || passphrase != confirm {
				return p.failure(fmt.Errorf("%w: empty password or passphrase mismatch", autobk.ErrValidation), msgInvalidData)
			}

			armored, err := encryption.EncryptPassword(password, passphrase)
			if err != nil {
				return p.failure(fmt.Errorf("%w: %w", autobk.ErrConfig, err), msgInvalidData)
			}

			fmt.Fprintln(c.stdout, "Add this to your config and remove db_pass:")
			fmt.Fprintln(c.stdout)
			fmt.Fprintf(c.stdout, "db_pass_age = '''\n%s\n'''\n", strings.TrimRight(armored, "\n"))
			return nil
		},
	}
}
