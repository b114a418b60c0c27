package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"autobk/internal/app"
	"autobk/internal/autobk"
	"autobk/internal/config"
	"autobk/internal/encryption"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// secretReader reads a secret from the operator without echo.
type secretReader interface {
	ReadSecret(prompt string) (string, error)
	Passphrase(getenv func(string) string) func() (string, error)
}

// cli carries the process streams into the command tree.
type cli struct {
	stdout io.Writer
	stderr io.Writer
	prompt secretReader
}

// reportedError marks an error the presenter already printed. Its class
// decides the exit code.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// run executes the command line and returns the process exit code.
// Errors raised by cobra itself (unknown flags, malformed or out-of-range
// numbers, missing or conflicting flags) exit with the validation code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	c := &cli{stdout: stdout, stderr: stderr, prompt: encryption.NewTerminalPrompter()}
	return c.execute(ctx, args)
}

func (c *cli) execute(ctx context.Context, args []string) int {
	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return autobk.ExitOK
	}

	var reported *reportedError
	if errors.As(err, &reported) {
		return autobk.ExitCode(reported.err)
	}

	fmt.Fprintf(c.stderr, "Error: %v\n", err)
	fmt.Fprintf(c.stderr, "Run '%s --help' for usage.\n", root.CommandPath())
	return autobk.ExitValidation
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "autobk",
		Short:         "Manage backup devices and trigger their backups",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newAddCmd(c),
		newModifyCmd(c),
		newDeleteCmd(c),
		newGetCmd(c),
		newBackupCmd(c),
		newConfigCmd(c),
	)
	return root
}

// newApp loads the config and creates an App. The caller must defer a.Close().
// operation identifies the CLI command being run (e.g. "add", "backup").
func (c *cli) newApp(ctx context.Context, operation string, withTrigger bool) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", autobk.ErrConfig, err)
	}

	cfg, err := config.Load(defaults["config_path"], os.Getenv)
	if err != nil {
		return nil, err
	}
	app.FillDefaults(cfg, defaults)

	return app.NewApp(ctx, cfg, operation, app.Options{
		Trigger:    withTrigger,
		Passphrase: c.prompt.Passphrase(os.Getenv),
	})
}
