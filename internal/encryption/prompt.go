package encryption

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// EnvPassphrase supplies the db_pass_age passphrase non-interactively.
const EnvPassphrase = "AUTOBK_PASSPHRASE"

// Prompter reads secrets from the operator.
type Prompter struct {
	in  *os.File
	out io.Writer
	// lines serves piped input across calls.
	lines *bufio.Reader
}

// NewPrompter prompts on out and reads from in.
func NewPrompter(in *os.File, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out, lines: bufio.NewReader(in)}
}

// NewTerminalPrompter prompts on stderr and reads from stdin.
func NewTerminalPrompter() *Prompter {
	return NewPrompter(os.Stdin, os.Stderr)
}

// ReadSecret prints prompt and reads one line without echo when stdin is a
// terminal. Piped input is read as a plain line.
func (p *Prompter) ReadSecret(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)

	fd := int(p.in.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("reading from terminal: %w", err)
		}
		return string(b), nil
	}

	line, err := p.lines.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Passphrase returns a passphrase source that prefers $AUTOBK_PASSPHRASE and
// falls back to prompting.
func (p *Prompter) Passphrase(getenv func(string) string) func() (string, error) {
	return func() (string, error) {
		if v := getenv(EnvPassphrase); v != "" {
			return v, nil
		}
		return p.ReadSecret("Passphrase for db_pass_age: ")
	}
}
