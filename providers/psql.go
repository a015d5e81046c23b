package providers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
)

const psqlBinary = "psql"

// PsqlAvailable checks if psql is available in PATH
func PsqlAvailable() bool {
	_, err := exec.LookPath(psqlBinary)
	return err == nil
}

// PsqlClient runs single commands through the psql binary
type PsqlClient struct {
	opts   ConnOptions
	binary string
}

// NewPsqlClient creates a client for the given database
func NewPsqlClient(opts ConnOptions) *PsqlClient {
	return &PsqlClient{opts: opts.WithDefaults(), binary: psqlBinary}
}

// Args builds the psql argument list for a command
func (c *PsqlClient) Args(command string, extra ...string) []string {
	args := []string{
		"--no-psqlrc", // Ignore the user's ~/.psqlrc
		"-h", c.opts.Host,
		"-p", strconv.Itoa(c.opts.Port),
		"-U", c.opts.User,
		"-d", c.opts.Database,
	}
	args = append(args, extra...)
	return append(args, "-c", command)
}

// Env returns the environment passed to psql
func (c *PsqlClient) Env() []string {
	env := append(os.Environ(),
		"PGSSLMODE="+c.opts.SSLMode,
		// Section headers are matched in English
		"LC_MESSAGES=C",
	)
	if c.opts.Password != "" {
		env = append(env, "PGPASSWORD="+c.opts.Password)
	}
	return env
}

// Run executes a command and returns its standard output
func (c *PsqlClient) Run(ctx context.Context, command string, extra ...string) (string, error) {
	cmd := exec.CommandContext(ctx, c.binary, c.Args(command, extra...)...)
	cmd.Env = c.Env()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("executing psql", "database", c.opts.String(), "command", command)

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("psql failed: %w\nstderr: %s", err, stderr.String())
	}
	return stdout.String(), nil
}
