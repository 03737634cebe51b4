package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fivetwenty-io/devapi/internal/constants"
	"github.com/fivetwenty-io/devapi/internal/logging"
	"github.com/fivetwenty-io/devapi/pkg/device"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// passwordReader reads a password without echo. Replaced in tests.
var passwordReader = term.ReadPassword

// isTerminal reports whether fd is an interactive terminal. Replaced in tests.
var isTerminal = term.IsTerminal

// promptCredentials fills in a missing username or password from the terminal.
// Without a terminal, missing credentials are an error.
func promptCredentials(cmd *cobra.Command, config *Config) error {
	if config.Username != "" && config.Password != "" {
		return nil
	}

	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return fmt.Errorf("%w (use --username/--password or %s_USERNAME/%s_PASSWORD)",
			constants.ErrCredentialsRequired, constants.EnvPrefix, constants.EnvPrefix)
	}

	if config.Username == "" {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Username: ")

		reader := bufio.NewReader(cmd.InOrStdin())

		username, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read username: %w", err)
		}

		config.Username = strings.TrimSpace(username)
	}

	if config.Password == "" {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Password: ")

		password, err := passwordReader(fd)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		config.Password = string(password)
	}

	return nil
}

// newLogger creates the hclog-backed logger writing to the command's stderr.
func newLogger(cmd *cobra.Command, verbose bool) *logging.HCLogger {
	return logging.New(logging.Options{
		Name:    "devapi",
		Verbose: verbose,
		Output:  cmd.ErrOrStderr(),
	})
}

// newDeviceClient resolves the configuration and logs in.
func newDeviceClient(cmd *cobra.Command) (*device.Client, error) {
	config := loadConfig()

	err := config.Validate()
	if err != nil {
		return nil, err
	}

	err = promptCredentials(cmd, config)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cmd, config.Verbose)

	deviceConfig := config.DeviceConfig()
	deviceConfig.Logger = logger

	if config.Verbose {
		deviceConfig.LeveledLogger = logger.HCLog()
	}

	client, err := device.New(cmd.Context(), deviceConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	return client, nil
}

func validateOutput(output string) error {
	switch output {
	case "", constants.FormatText, constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
		return nil
	default:
		return fmt.Errorf("%w: %q", constants.ErrUnknownOutputFormat, output)
	}
}
