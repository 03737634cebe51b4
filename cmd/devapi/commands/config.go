package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fivetwenty-io/devapi/internal/constants"
	"github.com/fivetwenty-io/devapi/pkg/device"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Viper keys. Flags use the same names with dashes.
const (
	keyDomain       = "domain"
	keySimulationID = "simulation_id"
	keyDeviceID     = "device_id"
	keyUsername     = "username"
	keyPassword     = "password"
	keyOutput       = "output"
	keyVerbose      = "verbose"
	keyTimeout      = "timeout"
	keyRetryMax     = "retry_max"
)

// Config represents the CLI configuration.
type Config struct {
	Domain       string        `json:"domain"        yaml:"domain"`
	SimulationID string        `json:"simulation_id" yaml:"simulation_id"`
	DeviceID     string        `json:"device_id"     yaml:"device_id"`
	Username     string        `json:"username"      yaml:"username"`
	Password     string        `json:"password"      yaml:"password"`
	Output       string        `json:"output"        yaml:"output"`
	Verbose      bool          `json:"verbose"       yaml:"verbose"`
	Timeout      time.Duration `json:"timeout"       yaml:"timeout"`
	RetryMax     int           `json:"retry_max"     yaml:"retry_max"`
}

// loadConfig resolves the configuration from flags, environment and config file.
func loadConfig() *Config {
	return &Config{
		Domain:       viper.GetString(keyDomain),
		SimulationID: viper.GetString(keySimulationID),
		DeviceID:     viper.GetString(keyDeviceID),
		Username:     viper.GetString(keyUsername),
		Password:     viper.GetString(keyPassword),
		Output:       viper.GetString(keyOutput),
		Verbose:      viper.GetBool(keyVerbose),
		Timeout:      viper.GetDuration(keyTimeout),
		RetryMax:     viper.GetInt(keyRetryMax),
	}
}

// Validate checks the fields every authenticated command needs.
func (c *Config) Validate() error {
	if c.Domain == "" {
		return fmt.Errorf("%w (use --domain or %s_DOMAIN)", constants.ErrDomainRequired, constants.EnvPrefix)
	}

	if c.SimulationID == "" {
		return fmt.Errorf("%w (use --simulation-id or %s_SIMULATION_ID)", constants.ErrSimulationRequired, constants.EnvPrefix)
	}

	if c.DeviceID == "" {
		return fmt.Errorf("%w (use --device-id or %s_DEVICE_ID)", constants.ErrDeviceRequired, constants.EnvPrefix)
	}

	return nil
}

// Masked returns a copy safe for display.
func (c *Config) Masked() *Config {
	masked := *c
	if masked.Password != "" {
		masked.Password = constants.MaskedValue
	}

	return &masked
}

// DeviceConfig converts the CLI configuration into a client configuration.
func (c *Config) DeviceConfig() *device.Config {
	return &device.Config{
		Domain:       c.Domain,
		SimulationID: c.SimulationID,
		DeviceID:     c.DeviceID,
		Username:     c.Username,
		Password:     c.Password,
		HTTPTimeout:  c.Timeout,
		RetryMax:     c.RetryMax,
		Debug:        c.Verbose,
	}
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Inspect the configuration resolved from flags, environment and config file",
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the resolved CLI configuration with the password masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig().Masked()

			switch config.Output {
			case constants.FormatJSON:
				return writeJSON(cmd.OutOrStdout(), config)
			case constants.FormatYAML:
				return writeYAML(cmd.OutOrStdout(), config)
			default:
				return writeTable(cmd.OutOrStdout(), []string{"Property", "Value"}, [][]string{
					{"Domain", config.Domain},
					{"Simulation ID", config.SimulationID},
					{"Device ID", config.DeviceID},
					{"Username", config.Username},
					{"Password", config.Password},
					{"Output", config.Output},
					{"Verbose", strconv.FormatBool(config.Verbose)},
					{"Timeout", config.Timeout.String()},
					{"Retry Max", strconv.Itoa(config.RetryMax)},
				})
			}
		},
	}
}

func writeJSON(w io.Writer, value interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(value)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

func writeYAML(w io.Writer, value interface{}) error {
	encoder := yaml.NewEncoder(w)

	err := encoder.Encode(value)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return encoder.Close()
}

func writeTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(toCells(header)...)

	for _, row := range rows {
		err := table.Append(toCells(row)...)
		if err != nil {
			return fmt.Errorf("failed to append table row: %w", err)
		}
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, value := range values {
		cells[i] = value
	}

	return cells
}
