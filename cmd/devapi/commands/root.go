package commands

import (
	"github.com/fivetwenty-io/devapi/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCommand creates the devapi command tree and binds its flags to viper.
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "devapi",
		Short: "Device API client for the simulation external connection API",
		Long: `A command-line client that logs in to a simulation service and sends
authenticated requests to a device's external connection endpoints.

Configuration is read from flags, DEVAPI_* environment variables and
$HOME/.devapi/config.yml, in that order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.devapi/config.yml)")
	flags.StringP("domain", "d", "", "service base URL, e.g. https://sim.example.com")
	flags.String("simulation-id", "", "simulation identifier")
	flags.String("device-id", "", "device identifier")
	flags.StringP("username", "u", "", "login username")
	flags.StringP("password", "p", "", "login password (prompted if omitted on a terminal)")
	flags.StringP("output", "o", constants.FormatText, "output format (text, table, json, yaml)")
	flags.BoolP("verbose", "v", false, "log HTTP requests and responses to stderr")
	flags.Duration("timeout", constants.DefaultHTTPTimeout, "HTTP timeout per attempt")
	flags.Int("retry-max", constants.DefaultRetryMax, "retries for transport failures, 429 and 5xx responses")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag(keyDomain, flags.Lookup("domain"))
	_ = viper.BindPFlag(keySimulationID, flags.Lookup("simulation-id"))
	_ = viper.BindPFlag(keyDeviceID, flags.Lookup("device-id"))
	_ = viper.BindPFlag(keyUsername, flags.Lookup("username"))
	_ = viper.BindPFlag(keyPassword, flags.Lookup("password"))
	_ = viper.BindPFlag(keyOutput, flags.Lookup("output"))
	_ = viper.BindPFlag(keyVerbose, flags.Lookup("verbose"))
	_ = viper.BindPFlag(keyTimeout, flags.Lookup("timeout"))
	_ = viper.BindPFlag(keyRetryMax, flags.Lookup("retry-max"))

	rootCmd.AddCommand(NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(NewLoginCommand())
	rootCmd.AddCommand(NewPostCommand())
	rootCmd.AddCommand(NewHeadersCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}
