package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fivetwenty-io/devapi/cmd/devapi/commands"
	"github.com/fivetwenty-io/devapi/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in ~/.devapi/config.yml
		viper.AddConfigPath(filepath.Join(home, constants.ConfigDirName))
		viper.SetConfigType("yml")
		viper.SetConfigName(constants.ConfigFileName)
	}

	// DEVAPI_SIMULATION_ID and friends
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", cfgFile, err)
		os.Exit(1)
	}
}

func main() {
	cobra.OnInitialize(initConfig)

	rootCmd := commands.NewRootCommand(version, commit, date)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
