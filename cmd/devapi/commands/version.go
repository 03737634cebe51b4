package commands

import (
	"github.com/fivetwenty-io/devapi/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewVersionCommand creates the version command
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the devapi CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			type VersionInfo struct {
				Version string `json:"version" yaml:"version"`
				Commit  string `json:"commit"  yaml:"commit"`
				Built   string `json:"built"   yaml:"built"`
			}

			versionInfo := VersionInfo{
				Version: version,
				Commit:  commit,
				Built:   date,
			}

			switch viper.GetString(keyOutput) {
			case constants.FormatJSON:
				return writeJSON(cmd.OutOrStdout(), versionInfo)
			case constants.FormatYAML:
				return writeYAML(cmd.OutOrStdout(), versionInfo)
			default:
				return writeTable(cmd.OutOrStdout(), []string{"Property", "Value"}, [][]string{
					{"Version", version},
					{"Commit", commit},
					{"Built", date},
				})
			}
		},
	}
}
