package commands

import (
	"fmt"
	"strconv"

	"github.com/fivetwenty-io/devapi/internal/constants"
	"github.com/fivetwenty-io/devapi/pkg/device"
	"github.com/spf13/cobra"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate and print the token",
		Long:  "Log in to the simulation service with username and password and print the issued token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := loadConfig().Output

			err := validateOutput(output)
			if err != nil {
				return err
			}

			client, err := newDeviceClient(cmd)
			if err != nil {
				return err
			}

			type loginInfo struct {
				Token     string `json:"token"      yaml:"token"`
				URLPrefix string `json:"url_prefix" yaml:"url_prefix"`
			}

			info := loginInfo{Token: client.Token(), URLPrefix: client.URLPrefix()}

			switch output {
			case constants.FormatJSON:
				return writeJSON(cmd.OutOrStdout(), info)
			case constants.FormatYAML:
				return writeYAML(cmd.OutOrStdout(), info)
			case constants.FormatTable:
				return writeTable(cmd.OutOrStdout(), []string{"Property", "Value"}, [][]string{
					{"Token", info.Token},
					{"URL Prefix", info.URLPrefix},
				})
			default:
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%q\n", info.Token)

				return err
			}
		},
	}
}

// NewPostCommand creates the post command.
func NewPostCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "post ENDPOINT_SUFFIX",
		Short: "Send a device request",
		Long: `Authenticate, then POST an empty JSON object to
{domain}/external-connection/api/{simulation_id}/{device_id}/ENDPOINT_SUFFIX
and print the status and response body.

A non-200 status is reported but does not fail the command.`,
		Example: "  devapi post register --domain https://sim.example.com --simulation-id sim1 --device-id dev1",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suffix := args[0]
			output := loadConfig().Output

			err := validateOutput(output)
			if err != nil {
				return err
			}

			client, err := newDeviceClient(cmd)
			if err != nil {
				return err
			}

			text := output == "" || output == constants.FormatText
			if text {
				// Shown before sending so a transport failure still names the target.
				err = device.ReportEndpoint(cmd.OutOrStdout(), client.EndpointURL(suffix))
				if err != nil {
					return err
				}
			}

			result, err := client.Post(cmd.Context(), suffix)
			if err != nil && result != nil {
				if !text {
					_ = device.ReportEndpoint(cmd.OutOrStdout(), result.URL)
				}

				_, _ = fmt.Fprintln(cmd.OutOrStdout(), result.StatusLine())

				return fmt.Errorf("response body for request %s could not be parsed: %w", suffix, err)
			}

			if err != nil {
				return err
			}

			if text {
				return device.ReportResponse(cmd.OutOrStdout(), result)
			}

			return renderResult(cmd, output, result)
		},
	}
}

func renderResult(cmd *cobra.Command, output string, result *device.Result) error {
	switch output {
	case constants.FormatJSON:
		return writeJSON(cmd.OutOrStdout(), result)
	case constants.FormatYAML:
		return writeYAML(cmd.OutOrStdout(), result)
	default:
		return writeTable(cmd.OutOrStdout(), []string{"Property", "Value"}, [][]string{
			{"Endpoint URL", result.URL},
			{"Status", strconv.Itoa(result.StatusCode)},
			{"Result", result.StatusLine()},
			{"Body", result.Body},
		})
	}
}

// NewHeadersCommand creates the headers command.
func NewHeadersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "headers",
		Short: "Authenticate and print the request headers",
		Long:  "Log in and print the headers attached to every device request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := loadConfig().Output

			err := validateOutput(output)
			if err != nil {
				return err
			}

			client, err := newDeviceClient(cmd)
			if err != nil {
				return err
			}

			headers := client.Headers()
			flat := map[string]string{
				constants.HeaderAuthorization: headers.Get(constants.HeaderAuthorization),
				constants.HeaderContentType:   headers.Get(constants.HeaderContentType),
			}

			switch output {
			case constants.FormatJSON:
				return writeJSON(cmd.OutOrStdout(), flat)
			case constants.FormatYAML:
				return writeYAML(cmd.OutOrStdout(), flat)
			case constants.FormatTable:
				return writeTable(cmd.OutOrStdout(), []string{"Header", "Value"}, [][]string{
					{constants.HeaderAuthorization, flat[constants.HeaderAuthorization]},
					{constants.HeaderContentType, flat[constants.HeaderContentType]},
				})
			default:
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n%s: %s\n",
					constants.HeaderAuthorization, flat[constants.HeaderAuthorization],
					constants.HeaderContentType, flat[constants.HeaderContentType])

				return err
			}
		},
	}
}
