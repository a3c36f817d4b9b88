package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jake-scott/switchbot-cli/internal/pkg/sbapi"
	"github.com/jake-scott/switchbot-cli/version"
)

var (
	_versionAsJSON bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version number of the tool",
	Args:  usageArgs(cobra.NoArgs),

	RunE: func(cmd *cobra.Command, args []string) error {
		return doVersion(cmd.OutOrStdout())
	},
}

func init() {
	versionCmd.Flags().BoolVar(&_versionAsJSON, "json", false, "Return version as JSON")
	errPanic(viper.GetViper().BindPFlag("version.json", versionCmd.Flags().Lookup("json")))

	rootCmd.AddCommand(versionCmd)
}

type versionResult struct {
	Version    string `json:"version"`
	APIVersion string `json:"api-version"`
}

func doVersion(w io.Writer) error {
	if viper.GetBool("version.json") {
		v := versionResult{
			Version:    version.Version,
			APIVersion: viper.GetString("switchbot.api-version"),
		}

		return printJSON(w, v)
	}

	apiVersion := viper.GetString("switchbot.api-version")
	if apiVersion == "" {
		apiVersion = sbapi.DefaultAPIVersion
	}

	fmt.Fprintf(w, "switchbot-cli version %s (API %s)\n", version.Version, apiVersion)
	return nil
}
