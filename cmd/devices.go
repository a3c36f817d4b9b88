package cmd

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jake-scott/switchbot-cli/internal/pkg/report"
)

var _statusCmdOpts struct {
	deviceID string
}

var _statusAllCmdOpts struct {
	concurrency int
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List devices",
	Args:  usageArgs(cobra.NoArgs),

	RunE: func(cmd *cobra.Command, args []string) error {
		return doDevices(cmd.OutOrStdout())
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Get status for a device",
	Args:  usageArgs(cobra.NoArgs),

	RunE: func(cmd *cobra.Command, args []string) error {
		return doStatus(cmd.OutOrStdout(), viper.GetString("status.device-id"))
	},

	PreRunE: func(cmd *cobra.Command, args []string) error {
		return checkRequiredFlags("status.device-id")
	},
}

var statusAllCmd = &cobra.Command{
	Use:   "status-all",
	Short: "Get status for all devices",
	Args:  usageArgs(cobra.NoArgs),

	RunE: func(cmd *cobra.Command, args []string) error {
		return doStatusAll(cmd.OutOrStdout(), viper.GetInt("status-all.concurrency"))
	},
}

func init() {
	statusCmd.Flags().StringVar(&_statusCmdOpts.deviceID, "device-id", "", "SwitchBot deviceId")
	errPanic(viper.GetViper().BindPFlag("status.device-id", statusCmd.Flags().Lookup("device-id")))

	statusAllCmd.Flags().IntVar(&_statusAllCmdOpts.concurrency, "concurrency", 1, "maximum number of status requests in flight")
	errPanic(viper.GetViper().BindPFlag("status-all.concurrency", statusAllCmd.Flags().Lookup("concurrency")))

	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(statusAllCmd)
}

func doDevices(w io.Writer) error {
	api, err := newAPIClient()
	if err != nil {
		return err
	}

	payload, err := api.Devices()
	if err != nil {
		return err
	}

	return printJSON(w, payload)
}

func doStatus(w io.Writer, deviceID string) error {
	api, err := newAPIClient()
	if err != nil {
		return err
	}

	payload, err := api.DeviceStatus(deviceID)
	if err != nil {
		return err
	}

	return printJSON(w, payload)
}

func doStatusAll(w io.Writer, concurrency int) error {
	api, err := newAPIClient()
	if err != nil {
		return err
	}

	results, err := report.StatusAll(api, concurrency)
	if err != nil {
		return err
	}

	return printJSON(w, results)
}
