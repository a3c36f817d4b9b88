package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jake-scott/switchbot-cli/internal/pkg/logging"
	"github.com/jake-scott/switchbot-cli/internal/pkg/report"
)

var _exportCmdOpts struct {
	outFile      string
	skipInfrared bool
	concurrency  int
}

var exportCmd = &cobra.Command{
	Use:   "export-csv",
	Short: "Export devices and their status to a CSV file",
	Args:  usageArgs(cobra.NoArgs),

	RunE: func(cmd *cobra.Command, args []string) error {
		opts := report.Options{
			SkipInfrared: viper.GetBool("export.skip-infrared"),
			Concurrency:  viper.GetInt("export.concurrency"),
		}

		return doExport(cmd.OutOrStdout(), viper.GetString("export.out"), opts)
	},

	PreRunE: func(cmd *cobra.Command, args []string) error {
		return checkRequiredFlags("export.out")
	},
}

func init() {
	exportCmd.Flags().StringVar(&_exportCmdOpts.outFile, "out", "", "CSV file to write")
	exportCmd.Flags().BoolVar(&_exportCmdOpts.skipInfrared, "skip-infrared", false, "leave infrared remotes out of the export")
	exportCmd.Flags().IntVar(&_exportCmdOpts.concurrency, "concurrency", 1, "maximum number of status requests in flight")

	errPanic(viper.GetViper().BindPFlag("export.out", exportCmd.Flags().Lookup("out")))
	errPanic(viper.GetViper().BindPFlag("export.skip-infrared", exportCmd.Flags().Lookup("skip-infrared")))
	errPanic(viper.GetViper().BindPFlag("export.concurrency", exportCmd.Flags().Lookup("concurrency")))

	rootCmd.AddCommand(exportCmd)
}

func doExport(w io.Writer, outFile string, opts report.Options) error {
	api, err := newAPIClient()
	if err != nil {
		return err
	}

	rows, err := report.Collect(api, opts)
	if err != nil {
		return err
	}

	if err := report.WriteCSVFile(outFile, rows); err != nil {
		return err
	}

	failed := 0
	for _, row := range rows {
		if _, ok := row.Get(report.StatusErrorKey); ok {
			failed++
		}
	}
	if failed > 0 {
		logging.Logger(nil).Warnf("%d of %d devices exported without status", failed, len(rows))
	}

	fmt.Fprintf(w, "Exported %d devices to %s\n", len(rows), outFile)
	return nil
}
