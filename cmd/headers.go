package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/jake-scott/switchbot-cli/internal/pkg/jsonvalue"
	"github.com/jake-scott/switchbot-cli/internal/pkg/sbauth"
)

var headersCmd = &cobra.Command{
	Use:   "headers",
	Short: "Print a freshly signed set of request headers without calling the API",
	Args:  usageArgs(cobra.NoArgs),

	RunE: func(cmd *cobra.Command, args []string) error {
		return doHeaders(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(headersCmd)
}

func doHeaders(w io.Writer) error {
	cfg, err := apiConfig()
	if err != nil {
		return err
	}

	cred, err := cfg.Credential()
	if err != nil {
		return err
	}

	headers, err := sbauth.NewSigner(cred).Headers()
	if err != nil {
		return err
	}

	var members []jsonvalue.Member
	for _, f := range headers.Fields() {
		members = append(members, jsonvalue.Member{Key: f.Name, Value: jsonvalue.StringValue(f.Value)})
	}

	return printJSON(w, jsonvalue.ObjectValue(members...))
}
