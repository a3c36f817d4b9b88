package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jake-scott/switchbot-cli/internal/pkg/logging"
	"github.com/jake-scott/switchbot-cli/internal/pkg/sbapi"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2

	defaultConfigName = ".switchbot"
)

var _rootCmdOpts struct {
	configFile  string
	token       string
	secret      string
	baseURL     string
	apiVersion  string
	timeout     time.Duration
	debug       bool
	logLevel    string
	logFormat   string
	logRequests bool
}

var rootCmd = &cobra.Command{
	Use:   "switchbot",
	Short: "Query devices and their status from the SwitchBot cloud API",

	SilenceUsage:  true,
	SilenceErrors: true,

	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return usageErrorf("unknown command %q for %q", args[0], cmd.CommandPath())
		}
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SetOut(cmd.ErrOrStderr())
		if err := cmd.Help(); err != nil {
			return err
		}
		return usageErrorf("no command given")
	},

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetBool("logging.debug") {
			logrus.SetLevel(logrus.DebugLevel)
		}

		return logging.Configure(viper.GetViper())
	},
}

// Execute runs the command line and exits with 0 on success, 1 on a
// runtime failure and 2 on a usage error
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	// cobra falls back to os.Args on a nil slice
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		if isUsageError(err) {
			return exitUsage
		}
		return exitError
	}

	return exitOK
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&_rootCmdOpts.configFile, "config", "", "config file (default is $HOME/"+defaultConfigName+".yaml)")
	pf.StringVar(&_rootCmdOpts.token, "token", "", "SwitchBot API token (prefer SWITCHBOT_TOKEN)")
	pf.StringVar(&_rootCmdOpts.secret, "secret", "", "SwitchBot API secret (prefer SWITCHBOT_SECRET)")
	pf.StringVar(&_rootCmdOpts.baseURL, "base-url", sbapi.DefaultBaseURL, "SwitchBot API host")
	pf.StringVar(&_rootCmdOpts.apiVersion, "api-version", sbapi.DefaultAPIVersion, "SwitchBot API version path segment")
	pf.DurationVar(&_rootCmdOpts.timeout, "timeout", sbapi.DefaultTimeout, "maximum duration of an API call, eg. 1m or 10s")
	pf.BoolVar(&_rootCmdOpts.debug, "debug", false, "enable debug logging")
	pf.StringVar(&_rootCmdOpts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVar(&_rootCmdOpts.logFormat, "log-format", "text", "log format (text or json)")
	pf.BoolVar(&_rootCmdOpts.logRequests, "log-requests", false, "log requests and responses (only in debug mode)")

	errPanic(viper.GetViper().BindPFlag("switchbot.token", pf.Lookup("token")))
	errPanic(viper.GetViper().BindPFlag("switchbot.secret", pf.Lookup("secret")))
	errPanic(viper.GetViper().BindPFlag("switchbot.base-url", pf.Lookup("base-url")))
	errPanic(viper.GetViper().BindPFlag("switchbot.api-version", pf.Lookup("api-version")))
	errPanic(viper.GetViper().BindPFlag("switchbot.timeout", pf.Lookup("timeout")))
	errPanic(viper.GetViper().BindPFlag("logging.debug", pf.Lookup("debug")))
	errPanic(viper.GetViper().BindPFlag("logging.level", pf.Lookup("log-level")))
	errPanic(viper.GetViper().BindPFlag("logging.format", pf.Lookup("log-format")))
	errPanic(viper.GetViper().BindPFlag("logging.log-requests", pf.Lookup("log-requests")))

	errPanic(viper.BindEnv("switchbot.token", "SWITCHBOT_TOKEN"))
	errPanic(viper.BindEnv("switchbot.secret", "SWITCHBOT_SECRET"))
	errPanic(viper.BindEnv("switchbot.base-url", "SWITCHBOT_BASE_URL"))
	errPanic(viper.BindEnv("switchbot.api-version", "SWITCHBOT_API_VERSION"))
	errPanic(viper.BindEnv("switchbot.timeout", "SWITCHBOT_TIMEOUT"))
}

// initConfig reads in the config file, if there is one
func initConfig() {
	if _rootCmdOpts.configFile != "" {
		viper.SetConfigFile(_rootCmdOpts.configFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			logging.Logger(nil).WithError(err).Debug("cannot determine home directory, not loading config file")
			return
		}

		viper.AddConfigPath(home)
		viper.SetConfigName(defaultConfigName)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}
		logging.Logger(nil).WithError(err).Warn("reading config file")
		return
	}

	logging.Logger(nil).Debugf("using config file %s", filepath.Clean(viper.ConfigFileUsed()))
}

// apiConfig copies the resolved settings into the explicit client config
func apiConfig() (sbapi.Config, error) {
	cfg := sbapi.Config{
		Token:      strings.TrimSpace(viper.GetString("switchbot.token")),
		Secret:     strings.TrimSpace(viper.GetString("switchbot.secret")),
		BaseURL:    viper.GetString("switchbot.base-url"),
		APIVersion: viper.GetString("switchbot.api-version"),
		Timeout:    viper.GetDuration("switchbot.timeout"),
	}

	if cfg.Timeout <= 0 {
		return sbapi.Config{}, usageErrorf("bad timeout: [%s]", viper.GetString("switchbot.timeout"))
	}

	if viper.GetBool("logging.log-requests") {
		if logrus.IsLevelEnabled(logrus.DebugLevel) {
			cfg.LogRequests = true
		} else {
			logging.Logger(nil).Warn("log-requests ignored when not in debug mode")
		}
	}

	return cfg, nil
}

// newAPIClient fails with a MissingCredentialError before any client is
// built if the token or secret is absent
func newAPIClient() (sbapi.SwitchBot, error) {
	cfg, err := apiConfig()
	if err != nil {
		return nil, err
	}

	if _, err := cfg.Credential(); err != nil {
		return nil, errors.Wrap(err, "cannot sign requests (set SWITCHBOT_TOKEN and SWITCHBOT_SECRET)")
	}

	return sbapi.NewLiveClient(cfg), nil
}

func checkRequiredFlags(needFlags ...string) error {
	missingFlags := []string{}

	for _, f := range needFlags {
		if viper.GetString(f) == "" {
			missingFlags = append(missingFlags, f)
		}
	}

	if len(missingFlags) > 0 {
		itemPlural := "item"
		if len(missingFlags) > 1 {
			itemPlural = "items"
		}
		return usageErrorf("required config %s `%s` not set", itemPlural, strings.Join(missingFlags, "`, `"))
	}

	return nil
}

func errPanic(err error) {
	if err != nil {
		panic(err)
	}
}
