package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that override flags
const EnvPrefix = "DIRCOMPARE"

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

// ReportFlags holds the flags shared by the compare and flat commands
type ReportFlags struct {
	Format     string
	Output     string
	IgnoreFile string
	Exclude    []string
	FailOnDiff bool
	ReadLimit  string
}

var globalFlags GlobalFlags

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&globalFlags.ConfigFile,
		"config",
		"",
		"config file (default is $HOME/.config/dircompare/config.yaml)",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Verbose,
		"verbose",
		"v",
		false,
		"verbose output (debug logging)",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Quiet,
		"quiet",
		"q",
		false,
		"suppress logging and progress",
	)
	cmd.PersistentFlags().StringVar(&globalFlags.LogFile, "log-file", "", "write logs to file")
	cmd.PersistentFlags().StringVar(&globalFlags.LogFormat, "log-format", "text", "log format: text, json")
	cmd.PersistentFlags().StringVar(&globalFlags.LogLevel, "log-level", "warn", "log level: debug, info, warn, error")
}

// addReportFlags registers the output and filtering flags on cmd
func addReportFlags(cmd *cobra.Command, flags *ReportFlags) {
	cmd.Flags().StringVarP(&flags.Format, "format", "f", "text", "report format: text, markdown, json")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().StringVar(&flags.IgnoreFile, "ignore", "", "file of gitignore-style patterns to exclude")
	cmd.Flags().StringSliceVar(&flags.Exclude, "exclude", []string{}, "glob pattern to exclude (repeatable)")
	cmd.Flags().BoolVar(&flags.FailOnDiff, "fail-on-diff", false, "exit with status 2 when differences are found")
	cmd.Flags().StringVar(&flags.ReadLimit, "read-limit", "", "cap file reads per tree, e.g. 20MiB (default: unlimited)")
}

// newSettings binds the flags of a parsed command to a viper instance
// that also reads DIRCOMPARE_* environment variables. A key is set when
// its flag was given or its variable exported, flags winning.
func newSettings(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	return v, nil
}
