// Package cmd provides the makegen command-line interface.
//
// Parameter values come from three sources with clear precedence:
//  1. Command-line flags (--StackName, --ReviewDelay, ...) - highest priority
//  2. Environment variables MAKEGEN_<NAME> (MAKEGEN_STACKNAME, ...), optionally
//     seeded from a dotenv file given with --env-file
//  3. The configuration file given with --config - lowest priority
//
// The tool's own settings (--log-level, --log-format) can likewise be set
// through MAKEGEN_LOG_LEVEL and MAKEGEN_LOG_FORMAT.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deepalert/makegen/internal/logging"
)

const envPrefix = "MAKEGEN"

var (
	// appFs is the filesystem every command reads from and writes to.
	appFs afero.Fs = afero.NewOsFs()

	logger logging.Logger = logging.NewNopLogger()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "makegen",
	Short: "Generate the build script for a serverless function stack",
	Long: `makegen writes a make-compatible build script for a stack of Go functions
deployed with the SAM/CloudFormation toolchain. Every directory under
./functions becomes a build target, every directory under ./test becomes a
test harness target, and the stack parameters are baked into the script.

Quick Start:
  makegen generate -c config.json           Write ./Makefile
  makegen generate -c config.json -o -      Print the script to stdout
  makegen validate -c config.json           Check inputs without writing
  makegen list                              Show discovered targets
  makegen watch -c config.json              Regenerate on changes`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(
		newGenerateCmd(),
		newValidateCmd(),
		newListCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)
}

// initConfig enables MAKEGEN_ environment variables for the root settings,
// e.g. MAKEGEN_LOG_LEVEL=debug.
func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	level, err := logging.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return err
	}

	format := viper.GetString("log-format")
	if err := validateFormat(format, []string{"text", "json"}); err != nil {
		return fmt.Errorf("invalid --log-format: %w", err)
	}

	logger = logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	})

	return nil
}
