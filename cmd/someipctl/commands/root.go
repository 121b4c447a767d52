// Package commands implements the someipctl CLI commands.
package commands

import (
	"fmt"
	"os"

	"github.com/marmos91/someip/internal/cliutil/output"
	"github.com/marmos91/someip/internal/logger"
	"github.com/marmos91/someip/pkg/config"
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// cfg is the configuration loaded by PersistentPreRun, shared by every
// subcommand.
var cfg *config.Config

// Flags holds the global flag values subcommands read after PersistentPreRun.
var Flags struct {
	ConfigPath string
	Output     output.Format
	Strict     bool
	NoColor    bool
}

var rootCmd = &cobra.Command{
	Use:   "someipctl",
	Short: "Inspect and decode SOME/IP payloads against FIBEX service descriptions",
	Long: `someipctl loads a FIBEX service description, builds the SOME/IP codec
tree for its services and methods, and uses it to inspect schemas or decode
wire payloads.

Use "someipctl [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		outputStr, _ := cmd.Flags().GetString("output")
		noColor, _ := cmd.Flags().GetBool("no-color")

		loaded, err := config.MustLoad(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		format, err := output.ParseFormat(outputStr)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("strict") {
			cfg.Model.Strict, _ = cmd.Flags().GetBool("strict")
		}

		Flags.ConfigPath = configPath
		Flags.Output = format
		Flags.Strict = cfg.Model.Strict
		Flags.NoColor = noColor

		if err := logger.Init(logger.Config{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Output: cfg.Logging.Output,
		}); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command, exposed for testing.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to configuration file (default: "+config.GetDefaultConfigPath()+")")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format (table|json|yaml)")
	rootCmd.PersistentFlags().Bool("strict", true, "Reject unresolved FIBEX references instead of skipping them")
	rootCmd.PersistentFlags().Bool("no-color", false, "Recorded but not applied; log color follows terminal detection")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}

// Exit prints an error and exits with code 1.
func Exit(format string, args ...any) {
	PrintErr(format, args...)
	os.Exit(1)
}
