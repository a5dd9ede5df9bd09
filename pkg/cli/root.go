package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/apiprobe/apiprobe/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	logLevel   string
	logFormat  string
	jsonOutput bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// log is the process-wide logger, configured in the root PersistentPreRun.
var log = logging.Nop()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "apiprobe",
	Short: "apiprobe generates and executes test data for OpenAPI operations",
	Long: `apiprobe reads an OpenAPI 3.0 description and produces realistic request
payloads for its operations. Payloads come from examples embedded in the
description, from an external text-generation provider when one is
configured, or from local locale-aware synthesis as the fallback.

Generated payloads can be executed against a live API and saved as bundles
for later replay.`,
	// No Run function here means 'apiprobe' with no args prints help.
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show apiprobe version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("apiprobe %s (commit %s, built %s)\n", Version, Commit, BuildDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		log = logging.New(logging.Config{
			Level:  logging.ParseLevel(logLevel),
			Format: logging.ParseFormat(logFormat),
		})
		slog.SetDefault(log)
	}

	rootCmd.AddCommand(versionCmd)
}
