package main

import (
	"ubd/internal/logging"
	"ubd/internal/version"

	"github.com/spf13/cobra"
)

var (
	// logLevelFlag is the CLI --log-level flag value
	logLevelFlag string
	// logFormatFlag is the CLI --log-format flag value
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "ubd",
	Short: "ubd - use-before-define checker for JavaScript and TypeScript",
	Long: `ubd parses JavaScript, TypeScript, and TSX sources, builds their lexical
scope graph, and reports identifier references that occur before the
binding they resolve to is declared.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("ubd version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info",
		"Log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "human",
		"Log format: human or json")
}

// newLogger builds the logger from the persistent flags. Config file
// settings apply only when the flags keep their defaults.
func newLogger(cfgFormat, cfgLevel string) *logging.Logger {
	format := logFormatFlag
	if format == "human" && cfgFormat != "" {
		format = cfgFormat
	}
	level := logLevelFlag
	if level == "info" && cfgLevel != "" {
		level = cfgLevel
	}

	return logging.NewLogger(logging.Config{
		Format: logging.Format(format),
		Level:  logging.ParseLevel(level),
	})
}
