package main

import (
	"os"

	"ubd/internal/logging"
)

// exitCode is set by commands that finish normally but must fail the
// process, such as check finding violations. main applies it after every
// deferred cleanup has run.
var exitCode int

func main() {
	logger := logging.NewLogger(logging.Config{
		Format: "human",
		Level:  "info",
	})

	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command execution failed", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	os.Exit(exitCode)
}
