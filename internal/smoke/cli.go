package smoke

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/fixturepick/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0o600
)

// SetupLogging logs to stdout, and additionally to logFile when it is set.
func SetupLogging(logFile string, verbose bool) error {
	var out io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
	}
	if err := logger.Init(logger.WithOutput(out), logger.WithSource(false)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the smoke tool.
func ShowHelp() {
	os.Stdout.WriteString(`fixturepick smoke tool
======================

Walks the full country -> league -> team A -> team B -> date cascade against a
running fixturepick service and checks every option list it is offered.

Usage:
  go run ./cmd/smoke [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -walks int
        Number of complete walks to drive (default 100)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -log string
        Also write logs to this file
  -verbose
        Log every completed walk
  -help
        Show this help message

Examples:
  go run ./cmd/smoke -walks 1000 -workers 16 -url http://localhost:8080
`)
}
