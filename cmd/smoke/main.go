// Command smoke drives picker walks against a running fixturepick service.
package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/fixturepick/internal/smoke"
)

// Default configuration constants.
const (
	defaultWalks       = 100
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 10 * time.Second
	defaultTestTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		walks   = flag.Int("walks", defaultWalks, "Number of complete walks to drive")
		workers = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile = flag.String("log", "", "Also write logs to this file")
		verbose = flag.Bool("verbose", false, "Log every completed walk")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoke.ShowHelp()
		return
	}

	if err := smoke.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &smoke.Config{
		BaseURL: *baseURL,
		Walks:   *walks,
		Workers: *workers,
		Timeout: *timeout,
		Verbose: *verbose,
	}

	if _, err := smoke.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Smoke run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
