package smoke

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/fixturepick/pkg/logger"
)

// ErrWalksFailed is returned when at least one walk did not pass its checks.
var ErrWalksFailed = errors.New("smoke walks failed")

// Run executes the complete smoke run.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Named("smoke")

	log.Info(ctx, "starting fixturepick smoke run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("walks", config.Walks),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Drive walks concurrently
	runWalks(ctx, config, client, stats, log)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	stats.Requests = client.Requests()
	displayFinalStats(ctx, log, stats)

	if stats.WalksFailed > 0 {
		return stats, fmt.Errorf("%w: %d of %d", ErrWalksFailed, stats.WalksFailed, stats.WalksStarted)
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	log.Info(ctx, "smoke run completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	var health struct {
		Status string `json:"status"`
	}
	status, err := client.Do(ctx, http.MethodGet, "/healthz", nil, &health)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK || health.Status != "ok" {
		return fmt.Errorf("unhealthy service: status %d %q", status, health.Status)
	}
	return nil
}

// runWalks runs config.Walks walks over a pool of config.Workers workers.
func runWalks(ctx context.Context, config *Config, client *HTTPClient, stats *Stats, log logger.Logger) {
	workers := max(config.Workers, 1)
	jobs := make(chan int, workers*WorkerChannelMultiplier)

	var (
		wg        sync.WaitGroup
		started   atomic.Int64
		completed atomic.Int64
		failed    atomic.Int64
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range jobs {
				if ctx.Err() != nil {
					return
				}
				started.Add(1)
				v, err := walk(ctx, client)
				if err != nil {
					failed.Add(1)
					log.Error(ctx, "walk failed", logger.Int("walk", n), logger.String("sessionID", v.ID), logger.Error(err))
					continue
				}
				completed.Add(1)
				if config.Verbose {
					log.Info(ctx, "walk completed",
						logger.Int("walk", n),
						logger.String("country", v.Selection.Country),
						logger.String("league", v.Selection.League),
						logger.String("teamA", v.Selection.TeamA),
						logger.String("teamB", v.Selection.TeamB),
						logger.String("date", v.Selection.Date))
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for n := 0; n < config.Walks; n++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- n:
			}
		}
	}()

	wg.Wait()

	stats.WalksStarted = int(started.Load())
	stats.WalksCompleted = int(completed.Load())
	stats.WalksFailed = int(failed.Load())
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var successRate, walksPerSecond float64
	if stats.WalksStarted > 0 {
		successRate = float64(stats.WalksCompleted) / float64(stats.WalksStarted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		walksPerSecond = float64(stats.WalksCompleted) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("walksStarted", stats.WalksStarted),
		logger.Int("walksCompleted", stats.WalksCompleted),
		logger.Int("walksFailed", stats.WalksFailed),
		logger.Int("requests", stats.Requests),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("walksPerSecond", walksPerSecond))
}
