// Package smoke drives complete picker walks against a running fixturepick
// service and checks every option list it is offered.
package smoke

import "time"

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL string        // Base URL of the service
	Walks   int           // Number of complete cascades to drive
	Workers int           // Number of concurrent workers
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Log every walk
}

// Stats holds run statistics.
type Stats struct {
	WalksStarted   int
	WalksCompleted int
	WalksFailed    int
	Requests       int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}

// Selection mirrors the selection returned by the service.
type Selection struct {
	Country string `json:"country"`
	League  string `json:"league"`
	TeamA   string `json:"team_a"`
	TeamB   string `json:"team_b"`
	Date    string `json:"date"`
}

// Options mirrors the option lists returned by the service.
type Options struct {
	Countries []string `json:"countries"`
	Leagues   []string `json:"leagues"`
	TeamsA    []string `json:"teams_a"`
	TeamsB    []string `json:"teams_b"`
	Dates     []string `json:"dates"`
}

// SessionView mirrors a session response.
type SessionView struct {
	ID        string    `json:"id"`
	Selection Selection `json:"selection"`
	Options   Options   `json:"options"`
	Complete  bool      `json:"complete"`
	Day       string    `json:"day"`
}

// ErrorResponse mirrors an error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
