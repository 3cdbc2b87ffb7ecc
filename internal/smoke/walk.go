package smoke

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"slices"
)

var errEmptyOptions = errors.New("no options to pick from")

// pick returns a random element of options.
func pick(options []string) (string, error) {
	if len(options) == 0 {
		return "", errEmptyOptions
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(options))))
	if err != nil {
		return "", fmt.Errorf("random pick: %w", err)
	}
	return options[n.Int64()], nil
}

type change struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// walk drives one session through the whole cascade, checking each option
// list against the standalone lookups.
func walk(ctx context.Context, c *HTTPClient) (SessionView, error) {
	var v SessionView
	if err := expect(c.Do(ctx, http.MethodPost, "/sessions", nil, &v))(http.StatusCreated, "create session"); err != nil {
		return v, err
	}

	var countries []string
	if err := expect(c.Do(ctx, http.MethodGet, "/countries", nil, &countries))(http.StatusOK, "countries"); err != nil {
		return v, err
	}
	if !slices.Equal(v.Options.Countries, countries) {
		return v, fmt.Errorf("session countries %v differ from /countries %v", v.Options.Countries, countries)
	}
	if len(v.Options.Leagues) != 0 {
		return v, fmt.Errorf("leagues offered before a country was picked: %v", v.Options.Leagues)
	}

	country, err := pick(countries)
	if err != nil {
		return v, fmt.Errorf("country: %w", err)
	}
	if v, err = apply(ctx, c, v.ID, "country", country); err != nil {
		return v, err
	}
	var leagues []string
	if err := expect(c.Do(ctx, http.MethodGet, "/leagues?country="+url.QueryEscape(country), nil, &leagues))(http.StatusOK, "leagues"); err != nil {
		return v, err
	}
	if !slices.Equal(v.Options.Leagues, leagues) {
		return v, fmt.Errorf("session leagues %v differ from /leagues %v", v.Options.Leagues, leagues)
	}

	league, err := pick(leagues)
	if err != nil {
		return v, fmt.Errorf("league of %s: %w", country, err)
	}
	if v, err = apply(ctx, c, v.ID, "league", league); err != nil {
		return v, err
	}
	var teams []string
	if err := expect(c.Do(ctx, http.MethodGet, "/teams?league="+url.QueryEscape(league), nil, &teams))(http.StatusOK, "teams"); err != nil {
		return v, err
	}
	if !slices.Equal(v.Options.TeamsA, teams) {
		return v, fmt.Errorf("session teams %v differ from /teams %v", v.Options.TeamsA, teams)
	}

	teamA, err := pick(teams)
	if err != nil {
		return v, fmt.Errorf("team A of %s: %w", league, err)
	}
	if v, err = apply(ctx, c, v.ID, "team_a", teamA); err != nil {
		return v, err
	}
	if slices.Contains(v.Options.TeamsB, teamA) || len(v.Options.TeamsB) != len(teams)-1 {
		return v, fmt.Errorf("team B options %v must be %v without %s", v.Options.TeamsB, teams, teamA)
	}

	// Picking team A again as team B must be refused.
	if err := expect(c.Do(ctx, http.MethodPatch, "/sessions/"+v.ID, change{Field: "team_b", Value: teamA}, nil))(http.StatusConflict, "duplicate team B"); err != nil {
		return v, err
	}

	if len(v.Options.TeamsB) > 0 {
		teamB, err := pick(v.Options.TeamsB)
		if err != nil {
			return v, err
		}
		if v, err = apply(ctx, c, v.ID, "team_b", teamB); err != nil {
			return v, err
		}
	}

	date, err := pick(v.Options.Dates)
	if err != nil {
		return v, fmt.Errorf("date: %w", err)
	}
	if v, err = apply(ctx, c, v.ID, "date", date); err != nil {
		return v, err
	}
	if v.Day == "" {
		return v, fmt.Errorf("date option %q resolved to no day", date)
	}
	if v.Selection.TeamB != "" && !v.Complete {
		return v, fmt.Errorf("selection %+v not reported complete", v.Selection)
	}

	if err := expect(c.Do(ctx, http.MethodDelete, "/sessions/"+v.ID, nil, nil))(http.StatusNoContent, "discard session"); err != nil {
		return v, err
	}
	if err := expect(c.Do(ctx, http.MethodGet, "/sessions/"+v.ID, nil, nil))(http.StatusNotFound, "read discarded session"); err != nil {
		return v, err
	}
	return v, nil
}

func apply(ctx context.Context, c *HTTPClient, id, field, value string) (SessionView, error) {
	var v SessionView
	if err := expect(c.Do(ctx, http.MethodPatch, "/sessions/"+id, change{Field: field, Value: value}, &v))(http.StatusOK, "set "+field); err != nil {
		return v, err
	}
	if got := fieldValue(v.Selection, field); got != value {
		return v, fmt.Errorf("set %s=%q but session holds %q", field, value, got)
	}
	return v, nil
}

func fieldValue(s Selection, field string) string {
	switch field {
	case "country":
		return s.Country
	case "league":
		return s.League
	case "team_a":
		return s.TeamA
	case "team_b":
		return s.TeamB
	default:
		return s.Date
	}
}

// expect turns a Do result into a check of its status.
func expect(status int, err error) func(want int, what string) error {
	return func(want int, what string) error {
		if err != nil {
			return fmt.Errorf("%s: %w", what, err)
		}
		if status != want {
			return fmt.Errorf("%s: status %d, want %d", what, status, want)
		}
		return nil
	}
}
