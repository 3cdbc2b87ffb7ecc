// Package selection implements the cascading picker state machine.
//
// ApplyChange is a pure transition over model.Selection snapshots: upstream
// changes reset the fields below them and team B may never equal team A.
package selection

import (
	"fmt"

	"github.com/okian/fixturepick/internal/domain/lookup"
	"github.com/okian/fixturepick/internal/domain/model"
)

// OptionSet holds what the presentation layer offers for every field of a
// given selection.
type OptionSet struct {
	Countries []string `json:"countries"`
	Leagues   []string `json:"leagues"`
	TeamsA    []string `json:"teams_a"`
	TeamsB    []string `json:"teams_b"`
	Dates     []string `json:"dates"`
}

// ApplyChange returns the selection that results from setting field f to
// value. On error the input selection is returned unchanged.
func ApplyChange(s model.Selection, f model.Field, value string) (model.Selection, error) {
	switch f {
	case model.FieldCountry:
		return model.Selection{Country: value, Date: s.Date}, nil
	case model.FieldLeague:
		s.League = value
		s.TeamA, s.TeamB = "", ""
		return s, nil
	case model.FieldTeamA:
		s.TeamA = value
		if value != "" && value == s.TeamB {
			s.TeamB = ""
		}
		return s, nil
	case model.FieldTeamB:
		if value != "" && value == s.TeamA {
			return s, fmt.Errorf("team %q already picked as team A: %w", value, ErrInvalidSelection)
		}
		s.TeamB = value
		return s, nil
	case model.FieldDate:
		s.Date = value
		return s, nil
	}
	return s, fmt.Errorf("%q: %w", f, ErrUnknownField)
}

// Options derives the option set for every field of s.
func Options(c model.Catalog, s model.Selection) OptionSet {
	opts := OptionSet{
		Countries: lookup.Countries(c),
		Leagues:   []string{},
		TeamsA:    []string{},
		TeamsB:    []string{},
		Dates:     DateOptions(),
	}
	if s.Country != "" {
		opts.Leagues = lookup.LeaguesFor(c, s.Country)
	}
	if s.League != "" {
		opts.TeamsA = lookup.TeamsFor(c, s.League)
		opts.TeamsB = exclude(opts.TeamsA, s.TeamA)
	}
	return opts
}

func exclude(in []string, drop string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if drop != "" && v == drop {
			continue
		}
		out = append(out, v)
	}
	return out
}
