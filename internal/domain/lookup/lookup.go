// Package lookup filters the catalog hierarchy: countries, the leagues of a
// country and the teams of a league.
//
// Unknown keys are not errors; every function returns an empty, non-nil
// slice so callers can render "no options" without a nil check.
package lookup

import "github.com/okian/fixturepick/internal/domain/model"

// Countries returns the distinct country values in first-seen order.
func Countries(c model.Catalog) []string {
	seen := make(map[string]struct{}, len(c.Records))
	out := make([]string, 0, len(c.Records))
	for _, r := range c.Records {
		if _, ok := seen[r.Country]; ok {
			continue
		}
		seen[r.Country] = struct{}{}
		out = append(out, r.Country)
	}
	return out
}

// LeaguesFor returns the leagues whose country equals country, in catalog order.
func LeaguesFor(c model.Catalog, country string) []string {
	out := []string{}
	for _, r := range c.Records {
		if r.Country == country {
			out = append(out, r.League)
		}
	}
	return out
}

// TeamsFor returns a copy of the team list of the first record whose league
// equals league.
func TeamsFor(c model.Catalog, league string) []string {
	r, ok := Find(c, league)
	if !ok {
		return []string{}
	}
	return append([]string{}, r.Teams...)
}

// Find returns the first record for league.
func Find(c model.Catalog, league string) (model.LeagueRecord, bool) {
	for _, r := range c.Records {
		if r.League == league {
			return r, true
		}
	}
	return model.LeagueRecord{}, false
}
