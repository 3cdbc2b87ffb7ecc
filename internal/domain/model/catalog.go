// Package model contains domain models passed between layers.
package model

// LeagueRecord is one league of the bundled lookup table together with its
// country and ordered, unique team list.
type LeagueRecord struct {
	League  string   `json:"league"`
	Country string   `json:"country"`
	Teams   []string `json:"teams"`
}

// Catalog is the ordered country -> league -> team hierarchy. It is loaded
// once and treated as read-only afterwards.
type Catalog struct {
	Records []LeagueRecord `json:"teams"`
}

// Len returns the number of league records.
func (c Catalog) Len() int { return len(c.Records) }

// Clone returns a deep copy so callers can't mutate a memoized catalog.
func (c Catalog) Clone() Catalog {
	out := Catalog{Records: make([]LeagueRecord, len(c.Records))}
	for i, r := range c.Records {
		out.Records[i] = LeagueRecord{
			League:  r.League,
			Country: r.Country,
			Teams:   append([]string(nil), r.Teams...),
		}
	}
	return out
}
