package model

import "strings"

// Field names one slot of the cascading picker.
type Field string

// Picker fields, upstream first.
const (
	FieldCountry Field = "country"
	FieldLeague  Field = "league"
	FieldTeamA   Field = "team_a"
	FieldTeamB   Field = "team_b"
	FieldDate    Field = "date"
)

// Fields lists every picker field in cascade order.
var Fields = []Field{FieldCountry, FieldLeague, FieldTeamA, FieldTeamB, FieldDate}

// ParseField maps a wire name (case-insensitive) to a Field.
func ParseField(s string) (Field, bool) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Fields {
		if f == known {
			return f, true
		}
	}
	return "", false
}

// Selection is the in-progress choice across the five picker fields.
// An empty string means the field is unset. Values are compared with ==,
// so a Selection is a plain immutable snapshot when passed by value.
type Selection struct {
	Country string `json:"country"`
	League  string `json:"league"`
	TeamA   string `json:"team_a"`
	TeamB   string `json:"team_b"`
	Date    string `json:"date"`
}

// Get returns the value of field f.
func (s Selection) Get(f Field) string {
	switch f {
	case FieldCountry:
		return s.Country
	case FieldLeague:
		return s.League
	case FieldTeamA:
		return s.TeamA
	case FieldTeamB:
		return s.TeamB
	case FieldDate:
		return s.Date
	}
	return ""
}

// Complete reports whether every field has a value.
func (s Selection) Complete() bool {
	return s.Country != "" && s.League != "" && s.TeamA != "" && s.TeamB != "" && s.Date != ""
}
