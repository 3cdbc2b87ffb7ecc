// Package types contains the read shapes shared by the service and the API.
package types

import (
	"time"

	"github.com/okian/fixturepick/internal/domain/model"
	"github.com/okian/fixturepick/internal/domain/selection"
)

// DayLayout formats SessionView.Day.
const DayLayout = "2006-01-02"

// SessionView is a picker session together with the options its current
// selection allows. Clients re-render by comparing successive views.
type SessionView struct {
	ID        string              `json:"id"`
	Selection model.Selection     `json:"selection"`
	Options   selection.OptionSet `json:"options"`
	Complete  bool                `json:"complete"`
	Day       string              `json:"day,omitempty"` // calendar day of a date option, DayLayout
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}
