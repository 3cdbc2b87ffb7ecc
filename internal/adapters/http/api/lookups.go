package api

import (
	"net/http"
)

// LookupHandler serves the catalog option lists.
type LookupHandler struct {
	deps LookupDependencies
}

// NewLookupHandler creates a new lookup handler.
func NewLookupHandler(deps LookupDependencies) *LookupHandler {
	return &LookupHandler{deps: deps}
}

// HandleCountries handles GET /countries requests.
func (h *LookupHandler) HandleCountries(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_countries"
	countries, err := h.deps.Countries(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, countries)
}

// HandleLeagues handles GET /leagues?country= requests.
func (h *LookupHandler) HandleLeagues(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leagues"
	country, err := requireQuery(r, "country")
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	leagues, err := h.deps.Leagues(r.Context(), country)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, leagues)
}

// HandleTeams handles GET /teams?league= requests.
func (h *LookupHandler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_teams"
	league, err := requireQuery(r, "league")
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	teams, err := h.deps.Teams(r.Context(), league)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

// HandleDates handles GET /dates requests.
func (h *LookupHandler) HandleDates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Dates())
}
