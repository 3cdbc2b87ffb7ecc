package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// changeRequest is the body of PATCH /sessions/{id}. A null or empty value
// clears the field.
type changeRequest struct {
	Field string `json:"field" validate:"required,oneof=country league team_a team_b date"`
	Value string `json:"value" validate:"max=256"`
}

// SessionHandler handles picker session requests.
type SessionHandler struct {
	deps SessionDependencies
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps SessionDependencies) *SessionHandler {
	return &SessionHandler{deps: deps}
}

// HandleCreate handles POST /sessions requests.
func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_session"
	view, err := h.deps.NewSession(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	w.Header().Set("Location", "/sessions/"+view.ID)
	writeJSON(w, http.StatusCreated, view)
}

// HandleGet handles GET /sessions/{id} requests.
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_session"
	view, err := h.deps.Session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandlePatch handles PATCH /sessions/{id} requests.
func (h *SessionHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.patch_session"
	var req changeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	view, err := h.deps.Apply(r.Context(), chi.URLParam(r, "id"), req.Field, req.Value)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleDelete handles DELETE /sessions/{id} requests.
func (h *SessionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_session"
	if err := h.deps.Discard(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
