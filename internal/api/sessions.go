package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/joestump/bytevault/internal/auth"
	"github.com/joestump/bytevault/internal/metrics"
	"github.com/joestump/bytevault/internal/store"
)

type sessionsAPIHandler struct {
	sessions *store.SessionStore
	log      logrus.FieldLogger
}

func registerSessionRoutes(r chi.Router, h *sessionsAPIHandler) {
	r.Get("/sessions", h.List)
	r.Post("/sessions", h.Create)
	r.Put("/sessions/{id}", h.Update)
	r.Delete("/sessions/{id}", h.Delete)
}

// List returns one page of the caller's sessions with link counts.
// GET /api/sessions?page&limit&search&sort
//
// @Summary      List sessions
// @Tags         Sessions
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 50, max 200)"
// @Param        search  query     string  false  "Case-insensitive match on name, description or tag"
// @Param        sort    query     string  false  "newest or oldest"
// @Success      200     {object}  Response{data=[]SessionResponse}
// @Failure      401     {object}  Response
// @Failure      500     {object}  Response
// @Security     BearerToken
// @Router       /sessions [get]
func (h *sessionsAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	params := parseListParams(r)

	sessions, total, err := h.sessions.List(r.Context(), user.ID, params)
	if err != nil {
		writeInternal(w, r, h.log, err)
		return
	}
	out := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResponse(s))
	}
	writeList(w, out, params.Page, store.TotalPages(total, params.Limit))
}

// Create adds a session.
// POST /api/sessions
//
// @Summary      Create session
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        body  body      CreateSessionRequest  true  "Session"
// @Success      201   {object}  Response{data=SessionResponse}
// @Failure      400   {object}  Response
// @Failure      401   {object}  Response
// @Security     BearerToken
// @Router       /sessions [post]
func (h *sessionsAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	in := store.NewSession{
		Name:        req.Name,
		Description: deref(req.Description),
		Tag:         deref(req.Tag),
		IsFavorite:  req.IsFavorite,
	}
	if err := store.ValidateNewSession(in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := h.sessions.Create(r.Context(), user.ID, in)
	if err != nil {
		writeInternal(w, r, h.log, err)
		return
	}
	metrics.SessionsCreatedTotal.Inc()
	writeData(w, http.StatusCreated, toSessionResponse(sess))
}

// Update applies a partial update.
// PUT /api/sessions/{id}
//
// @Summary      Update session
// @Description  Absent fields keep their stored value.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Session ID"
// @Param        body  body      UpdateSessionRequest  true  "Fields to change"
// @Success      200   {object}  Response{data=SessionResponse}
// @Failure      400   {object}  Response
// @Failure      401   {object}  Response
// @Failure      404   {object}  Response
// @Security     BearerToken
// @Router       /sessions/{id} [put]
func (h *sessionsAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if !store.IsUUID(id) {
		writeError(w, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	var req UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	patch := store.SessionPatch{
		Name:        req.Name,
		Description: req.Description,
		Tag:         req.Tag,
		IsFavorite:  req.IsFavorite,
	}
	if req.Name != nil && *req.Name == "" {
		writeError(w, http.StatusBadRequest, store.ErrNameRequired.Error())
		return
	}
	if err := store.ValidateSessionPatch(patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := h.sessions.Update(r.Context(), user.ID, id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeInternal(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, toSessionResponse(sess))
}

// Delete removes a session and the links it holds.
// DELETE /api/sessions/{id}
//
// @Summary      Delete session
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  Response
// @Failure      401  {object}  Response
// @Failure      404  {object}  Response
// @Security     BearerToken
// @Router       /sessions/{id} [delete]
func (h *sessionsAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if !store.IsUUID(id) {
		writeError(w, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	if err := h.sessions.Delete(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeInternal(w, r, h.log, err)
		return
	}
	metrics.SessionsDeletedTotal.Inc()
	writeData(w, http.StatusOK, emptyObject)
}
