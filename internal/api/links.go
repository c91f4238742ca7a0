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

// linksAPIHandler provides REST handlers for saved links.
type linksAPIHandler struct {
	links *store.LinkStore
	log   logrus.FieldLogger
}

// registerLinkRoutes registers link routes on r.
func registerLinkRoutes(r chi.Router, h *linksAPIHandler) {
	r.Get("/links", h.List)
	r.Post("/links", h.Create)
	r.Delete("/links", h.BulkDelete)
	r.Delete("/links/{id}", h.Delete)
}

// List returns one page of the caller's links.
// GET /api/links?page&limit&search&sort&session_id
//
// @Summary      List links
// @Description  Returns one page of the caller's links. session_id=none selects links outside any session.
// @Tags         Links
// @Produce      json
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Page size (default 50, max 200)"
// @Param        search      query     string  false  "Case-insensitive match on title or URL"
// @Param        sort        query     string  false  "newest or oldest"
// @Param        session_id  query     string  false  "Session ID or none"
// @Success      200         {object}  Response{data=[]LinkResponse}
// @Failure      400         {object}  Response
// @Failure      401         {object}  Response
// @Failure      500         {object}  Response
// @Security     BearerToken
// @Router       /links [get]
func (h *linksAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	params := parseListParams(r)

	sessionFilter := r.URL.Query().Get("session_id")
	if sessionFilter != "" && sessionFilter != store.SessionFilterNone && !store.IsUUID(sessionFilter) {
		writeError(w, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	links, total, err := h.links.List(r.Context(), user.ID, params, sessionFilter)
	if err != nil {
		writeInternal(w, r, h.log, err)
		return
	}
	writeList(w, toLinkResponses(links), params.Page, store.TotalPages(total, params.Limit))
}

// Create saves a link for the caller.
// POST /api/links
//
// @Summary      Save link
// @Tags         Links
// @Accept       json
// @Produce      json
// @Param        body  body      CreateLinkRequest  true  "Link"
// @Success      201   {object}  Response{data=LinkResponse}
// @Failure      400   {object}  Response
// @Failure      401   {object}  Response
// @Failure      404   {object}  Response
// @Failure      409   {object}  Response
// @Security     BearerToken
// @Router       /links [post]
func (h *linksAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var req CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	in := store.NewLink{
		URL:       req.URL,
		Title:     req.Title,
		Favicon:   req.Favicon,
		SessionID: deref(req.SessionID),
	}
	if err := store.ValidateNewLink(in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	link, err := h.links.Create(r.Context(), user.ID, in)
	switch {
	case errors.Is(err, store.ErrDuplicateURL):
		metrics.LinksCreatedTotal.WithLabelValues("duplicate").Inc()
		writeError(w, http.StatusConflict, "Link already saved")
		return
	case errors.Is(err, store.ErrNotFound):
		metrics.LinksCreatedTotal.WithLabelValues("error").Inc()
		writeError(w, http.StatusNotFound, "Session not found")
		return
	case err != nil:
		metrics.LinksCreatedTotal.WithLabelValues("error").Inc()
		writeInternal(w, r, h.log, err)
		return
	}

	metrics.LinksCreatedTotal.WithLabelValues("created").Inc()
	writeData(w, http.StatusCreated, toLinkResponse(link))
}

// Delete removes one of the caller's links.
// DELETE /api/links/{id}
//
// @Summary      Delete link
// @Tags         Links
// @Produce      json
// @Param        id   path      string  true  "Link ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  Response
// @Failure      401  {object}  Response
// @Failure      404  {object}  Response
// @Security     BearerToken
// @Router       /links/{id} [delete]
func (h *linksAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if !store.IsUUID(id) {
		writeError(w, http.StatusBadRequest, "Invalid link ID format")
		return
	}

	if err := h.links.Delete(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Link not found or unauthorized")
			return
		}
		writeInternal(w, r, h.log, err)
		return
	}
	metrics.LinksDeletedTotal.Inc()
	writeData(w, http.StatusOK, emptyObject)
}

// BulkDelete removes the listed links of the caller and reports the count.
// DELETE /api/links {ids}
//
// @Summary      Delete links
// @Description  Deletes the listed links of the caller. The count member holds the number removed.
// @Tags         Links
// @Accept       json
// @Produce      json
// @Param        body  body      BulkDeleteRequest  true  "Link IDs"
// @Success      200   {object}  Response
// @Failure      400   {object}  Response
// @Failure      401   {object}  Response
// @Security     BearerToken
// @Router       /links [delete]
func (h *linksAPIHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var req BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "Please provide an array of link IDs to delete")
		return
	}
	for _, id := range req.IDs {
		if !store.IsUUID(id) {
			writeError(w, http.StatusBadRequest, "Invalid link ID format")
			return
		}
	}

	n, err := h.links.BulkDelete(r.Context(), user.ID, req.IDs)
	if err != nil {
		writeInternal(w, r, h.log, err)
		return
	}
	metrics.LinksDeletedTotal.Add(float64(n))
	writeJSON(w, http.StatusOK, Response{Success: true, Data: emptyObject, Count: &n})
}
