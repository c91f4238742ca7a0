package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/joestump/bytevault/internal/auth"
	"github.com/joestump/bytevault/internal/store"
)

const exportVersion = "1.0"

type exportAPIHandler struct {
	links *store.LinkStore
	log   logrus.FieldLogger
	now   func() time.Time
}

func registerExportRoutes(r chi.Router, h *exportAPIHandler) {
	r.Get("/export/json", h.JSON)
}

// JSON streams every link of the caller as a downloadable document. The body
// is the bare document, not the response envelope.
// GET /api/export/json
//
// @Summary      Export links
// @Tags         Export
// @Produce      json
// @Success      200  {object}  ExportDocument
// @Failure      401  {object}  Response
// @Failure      500  {object}  Response
// @Security     BearerToken
// @Router       /export/json [get]
func (h *exportAPIHandler) JSON(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	links, err := h.links.ListAll(r.Context(), user.ID)
	if err != nil {
		writeInternal(w, r, h.log, err)
		return
	}

	doc := ExportDocument{
		Version:    exportVersion,
		ExportedAt: h.now().UTC(),
		Links:      toLinkResponses(links),
	}
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		writeInternal(w, r, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=bytevault_export.json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
