package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lzjever/wsm/internal/catalog"
	"github.com/lzjever/wsm/internal/core"
)

type CreateFromTemplateRequest struct {
	Name string `json:"name"`
}

func (a *API) ListTemplates(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"templates": catalog.Templates(),
	})
}

// CreateFromTemplate creates a workspace with the template's type and tools.
// The body is optional; without a name the template's name is used.
func (a *API) CreateFromTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "template_id")
	tmpl, ok := catalog.TemplateByID(id)
	if !ok {
		WriteError(w, core.NewAppError(core.ErrNotFound, "template "+id+" not found"))
		return
	}

	var req CreateFromTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "invalid request body"))
		return
	}

	ws, err := a.manager.Create(r.Context(), tmpl.Request(req.Name))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, ws)
}

// ScanTools runs the host scanner.
func (a *API) ScanTools(w http.ResponseWriter, r *http.Request) {
	tools, err := a.scanner.Scan(r.Context(), nil)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"tools": tools,
	})
}
