package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lzjever/wsm/internal/core"
	"github.com/lzjever/wsm/internal/query"
)

// ListWorkspaces lists workspaces filtered by category, search text and
// installed state.
func (a *API) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	installedOnly, _ := strconv.ParseBool(q.Get("installed"))
	list := a.query.Filter(query.Params{
		Category:      q.Get("category"),
		Search:        q.Get("q"),
		InstalledOnly: installedOnly,
	})
	WriteJSON(w, http.StatusOK, map[string]any{
		"workspaces": list,
		"count":      len(list),
	})
}

func (a *API) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	ws, err := a.query.ByID(chi.URLParam(r, "wsid"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, ws)
}

// CreateWorkspace creates a workspace. With an Idempotency-Key header a
// repeated identical request returns the workspace created the first time.
func (a *API) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "unreadable request body"))
		return
	}
	var req core.CreateWorkspaceRequest
	if err := json.Unmarshal(body, &req); err != nil {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "invalid request body"))
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")
	requestHash := core.ComputeRequestHash(body, http.MethodPost, "/v1/workspaces")
	if idempotencyKey != "" {
		wsid, found, err := a.idem.Lookup(idempotencyKey, requestHash)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		if found {
			if ws, ok := a.manager.Get(wsid); ok {
				WriteJSON(w, http.StatusOK, ws)
				return
			}
		}
	}

	ws, err := a.manager.Create(r.Context(), req)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if idempotencyKey != "" {
		a.idem.Remember(idempotencyKey, requestHash, ws.ID)
	}
	WriteJSON(w, http.StatusCreated, ws)
}

func (a *API) UpdateWorkspace(w http.ResponseWriter, r *http.Request) {
	var patch core.WorkspacePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "invalid request body"))
		return
	}
	ws, err := a.manager.Update(r.Context(), chi.URLParam(r, "wsid"), patch)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, ws)
}

// DeleteWorkspace is idempotent and always answers 204.
func (a *API) DeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	if err := a.manager.Delete(r.Context(), chi.URLParam(r, "wsid")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) ActivateWorkspace(w http.ResponseWriter, r *http.Request) {
	ws, err := a.manager.Activate(r.Context(), chi.URLParam(r, "wsid"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, ws)
}

func (a *API) DeactivateWorkspace(w http.ResponseWriter, r *http.Request) {
	ws, err := a.manager.Deactivate(r.Context(), chi.URLParam(r, "wsid"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, ws)
}

// GetActive returns the active workspace, or null when none is active.
func (a *API) GetActive(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"workspace": a.manager.Active(),
	})
}
