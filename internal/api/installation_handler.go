package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lzjever/wsm/internal/core"
)

type InstallationResponse struct {
	Progress core.InstallProgress   `json:"progress"`
	Logs     []core.InstallationLog `json:"logs"`
}

// StartInstallation launches the pipeline in the background (async).
func (a *API) StartInstallation(w http.ResponseWriter, r *http.Request) {
	wsid := chi.URLParam(r, "wsid")
	done, err := a.installer.Launch(wsid)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	go func() {
		if err := <-done; err != nil {
			a.log.Info("installation ended", zap.String("wsid", wsid), zap.String("code", string(core.CodeOf(err))))
		}
	}()
	WriteAccepted(w, wsid)
}

func (a *API) GetInstallation(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, InstallationResponse{
		Progress: a.installer.Progress(),
		Logs:     a.installer.Logs(),
	})
}

func (a *API) CancelInstallation(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]bool{
		"cancelled": a.installer.Cancel(),
	})
}
