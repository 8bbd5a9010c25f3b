package api

import (
	"encoding/json"
	"net/http"

	"github.com/lzjever/wsm/internal/core"
)

// ErrorResponse represents a WSM error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError writes a WSM error response.
func WriteError(w http.ResponseWriter, err *core.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code.HTTPStatus())
	json.NewEncoder(w).Encode(ErrorResponse{
		Code:    string(err.Code),
		Message: err.Message,
	})
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteAccepted writes a 202 Accepted response pointing at the installation
// status resource.
func WriteAccepted(w http.ResponseWriter, workspaceID string) {
	WriteJSON(w, http.StatusAccepted, map[string]any{
		"workspace_id": workspaceID,
		"status":       string(core.InstallRunning),
		"status_href":  "/v1/installation",
	})
}
