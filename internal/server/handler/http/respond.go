package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"notehub/internal/apperr"
)

// errorResponse is the JSON body for every error status.
type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an application error to its HTTP status. Internal
// errors are logged and answered with a generic message so storage
// details never reach the client.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	appErr := apperr.As(err)
	if appErr.Kind == apperr.KindInternal {
		log.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
		return
	}
	writeJSON(w, apperr.HTTPStatus(err), errorResponse{
		Error:   appErr.Message,
		Details: appErr.Details,
	})
}
