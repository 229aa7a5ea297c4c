package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rjcompany/nfmailer/internal/dispatch"
	"github.com/rjcompany/nfmailer/pkg/folder"
	"github.com/rjcompany/nfmailer/pkg/recipient"
)

var (
	ErrBadRequest = errors.New("server: bad request")
)

// apiError is the JSON error body.
type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// classify maps an error to a status code and machine-readable code.
func classify(err error) (int, apiError) {
	var verr *dispatch.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, apiError{Error: verr.Message(), Code: "invalid_email"}
	case errors.Is(err, dispatch.ErrNoFolders), errors.Is(err, folder.ErrNoFolders):
		return http.StatusBadRequest, apiError{Error: err.Error(), Code: "no_folders"}
	case errors.Is(err, dispatch.ErrAlreadyRunning):
		return http.StatusConflict, apiError{Error: err.Error(), Code: "already_running"}
	case errors.Is(err, dispatch.ErrNotRunning):
		return http.StatusConflict, apiError{Error: err.Error(), Code: "not_running"}
	case errors.Is(err, dispatch.ErrNotPaused):
		return http.StatusConflict, apiError{Error: err.Error(), Code: "not_paused"}
	case errors.Is(err, recipient.ErrInvalidAddress):
		return http.StatusUnprocessableEntity, apiError{Error: err.Error(), Code: "invalid_override"}
	case errors.Is(err, ErrBadRequest), errors.Is(err, folder.ErrReadSource):
		return http.StatusBadRequest, apiError{Error: err.Error(), Code: "bad_request"}
	default:
		return http.StatusInternalServerError, apiError{Error: err.Error(), Code: "internal"}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
