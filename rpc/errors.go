package rpc

import (
	"encoding/json"
	"errors"
	"net/http"

	coreerrors "stallion/core/errors"
)

type problem struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// statusFor maps an engine error kind to an HTTP status.
func statusFor(err error) int {
	switch coreerrors.Kind(err) {
	case coreerrors.ErrUnauthorized:
		return http.StatusForbidden
	case coreerrors.ErrValidation:
		return http.StatusBadRequest
	case coreerrors.ErrLifecycle:
		return http.StatusConflict
	case coreerrors.ErrNotFound:
		return http.StatusNotFound
	case coreerrors.ErrFundSafety:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func kindName(err error) string {
	switch coreerrors.Kind(err) {
	case coreerrors.ErrUnauthorized:
		return "unauthorized"
	case coreerrors.ErrValidation:
		return "validation"
	case coreerrors.ErrLifecycle:
		return "lifecycle"
	case coreerrors.ErrNotFound:
		return "not_found"
	case coreerrors.ErrFundSafety:
		return "fund_safety"
	default:
		return "internal"
	}
}

var errBadRequest = errors.New("bad request")

func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errBadRequest) {
		writeProblem(w, http.StatusBadRequest, err.Error())
		return
	}
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("rpc: request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, problem{Error: msg, Kind: kindName(err)})
}

func writeProblem(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, problem{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
