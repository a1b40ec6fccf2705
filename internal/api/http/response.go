package http

import (
	"encoding/json"
	"net/http"

	"rentinspect-backend/internal/domain"
	"rentinspect-backend/internal/logger"
)

type errorBody struct {
	Code    domain.ErrorKind  `json:"code"`
	Message string            `json:"message"`
	Detail  map[string]string `json:"detail,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// statusOf maps the domain error taxonomy to HTTP statuses in one place.
var statusOf = map[domain.ErrorKind]int{
	domain.KindInvalidArgument:     http.StatusBadRequest,
	domain.KindForbidden:           http.StatusForbidden,
	domain.KindNotFound:            http.StatusNotFound,
	domain.KindPreconditionFailed:  http.StatusPreconditionFailed,
	domain.KindNoValidWindow:       http.StatusUnprocessableEntity,
	domain.KindOutOfWindow:         http.StatusUnprocessableEntity,
	domain.KindIncompletePayload:   http.StatusUnprocessableEntity,
	domain.KindOutOfSequence:       http.StatusConflict,
	domain.KindAlreadyFinalized:    http.StatusConflict,
	domain.KindConflict:            http.StatusConflict,
	domain.KindUpstreamUnavailable: http.StatusServiceUnavailable,
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

func writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	status, ok := statusOf[kind]
	if !ok {
		logger.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errorBody{
			Code:    domain.KindInternal,
			Message: "internal server error",
		}})
		return
	}
	writeJSON(w, status, errorResponse{Error: errorBody{
		Code:    kind,
		Message: err.Error(),
		Detail:  domain.DetailOf(err),
	}})
}
