package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kailas-cloud/lostfound/internal/domain"
)

// Error codes returned in the "code" field of error responses.
const (
	codeBadRequest        = "bad_request"
	codeValidationFailed  = "validation_failed"
	codeNotFound          = "not_found"
	codeAlreadyExists     = "already_exists"
	codeInvalidTransition = "invalid_transition"
	codeUnauthorized      = "unauthorized"
	codeMethodNotAllowed  = "method_not_allowed"
	codePayloadTooLarge   = "payload_too_large"
	codeInternalError     = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// defaultErrorHandlers maps domain sentinels to responses, most specific first.
func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		detailHandler(domain.ErrValidation, http.StatusBadRequest, codeValidationFailed),
		transitionHandler,
		sentinelHandler(domain.ErrItemNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrConnectionNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrMessageNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
	}
}

// sentinelHandler answers with the sentinel's own message, hiding the wrap chain.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

// detailHandler answers with the full message. Only for errors built from
// client input, which carry no internals.
func detailHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

func transitionHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrInvalidTransition) {
		return false
	}
	var te *domain.TransitionError
	if errors.As(err, &te) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"code":    codeInvalidTransition,
			"message": te.Error(),
			"from":    te.From,
			"to":      te.To,
		})
		return true
	}
	writeError(w, http.StatusConflict, codeInvalidTransition, domain.ErrInvalidTransition.Error())
	return true
}
