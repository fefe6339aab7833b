package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/zatekoja/goldenhour/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/goldenhour/pkg/errors"
)

const maxRequestBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondWithAppError maps an error to its HTTP status. Unknown errors become 500.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("unhandled error")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: appErr.Message})
	case apperrors.ErrorTypeNotFound:
		respondWithJSON(w, http.StatusNotFound, ErrorResponse{Error: appErr.Message, Reason: appErr.Reason})
	case apperrors.ErrorTypeExternal:
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("upstream failure")
		respondWithError(w, http.StatusBadGateway, appErr.Message)
	default:
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("request failed")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a single JSON document from the request body
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperrors.NewValidationError(fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
		case errors.Is(err, io.EOF):
			return apperrors.NewValidationError("request body is required")
		default:
			return apperrors.NewValidationError(fmt.Sprintf("invalid JSON body: %v", err))
		}
	}
	return nil
}
