package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/errs"
)

// ErrorPayload is the body of every failed response.
type ErrorPayload struct {
	Error string    `json:"error"`
	Kind  errs.Kind `json:"kind,omitempty"`
	Field string    `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck,gosec
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, payload := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	writeJSON(w, status, payload)
}

func classify(err error) (int, ErrorPayload) {
	var (
		ve *errs.ValidationError
		se *errs.ServiceError
		te *errs.TransportError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ErrorPayload{Error: ve.Error(), Kind: ve.Kind, Field: ve.Field}
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, ErrorPayload{Error: err.Error()}
	case errors.Is(err, errs.ErrConflict),
		errors.Is(err, errs.ErrBusy),
		errors.Is(err, errs.ErrActionNotAllowed):
		return http.StatusConflict, ErrorPayload{Error: err.Error()}
	case errors.Is(err, errs.ErrProxyRejected):
		return http.StatusUnprocessableEntity, ErrorPayload{Error: err.Error()}
	case errors.Is(err, errs.ErrCloudDisabled):
		return http.StatusServiceUnavailable, ErrorPayload{Error: err.Error()}
	case errors.As(err, &se):
		return http.StatusBadGateway, ErrorPayload{Error: se.Message}
	case errors.As(err, &te):
		return http.StatusBadGateway, ErrorPayload{Error: errs.Message(te)}
	default:
		return http.StatusInternalServerError, ErrorPayload{Error: "internal error"}
	}
}

func decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.Validation(errs.InvalidInput, "body", fmt.Sprintf("malformed request body: %v", err))
	}
	return nil
}
