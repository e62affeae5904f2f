package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"hostpanel/internal/domain"
	"hostpanel/internal/service"
	"hostpanel/internal/storage"
)

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type loggerKey struct{}

// withLogger makes logger available to the response helpers of every request.
func withLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), loggerKey{}, logger)))
		})
	}
}

func requestLogger(r *http.Request) *slog.Logger {
	if logger, ok := r.Context().Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.New(slog.DiscardHandler)
}

// writeJSON encodes v before sending the status, so an unencodable body becomes
// a 500 instead of a truncated 200.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		requestLogger(r).Error("encode response failed", "path", r.URL.Path, "error", err)
		status = http.StatusInternalServerError
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(errorBody{Error: "could not encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// writeError maps service errors onto status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	body := errorBody{Error: err.Error()}
	status := http.StatusInternalServerError

	var ve *domain.ValidationError
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, service.ErrNoSession):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrSessionBusy):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidHost), errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.As(err, &ve):
		status = http.StatusUnprocessableEntity
		body.Fields = ve.Fields
	}
	writeJSON(w, r, status, body)
}

var errBadRequest = errors.New("bad request")

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Join(errBadRequest, err)
	}
	return nil
}
