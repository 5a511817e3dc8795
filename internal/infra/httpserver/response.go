package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	appauth "github.com/bryanwahyu/safe-space/internal/application/auth"
	"github.com/bryanwahyu/safe-space/internal/domain/ai"
	"github.com/bryanwahyu/safe-space/internal/domain/shared"
)

const maxBodyBytes = 1 << 20

type handlerFunc func(http.ResponseWriter, *http.Request) error

// sentWriter records whether the handler already started its response.
type sentWriter struct {
	http.ResponseWriter
	sent bool
}

func (w *sentWriter) WriteHeader(status int) {
	w.sent = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *sentWriter) Write(b []byte) (int, error) {
	w.sent = true
	return w.ResponseWriter.Write(b)
}

// wrap maps service errors to status codes. Unknown errors are logged and
// reported as a generic 500 so internals do not leak. Errors returned after
// the response has started can only be logged.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		sw := &sentWriter{ResponseWriter: w}
		err := h(sw, req)
		if err == nil {
			return
		}
		if sw.sent {
			r.log.Warn(req.Context(), "response write failed", "method", req.Method, "path", req.URL.Path, "err", err)
			return
		}
		status, msg := statusFor(err)
		if status >= http.StatusInternalServerError && !errors.Is(err, shared.ErrFeatureDisabled) {
			r.log.Error(req.Context(), "request failed", "method", req.Method, "path", req.URL.Path, "err", err)
		}
		writeError(w, status, msg)
	}
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, appauth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, shared.ErrUnauthorized):
		return http.StatusUnauthorized, "not authorized"
	case errors.Is(err, shared.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, shared.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, ai.ErrQuotaExceeded):
		return http.StatusTooManyRequests, "ai quota exceeded"
	case errors.Is(err, shared.ErrFeatureDisabled):
		return http.StatusServiceUnavailable, shared.ErrFeatureDisabled.Error()
	case errors.Is(err, shared.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "service temporarily unavailable"
	default:
		return http.StatusInternalServerError, "server error"
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	_ = writeJSON(w, status, map[string]any{"success": false, "message": msg})
}

// ok writes {"success": true, "data": data}.
func ok(w http.ResponseWriter, status int, data any) error {
	return writeJSON(w, status, map[string]any{"success": true, "data": data})
}

func decode(w http.ResponseWriter, req *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", shared.ErrInvalidInput)
		}
		return fmt.Errorf("%w: malformed JSON body", shared.ErrInvalidInput)
	}
	return nil
}

// pageParams reads ?page=&limit=. Missing or malformed values are 0 and get
// defaulted by the services.
func pageParams(req *http.Request) (int, int) {
	q := req.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("limit"))
	return page, size
}
