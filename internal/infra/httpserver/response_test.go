package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/safe-space/internal/domain/shared"
	"github.com/bryanwahyu/safe-space/internal/logging"
)

func TestWrap_ErrorBeforeWrite(t *testing.T) {
	r := &Router{log: logging.Nop()}
	h := r.wrap(func(w http.ResponseWriter, _ *http.Request) error {
		return fmt.Errorf("%w: bad id", shared.ErrInvalidInput)
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
}

func TestWrap_EncodeFailureAfterHeader(t *testing.T) {
	r := &Router{log: logging.Nop()}
	h := r.wrap(func(w http.ResponseWriter, _ *http.Request) error {
		// channels cannot be encoded, so this fails after WriteHeader
		return writeJSON(w, http.StatusOK, map[string]any{"c": make(chan int)})
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"success":false`)
}

func TestWrap_ErrorAfterBody(t *testing.T) {
	r := &Router{log: logging.Nop()}
	h := r.wrap(func(w http.ResponseWriter, _ *http.Request) error {
		if err := ok(w, http.StatusCreated, "done"); err != nil {
			return err
		}
		return shared.ErrStoreUnavailable
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var body map[string]any
	dec := json.NewDecoder(rec.Body)
	require.NoError(t, dec.Decode(&body))
	assert.Equal(t, true, body["success"])
	assert.False(t, dec.More(), "exactly one JSON document")
}
