package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectPing()

	checkers := map[string]HealthChecker{
		"database": &DatabaseHealthChecker{DB: db},
		"storage":  CheckFunc(func(context.Context) error { return errors.New("bucket missing") }),
	}

	rec := httptest.NewRecorder()
	HealthHandler(time.Now().Add(-time.Minute), checkers)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var got HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "unhealthy", got.Status)
	assert.Equal(t, "healthy", got.Checks["database"].Status)
	assert.Equal(t, "bucket missing", got.Checks["storage"].Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadinessAndLiveness(t *testing.T) {
	up := map[string]HealthChecker{"db": CheckFunc(func(context.Context) error { return nil })}
	down := map[string]HealthChecker{"db": CheckFunc(func(context.Context) error { return errors.New("down") })}

	rec := httptest.NewRecorder()
	ReadinessHandler(up)(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ready"`)

	rec = httptest.NewRecorder()
	ReadinessHandler(down)(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	LivenessHandler(rec, httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.Equal(t, "ok", rec.Body.String())
}
