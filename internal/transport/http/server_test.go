package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/lecturechat/internal/config"
	"github.com/xiaot623/gogo/lecturechat/internal/domain"
	"github.com/xiaot623/gogo/lecturechat/internal/repository"
	"github.com/xiaot623/gogo/lecturechat/internal/service"
)

func TestRateLimitRejectsBurst(t *testing.T) {
	cfg := &config.Config{AppBaseURL: "http://localhost:8501", RateLimit: "2-M"}
	e, err := NewServer(service.New(repository.NewMemoryStore()), cfg)
	require.NoError(t, err)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/session", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// reads are never limited
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewServerRejectsBadRate(t *testing.T) {
	_, err := NewServer(service.New(repository.NewMemoryStore()), &config.Config{RateLimit: "lots"})
	assert.Error(t, err)
}

func TestHealthAdvertisesPollInterval(t *testing.T) {
	cfg := &config.Config{AppBaseURL: "http://localhost:8501", RateLimit: "20-S", PollInterval: 2 * time.Second}
	e, err := NewServer(service.New(repository.NewMemoryStore()), cfg)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp domain.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(2000), resp.PollIntervalMS)
}
