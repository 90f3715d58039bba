package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchlane/interview-platform/internal/interview"
)

func newTestRouter(t *testing.T, adminSecret string) http.Handler {
	t.Helper()
	svc := interview.NewService(interview.ServiceConfig{
		Store: interview.NewMemoryStore(),
		Sink:  interview.NewMemorySink(),
	})
	return New(&Config{
		InterviewHandler: interview.NewHandler(svc, nil),
		AdminAuthSecret:  adminSecret,
	})
}

func startSession(t *testing.T, r http.Handler) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"founder_name": "Sarah Johnson", "startup_name": "EcoTech Solutions"})
	req := httptest.NewRequest(http.MethodPost, "/interviews", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var result interview.StartResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result.SessionID
}

func TestRouter_HealthEndpoint(t *testing.T) {
	r := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_InterviewLifecycleRoutes(t *testing.T) {
	r := newTestRouter(t, "")
	sessionID := startSession(t, r)

	body, _ := json.Marshal(map[string]string{"response": "We are solving invoice automation for small businesses with a proven product"})
	req := httptest.NewRequest(http.MethodPost, "/interviews/"+sessionID+"/responses", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/interviews/"+sessionID, nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/interviews/"+sessionID+"/end", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_AdminRoutesRequireJWT(t *testing.T) {
	r := newTestRouter(t, "test-secret")
	sessionID := startSession(t, r)

	req := httptest.NewRequest(http.MethodGet, "/admin/interviews/"+sessionID, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/admin/interviews/"+sessionID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_AdminRoutesAbsentWithoutSecret(t *testing.T) {
	r := newTestRouter(t, "")
	sessionID := startSession(t, r)

	req := httptest.NewRequest(http.MethodGet, "/admin/interviews/"+sessionID, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_RateLimitOnSessionCreation(t *testing.T) {
	svc := interview.NewService(interview.ServiceConfig{
		Store: interview.NewMemoryStore(),
		Sink:  interview.NewMemorySink(),
	})
	r := New(&Config{
		InterviewHandler: interview.NewHandler(svc, nil),
		RateLimitRPS:     0.001,
		RateLimitBurst:   1,
	})

	body := func() *bytes.Reader {
		b, _ := json.Marshal(map[string]string{"founder_name": "Sarah Johnson"})
		return bytes.NewReader(b)
	}

	req := httptest.NewRequest(http.MethodPost, "/interviews", body())
	req.Header.Set("X-Real-Ip", "9.9.9.9")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/interviews", body())
	req.Header.Set("X-Real-Ip", "9.9.9.9")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
