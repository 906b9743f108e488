package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"alartmed/internal/delivery/http/middleware"
	"alartmed/internal/domain/entity"
	"alartmed/internal/gateway"
	"alartmed/pkg/testutil"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logEntry struct {
	Msg    string `json:"msg"`
	Level  string `json:"level"`
	URL    string `json:"url"`
	Agent  string `json:"agent"`
	Status int    `json:"status"`
	IP     string `json:"ip"`
	Method string `json:"method"`
}

func TestLoggerMiddleware(t *testing.T) {
	b := bytes.Buffer{}
	l := logrus.New()
	l.SetOutput(&b)
	l.SetFormatter(&logrus.JSONFormatter{})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest("GET", "/test?id=123", nil)
	req.RemoteAddr = "1.2.3.4"
	req.Header.Set("User-Agent", "test-runner")

	rec := httptest.NewRecorder()
	middleware.NewLoggerMiddleware(l).Handle(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)

	var e logEntry
	require.NoError(t, json.Unmarshal(b.Bytes(), &e))
	assert.Equal(t, "request received", e.Msg)
	assert.Equal(t, "info", e.Level)
	assert.Equal(t, "/test?id=123", e.URL)
	assert.Equal(t, "test-runner", e.Agent)
	assert.Equal(t, http.StatusTeapot, e.Status)
	assert.Equal(t, "1.2.3.4", e.IP)
	assert.Equal(t, "GET", e.Method)
}

func TestRecoverMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	middleware.NewRecoverMiddleware(testutil.NewLogger()).Handle(next).
		ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	rec := httptest.NewRecorder()
	middleware.NewCORSMiddleware("http://localhost:5173").Handle(next).
		ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/appointments", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestIdentityContextHelpers(t *testing.T) {
	identity := &gateway.User{ID: uuid.New(), Email: "a@example.com"}
	profile := &entity.Profile{ID: identity.ID, Name: "Ana", Role: entity.RolePatient}

	ctx := middleware.WithIdentity(context.Background(), identity, profile)

	userID, ok := middleware.GetUserIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, identity.ID, userID)

	got, ok := middleware.GetIdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, identity, got)

	gotProfile, ok := middleware.GetProfileFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "Ana", gotProfile.Name)

	_, ok = middleware.GetHolderFromContext(ctx)
	assert.False(t, ok)
}

func TestRequireIdentity_NoHolderRedirects(t *testing.T) {
	m := middleware.NewAuthMiddleware(nil, nil, testutil.NewLogger())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("guarded handler must not run")
	})

	rec := httptest.NewRecorder()
	m.RequireIdentity(next).ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/dashboard", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "/", body.Data["redirect"])
}
