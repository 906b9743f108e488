package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"alartmed/config"
	"alartmed/internal/delivery/http/middleware"
	"alartmed/internal/gateway"
	"alartmed/internal/repository"
	"alartmed/internal/session"
	"alartmed/pkg/jwt"
	"alartmed/pkg/testutil"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireIdentity_DropsHolderThatFailedToRestore(t *testing.T) {
	mr, rdb := testutil.NewTestRedis(t)
	db := testutil.NewTestDB(t)
	log := testutil.NewLogger()
	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:         "test-secret",
		AccessExpiry:   time.Hour,
		RefreshExpiry:  24 * time.Hour,
		RecoveryExpiry: time.Hour,
	})
	backend := gateway.NewBackend(db, rdb, repository.NewIdentityRepository(), jwtService, gateway.NewLogMailer(log), log)
	profileRepo := repository.NewProfileRepository()

	registry := session.NewRegistry(time.Minute, func(persisted *gateway.Session) *session.Holder {
		return session.NewHolder(backend.NewClient(persisted), db, profileRepo, "http://app.test", log)
	}, log)
	t.Cleanup(registry.Close)

	issued, err := backend.SignUp(context.Background(), "a@example.com", "pw1234")
	require.NoError(t, err)
	persisted := &gateway.Session{AccessToken: issued.AccessToken, RefreshToken: issued.RefreshToken}

	m := middleware.NewAuthMiddleware(sessions.NewCookieStore([]byte("cookie-secret")), registry, log)
	reached := false
	guarded := m.RequireIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(holder *session.Holder) int {
		ctx := context.WithValue(context.Background(), middleware.HolderKey, holder)
		ctx = context.WithValue(ctx, middleware.ClientIDKey, "client-1")
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/dashboard", nil).WithContext(ctx))
		return rec.Code
	}

	mr.SetError("LOADING Redis is loading the dataset in memory")
	assert.Equal(t, http.StatusUnauthorized, serve(registry.Get("client-1", persisted)))
	assert.Zero(t, registry.Len())
	assert.False(t, reached)

	mr.SetError("")
	assert.Equal(t, http.StatusOK, serve(registry.Get("client-1", persisted)))
	assert.True(t, reached)
}
