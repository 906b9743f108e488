package middleware

import (
	"context"
	"net/http"

	"alartmed/internal/domain/entity"
	"alartmed/internal/gateway"
	"alartmed/internal/session"
	"alartmed/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	HolderKey   contextKey = "session_holder"
	ClientIDKey contextKey = "client_id"
	UserIDKey   contextKey = "user_id"
	IdentityKey contextKey = "identity"
	ProfileKey  contextKey = "profile"
)

const (
	CookieName = "alartmed_session"

	cookieClientID     = "sid"
	cookieAccessToken  = "access_token"
	cookieRefreshToken = "refresh_token"
)

type AuthMiddleware struct {
	store    sessions.Store
	registry *session.Registry
	log      *logrus.Logger
}

func NewAuthMiddleware(store sessions.Store, registry *session.Registry, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		store:    store,
		registry: registry,
		log:      log,
	}
}

// ClientSession attaches the browser client's session holder to the request.
// New clients get an id; tokens the browser persisted are handed to a fresh holder.
func (m *AuthMiddleware) ClientSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := m.store.Get(r, CookieName)
		if err != nil {
			// tampered or stale cookie, start over with the empty one returned
			m.log.Debugf("Discarding unreadable session cookie: %v", err)
		}

		clientID, _ := cookie.Values[cookieClientID].(string)
		if clientID == "" {
			clientID = uuid.NewString()
			cookie.Values[cookieClientID] = clientID
		}

		holder := m.registry.Get(clientID, persistedSession(cookie))
		writeTokens(cookie, holder.Session())
		if err := cookie.Save(r, w); err != nil {
			m.log.Warnf("Failed to save session cookie: %+v", err)
		}

		ctx := context.WithValue(r.Context(), HolderKey, holder)
		ctx = context.WithValue(ctx, ClientIDKey, clientID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Persist writes the holder's current tokens into the session cookie. Handlers
// that change the session call it before writing their response.
func (m *AuthMiddleware) Persist(w http.ResponseWriter, r *http.Request) {
	holder, ok := GetHolderFromContext(r.Context())
	if !ok {
		return
	}

	cookie, err := m.store.Get(r, CookieName)
	if err != nil {
		m.log.Debugf("Discarding unreadable session cookie: %v", err)
	}
	writeTokens(cookie, holder.Session())
	if err := cookie.Save(r, w); err != nil {
		m.log.Warnf("Failed to save session cookie: %+v", err)
	}
}

// RequireIdentity lets the request through only once the holder has settled on an
// authenticated identity. Otherwise the client is sent back to the start page.
func (m *AuthMiddleware) RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		holder, ok := GetHolderFromContext(r.Context())
		if !ok {
			response.Redirect(w, "Unauthorized", "/")
			return
		}

		state, err := holder.WaitSettled(r.Context())
		if err != nil {
			// the client went away while the session was loading
			return
		}
		if state.Status != session.StatusAuthenticated || state.Identity == nil {
			m.dropDegraded(r, holder)
			response.Redirect(w, "Unauthorized", "/")
			return
		}

		ctx := WithIdentity(r.Context(), state.Identity, state.Profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// dropDegraded forgets a holder that could not restore its session, so the
// client's next request starts over from the cookie.
func (m *AuthMiddleware) dropDegraded(r *http.Request, holder *session.Holder) {
	if !holder.Degraded() {
		return
	}
	clientID, ok := r.Context().Value(ClientIDKey).(string)
	if !ok || m.registry == nil {
		return
	}
	m.log.Warnf("Dropping client session %s after a failed restore", clientID)
	m.registry.Remove(clientID)
}

func persistedSession(cookie *sessions.Session) *gateway.Session {
	access, _ := cookie.Values[cookieAccessToken].(string)
	refresh, _ := cookie.Values[cookieRefreshToken].(string)
	if access == "" || refresh == "" {
		return nil
	}
	return &gateway.Session{AccessToken: access, RefreshToken: refresh}
}

func writeTokens(cookie *sessions.Session, current *gateway.Session) {
	if current == nil {
		delete(cookie.Values, cookieAccessToken)
		delete(cookie.Values, cookieRefreshToken)
		return
	}
	cookie.Values[cookieAccessToken] = current.AccessToken
	cookie.Values[cookieRefreshToken] = current.RefreshToken
}

// WithIdentity stores the authenticated identity and its profile in ctx
func WithIdentity(ctx context.Context, identity *gateway.User, profile *entity.Profile) context.Context {
	ctx = context.WithValue(ctx, IdentityKey, identity)
	ctx = context.WithValue(ctx, UserIDKey, identity.ID)
	if profile != nil {
		ctx = context.WithValue(ctx, ProfileKey, profile)
	}
	return ctx
}

// GetHolderFromContext extracts the client's session holder from context
func GetHolderFromContext(ctx context.Context) (*session.Holder, bool) {
	holder, ok := ctx.Value(HolderKey).(*session.Holder)
	return holder, ok
}

// GetUserIDFromContext extracts user ID from context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetIdentityFromContext extracts the authenticated identity from context
func GetIdentityFromContext(ctx context.Context) (*gateway.User, bool) {
	identity, ok := ctx.Value(IdentityKey).(*gateway.User)
	return identity, ok
}

// GetProfileFromContext extracts the identity's profile from context
func GetProfileFromContext(ctx context.Context) (*entity.Profile, bool) {
	profile, ok := ctx.Value(ProfileKey).(*entity.Profile)
	return profile, ok
}
