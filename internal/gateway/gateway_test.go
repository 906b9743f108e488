package gateway

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"alartmed/config"
	"alartmed/internal/repository"
	"alartmed/pkg/jwt"
	"alartmed/pkg/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureMailer struct {
	mu    sync.Mutex
	links []string
}

func (m *captureMailer) SendPasswordReset(ctx context.Context, email, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links = append(m.links, link)
	return nil
}

func (m *captureMailer) last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.links) == 0 {
		return ""
	}
	return m.links[len(m.links)-1]
}

type fixture struct {
	backend *Backend
	server  *miniredis.Miniredis
	mailer  *captureMailer
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	server, rdb := testutil.NewTestRedis(t)
	f := &fixture{server: server, mailer: &captureMailer{}, now: time.Now()}
	f.backend = newBackendWith(t, rdb, f)
	return f
}

func newBackendWith(t *testing.T, rdb *redis.Client, f *fixture) *Backend {
	t.Helper()

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:         "test-secret",
		AccessExpiry:   time.Minute,
		RefreshExpiry:  time.Hour,
		RecoveryExpiry: 10 * time.Minute,
	}).WithClock(func() time.Time { return f.now })

	return NewBackend(
		testutil.NewTestDB(t),
		rdb,
		repository.NewIdentityRepository(),
		jwtService,
		f.mailer,
		testutil.NewLogger(),
	)
}

// advance moves both the token clock and Redis key expiry forward.
func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
	f.server.FastForward(d)
}

func nextEvent(t *testing.T, sub *Subscription) AuthEvent {
	t.Helper()

	select {
	case ev, ok := <-sub.C:
		require.True(t, ok, "subscription closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for auth event")
		return AuthEvent{}
	}
}

func TestBackend_SignUpAndSignIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.backend.SignUp(ctx, "A@Example.com", "pw1234")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", session.User.Email)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)

	_, err = f.backend.SignUp(ctx, "a@example.com", "other-pw")
	assert.ErrorIs(t, err, ErrUserAlreadyRegistered)

	signedIn, err := f.backend.SignInWithPassword(ctx, "a@example.com", "pw1234")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, signedIn.User.ID)

	user, err := f.backend.GetUser(ctx, signedIn.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, user.ID)
}

func TestBackend_SignUpRejectsWeakPassword(t *testing.T) {
	f := newFixture(t)

	_, err := f.backend.SignUp(context.Background(), "a@example.com", "123")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestBackend_SignInInvalidCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.backend.SignUp(ctx, "a@example.com", "pw1234")
	require.NoError(t, err)

	_, err = f.backend.SignInWithPassword(ctx, "a@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.backend.SignInWithPassword(ctx, "nobody@example.com", "pw1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "Invalid login credentials", err.Error())
}

func TestBackend_RefreshSessionRotatesTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.backend.SignUp(ctx, "a@example.com", "pw1234")
	require.NoError(t, err)

	next, err := f.backend.RefreshSession(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, next.RefreshToken)

	_, err = f.backend.RefreshSession(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestBackend_SignOutRevokesEveryToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.backend.SignUp(ctx, "a@example.com", "pw1234")
	require.NoError(t, err)
	second, err := f.backend.SignInWithPassword(ctx, "a@example.com", "pw1234")
	require.NoError(t, err)

	require.NoError(t, f.backend.SignOut(ctx, first.AccessToken))

	_, err = f.backend.GetUser(ctx, second.AccessToken)
	assert.ErrorIs(t, err, ErrSessionMissing)
	_, err = f.backend.RefreshSession(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestBackend_PasswordRecovery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.backend.SignUp(ctx, "a@example.com", "pw1234")
	require.NoError(t, err)

	require.NoError(t, f.backend.ResetPasswordForEmail(ctx, "a@example.com", "http://localhost:5173/reset-password"))

	link, err := url.Parse(f.mailer.last())
	require.NoError(t, err)
	assert.Equal(t, "/reset-password", link.Path)
	token := link.Query().Get("token")
	require.NotEmpty(t, token)

	userID, err := f.backend.UpdatePasswordWithRecovery(ctx, token, "newpass")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, userID)

	_, err = f.backend.SignInWithPassword(ctx, "a@example.com", "pw1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.backend.SignInWithPassword(ctx, "a@example.com", "newpass")
	assert.NoError(t, err)

	_, err = f.backend.UpdatePasswordWithRecovery(ctx, token, "another")
	assert.ErrorIs(t, err, ErrInvalidRecoveryToken)
}

func TestBackend_ResetPasswordUnknownEmailIsSilent(t *testing.T) {
	f := newFixture(t)

	err := f.backend.ResetPasswordForEmail(context.Background(), "ghost@example.com", "http://localhost/reset-password")
	assert.NoError(t, err)
	assert.Empty(t, f.mailer.last())
}

func TestBackend_RecoveryTokenExpires(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.backend.SignUp(ctx, "a@example.com", "pw1234")
	require.NoError(t, err)
	require.NoError(t, f.backend.ResetPasswordForEmail(ctx, "a@example.com", "http://localhost/reset-password"))

	link, err := url.Parse(f.mailer.last())
	require.NoError(t, err)

	f.advance(11 * time.Minute)
	_, err = f.backend.UpdatePasswordWithRecovery(ctx, link.Query().Get("token"), "newpass")
	assert.ErrorIs(t, err, ErrInvalidRecoveryToken)
}
