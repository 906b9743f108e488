package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SignInEnqueuesEventBeforeReturning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.backend.SignUp(ctx, "a@example.com", "pw1234")
	require.NoError(t, err)

	client := f.backend.NewClient(nil)
	defer client.Close()
	sub := client.OnAuthStateChange(0)

	session, err := client.SignInWithPassword(ctx, "a@example.com", "pw1234")
	require.NoError(t, err)
	assert.Equal(t, int64(1), sub.Sent())

	ev := nextEvent(t, sub)
	assert.Equal(t, EventSignedIn, ev.Type)
	require.NotNil(t, ev.Session)
	assert.Equal(t, session.User.ID, ev.Session.User.ID)

	current, err := client.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.AccessToken, current.AccessToken)
}

func TestClient_FailedSignInEmitsNothing(t *testing.T) {
	f := newFixture(t)

	client := f.backend.NewClient(nil)
	defer client.Close()
	sub := client.OnAuthStateChange(1)

	_, err := client.SignInWithPassword(context.Background(), "a@example.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Zero(t, sub.Sent())
	assert.Nil(t, client.CurrentSession())
}

func TestClient_SignOutPropagatesToOtherClients(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.backend.SignUp(ctx, "a@example.com", "pw1234")
	require.NoError(t, err)

	first := f.backend.NewClient(nil)
	defer first.Close()
	second := f.backend.NewClient(nil)
	defer second.Close()

	_, err = first.SignInWithPassword(ctx, "a@example.com", "pw1234")
	require.NoError(t, err)
	_, err = second.SignInWithPassword(ctx, "a@example.com", "pw1234")
	require.NoError(t, err)

	firstSub := first.OnAuthStateChange(1)
	secondSub := second.OnAuthStateChange(1)

	require.NoError(t, first.SignOut(ctx))
	assert.Equal(t, EventSignedOut, nextEvent(t, firstSub).Type)

	ev := nextEvent(t, secondSub)
	assert.Equal(t, EventSignedOut, ev.Type)
	assert.Nil(t, ev.Session)
	assert.Nil(t, second.CurrentSession())

	// own sign-out is reported once
	select {
	case ev := <-firstSub.C:
		t.Fatalf("unexpected second event %s", ev.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestClient_GetSessionRefreshesExpiredToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.backend.SignUp(ctx, "a@example.com", "pw1234")
	require.NoError(t, err)

	client := f.backend.NewClient(nil)
	defer client.Close()
	original, err := client.SignInWithPassword(ctx, "a@example.com", "pw1234")
	require.NoError(t, err)

	sub := client.OnAuthStateChange(1)
	f.advance(2 * time.Minute)

	refreshed, err := client.GetSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, refreshed)
	assert.NotEqual(t, original.AccessToken, refreshed.AccessToken)
	assert.Equal(t, EventTokenRefreshed, nextEvent(t, sub).Type)
}

func TestClient_RestoresPersistedSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.backend.SignUp(ctx, "a@example.com", "pw1234")
	require.NoError(t, err)

	persisted := &Session{AccessToken: session.AccessToken, RefreshToken: session.RefreshToken}
	client := f.backend.NewClient(persisted)
	defer client.Close()
	sub := client.OnAuthStateChange(1)

	restored, err := client.GetSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, session.User.ID, restored.User.ID)
	assert.Zero(t, sub.Sent())
}

func TestClient_DropsRevokedPersistedSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.backend.SignUp(ctx, "a@example.com", "pw1234")
	require.NoError(t, err)
	require.NoError(t, f.backend.RevokeAllUserTokens(ctx, session.User.ID))

	client := f.backend.NewClient(session)
	defer client.Close()

	restored, err := client.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, restored)
	assert.Nil(t, client.CurrentSession())
}

func TestClient_CloseEndsSubscriptions(t *testing.T) {
	f := newFixture(t)

	client := f.backend.NewClient(nil)
	sub := client.OnAuthStateChange(1)
	client.NotifyUserUpdated()
	client.Close()

	_, err := client.GetSession(context.Background())
	assert.NoError(t, err)

	// queued events may be dropped but the channel must close
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-sub.C:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	late := client.OnAuthStateChange(1)
	_, ok := <-late.C
	assert.False(t, ok)
}
