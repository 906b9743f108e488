package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"alartmed/pkg/jwt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sourcegraph/conc"
)

type listener struct {
	userID uuid.UUID
	pubsub *redis.PubSub
}

// Client is one browser client's view of authentication: it owns the current
// session and tells subscribers whenever that session changes.
type Client struct {
	backend *Backend

	mu       sync.Mutex
	session  *Session
	verified bool
	subs     map[*Subscription]struct{}
	listener *listener
	closed   bool
	wg       conc.WaitGroup
}

// NewClient creates a client, optionally restoring a session persisted by the
// browser. The restored session is verified on the first GetSession.
func (b *Backend) NewClient(persisted *Session) *Client {
	return &Client{
		backend: b,
		session: persisted.clone(),
		subs:    make(map[*Subscription]struct{}),
	}
}

// OnAuthStateChange subscribes to session changes. buffer sizes the receive channel.
func (c *Client) OnAuthStateChange(buffer int) *Subscription {
	sub := newSubscription(buffer, c.detach)

	c.mu.Lock()
	closed := c.closed
	if !closed {
		c.subs[sub] = struct{}{}
	}
	c.mu.Unlock()

	if closed {
		sub.Unsubscribe()
	}
	return sub
}

func (c *Client) detach(sub *Subscription) {
	c.mu.Lock()
	delete(c.subs, sub)
	c.mu.Unlock()
}

// CurrentSession returns the held session without contacting the backend.
func (c *Client) CurrentSession() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.clone()
}

// GetSession returns the current session or nil. An expired session is refreshed
// and a revoked one is dropped.
func (c *Client) GetSession(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.session == nil {
		return nil, nil
	}

	if !c.verified {
		claims, err := c.backend.lookupAccessToken(ctx, c.session.AccessToken)
		switch {
		case err == nil:
			c.session.User = User{ID: claims.UserID, Email: claims.Email}
			c.session.ExpiresAt = claims.ExpiresAt.Time
			c.verified = true
			c.startListenerLocked(ctx, claims.UserID)
		case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, ErrSessionMissing):
			return c.refreshLocked(ctx)
		default:
			return nil, err
		}
		return c.session.clone(), nil
	}

	if !c.backend.jwtService.Now().Before(c.session.ExpiresAt) {
		return c.refreshLocked(ctx)
	}
	return c.session.clone(), nil
}

func (c *Client) refreshLocked(ctx context.Context) (*Session, error) {
	next, err := c.backend.RefreshSession(ctx, c.session.RefreshToken)
	if err != nil {
		if _, ok := AsAuthError(err); !ok {
			return nil, err
		}
		wasVerified := c.verified
		c.clearLocked()
		if wasVerified {
			c.emitLocked(EventSignedOut)
		}
		return nil, nil
	}

	c.adoptLocked(ctx, next)
	c.emitLocked(EventTokenRefreshed)
	return c.session.clone(), nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.backend.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	c.adoptLocked(ctx, session)
	c.emitLocked(EventSignedIn)
	return c.session.clone(), nil
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.backend.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	c.adoptLocked(ctx, session)
	c.emitLocked(EventSignedIn)
	return c.session.clone(), nil
}

// SignOut ends the session on every client of the user. The local session is
// cleared even when the backend call fails.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil
	}

	c.stopListenerLocked()
	err := c.backend.SignOut(ctx, c.session.AccessToken)
	c.clearLocked()
	c.emitLocked(EventSignedOut)

	if err != nil && !errors.Is(err, ErrSessionMissing) {
		return err
	}
	return nil
}

func (c *Client) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	return c.backend.ResetPasswordForEmail(ctx, email, redirectTo)
}

// NotifyUserUpdated tells subscribers that data attached to the user changed.
func (c *Client) NotifyUserUpdated() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emitLocked(EventUserUpdated)
}

// Close stops the remote listener and closes every subscription.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopListenerLocked()
	subs := make([]*Subscription, 0, len(c.subs))
	for sub := range c.subs {
		subs = append(subs, sub)
	}
	c.subs = make(map[*Subscription]struct{})
	c.mu.Unlock()

	c.wg.Wait()
	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

func (c *Client) adoptLocked(ctx context.Context, session *Session) {
	if c.listener != nil && c.listener.userID != session.User.ID {
		c.stopListenerLocked()
	}
	c.session = session
	c.verified = true
	if c.listener == nil {
		c.startListenerLocked(ctx, session.User.ID)
	}
}

func (c *Client) clearLocked() {
	c.stopListenerLocked()
	c.session = nil
	c.verified = false
}

func (c *Client) emitLocked(eventType EventType) {
	for sub := range c.subs {
		sub.enqueue(AuthEvent{Type: eventType, Session: c.session.clone()})
	}
}

func (c *Client) startListenerLocked(ctx context.Context, userID uuid.UUID) {
	if c.listener != nil {
		return
	}

	pubsub, err := c.backend.Subscribe(ctx, userID)
	if err != nil {
		// the session still works; it just won't see sign-outs from other clients
		c.backend.log.Warnf("Failed to listen for auth events: %+v", err)
		return
	}

	l := &listener{userID: userID, pubsub: pubsub}
	c.listener = l
	c.wg.Go(func() {
		c.listen(l)
	})
}

func (c *Client) stopListenerLocked() {
	if c.listener == nil {
		return
	}
	if err := c.listener.pubsub.Close(); err != nil {
		c.backend.log.Warnf("Failed to close auth event subscription: %+v", err)
	}
	c.listener = nil
}

func (c *Client) listen(l *listener) {
	for msg := range l.pubsub.Channel() {
		var ev remoteEvent
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			c.backend.log.Warnf("Failed to decode auth event: %+v", err)
			continue
		}
		if ev.Type == EventSignedOut {
			c.handleRemoteSignOut(l)
		}
	}
}

func (c *Client) handleRemoteSignOut(l *listener) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.listener != l {
		return
	}
	c.clearLocked()
	c.emitLocked(EventSignedOut)
}
