// Package session keeps the authentication state of every browser client.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"alartmed/internal/domain/entity"
	domainRepo "alartmed/internal/domain/repository"
	"alartmed/internal/gateway"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
	"gorm.io/gorm"
)

type Status string

const (
	StatusLoading         Status = "loading"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// State is a snapshot of a client's authentication. Identity and Profile are nil
// unless Status is StatusAuthenticated; Profile may also be nil when it is missing.
type State struct {
	Status   Status
	Identity *gateway.User
	Profile  *entity.Profile
}

// AuthClient is the per-client authentication surface the holder drives.
type AuthClient interface {
	GetSession(ctx context.Context) (*gateway.Session, error)
	CurrentSession() *gateway.Session
	SignInWithPassword(ctx context.Context, email, password string) (*gateway.Session, error)
	SignUp(ctx context.Context, email, password string) (*gateway.Session, error)
	SignOut(ctx context.Context) error
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error
	OnAuthStateChange(buffer int) *gateway.Subscription
	NotifyUserUpdated()
	Close()
}

// Holder owns the State of one browser client. A single goroutine applies every
// change; callers only read snapshots.
type Holder struct {
	client      AuthClient
	db          *gorm.DB
	profileRepo domainRepo.ProfileRepository
	publicURL   string
	log         *logrus.Logger

	sub    *gateway.Subscription
	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup
	once   sync.Once

	mu          sync.RWMutex
	state       State
	initialized bool
	degraded    bool
	processed   int64
	closed      bool
	changed     chan struct{}
}

func NewHolder(
	client AuthClient,
	db *gorm.DB,
	profileRepo domainRepo.ProfileRepository,
	publicURL string,
	log *logrus.Logger,
) *Holder {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Holder{
		client:      client,
		db:          db,
		profileRepo: profileRepo,
		publicURL:   strings.TrimRight(publicURL, "/"),
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
		state:       State{Status: StatusLoading},
		changed:     make(chan struct{}),
	}

	// subscribe before the initial fetch so no change is missed
	h.sub = client.OnAuthStateChange(8)
	h.wg.Go(h.run)
	return h
}

func (h *Holder) run() {
	h.initialize()
	for ev := range h.sub.C {
		h.apply(ev)
	}
}

func (h *Holder) initialize() {
	session, err := h.client.GetSession(h.ctx)
	if err != nil {
		h.log.Warnf("Failed to get current session: %+v", err)
	}

	next := h.resolve(session)

	h.mu.Lock()
	h.state = next
	h.initialized = true
	h.degraded = err != nil
	h.broadcastLocked()
	h.mu.Unlock()
}

func (h *Holder) apply(ev gateway.AuthEvent) {
	next := h.resolve(ev.Session)

	h.mu.Lock()
	h.state = next
	h.degraded = false
	h.processed++
	h.broadcastLocked()
	h.mu.Unlock()
}

func (h *Holder) resolve(session *gateway.Session) State {
	if session == nil {
		return State{Status: StatusUnauthenticated}
	}

	identity := session.User
	profile, err := h.profileRepo.FindByID(h.ctx, h.db, identity.ID)
	if err != nil {
		h.log.Warnf("Failed to fetch profile: %+v", err)
		profile = nil
	}

	return State{Status: StatusAuthenticated, Identity: &identity, Profile: profile}
}

func (h *Holder) broadcastLocked() {
	close(h.changed)
	h.changed = make(chan struct{})
}

// State returns the current snapshot. It reports StatusLoading while a session
// change is still being applied.
func (h *Holder) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stateLocked()
}

func (h *Holder) stateLocked() State {
	if h.closed {
		return State{Status: StatusUnauthenticated}
	}
	if !h.initialized || h.processed < h.sub.Sent() {
		return State{Status: StatusLoading}
	}
	return h.state
}

// WaitSettled blocks until the state is no longer loading or ctx is done.
func (h *Holder) WaitSettled(ctx context.Context) (State, error) {
	for {
		h.mu.RLock()
		state := h.stateLocked()
		changed := h.changed
		h.mu.RUnlock()

		if state.Status != StatusLoading {
			return state, nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return state, ctx.Err()
		}
	}
}

// Session returns the tokens currently held for this client, or nil.
func (h *Holder) Session() *gateway.Session {
	return h.client.CurrentSession()
}

func (h *Holder) Login(ctx context.Context, email, password string) error {
	_, err := h.client.SignInWithPassword(ctx, email, password)
	return err
}

// Signup creates the identity and then its patient profile. A profile failure is
// returned but the identity is kept.
func (h *Holder) Signup(ctx context.Context, email, password, name, phone string) error {
	session, err := h.client.SignUp(ctx, email, password)
	if err != nil {
		return err
	}

	profile := &entity.Profile{
		ID:    session.User.ID,
		Name:  name,
		Phone: phone,
		Role:  entity.RolePatient,
	}
	if err := h.profileRepo.Create(ctx, h.db, profile); err != nil {
		h.log.Warnf("Failed to create profile: %+v", err)
		return fmt.Errorf("failed to create profile: %w", err)
	}

	h.client.NotifyUserUpdated()
	return nil
}

func (h *Holder) Logout(ctx context.Context) error {
	return h.client.SignOut(ctx)
}

func (h *Holder) ResetPassword(ctx context.Context, email string) error {
	return h.client.ResetPasswordForEmail(ctx, email, h.publicURL+"/reset-password")
}

// Degraded reports that the persisted session could not be checked when the holder
// started, so an unauthenticated state may be wrong. It clears on the next session change.
func (h *Holder) Degraded() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.degraded
}

// Closed reports whether Close has been called.
func (h *Holder) Closed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.closed
}

// Close stops the event loop and releases the client.
func (h *Holder) Close() {
	h.once.Do(func() {
		h.sub.Unsubscribe()
		h.cancel()
		if recovered := h.wg.WaitAndRecover(); recovered != nil {
			h.log.Errorf("Session holder panicked: %v", recovered.Value)
		}
		h.client.Close()

		h.mu.Lock()
		h.closed = true
		h.broadcastLocked()
		h.mu.Unlock()
	})
}
