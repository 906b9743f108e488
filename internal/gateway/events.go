package gateway

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventSignedIn       EventType = "SIGNED_IN"
	EventSignedOut      EventType = "SIGNED_OUT"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
	EventUserUpdated    EventType = "USER_UPDATED"
)

type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

// AuthEvent is a session change. Session is nil after EventSignedOut.
type AuthEvent struct {
	Type    EventType
	Session *Session
}

// Subscription delivers AuthEvents in order. Delivery never blocks the emitter:
// events queue inside the subscription until the receiver drains C.
type Subscription struct {
	C <-chan AuthEvent

	out    chan AuthEvent
	mu     sync.Mutex
	queue  []AuthEvent
	wake   chan struct{}
	done   chan struct{}
	sent   atomic.Int64
	once   sync.Once
	detach func(*Subscription)
}

func newSubscription(buffer int, detach func(*Subscription)) *Subscription {
	if buffer < 0 {
		buffer = 0
	}
	s := &Subscription{
		out:    make(chan AuthEvent, buffer),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		detach: detach,
	}
	s.C = s.out
	go s.pump()
	return s
}

// Sent is the number of events enqueued so far.
func (s *Subscription) Sent() int64 {
	return s.sent.Load()
}

// Unsubscribe stops delivery and closes C. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		if s.detach != nil {
			s.detach(s)
		}
		close(s.done)
	})
}

func (s *Subscription) enqueue(ev AuthEvent) {
	s.mu.Lock()
	s.queue = append(s.queue, ev)
	s.sent.Add(1)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Subscription) pump() {
	defer close(s.out)
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}
		ev := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- ev:
		case <-s.done:
			return
		}
	}
}
