package session

import (
	"time"

	"alartmed/internal/gateway"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// HolderFactory builds a holder for a new client, optionally restoring the session
// the browser persisted.
type HolderFactory func(persisted *gateway.Session) *Holder

// Registry maps client ids to their holders. A holder unused for the idle TTL is
// closed and forgotten.
type Registry struct {
	holders   *cache.Cache
	group     singleflight.Group
	newHolder HolderFactory
	log       *logrus.Logger
}

func NewRegistry(idleTTL time.Duration, newHolder HolderFactory, log *logrus.Logger) *Registry {
	holders := cache.New(idleTTL, idleTTL/2)
	holders.OnEvicted(func(clientID string, value interface{}) {
		if holder, ok := value.(*Holder); ok {
			log.WithField("client_id", clientID).Debug("Closing idle client session")
			holder.Close()
		}
	})

	return &Registry{
		holders:   holders,
		newHolder: newHolder,
		log:       log,
	}
}

// Get returns the client's holder, creating it when missing. Concurrent first
// requests of one client share a single holder.
func (r *Registry) Get(clientID string, persisted *gateway.Session) *Holder {
	if holder, ok := r.lookup(clientID); ok {
		return holder
	}

	value, _, _ := r.group.Do(clientID, func() (interface{}, error) {
		if holder, ok := r.lookup(clientID); ok {
			return holder, nil
		}
		holder := r.newHolder(persisted)
		r.holders.SetDefault(clientID, holder)
		return holder, nil
	})
	return value.(*Holder)
}

func (r *Registry) lookup(clientID string) (*Holder, bool) {
	value, ok := r.holders.Get(clientID)
	if !ok {
		return nil, false
	}
	holder := value.(*Holder)
	if holder.Closed() {
		return nil, false
	}
	// refresh the idle deadline
	r.holders.SetDefault(clientID, holder)
	return holder, true
}

// Remove closes and forgets the client's holder.
func (r *Registry) Remove(clientID string) {
	r.holders.Delete(clientID)
}

func (r *Registry) Len() int {
	return r.holders.ItemCount()
}

// Close closes every holder.
func (r *Registry) Close() {
	for clientID := range r.holders.Items() {
		r.holders.Delete(clientID)
	}
	r.log.Info("Client sessions closed")
}
