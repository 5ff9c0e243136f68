package memory

import (
	"time"

	"trade-alerts-be/pkg/store"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// FlowSessionRepository holds in-flight cancellation wizard sessions. One
// session per user; starting a new flow replaces the previous one, which is
// how stale in-flight requests get invalidated.
type FlowSessionRepository struct {
	cache *cache.Cache
}

func NewFlowSessionRepository() *FlowSessionRepository {
	// Sessions idle for an hour are abandoned flows; purge every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &FlowSessionRepository{
		cache: c,
	}
}

func (r *FlowSessionRepository) Save(session *store.FlowSession) {
	r.cache.Set(session.UserID.String(), session, cache.DefaultExpiration)
}

func (r *FlowSessionRepository) Get(userID uuid.UUID) (*store.FlowSession, bool) {
	if x, found := r.cache.Get(userID.String()); found {
		return x.(*store.FlowSession), true
	}
	return nil, false
}

func (r *FlowSessionRepository) Delete(userID uuid.UUID) {
	r.cache.Delete(userID.String())
}
