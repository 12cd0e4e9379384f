package services

import (
	"time"

	"github.com/ad/go-telegram-helpdesk/internal/fsm"
	"github.com/jellydator/ttlcache/v3"
)

// PendingInput is what a user picked from an inline keyboard while the bot
// waits for the text that completes the action.
type PendingInput struct {
	State    string
	TargetID int64
}

// PendingInputStore keeps at most one pending input per user. Entries expire
// after the configured TTL.
type PendingInputStore struct {
	cache *ttlcache.Cache[int64, PendingInput]
}

func NewPendingInputStore(ttl time.Duration) *PendingInputStore {
	cache := ttlcache.New(
		ttlcache.WithTTL[int64, PendingInput](ttl),
		ttlcache.WithDisableTouchOnHit[int64, PendingInput](),
	)
	return &PendingInputStore{cache: cache}
}

// Start runs the expiry loop until Stop is called.
func (s *PendingInputStore) Start() {
	go s.cache.Start()
}

func (s *PendingInputStore) Stop() {
	s.cache.Stop()
}

func (s *PendingInputStore) Set(userID int64, state string, targetID int64) {
	s.cache.Set(userID, PendingInput{State: state, TargetID: targetID}, ttlcache.DefaultTTL)
}

// Take returns and clears the pending input of userID.
func (s *PendingInputStore) Take(userID int64) (PendingInput, bool) {
	item, ok := s.cache.GetAndDelete(userID)
	if !ok || item == nil {
		return PendingInput{State: fsm.StateIdle}, false
	}
	return item.Value(), true
}

func (s *PendingInputStore) Get(userID int64) (PendingInput, bool) {
	item := s.cache.Get(userID)
	if item == nil {
		return PendingInput{State: fsm.StateIdle}, false
	}
	return item.Value(), true
}

func (s *PendingInputStore) Clear(userID int64) bool {
	_, ok := s.cache.GetAndDelete(userID)
	return ok
}
