package service

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/tradepilot/tradepilot/internal/models"
)

// HistoryStore keeps a short, TTL-bounded conversation window per session so
// follow-up questions ("what was the ticker") can resolve against earlier
// exchanges. Entries age out with the session; nothing is persisted.
type HistoryStore struct {
	cache  *gocache.Cache
	window int
}

func NewHistoryStore(window int, ttl time.Duration) *HistoryStore {
	if window < 1 {
		window = 1
	}
	return &HistoryStore{
		cache:  gocache.New(ttl, 2*ttl),
		window: window,
	}
}

// Get returns the session's history in chronological order, oldest first.
func (s *HistoryStore) Get(sessionID string) []models.ConversationEntry {
	if sessionID == "" {
		return nil
	}
	v, ok := s.cache.Get(sessionID)
	if !ok {
		return nil
	}
	entries := v.([]models.ConversationEntry)
	out := make([]models.ConversationEntry, len(entries))
	copy(out, entries)
	return out
}

// Append records one exchange and trims the window to its configured size.
// Appending also refreshes the session TTL.
func (s *HistoryStore) Append(sessionID string, entry models.ConversationEntry) {
	if sessionID == "" {
		return
	}
	entries := s.Get(sessionID)
	entries = append(entries, entry)
	if len(entries) > s.window {
		entries = entries[len(entries)-s.window:]
	}
	s.cache.SetDefault(sessionID, entries)
}
