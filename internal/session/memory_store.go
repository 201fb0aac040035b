package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/NagasuriRaviTeja/movie-magic/internal/utils"
)

// MemoryStore is the fallback session store used when Redis is not
// available at startup, and the double used by tests. Sessions do not
// survive a process restart. Values are stored marshaled so Get returns an
// independent copy, matching RedisStore semantics.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memEntry
}

type memEntry struct {
	raw     []byte
	expires time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, entries: make(map[string]memEntry)}
}

func (m *MemoryStore) Create(ctx context.Context, email string) (*Session, error) {
	token, err := utils.RandomHex(tokenBytes)
	if err != nil {
		return nil, err
	}
	s := &Session{Token: token, Email: email}
	if err := m.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[token]
	if !ok || time.Now().After(e.expires) {
		delete(m.entries, token)
		return nil, ErrNotFound
	}
	var s Session
	if err := json.Unmarshal(e.raw, &s); err != nil {
		return nil, err
	}
	s.Token = token
	return &s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[s.Token] = memEntry{raw: raw, expires: time.Now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, token)
	return nil
}
