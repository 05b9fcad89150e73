// Package session holds the stores behind app/session.Store.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	appsession "lessons_reporter_bot/internal/app/session"
)

// MemoryStore keeps sessions in process memory. Sessions are stored encoded
// so a caller never shares a pointer with the store.
type MemoryStore struct {
	mu    sync.Mutex
	items map[int64][]byte
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[int64][]byte), now: time.Now}
}

func (s *MemoryStore) Load(_ context.Context, userID int64) (*appsession.Session, error) {
	s.mu.Lock()
	raw, ok := s.items[userID]
	s.mu.Unlock()

	if !ok {
		return appsession.New(userID), nil
	}
	return decode(userID, raw)
}

func (s *MemoryStore) Save(_ context.Context, sess *appsession.Session) error {
	raw, err := encode(sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items[sess.UserID] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID int64) error {
	s.mu.Lock()
	delete(s.items, userID)
	s.mu.Unlock()
	return nil
}

// Sweep drops sessions not updated within ttl and returns how many were dropped.
func (s *MemoryStore) Sweep(_ context.Context, ttl time.Duration) (int, error) {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for userID, raw := range s.items {
		var stamp struct {
			UpdatedAt time.Time `json:"updated_at"`
		}
		if err := json.Unmarshal(raw, &stamp); err != nil {
			return dropped, fmt.Errorf("decode session (user_id: %d): %w", userID, err)
		}
		if stamp.UpdatedAt.Before(cutoff) {
			delete(s.items, userID)
			dropped++
		}
	}
	return dropped, nil
}

func encode(sess *appsession.Session) ([]byte, error) {
	raw, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encode session (user_id: %d): %w", sess.UserID, err)
	}
	return raw, nil
}

func decode(userID int64, raw []byte) (*appsession.Session, error) {
	var sess appsession.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session (user_id: %d): %w", userID, err)
	}
	sess.UserID = userID
	return &sess, nil
}
