package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/samutthan/internal/domain/wizard"
)

type sessionRecord struct {
	payload   wizard.Session
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory for tests and single node dev.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]sessionRecord
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore constructs a store whose entries expire ttl after their last write.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]sessionRecord),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create implements wizard.Store.
func (s *MemoryStore) Create(_ context.Context, session wizard.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.sessions[session.ID]; ok && !s.expired(record) {
		return wizard.ErrSessionExists
	}
	s.put(session)
	return nil
}

// Get implements wizard.Store.
func (s *MemoryStore) Get(_ context.Context, id string) (wizard.Session, bool, error) {
	s.mu.RLock()
	record, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return wizard.Session{}, false, nil
	}
	if s.expired(record) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return wizard.Session{}, false, nil
	}
	return cloneSession(record.payload), true, nil
}

// Save implements wizard.Store and refreshes the TTL.
func (s *MemoryStore) Save(_ context.Context, session wizard.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(session)
	return nil
}

// Delete implements wizard.Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) put(session wizard.Session) {
	exp := time.Time{}
	if s.ttl > 0 {
		exp = s.now().Add(s.ttl)
	}
	s.sessions[session.ID] = sessionRecord{payload: cloneSession(session), expiresAt: exp}
}

func (s *MemoryStore) expired(record sessionRecord) bool {
	if record.expiresAt.IsZero() {
		return false
	}
	return record.expiresAt.Before(s.now())
}

// cloneSession copies the slices and pointers a caller could mutate.
func cloneSession(in wizard.Session) wizard.Session {
	out := in
	out.Record.Symptoms = append([]string{}, in.Record.Symptoms...)
	if in.Diagnosis != nil {
		result := *in.Diagnosis
		result.Recommendations.Food = append([]string(nil), in.Diagnosis.Recommendations.Food...)
		result.Recommendations.Lifestyle = append([]string(nil), in.Diagnosis.Recommendations.Lifestyle...)
		result.Recommendations.Herbs = append([]string(nil), in.Diagnosis.Recommendations.Herbs...)
		out.Diagnosis = &result
	}
	return out
}

var _ wizard.Store = (*MemoryStore)(nil)
