package sessionstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/samutthan/internal/domain/wizard"
)

// ValkeyStore persists sessions as JSON strings in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string, ttl time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "samutthan:session"
	}
	if ttl < time.Second {
		ttl = time.Second
	}
	return &ValkeyStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *ValkeyStore) Create(ctx context.Context, session wizard.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	cmd := s.client.B().Set().Key(s.key(session.ID)).Value(string(payload)).Nx().Ex(s.ttl).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return wizard.ErrSessionExists
		}
		return err
	}
	return nil
}

func (s *ValkeyStore) Get(ctx context.Context, id string) (wizard.Session, bool, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(id)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return wizard.Session{}, false, nil
		}
		return wizard.Session{}, false, err
	}
	return decodeSession([]byte(payload))
}

func (s *ValkeyStore) Save(ctx context.Context, session wizard.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	cmd := s.client.B().Set().Key(s.key(session.ID)).Value(string(payload)).Ex(s.ttl).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) Delete(ctx context.Context, id string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(s.key(id)).Build()).Error()
}

func (s *ValkeyStore) key(id string) string {
	return s.prefix + ":" + id
}

func decodeSession(payload []byte) (wizard.Session, bool, error) {
	var session wizard.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return wizard.Session{}, false, err
	}
	if session.Record.Symptoms == nil {
		session.Record.Symptoms = []string{}
	}
	return session, true, nil
}

var _ wizard.Store = (*ValkeyStore)(nil)
