package wizard

import (
	"context"
	"errors"
)

// ErrSessionExists is returned by Store.Create when the id is taken.
var ErrSessionExists = errors.New("session already exists")

// Store persists sessions. Implementations apply their own TTL on every write.
type Store interface {
	Create(ctx context.Context, session Session) error
	Get(ctx context.Context, id string) (Session, bool, error)
	Save(ctx context.Context, session Session) error
	Delete(ctx context.Context, id string) error
}
