package local

import (
	"context"
	"errors"

	"github.com/pageza/cookbook/internal/repository"
	"github.com/pageza/cookbook/internal/storage"
)

// StoredSession persists the session credential under SessionKey so a login
// survives process restarts.
type StoredSession struct {
	store storage.KeyValueStore
}

var _ repository.SessionStore = (*StoredSession)(nil)

func NewStoredSession(store storage.KeyValueStore) *StoredSession {
	return &StoredSession{store: store}
}

func (s *StoredSession) Token(ctx context.Context) (string, error) {
	raw, err := s.store.Get(ctx, SessionKey)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (s *StoredSession) SetToken(ctx context.Context, token string) error {
	return s.store.Set(ctx, SessionKey, []byte(token))
}

func (s *StoredSession) Clear(ctx context.Context) error {
	return s.store.Delete(ctx, SessionKey)
}
