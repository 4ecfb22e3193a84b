package repository

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
)

type memoryGame struct {
	sessions *expirable.LRU[string, *entity.Session]
}

// NewMemoryGameRepository keeps sessions in process memory. Like the redis store, every
// write refreshes the session's ttl; zero disables expiry.
func NewMemoryGameRepository(ttl time.Duration) GameRepository {
	return &memoryGame{
		sessions: expirable.NewLRU[string, *entity.Session](0, nil, ttl),
	}
}

func (that *memoryGame) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	that.sessions.Add(session.ID, session.Clone())

	return nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (*entity.Session, error) {
	session, ok := that.sessions.Get(id)
	if !ok {
		return nil, ErrGameNotFound
	}

	return session.Clone(), nil
}

func (that *memoryGame) DeleteByID(_ context.Context, id string) error {
	if !that.sessions.Remove(id) {
		return ErrGameNotFound
	}

	return nil
}
