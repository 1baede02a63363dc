package announcement

import (
	"context"

	"github.com/google/uuid"
)

type Service interface {
	Publish(ctx context.Context, draft Draft) (*Announcement, error)
	Get(ctx context.Context, id string) (*Announcement, error)
	Board(ctx context.Context, filter Filter) ([]*Announcement, int, error)
	Edit(ctx context.Context, id string, patch Patch) (*Announcement, error)
	Withdraw(ctx context.Context, id string) error
}

type service struct {
	store Store
}

func NewService(store Store) Service {
	return &service{store: store}
}

func (s *service) Publish(ctx context.Context, draft Draft) (*Announcement, error) {
	if err := draft.normalize(); err != nil {
		return nil, err
	}
	return s.store.Insert(ctx, draft)
}

func (s *service) Get(ctx context.Context, id string) (*Announcement, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrNotFound
	}
	return s.store.Find(ctx, id)
}

func (s *service) Board(ctx context.Context, filter Filter) ([]*Announcement, int, error) {
	return s.store.Search(ctx, filter)
}

// Edit validates the patch before touching the row, so an invalid patch on a
// missing id reports the validation error.
func (s *service) Edit(ctx context.Context, id string, patch Patch) (*Announcement, error) {
	if err := patch.normalize(); err != nil {
		return nil, err
	}
	if uuid.Validate(id) != nil {
		return nil, ErrNotFound
	}
	return s.store.Apply(ctx, id, patch)
}

func (s *service) Withdraw(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return ErrNotFound
	}
	return s.store.Remove(ctx, id)
}
