package court

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/jinzhu/copier"

	"github.com/nekogravitycat/court-rental-backend/internal/pkg/apperror"
)

type CreateRequest struct {
	Name         string
	Type         string
	Image        string
	PricePerSlot float64
	Slots        []string
}

// UpdateRequest carries a partial update. Nil fields are left unchanged.
type UpdateRequest struct {
	Name         *string
	Type         *string
	Image        *string
	PricePerSlot *float64
	Slots        []string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Court, error)
	GetByID(ctx context.Context, id string) (*Court, error)
	List(ctx context.Context, filter Filter) ([]*Court, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Court, error)
	SetImage(ctx context.Context, id, imageURL string) (*Court, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Court, error) {
	var missing []string
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(req.Type) == "" {
		missing = append(missing, "type")
	}
	if req.PricePerSlot == 0 {
		missing = append(missing, "pricePerSlot")
	}
	if len(req.Slots) == 0 {
		missing = append(missing, "slots")
	}
	if len(missing) > 0 {
		return nil, apperror.MissingFields(missing...)
	}

	c := &Court{
		Name:         strings.TrimSpace(req.Name),
		Type:         strings.TrimSpace(req.Type),
		Image:        req.Image,
		PricePerSlot: req.PricePerSlot,
		Slots:        req.Slots,
	}
	if err := validate(c); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Court, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Court, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Court, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Only provided fields replace the stored ones.
	if err := copier.CopyWithOption(c, &req, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, errors.Wrap(err, "apply court update")
	}
	c.ID = id

	if err := validate(c); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) SetImage(ctx context.Context, id, imageURL string) (*Court, error) {
	return s.Update(ctx, id, UpdateRequest{Image: &imageURL})
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validate(c *Court) error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(c.Type) == "" {
		return ErrEmptyType
	}
	if c.PricePerSlot <= 0 {
		return ErrInvalidPrice
	}
	if len(c.Slots) == 0 {
		return ErrEmptySlots
	}
	return nil
}
