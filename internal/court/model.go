package court

import (
	"time"

	"github.com/nekogravitycat/court-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound     = apperror.NotFound("court not found")
	ErrInvalidPrice = apperror.Validation("pricePerSlot must be greater than zero")
	ErrEmptyName    = apperror.Validation("name cannot be empty")
	ErrEmptyType    = apperror.Validation("type cannot be empty")
	ErrEmptySlots   = apperror.Validation("slots cannot be empty")
)

// Court is a rentable court with its ordered slot inventory.
type Court struct {
	ID           string
	Name         string
	Type         string
	Image        string
	PricePerSlot float64
	Slots        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Filter defines parameters for listing courts.
type Filter struct {
	Type      string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
