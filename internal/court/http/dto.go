package http

import (
	"time"

	"github.com/nekogravitycat/court-rental-backend/internal/court"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/request"
)

type CourtResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Image        string    `json:"image"`
	PricePerSlot float64   `json:"pricePerSlot"`
	Slots        []string  `json:"slots"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewResponse(c *court.Court) CourtResponse {
	slots := c.Slots
	if slots == nil {
		slots = []string{}
	}
	return CourtResponse{
		ID:           c.ID,
		Name:         c.Name,
		Type:         c.Type,
		Image:        c.Image,
		PricePerSlot: c.PricePerSlot,
		Slots:        slots,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

type ListRequest struct {
	request.ListParams
	Type   string `form:"type"`
	SortBy string `form:"sort_by" binding:"omitempty,oneof=name type price_per_slot created_at"`
}

// CreateRequest leaves presence checks to the service so missing fields are reported together.
type CreateRequest struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Image        string   `json:"image" binding:"omitempty,url"`
	PricePerSlot float64  `json:"pricePerSlot"`
	Slots        []string `json:"slots" binding:"omitempty,dive,timeslot"`
}

type UpdateRequest struct {
	Name         *string  `json:"name"`
	Type         *string  `json:"type"`
	Image        *string  `json:"image"`
	PricePerSlot *float64 `json:"pricePerSlot"`
	Slots        []string `json:"slots" binding:"omitempty,dive,timeslot"`
}

func (r CreateRequest) toCourt() court.CreateRequest {
	return court.CreateRequest{
		Name:         r.Name,
		Type:         r.Type,
		Image:        r.Image,
		PricePerSlot: r.PricePerSlot,
		Slots:        r.Slots,
	}
}

func (r UpdateRequest) toCourt() court.UpdateRequest {
	return court.UpdateRequest{
		Name:         r.Name,
		Type:         r.Type,
		Image:        r.Image,
		PricePerSlot: r.PricePerSlot,
		Slots:        r.Slots,
	}
}
