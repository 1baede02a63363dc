package events

import (
	"context"
	"time"
)

// Routing keys for booking lifecycle events.
const (
	BookingCreated   = "booking.created"
	BookingApproved  = "booking.approved"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
	PaymentRecorded  = "payment.recorded"
	MemberPromoted   = "user.promoted"
)

// Envelope wraps every published payload.
type Envelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// Publisher sends domain events. Delivery is best effort; callers log failures.
type Publisher interface {
	Publish(ctx context.Context, key string, data any) error
	Close() error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

func (NoopPublisher) Close() error { return nil }
