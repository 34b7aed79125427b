package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"parking-booking/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	RoutingBookingStarted   = "booking.started"
	RoutingBookingCompleted = "booking.completed"
)

// Publisher is satisfied by *RabbitMQ.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body []byte) error
}

// BookingEvent is the message body for both routing keys. Billing fields
// are only present on booking.completed.
type BookingEvent struct {
	Type          string     `json:"type"`
	BookingID     uuid.UUID  `json:"booking_id"`
	UserID        uuid.UUID  `json:"user_id"`
	StationID     uuid.UUID  `json:"station_id"`
	VehicleType   string     `json:"vehicle_type"`
	EV            bool       `json:"ev"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	RatePerHour   float64    `json:"rate_per_hour"`
	EVRatePerHour float64    `json:"ev_rate_per_hour"`
	TotalHours    *int64     `json:"total_hours,omitempty"`
	TotalAmount   *float64   `json:"total_amount,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

// BookingPublisher emits booking lifecycle events. A nil publisher drops
// events silently.
type BookingPublisher struct {
	mq       Publisher
	exchange string
	log      *zap.Logger
}

func NewBookingPublisher(mq Publisher, exchange string, log *zap.Logger) *BookingPublisher {
	return &BookingPublisher{
		mq:       mq,
		exchange: exchange,
		log:      log.With(zap.String("publisher", "booking")),
	}
}

func (p *BookingPublisher) BookingStarted(ctx context.Context, booking *entity.Booking) error {
	return p.publish(ctx, RoutingBookingStarted, booking)
}

func (p *BookingPublisher) BookingCompleted(ctx context.Context, booking *entity.Booking) error {
	return p.publish(ctx, RoutingBookingCompleted, booking)
}

func (p *BookingPublisher) publish(ctx context.Context, routingKey string, booking *entity.Booking) error {
	if p == nil || p.mq == nil {
		return nil
	}

	event := BookingEvent{
		Type:          routingKey,
		BookingID:     booking.ID,
		UserID:        booking.UserID,
		StationID:     booking.StationID,
		VehicleType:   booking.VehicleType.String(),
		EV:            booking.EV,
		StartTime:     booking.StartTime,
		EndTime:       booking.EndTime,
		RatePerHour:   booking.RatePerHour,
		EVRatePerHour: booking.EVRatePerHour,
		TotalHours:    booking.TotalHours,
		TotalAmount:   booking.TotalAmount,
		OccurredAt:    time.Now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", routingKey, err)
	}

	if err := p.mq.Publish(ctx, p.exchange, routingKey, body); err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	p.log.Debug("Booking event published",
		zap.String("routing_key", routingKey),
		zap.String("booking_id", booking.ID.String()))

	return nil
}
