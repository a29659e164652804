package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-tracker/internal/events"
)

// MessagePublisher sends a payload to a pub/sub channel.
type MessagePublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// LateAlert is the wire form of a late notification on the pub/sub channel.
type LateAlert struct {
	NotificationID  string    `json:"notification_id"`
	StaffID         int       `json:"staff_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Photo           string    `json:"photo"`
	DurationMinutes int       `json:"duration_minutes"`
	ExpectedReturn  time.Time `json:"expected_return"`
	RaisedAt        time.Time `json:"raised_at"`
}

// AlertPublisher forwards late notifications to an external channel.
type AlertPublisher struct {
	dispatcher events.Dispatcher
	publisher  MessagePublisher
	channel    string
	logger     *zap.Logger
	timeout    time.Duration
}

// NewAlertPublisher creates the publisher.
func NewAlertPublisher(dispatcher events.Dispatcher, publisher MessagePublisher, channel string, logger *zap.Logger) *AlertPublisher {
	return &AlertPublisher{dispatcher: dispatcher, publisher: publisher, channel: channel, logger: logger, timeout: sinkTimeout}
}

// RegisterHandlers subscribes to late events. It is a no-op without a publisher.
func (a *AlertPublisher) RegisterHandlers() {
	if a.dispatcher == nil || a.publisher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventStaffLate, a.handleStaffLate)
}

func (a *AlertPublisher) handleStaffLate(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.StaffLatePayload)
	if !ok {
		return nil
	}
	alert := LateAlert{
		NotificationID:  payload.Notification.ID,
		StaffID:         payload.Member.ID,
		Name:            payload.Notification.FullName,
		Email:           payload.Member.Email,
		Photo:           payload.Member.Photo,
		DurationMinutes: payload.Notification.DurationMinutes,
		RaisedAt:        payload.Notification.RaisedAt,
	}
	if payload.Member.ExpectedReturnTime != nil {
		alert.ExpectedReturn = *payload.Member.ExpectedReturnTime
	}

	body, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	if err := a.publisher.Publish(ctx, a.channel, body); err != nil {
		a.logger.Warn("late alert publish failed", zap.String("channel", a.channel), zap.Error(err))
		return err
	}
	return nil
}
