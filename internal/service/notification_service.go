package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-tracker/internal/clock"
	"github.com/spec-kit/staff-tracker/internal/config"
	"github.com/spec-kit/staff-tracker/internal/domain"
	"github.com/spec-kit/staff-tracker/internal/events"
	"github.com/spec-kit/staff-tracker/internal/observability"
	apperrors "github.com/spec-kit/staff-tracker/pkg/util/errorutil"
)

// NotificationService keeps the board of late notifications currently on
// display and announces new ones as events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	metrics    *observability.Metrics
	clock      clock.Clock

	mu    sync.Mutex
	board []domain.LateNotification
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig, metrics *observability.Metrics, clk clock.Clock) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		metrics:    metrics,
		clock:      clk,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventStaffLate, n.handleStaffLate)
}

// NotifyLate puts a notification for member on the board.
func (n *NotificationService) NotifyLate(ctx context.Context, member domain.StaffMember, now time.Time) (domain.LateNotification, error) {
	duration := 0
	if member.Duration != nil {
		duration = *member.Duration
	}
	notification := domain.LateNotification{
		ID:              uuid.NewString(),
		StaffID:         member.ID,
		Photo:           member.Photo,
		FullName:        member.FullName(),
		FirstName:       member.Name,
		DurationMinutes: duration,
		RaisedAt:        now,
	}

	n.mu.Lock()
	n.board = append(n.board, notification)
	n.mu.Unlock()

	n.metrics.Inc(observability.CounterLate)
	if n.dispatcher != nil {
		_ = n.dispatcher.Publish(ctx, events.New(events.EventStaffLate, member.ID, now, events.StaffLatePayload{
			Member:       member,
			Notification: notification,
		}))
	}
	return notification, nil
}

// List returns the notifications on display, oldest first.
func (n *NotificationService) List() []domain.LateNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.LateNotification(nil), n.board...)
}

// Dismiss removes one notification from display.
func (n *NotificationService) Dismiss(ctx context.Context, id string) error {
	n.mu.Lock()
	idx := -1
	for i := range n.board {
		if n.board[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		n.mu.Unlock()
		return apperrors.NewNotFound("notification", map[string]any{"id": id})
	}
	dismissed := n.board[idx]
	n.board = append(n.board[:idx], n.board[idx+1:]...)
	n.mu.Unlock()

	n.metrics.Inc(observability.CounterDismissed)
	if n.dispatcher != nil {
		_ = n.dispatcher.Publish(ctx, events.New(events.EventNotificationDismissed, dismissed.StaffID, n.clock.Now(),
			events.NotificationDismissedPayload{NotificationID: id}))
	}
	return nil
}

func (n *NotificationService) handleStaffLate(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.StaffLatePayload)
	if !ok {
		return nil
	}
	n.logger.Warn("StaffLate",
		zap.Int("staff_id", event.StaffID),
		zap.String("name", payload.Notification.FullName),
		zap.Int("duration_minutes", payload.Notification.DurationMinutes))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int("staff_id", event.StaffID),
		zap.String("event_type", string(event.Type)))
}
