package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-tracker/internal/clock"
	"github.com/spec-kit/staff-tracker/internal/domain"
	"github.com/spec-kit/staff-tracker/internal/roster"
)

// LateNotifier raises a late notification for a member.
type LateNotifier interface {
	NotifyLate(ctx context.Context, member domain.StaffMember, now time.Time) (domain.LateNotification, error)
}

// LatenessMonitor periodically flags members who overstayed their expected
// return time. Each Out period produces at most one notification.
type LatenessMonitor struct {
	store    *roster.Store
	notifier LateNotifier
	clock    clock.Clock
	interval time.Duration
	logger   *zap.Logger
}

// NewLatenessMonitor builds a monitor ticking every interval.
func NewLatenessMonitor(store *roster.Store, notifier LateNotifier, clk clock.Clock, interval time.Duration, logger *zap.Logger) *LatenessMonitor {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &LatenessMonitor{
		store:    store,
		notifier: notifier,
		clock:    clk,
		interval: interval,
		logger:   logger,
	}
}

// Run ticks until ctx is cancelled.
func (m *LatenessMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Info("lateness monitor started", zap.Duration("interval", m.interval))
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("lateness monitor stopped")
			return
		case <-ticker.C:
			m.Tick(ctx, m.clock.Now())
		}
	}
}

// Tick evaluates every member at now and returns the notifications raised.
func (m *LatenessMonitor) Tick(ctx context.Context, now time.Time) []domain.LateNotification {
	late := m.store.Scan(func(member *domain.StaffMember) bool {
		if member.NotifiedLate || !member.IsLate(now) {
			return false
		}
		member.NotifiedLate = true
		return true
	})
	if len(late) == 0 {
		return nil
	}

	raised := make([]domain.LateNotification, 0, len(late))
	for _, member := range late {
		n, err := m.notifier.NotifyLate(ctx, member, now)
		if err != nil {
			m.logger.Error("late notification failed", zap.Int("staff_id", member.ID), zap.Error(err))
			continue
		}
		raised = append(raised, n)
	}
	return raised
}
