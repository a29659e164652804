package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-tracker/internal/domain"
	"github.com/spec-kit/staff-tracker/internal/events"
	"github.com/spec-kit/staff-tracker/internal/repository"
)

// sinkTimeout bounds each journal append and alert publish.
const sinkTimeout = 2 * time.Second

// JournalService appends every attendance transition to the journal. The
// journal is write-only; the roster never reads from it.
type JournalService struct {
	dispatcher events.Dispatcher
	repo       repository.AttendanceRepository
	logger     *zap.Logger
	timeout    time.Duration
}

// NewJournalService creates the service.
func NewJournalService(dispatcher events.Dispatcher, repo repository.AttendanceRepository, logger *zap.Logger) *JournalService {
	return &JournalService{dispatcher: dispatcher, repo: repo, logger: logger, timeout: sinkTimeout}
}

// RegisterHandlers subscribes to attendance events. It is a no-op without a repository.
func (j *JournalService) RegisterHandlers() {
	if j.dispatcher == nil || j.repo == nil {
		return
	}
	j.dispatcher.Subscribe(events.EventStaffClockedOut, j.handle)
	j.dispatcher.Subscribe(events.EventStaffClockedIn, j.handle)
	j.dispatcher.Subscribe(events.EventStaffLate, j.handle)
}

func (j *JournalService) handle(ctx context.Context, event events.Event) error {
	entry := &domain.AttendanceEvent{
		ID:         event.ID,
		StaffID:    event.StaffID,
		OccurredAt: event.Timestamp,
	}
	switch payload := event.Payload.(type) {
	case events.StaffChangedPayload:
		entry.StaffEmail = payload.Member.Email
		entry.DurationMinutes = payload.Member.Duration
		entry.ExpectedReturnTime = payload.Member.ExpectedReturnTime
	case events.StaffLatePayload:
		entry.StaffEmail = payload.Member.Email
		entry.DurationMinutes = payload.Member.Duration
		entry.ExpectedReturnTime = payload.Member.ExpectedReturnTime
	}
	switch event.Type {
	case events.EventStaffClockedOut:
		entry.Kind = domain.AttendanceClockOut
	case events.EventStaffClockedIn:
		entry.Kind = domain.AttendanceClockIn
	case events.EventStaffLate:
		entry.Kind = domain.AttendanceLate
	default:
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()
	if err := j.repo.Append(ctx, entry); err != nil {
		j.logger.Warn("journal append failed", zap.String("kind", string(entry.Kind)), zap.Error(err))
		return err
	}
	return nil
}
