package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-tracker/internal/domain"
)

// AttendanceRepository appends attendance transitions to the journal.
type AttendanceRepository interface {
	Append(ctx context.Context, event *domain.AttendanceEvent) error
}

type attendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository instantiates the repository.
func NewAttendanceRepository(pool *pgxpool.Pool) AttendanceRepository {
	return &attendanceRepository{pool: pool}
}

func (r *attendanceRepository) Append(ctx context.Context, event *domain.AttendanceEvent) error {
	const query = `
        INSERT INTO attendance_events (id, kind, staff_id, staff_email, duration_minutes, expected_return_time, occurred_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (id) DO NOTHING`

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		string(event.Kind),
		event.StaffID,
		event.StaffEmail,
		event.DurationMinutes,
		event.ExpectedReturnTime,
		event.OccurredAt,
	)
	return err
}
