package domain

import "time"

// AttendanceEventKind enumerates journaled transitions.
type AttendanceEventKind string

const (
	AttendanceClockOut AttendanceEventKind = "clock_out"
	AttendanceClockIn  AttendanceEventKind = "clock_in"
	AttendanceLate     AttendanceEventKind = "late"
)

// AttendanceEvent is an append-only journal entry.
type AttendanceEvent struct {
	ID                 string
	Kind               AttendanceEventKind
	StaffID            int
	StaffEmail         string
	DurationMinutes    *int
	ExpectedReturnTime *time.Time
	OccurredAt         time.Time
}
