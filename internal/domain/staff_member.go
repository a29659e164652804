package domain

import (
	"math"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/spec-kit/staff-tracker/pkg/util/errorutil"
)

// StaffStatus enumerates attendance states.
type StaffStatus string

const (
	StaffStatusIn  StaffStatus = "In"
	StaffStatusOut StaffStatus = "Out"
)

// MaxDurationMinutes is the longest absence whose expected return time is
// representable as outTime plus a time.Duration.
const MaxDurationMinutes = int(math.MaxInt64 / int64(time.Minute))

// StaffMember is one row of the roster. The Out fields are nil while the
// member is In.
type StaffMember struct {
	ID                 int
	Name               string
	Surname            string
	Email              string
	Photo              string
	Status             StaffStatus
	OutTime            *time.Time
	Duration           *int
	ExpectedReturnTime *time.Time
	NotifiedLate       bool
}

// NewStaffMember builds a member in the In state.
func NewStaffMember(id int, name, surname, email, photo string) StaffMember {
	return StaffMember{
		ID:      id,
		Name:    name,
		Surname: surname,
		Email:   email,
		Photo:   photo,
		Status:  StaffStatusIn,
	}
}

// FullName joins name and surname.
func (s *StaffMember) FullName() string {
	return strings.TrimSpace(s.Name + " " + s.Surname)
}

// ClockOut marks the member as away for durationMinutes starting at now.
func (s *StaffMember) ClockOut(now time.Time, durationMinutes int) error {
	if durationMinutes <= 0 || durationMinutes > MaxDurationMinutes {
		return apperrors.NewValidationError("duration must be a positive number of minutes", map[string]any{
			"duration": durationMinutes,
			"max":      MaxDurationMinutes,
		})
	}
	outTime := now
	expected := now.Add(time.Duration(durationMinutes) * time.Minute)
	duration := durationMinutes

	s.Status = StaffStatusOut
	s.OutTime = &outTime
	s.Duration = &duration
	s.ExpectedReturnTime = &expected
	s.NotifiedLate = false
	return nil
}

// ClockIn returns the member to the In state regardless of prior state.
func (s *StaffMember) ClockIn() {
	s.Status = StaffStatusIn
	s.OutTime = nil
	s.Duration = nil
	s.ExpectedReturnTime = nil
	s.NotifiedLate = false
}

// IsLate reports whether the member is Out past the expected return time.
func (s *StaffMember) IsLate(now time.Time) bool {
	return s.Status == StaffStatusOut &&
		s.ExpectedReturnTime != nil &&
		now.After(*s.ExpectedReturnTime)
}

// Clone returns a copy that shares no pointers with s.
func (s *StaffMember) Clone() StaffMember {
	out := *s
	if s.OutTime != nil {
		t := *s.OutTime
		out.OutTime = &t
	}
	if s.Duration != nil {
		d := *s.Duration
		out.Duration = &d
	}
	if s.ExpectedReturnTime != nil {
		t := *s.ExpectedReturnTime
		out.ExpectedReturnTime = &t
	}
	return out
}

// ParseDuration validates free-text minutes entered by the operator. The
// whole input must be a finite number; only its leading integer digits count,
// so "12.5" and "1e3" yield 12 and 1.
func ParseDuration(input string) (int, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return 0, apperrors.NewValidationError("duration required", map[string]any{"field": "duration"})
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, apperrors.NewValidationError("duration must be a number of minutes", map[string]any{
			"field": "duration",
			"value": raw,
		})
	}
	invalid := apperrors.NewValidationError("duration must be a positive number of minutes", map[string]any{
		"field": "duration",
		"value": raw,
		"max":   MaxDurationMinutes,
	})

	digits := strings.TrimPrefix(raw, "+")
	end := 0
	for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, invalid
	}
	minutes, err := strconv.Atoi(digits[:end])
	if err != nil || minutes <= 0 || minutes > MaxDurationMinutes {
		return 0, invalid
	}
	return minutes, nil
}
