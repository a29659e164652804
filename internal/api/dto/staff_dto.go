package dto

import "time"

// StaffResponse is the JSON view of a roster record. Out fields are
// omitted while the member is In.
type StaffResponse struct {
	ID                 int        `json:"id"`
	Name               string     `json:"name"`
	Surname            string     `json:"surname"`
	Email              string     `json:"email"`
	Photo              string     `json:"photo"`
	Status             string     `json:"status"`
	OutTime            *time.Time `json:"out_time,omitempty"`
	Duration           *int       `json:"duration,omitempty"`
	DurationLabel      string     `json:"duration_label,omitempty"`
	ExpectedReturnTime *time.Time `json:"expected_return_time,omitempty"`
	NotifiedLate       bool       `json:"notified_late"`
	Selected           bool       `json:"selected"`
}

// SelectRequest payload for POST /api/selection.
type SelectRequest struct {
	ID int `json:"id"`
}

// ClockOutRequest payload for POST /api/clock-out. Duration is the raw
// operator input and may arrive as a string or a number.
type ClockOutRequest struct {
	Duration DurationInput `json:"duration"`
}

// SelectionResponse reports the current selection.
type SelectionResponse struct {
	SelectedID *int `json:"selected_id"`
}
