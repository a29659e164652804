package dto

import "time"

// NotificationResponse is the JSON view of a late notification.
type NotificationResponse struct {
	ID              string    `json:"id"`
	StaffID         int       `json:"staff_id"`
	Photo           string    `json:"photo"`
	FullName        string    `json:"full_name"`
	DurationMinutes int       `json:"duration_minutes"`
	Message         string    `json:"message"`
	RaisedAt        time.Time `json:"raised_at"`
}
