package domain

import (
	"fmt"
	"time"
)

// LateNotification is raised once per overstay period.
type LateNotification struct {
	ID              string
	StaffID         int
	Photo           string
	FullName        string
	FirstName       string
	DurationMinutes int
	RaisedAt        time.Time
}

// Message is the body text shown under the notification header.
func (n LateNotification) Message() string {
	return fmt.Sprintf("%s has been out for %d minutes and has not returned on time.", n.FirstName, n.DurationMinutes)
}
