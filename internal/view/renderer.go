// Package view renders the roster console as HTML fragments.
//
// Every render is a full projection of the data it is given: the same
// roster and selection always produce byte-identical output.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/spec-kit/staff-tracker/internal/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

const timeOfDayLayout = "15:04:05"

// Renderer turns roster state into HTML.
type Renderer struct {
	tmpl *template.Template
	loc  *time.Location
}

// RowView is one table row ready for display.
type RowView struct {
	ID             int
	Photo          string
	Name           string
	Surname        string
	Email          string
	Status         string
	Out            bool
	OutTime        string
	Duration       string
	ExpectedReturn string
	Selected       bool
}

// TableView is the table template input.
type TableView struct {
	Rows []RowView
}

// NotificationView is the notification template input.
type NotificationView struct {
	ID       string
	Photo    string
	FullName string
	Message  string
}

// PageView is the full console page input.
type PageView struct {
	Title         string
	Table         TableView
	Notifications []NotificationView
}

// NewRenderer parses the embedded templates. Times are shown in loc.
func NewRenderer(loc *time.Location) (*Renderer, error) {
	if loc == nil {
		loc = time.Local
	}
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, loc: loc}, nil
}

// RenderTable renders the roster table. selectedID 0 means no selection.
func (r *Renderer) RenderTable(members []domain.StaffMember, selectedID int) (string, error) {
	return r.execute("table", r.tableView(members, selectedID))
}

// RenderNotification renders a single late notification.
func (r *Renderer) RenderNotification(n domain.LateNotification) (string, error) {
	return r.execute("notification", notificationView(n))
}

// RenderPage renders the whole console.
func (r *Renderer) RenderPage(title string, members []domain.StaffMember, selectedID int, notifications []domain.LateNotification) (string, error) {
	page := PageView{
		Title:         title,
		Table:         r.tableView(members, selectedID),
		Notifications: make([]NotificationView, 0, len(notifications)),
	}
	for _, n := range notifications {
		page.Notifications = append(page.Notifications, notificationView(n))
	}
	return r.execute("page", page)
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (r *Renderer) tableView(members []domain.StaffMember, selectedID int) TableView {
	rows := make([]RowView, 0, len(members))
	for i := range members {
		m := &members[i]
		row := RowView{
			ID:       m.ID,
			Photo:    m.Photo,
			Name:     m.Name,
			Surname:  m.Surname,
			Email:    m.Email,
			Status:   string(m.Status),
			Out:      m.Status == domain.StaffStatusOut,
			Selected: selectedID != 0 && m.ID == selectedID,
		}
		row.OutTime = r.timeOfDay(m.OutTime)
		row.ExpectedReturn = r.timeOfDay(m.ExpectedReturnTime)
		if m.Duration != nil {
			row.Duration = FormatDuration(*m.Duration)
		}
		rows = append(rows, row)
	}
	return TableView{Rows: rows}
}

func (r *Renderer) timeOfDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(r.loc).Format(timeOfDayLayout)
}

func notificationView(n domain.LateNotification) NotificationView {
	return NotificationView{
		ID:       n.ID,
		Photo:    n.Photo,
		FullName: n.FullName,
		Message:  n.Message(),
	}
}

// FormatDuration renders minutes as "Xhr Ymin", or "Ymin" under an hour.
func FormatDuration(minutes int) string {
	hours := minutes / 60
	rest := minutes % 60
	if hours > 0 {
		return fmt.Sprintf("%dhr %dmin", hours, rest)
	}
	return fmt.Sprintf("%dmin", rest)
}
