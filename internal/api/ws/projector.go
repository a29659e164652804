package ws

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-tracker/internal/events"
	"github.com/spec-kit/staff-tracker/internal/roster"
	"github.com/spec-kit/staff-tracker/internal/view"
)

// Broadcaster delivers a message to every console.
type Broadcaster interface {
	Broadcast(msg Message)
}

// SelectionSource exposes the controller's current selection.
type SelectionSource interface {
	Selected() (int, bool)
}

// Projector re-renders console fragments whenever roster state changes and
// pushes them to connected consoles. Table pushes always carry the whole table.
type Projector struct {
	dispatcher events.Dispatcher
	out        Broadcaster
	renderer   *view.Renderer
	store      *roster.Store
	selection  SelectionSource
	logger     *zap.Logger

	// mu orders snapshot+broadcast so a later table never precedes an earlier one.
	mu sync.Mutex
}

// NewProjector creates the projector.
func NewProjector(dispatcher events.Dispatcher, out Broadcaster, renderer *view.Renderer, store *roster.Store, selection SelectionSource, logger *zap.Logger) *Projector {
	return &Projector{
		dispatcher: dispatcher,
		out:        out,
		renderer:   renderer,
		store:      store,
		selection:  selection,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to every event that changes what consoles show.
func (p *Projector) RegisterHandlers() {
	for _, t := range []events.EventType{
		events.EventRosterLoaded,
		events.EventSelectionChanged,
		events.EventStaffClockedOut,
		events.EventStaffClockedIn,
	} {
		p.dispatcher.Subscribe(t, p.pushTable)
	}
	p.dispatcher.Subscribe(events.EventStaffLate, p.pushNotification)
	p.dispatcher.Subscribe(events.EventNotificationDismissed, p.pushDismissed)
}

func (p *Projector) pushTable(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	selected, _ := p.selection.Selected()
	html, err := p.renderer.RenderTable(p.store.Snapshot(), selected)
	if err != nil {
		p.logger.Error("render table failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		return err
	}
	p.out.Broadcast(Message{Type: MessageTable, HTML: html})
	return nil
}

func (p *Projector) pushNotification(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.StaffLatePayload)
	if !ok {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	html, err := p.renderer.RenderNotification(payload.Notification)
	if err != nil {
		p.logger.Error("render notification failed", zap.Error(err))
		return err
	}
	p.out.Broadcast(Message{Type: MessageNotification, ID: payload.Notification.ID, HTML: html})
	return nil
}

func (p *Projector) pushDismissed(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.NotificationDismissedPayload)
	if !ok {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.out.Broadcast(Message{Type: MessageDismissed, ID: payload.NotificationID})
	return nil
}
