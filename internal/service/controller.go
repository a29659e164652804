package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-tracker/internal/clock"
	"github.com/spec-kit/staff-tracker/internal/domain"
	"github.com/spec-kit/staff-tracker/internal/events"
	"github.com/spec-kit/staff-tracker/internal/observability"
	"github.com/spec-kit/staff-tracker/internal/roster"
	apperrors "github.com/spec-kit/staff-tracker/pkg/util/errorutil"
)

// ControllerDependencies bundles collaborators for Controller.
type ControllerDependencies struct {
	Store      *roster.Store
	Dispatcher events.Dispatcher
	Clock      clock.Clock
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// Controller holds the single row selection and applies clock-out/clock-in.
// Clock-out acts on the selection; clock-in acts on the row it was invoked from.
type Controller struct {
	store      *roster.Store
	dispatcher events.Dispatcher
	clock      clock.Clock
	logger     *zap.Logger
	metrics    *observability.Metrics

	mu       sync.Mutex
	selected *int
}

// NewController constructs the controller with nothing selected.
func NewController(deps ControllerDependencies) *Controller {
	return &Controller{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		clock:      deps.Clock,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
	}
}

// RegisterHandlers drops the selection whenever the roster is replaced.
func (c *Controller) RegisterHandlers() {
	if c.dispatcher == nil {
		return
	}
	c.dispatcher.Subscribe(events.EventRosterLoaded, func(ctx context.Context, _ events.Event) error {
		c.ClearSelection(ctx)
		return nil
	})
}

// Selected returns the currently selected id.
func (c *Controller) Selected() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return 0, false
	}
	return *c.selected, true
}

// Select makes id the selection, replacing any previous one.
func (c *Controller) Select(ctx context.Context, id int) error {
	if _, ok := c.store.Get(id); !ok {
		return apperrors.NewNotFound("staff member", map[string]any{"id": id})
	}
	c.mu.Lock()
	c.selected = &id
	c.mu.Unlock()

	c.publish(ctx, events.New(events.EventSelectionChanged, id, c.clock.Now(), events.SelectionChangedPayload{SelectedID: &id}))
	return nil
}

// ClearSelection removes the selection.
func (c *Controller) ClearSelection(ctx context.Context) {
	c.mu.Lock()
	had := c.selected != nil
	c.selected = nil
	c.mu.Unlock()

	if had {
		c.publish(ctx, events.New(events.EventSelectionChanged, 0, c.clock.Now(), events.SelectionChangedPayload{}))
	}
}

// ClockOut marks the selected member as Out for the entered duration. The
// selection is kept so the row stays highlighted after the re-render.
func (c *Controller) ClockOut(ctx context.Context, rawDuration string) (domain.StaffMember, error) {
	id, ok := c.Selected()
	if !ok {
		c.metrics.Inc(observability.CounterValidationErr)
		return domain.StaffMember{}, apperrors.NewValidationError(`Please select a staff member before clicking "Out".`, nil)
	}

	minutes, err := domain.ParseDuration(rawDuration)
	if err != nil {
		c.metrics.Inc(observability.CounterValidationErr)
		return domain.StaffMember{}, err
	}

	now := c.clock.Now()
	member, err := c.store.Update(id, func(m *domain.StaffMember) error {
		return m.ClockOut(now, minutes)
	})
	if err != nil {
		return domain.StaffMember{}, err
	}

	c.metrics.Inc(observability.CounterClockOut)
	c.logger.Info("staff clocked out",
		zap.Int("staff_id", member.ID),
		zap.Int("duration_minutes", minutes),
		zap.Time("expected_return", *member.ExpectedReturnTime))
	c.publish(ctx, events.New(events.EventStaffClockedOut, member.ID, now, events.StaffChangedPayload{Member: member}))
	return member, nil
}

// ClockIn marks the member with the given id as In.
func (c *Controller) ClockIn(ctx context.Context, id int) (domain.StaffMember, error) {
	member, err := c.store.Update(id, func(m *domain.StaffMember) error {
		m.ClockIn()
		return nil
	})
	if err != nil {
		return domain.StaffMember{}, err
	}

	c.metrics.Inc(observability.CounterClockIn)
	c.logger.Info("staff clocked in", zap.Int("staff_id", member.ID))
	c.publish(ctx, events.New(events.EventStaffClockedIn, member.ID, c.clock.Now(), events.StaffChangedPayload{Member: member}))
	return member, nil
}

func (c *Controller) publish(ctx context.Context, event events.Event) {
	if c.dispatcher == nil {
		return
	}
	_ = c.dispatcher.Publish(ctx, event)
}
