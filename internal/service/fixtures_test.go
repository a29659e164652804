package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-tracker/internal/clock"
	"github.com/spec-kit/staff-tracker/internal/config"
	"github.com/spec-kit/staff-tracker/internal/directory"
	"github.com/spec-kit/staff-tracker/internal/events"
	"github.com/spec-kit/staff-tracker/internal/observability"
	"github.com/spec-kit/staff-tracker/internal/roster"
)

var testStart = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type fakeFetcher struct {
	people []directory.Person
	err    error
	calls  int
}

func (f *fakeFetcher) FetchPeople(_ context.Context, n int) ([]directory.Person, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if n < len(f.people) {
		return f.people[:n], nil
	}
	return f.people, nil
}

func samplePeople(n int) []directory.Person {
	people := make([]directory.Person, 0, n)
	for i := 1; i <= n; i++ {
		people = append(people, directory.Person{
			FirstName: fmt.Sprintf("First%d", i),
			LastName:  fmt.Sprintf("Last%d", i),
			Email:     fmt.Sprintf("person%d@example.com", i),
			Thumbnail: fmt.Sprintf("https://img.example.com/%d.jpg", i),
		})
	}
	return people
}

type fixture struct {
	store      *roster.Store
	dispatcher events.Dispatcher
	clock      *clock.Manual
	metrics    *observability.Metrics
	fetcher    *fakeFetcher
	roster     *RosterService
	controller *Controller
	published  []events.Event
}

// newFixture wires a loaded roster of n members with a recording subscriber.
func newFixture(t *testing.T, n int) *fixture {
	t.Helper()
	f := &fixture{
		store:      roster.NewStore(),
		dispatcher: events.NewInMemoryDispatcher(zap.NewNop()),
		clock:      clock.NewManual(testStart),
		metrics:    observability.NewMetrics(),
		fetcher:    &fakeFetcher{people: samplePeople(n)},
	}
	f.roster = NewRosterService(config.DirectoryConfig{Results: n}, RosterDependencies{
		Store:      f.store,
		People:     f.fetcher,
		Dispatcher: f.dispatcher,
		Clock:      f.clock,
		Logger:     zap.NewNop(),
		Metrics:    f.metrics,
	})
	f.controller = NewController(ControllerDependencies{
		Store:      f.store,
		Dispatcher: f.dispatcher,
		Clock:      f.clock,
		Logger:     zap.NewNop(),
		Metrics:    f.metrics,
	})
	f.controller.RegisterHandlers()

	record := func(_ context.Context, e events.Event) error {
		f.published = append(f.published, e)
		return nil
	}
	for _, et := range []events.EventType{
		events.EventRosterLoaded,
		events.EventSelectionChanged,
		events.EventStaffClockedOut,
		events.EventStaffClockedIn,
		events.EventStaffLate,
		events.EventNotificationDismissed,
	} {
		f.dispatcher.Subscribe(et, record)
	}

	if n > 0 {
		if _, err := f.roster.Load(context.Background()); err != nil {
			t.Fatalf("load roster: %v", err)
		}
	}
	f.published = nil
	return f
}

func (f *fixture) types() []events.EventType {
	out := make([]events.EventType, 0, len(f.published))
	for _, e := range f.published {
		out = append(out, e.Type)
	}
	return out
}
