package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-tracker/internal/clock"
	"github.com/spec-kit/staff-tracker/internal/config"
	"github.com/spec-kit/staff-tracker/internal/directory"
	"github.com/spec-kit/staff-tracker/internal/domain"
	"github.com/spec-kit/staff-tracker/internal/events"
	"github.com/spec-kit/staff-tracker/internal/observability"
	"github.com/spec-kit/staff-tracker/internal/roster"
)

// PeopleFetcher is the directory boundary.
type PeopleFetcher interface {
	FetchPeople(ctx context.Context, n int) ([]directory.Person, error)
}

// RosterDependencies bundles collaborators for RosterService.
type RosterDependencies struct {
	Store      *roster.Store
	People     PeopleFetcher
	Dispatcher events.Dispatcher
	Clock      clock.Clock
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// RosterService populates the roster from the directory.
type RosterService struct {
	store      *roster.Store
	people     PeopleFetcher
	dispatcher events.Dispatcher
	clock      clock.Clock
	logger     *zap.Logger
	metrics    *observability.Metrics
	size       int
}

// NewRosterService constructs the service.
func NewRosterService(cfg config.DirectoryConfig, deps RosterDependencies) *RosterService {
	size := cfg.Results
	if size <= 0 {
		size = 5
	}
	return &RosterService{
		store:      deps.Store,
		people:     deps.People,
		dispatcher: deps.Dispatcher,
		clock:      deps.Clock,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		size:       size,
	}
}

// Load fetches a fresh roster and replaces the store wholesale. On failure
// the current roster is kept and the FetchError is returned.
func (s *RosterService) Load(ctx context.Context) ([]domain.StaffMember, error) {
	people, err := s.people.FetchPeople(ctx, s.size)
	if err != nil {
		s.metrics.Inc(observability.CounterFetchFailure)
		s.logger.Error("error fetching staff data", zap.Error(err), zap.Int("kept_records", s.store.Len()))
		return nil, err
	}

	members := make([]domain.StaffMember, 0, len(people))
	for i, p := range people {
		members = append(members, domain.NewStaffMember(i+1, p.FirstName, p.LastName, p.Email, p.Thumbnail))
	}
	generation := s.store.Replace(members)
	s.metrics.Inc(observability.CounterRosterLoad)
	s.logger.Info("roster loaded", zap.Int("count", len(members)), zap.Int("generation", generation))

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.New(events.EventRosterLoaded, 0, s.clock.Now(), events.RosterLoadedPayload{
			Generation: generation,
			Count:      len(members),
		}))
	}
	return s.store.Snapshot(), nil
}

// Snapshot returns the current roster.
func (s *RosterService) Snapshot() []domain.StaffMember {
	return s.store.Snapshot()
}

// Loaded reports whether at least one fetch has succeeded.
func (s *RosterService) Loaded() bool {
	return s.store.Generation() > 0
}
