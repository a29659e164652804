package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/staff-tracker/internal/domain"
	"github.com/spec-kit/staff-tracker/internal/events"
	"github.com/spec-kit/staff-tracker/internal/observability"
	apperrors "github.com/spec-kit/staff-tracker/pkg/util/errorutil"
)

func TestRosterService_LoadAssignsSequentialIDs(t *testing.T) {
	f := newFixture(t, 0)
	f.fetcher.people = samplePeople(5)
	f.roster.size = 5

	assert.False(t, f.roster.Loaded())
	members, err := f.roster.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 5)

	for i, m := range members {
		assert.Equal(t, i+1, m.ID)
		assert.Equal(t, domain.StaffStatusIn, m.Status)
		assert.Nil(t, m.OutTime)
		assert.Nil(t, m.Duration)
		assert.Nil(t, m.ExpectedReturnTime)
		assert.False(t, m.NotifiedLate)
	}
	assert.Equal(t, "First1", members[0].Name)
	assert.Equal(t, "Last1", members[0].Surname)
	assert.Equal(t, "person1@example.com", members[0].Email)
	assert.Equal(t, "https://img.example.com/1.jpg", members[0].Photo)

	assert.True(t, f.roster.Loaded())
	assert.Equal(t, []events.EventType{events.EventRosterLoaded}, f.types())
	assert.Equal(t, int64(1), f.metrics.Count(observability.CounterRosterLoad))
}

func TestRosterService_FailureKeepsRoster(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	require.NoError(t, f.controller.Select(ctx, 3))
	_, err := f.controller.ClockOut(ctx, "10")
	require.NoError(t, err)
	before := f.store.Snapshot()
	f.published = nil

	f.fetcher.err = apperrors.NewFetchError(errors.New("connection refused"))
	_, err = f.roster.Load(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsFetch(err))

	assert.Equal(t, before, f.store.Snapshot())
	assert.Empty(t, f.published)
	assert.Equal(t, int64(1), f.metrics.Count(observability.CounterFetchFailure))

	id, ok := f.controller.Selected()
	require.True(t, ok)
	assert.Equal(t, 3, id)
}

func TestRosterService_FailureBeforeFirstLoad(t *testing.T) {
	f := newFixture(t, 0)
	f.fetcher.err = apperrors.NewFetchError(errors.New("timeout"))

	_, err := f.roster.Load(context.Background())
	require.Error(t, err)
	assert.Empty(t, f.roster.Snapshot())
	assert.False(t, f.roster.Loaded())
}

func TestRosterService_ReloadReplacesWholesale(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	require.NoError(t, f.controller.Select(ctx, 2))
	_, err := f.controller.ClockOut(ctx, "30")
	require.NoError(t, err)

	f.fetcher.people = samplePeople(3)
	members, err := f.roster.Load(ctx)
	require.NoError(t, err)
	require.Len(t, members, 3)
	for _, m := range members {
		assert.Equal(t, domain.StaffStatusIn, m.Status)
	}
}
