package ws

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-tracker/internal/domain"
	"github.com/spec-kit/staff-tracker/internal/events"
	"github.com/spec-kit/staff-tracker/internal/roster"
	"github.com/spec-kit/staff-tracker/internal/view"
)

type recordingBroadcaster struct {
	mu   sync.Mutex
	msgs []Message
}

func (r *recordingBroadcaster) Broadcast(msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

type fixedSelection struct{ id int }

func (f fixedSelection) Selected() (int, bool) { return f.id, f.id != 0 }

func newProjectorFixture(t *testing.T, selected int) (events.Dispatcher, *recordingBroadcaster) {
	t.Helper()
	store := roster.NewStore()
	store.Replace([]domain.StaffMember{
		domain.NewStaffMember(1, "Ada", "Lovelace", "ada@example.com", ""),
		domain.NewStaffMember(2, "Grace", "Hopper", "grace@example.com", ""),
	})
	renderer, err := view.NewRenderer(time.UTC)
	require.NoError(t, err)

	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	out := &recordingBroadcaster{}
	NewProjector(dispatcher, out, renderer, store, fixedSelection{id: selected}, zap.NewNop()).RegisterHandlers()
	return dispatcher, out
}

func TestProjector_PushesTableOnStateChange(t *testing.T) {
	dispatcher, out := newProjectorFixture(t, 2)

	for _, et := range []events.EventType{
		events.EventRosterLoaded,
		events.EventSelectionChanged,
		events.EventStaffClockedOut,
		events.EventStaffClockedIn,
	} {
		require.NoError(t, dispatcher.Publish(context.Background(), events.New(et, 2, time.Now(), nil)))
	}

	require.Len(t, out.msgs, 4)
	for _, msg := range out.msgs {
		assert.Equal(t, MessageTable, msg.Type)
		assert.Contains(t, msg.HTML, `<tr data-id="2" class="selected-row">`)
	}
	assert.Equal(t, out.msgs[0].HTML, out.msgs[3].HTML)
}

func TestProjector_PushesNotificationAndDismissal(t *testing.T) {
	dispatcher, out := newProjectorFixture(t, 0)
	ctx := context.Background()

	n := domain.LateNotification{ID: "n-1", StaffID: 1, FullName: "Ada Lovelace", FirstName: "Ada", DurationMinutes: 5}
	require.NoError(t, dispatcher.Publish(ctx, events.New(events.EventStaffLate, 1, time.Now(), events.StaffLatePayload{Notification: n})))
	require.NoError(t, dispatcher.Publish(ctx, events.New(events.EventNotificationDismissed, 1, time.Now(),
		events.NotificationDismissedPayload{NotificationID: "n-1"})))

	require.Len(t, out.msgs, 2)
	assert.Equal(t, MessageNotification, out.msgs[0].Type)
	assert.Equal(t, "n-1", out.msgs[0].ID)
	assert.Contains(t, out.msgs[0].HTML, "Ada has been out for 5 minutes")
	assert.Equal(t, Message{Type: MessageDismissed, ID: "n-1"}, out.msgs[1])
}

func TestProjector_LastTableReflectsFinalState(t *testing.T) {
	store := roster.NewStore()
	members := make([]domain.StaffMember, 0, 20)
	for i := 1; i <= 20; i++ {
		members = append(members, domain.NewStaffMember(i, "Name", "Surname", "n@example.com", ""))
	}
	store.Replace(members)
	renderer, err := view.NewRenderer(time.UTC)
	require.NoError(t, err)

	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	out := &recordingBroadcaster{}
	NewProjector(dispatcher, out, renderer, store, fixedSelection{}, zap.NewNop()).RegisterHandlers()

	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			member, err := store.Update(id, func(m *domain.StaffMember) error { return m.ClockOut(at, id) })
			if err != nil {
				t.Error(err)
				return
			}
			_ = dispatcher.Publish(context.Background(), events.New(events.EventStaffClockedOut, id, at,
				events.StaffChangedPayload{Member: member}))
		}(i)
	}
	wg.Wait()

	want, err := renderer.RenderTable(store.Snapshot(), 0)
	require.NoError(t, err)
	require.Len(t, out.msgs, 20)
	assert.Equal(t, want, out.msgs[len(out.msgs)-1].HTML)
}
