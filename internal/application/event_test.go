package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guildbot/internal/domain"
	"guildbot/internal/domain/entities"
	"guildbot/internal/infrastructure/memory"
)

type eventFixture struct {
	svc       *EventService
	registry  *memory.EventRegistry
	records   *memory.RecordStore
	renderer  *recordingRenderer
	reminders *fakeReminderQueue
}

func setupEventService() eventFixture {
	f := eventFixture{
		registry:  memory.NewEventRegistry(),
		records:   memory.NewRecordStore(),
		renderer:  &recordingRenderer{},
		reminders: &fakeReminderQueue{},
	}
	directory := namesDirectory{"creator": "Alice", "u1": "Bob", "admin": "Root"}
	f.svc = NewEventService(f.registry, f.records, f.renderer, directory, staticAuth{admins: []string{"admin"}}, f.reminders)
	return f
}

func newTestEvent(id string, start time.Time) *entities.Event {
	return &entities.Event{
		ID:        id,
		ChannelID: "chan",
		CreatorID: "creator",
		Title:     "Event " + id,
		Capacity:  3,
		StartTime: start,
	}
}

func TestEventService_CreateEvent_SchedulesReminders(t *testing.T) {
	f := setupEventService()
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	start := time.Date(2030, 6, 1, 20, 0, 0, 0, paris)

	require.NoError(t, f.svc.CreateEvent(context.Background(), newTestEvent("e1", start)))

	stored, err := f.registry.Get(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, stored.StartTime.Location())
	assert.True(t, stored.StartTime.Equal(start))
	assert.False(t, stored.CreatedAt.IsZero())
	require.Len(t, f.reminders.scheduled, 1)
	assert.Equal(t, "e1", f.reminders.scheduled[0].eventID)
}

func TestEventService_CreateEvent_Validation(t *testing.T) {
	f := setupEventService()
	ctx := context.Background()

	bad := newTestEvent("e1", time.Now().Add(time.Hour))
	bad.Capacity = 0
	assert.ErrorIs(t, f.svc.CreateEvent(ctx, bad), domain.ErrInvalidCapacity)

	require.NoError(t, f.svc.CreateEvent(ctx, newTestEvent("e2", time.Now().Add(time.Hour))))
	assert.ErrorIs(t, f.svc.CreateEvent(ctx, newTestEvent("e2", time.Now().Add(time.Hour))), domain.ErrEventExists)
	assert.Len(t, f.reminders.scheduled, 1)
}

func TestEventService_ListEvents_OrderedByStart(t *testing.T) {
	f := setupEventService()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, f.svc.CreateEvent(ctx, newTestEvent("late", now.Add(3*time.Hour))))
	require.NoError(t, f.svc.CreateEvent(ctx, newTestEvent("early", now.Add(time.Hour))))
	require.NoError(t, f.svc.CreateEvent(ctx, newTestEvent("mid", now.Add(2*time.Hour))))

	events, err := f.svc.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "early", events[0].ID)
	assert.Equal(t, "mid", events[1].ID)
	assert.Equal(t, "late", events[2].ID)
}

func TestEventService_FinishEvent_ArchivesAndRemoves(t *testing.T) {
	f := setupEventService()
	ctx := context.Background()
	e := newTestEvent("e1", time.Now().Add(time.Hour))
	e.Accepted = []entities.Signup{{UserID: "u1", Description: "brings snacks"}}
	require.NoError(t, f.svc.CreateEvent(ctx, e))

	record, err := f.svc.FinishEvent(ctx, "e1", "creator", nil, "  great night  ")
	require.NoError(t, err)
	assert.Equal(t, "e1", record.EventID)
	assert.Equal(t, []string{"Bob — brings snacks"}, record.Participants)
	assert.Equal(t, "great night", record.Summary)
	assert.Equal(t, "Alice", record.ClosedBy)
	assert.NotEqual(t, uuid.Nil, record.ID)

	_, err = f.registry.Get(ctx, "e1")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
	assert.Equal(t, []string{"e1"}, f.reminders.cancelled)
	require.Len(t, f.renderer.finished, 1)

	records, err := f.svc.ListRecords(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.ID, records[0].ID)

	_, err = f.svc.FinishEvent(ctx, "e1", "creator", nil, "")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestEventService_FinishEvent_Authorization(t *testing.T) {
	f := setupEventService()
	ctx := context.Background()
	require.NoError(t, f.svc.CreateEvent(ctx, newTestEvent("e1", time.Now().Add(time.Hour))))

	_, err := f.svc.FinishEvent(ctx, "e1", "stranger", nil, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.registry.Get(ctx, "e1")
	require.NoError(t, err, "a rejected finish must leave the event live")
	assert.Empty(t, f.reminders.cancelled)

	record, err := f.svc.FinishEvent(ctx, "e1", "admin", nil, "")
	require.NoError(t, err)
	assert.Equal(t, "Root", record.ClosedBy)
	assert.Empty(t, record.Participants)
}
