package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guildbot/internal/domain/entities"
	"guildbot/internal/infrastructure/memory"
)

var defaultOffsets = []time.Duration{48 * time.Hour, 12 * time.Hour}

type reminderFixture struct {
	sched    *ReminderScheduler
	registry *memory.EventRegistry
	notifier *recordingNotifier
	metrics  *countingMetrics
	now      time.Time
}

func setupReminders(t *testing.T, policy LatePolicy, offsets []time.Duration) *reminderFixture {
	t.Helper()
	f := &reminderFixture{
		registry: memory.NewEventRegistry(),
		notifier: &recordingNotifier{},
		metrics:  newCountingMetrics(),
		now:      time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	f.sched = NewReminderScheduler(f.registry, f.notifier, f.metrics, offsets, policy)
	f.sched.now = func() time.Time { return f.now }
	return f
}

func (f *reminderFixture) addEvent(t *testing.T, id string, start time.Time, accepted ...string) {
	t.Helper()
	e := &entities.Event{ID: id, ChannelID: "chan", Title: id, Capacity: 10, StartTime: start}
	for _, u := range accepted {
		e.Accepted = append(e.Accepted, entities.Signup{UserID: u, Description: "x"})
	}
	require.NoError(t, f.registry.Create(context.Background(), e))
}

func TestNewReminderScheduler_SortsAndDedupsOffsets(t *testing.T) {
	f := setupReminders(t, "", []time.Duration{12 * time.Hour, 48 * time.Hour, 12 * time.Hour})
	assert.Equal(t, []time.Duration{48 * time.Hour, 12 * time.Hour}, f.sched.offsets)
	assert.Equal(t, LateSkip, f.sched.policy)
}

func TestReminderScheduler_Schedule_SkipsPastOffsets(t *testing.T) {
	f := setupReminders(t, LateSkip, defaultOffsets)
	start := f.now.Add(10 * time.Hour)
	f.addEvent(t, "e1", start, "u1")

	queued := f.sched.Schedule("e1", start)
	assert.Zero(t, queued)
	assert.Zero(t, f.sched.Pending())

	f.now = start
	f.sched.fireDue(context.Background(), f.now)
	assert.Empty(t, f.notifier.reminders())
	assert.Equal(t, 2, f.metrics.reminder("late"))
}

func TestReminderScheduler_Schedule_FireFirstFiresNearestLateOffset(t *testing.T) {
	f := setupReminders(t, LateFireFirst, defaultOffsets)
	start := f.now.Add(10 * time.Hour)
	f.addEvent(t, "e1", start, "u1")

	queued := f.sched.Schedule("e1", start)
	require.Equal(t, 1, queued)

	f.sched.fireDue(context.Background(), f.now)
	sent := f.notifier.reminders()
	require.Len(t, sent, 1)
	assert.Equal(t, 12*time.Hour, sent[0].offset)
	assert.Zero(t, f.sched.Pending())
}

func TestReminderScheduler_Schedule_FireFirstIgnoresStartedEvents(t *testing.T) {
	f := setupReminders(t, LateFireFirst, defaultOffsets)
	start := f.now.Add(-time.Minute)
	f.addEvent(t, "e1", start, "u1")

	assert.Zero(t, f.sched.Schedule("e1", start))
}

func TestReminderScheduler_Fire_ReadsMembersAtFireTime(t *testing.T) {
	f := setupReminders(t, LateSkip, defaultOffsets)
	ctx := context.Background()
	start := f.now.Add(72 * time.Hour)
	f.addEvent(t, "e1", start, "u1")
	require.Equal(t, 2, f.sched.Schedule("e1", start))

	require.NoError(t, f.registry.Update(ctx, "e1", func(e *entities.Event) error {
		e.Accepted = append(e.Accepted, entities.Signup{UserID: "late-joiner", Description: "x"})
		return nil
	}))

	f.now = start.Add(-48 * time.Hour)
	f.sched.fireDue(ctx, f.now)
	sent := f.notifier.reminders()
	require.Len(t, sent, 1)
	assert.Equal(t, 48*time.Hour, sent[0].offset)
	assert.Equal(t, []string{"u1", "late-joiner"}, sent[0].attendees)
	assert.Equal(t, 1, f.sched.Pending())

	f.now = start.Add(-12 * time.Hour)
	f.sched.fireDue(ctx, f.now)
	sent = f.notifier.reminders()
	require.Len(t, sent, 2)
	assert.Equal(t, 12*time.Hour, sent[1].offset)
	assert.Zero(t, f.sched.Pending())
	assert.Zero(t, f.metrics.pendingReminders())
}

func TestReminderScheduler_Fire_EmptyAcceptedSkipsOnlyThatOffset(t *testing.T) {
	f := setupReminders(t, LateSkip, defaultOffsets)
	ctx := context.Background()
	start := f.now.Add(72 * time.Hour)
	f.addEvent(t, "e1", start)
	f.sched.Schedule("e1", start)

	f.now = start.Add(-48 * time.Hour)
	f.sched.fireDue(ctx, f.now)
	assert.Empty(t, f.notifier.reminders())
	assert.Equal(t, 1, f.metrics.reminder("empty"))
	assert.Equal(t, 1, f.sched.Pending())

	require.NoError(t, f.registry.Update(ctx, "e1", func(e *entities.Event) error {
		e.Accepted = append(e.Accepted, entities.Signup{UserID: "u1", Description: "x"})
		return nil
	}))
	f.now = start.Add(-12 * time.Hour)
	f.sched.fireDue(ctx, f.now)
	require.Len(t, f.notifier.reminders(), 1)
}

func TestReminderScheduler_Fire_GoneEventStopsSequence(t *testing.T) {
	f := setupReminders(t, LateSkip, []time.Duration{48 * time.Hour, 24 * time.Hour, 12 * time.Hour})
	ctx := context.Background()
	start := f.now.Add(72 * time.Hour)
	f.addEvent(t, "e1", start, "u1")
	f.addEvent(t, "e2", start, "u2")
	f.sched.Schedule("e1", start)
	f.sched.Schedule("e2", start)
	require.Equal(t, 6, f.sched.Pending())

	require.NoError(t, f.registry.Delete(ctx, "e1", nil))
	f.now = start.Add(-48 * time.Hour)
	f.sched.fireDue(ctx, f.now)

	sent := f.notifier.reminders()
	require.Len(t, sent, 1)
	assert.Equal(t, "e2", sent[0].eventID)
	assert.Equal(t, 2, f.sched.Pending(), "only e2's remaining offsets stay queued")
	assert.Equal(t, 1, f.metrics.reminder("gone"))
}

func TestReminderScheduler_Fire_SendFailureIsSwallowed(t *testing.T) {
	f := setupReminders(t, LateSkip, defaultOffsets)
	ctx := context.Background()
	start := f.now.Add(72 * time.Hour)
	f.addEvent(t, "e1", start, "u1")
	f.sched.Schedule("e1", start)

	f.notifier.err = errors.New("unknown message")
	f.now = start.Add(-48 * time.Hour)
	f.sched.fireDue(ctx, f.now)
	assert.Equal(t, 1, f.metrics.reminder("dropped"))
	assert.Equal(t, 1, f.sched.Pending())

	f.notifier.err = nil
	f.now = start.Add(-12 * time.Hour)
	f.sched.fireDue(ctx, f.now)
	require.Len(t, f.notifier.reminders(), 1)
}

func TestReminderScheduler_Cancel(t *testing.T) {
	f := setupReminders(t, LateSkip, defaultOffsets)
	start := f.now.Add(72 * time.Hour)
	f.sched.Schedule("e1", start)
	f.sched.Schedule("e2", start.Add(time.Hour))
	require.Equal(t, 4, f.sched.Pending())
	assert.Equal(t, 4, f.metrics.pendingReminders())

	f.sched.Cancel("e1")
	assert.Equal(t, 2, f.sched.Pending())
	assert.Equal(t, 2, f.metrics.pendingReminders())
	next, ok := f.sched.nextDeadline()
	require.True(t, ok)
	assert.Equal(t, start.Add(time.Hour-48*time.Hour), next)
}

func TestReminderScheduler_Run_FiresOnWallClock(t *testing.T) {
	registry := memory.NewEventRegistry()
	notifier := &recordingNotifier{}
	sched := NewReminderScheduler(registry, notifier, nil,
		[]time.Duration{150 * time.Millisecond, 50 * time.Millisecond}, LateSkip)

	start := time.Now().Add(200 * time.Millisecond)
	require.NoError(t, registry.Create(context.Background(), &entities.Event{
		ID: "e1", ChannelID: "chan", Capacity: 2, StartTime: start,
		Accepted: []entities.Signup{{UserID: "u1", Description: "x"}},
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	require.Equal(t, 2, sched.Schedule("e1", start))
	assert.Eventually(t, func() bool { return len(notifier.reminders()) == 2 }, 2*time.Second, 10*time.Millisecond)

	sent := notifier.reminders()
	assert.Equal(t, 150*time.Millisecond, sent[0].offset)
	assert.Equal(t, 50*time.Millisecond, sent[1].offset)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
