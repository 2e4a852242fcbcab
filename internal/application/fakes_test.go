package application

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"guildbot/internal/domain/entities"
)

type recordingRenderer struct {
	mu       sync.Mutex
	renders  []*entities.Event
	finished []*entities.EventRecord
	promoted []string
}

func (r *recordingRenderer) RenderEvent(_ context.Context, e *entities.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renders = append(r.renders, e)
	return nil
}

func (r *recordingRenderer) RenderFinished(_ context.Context, _ *entities.Event, rec *entities.EventRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, rec)
	return nil
}

func (r *recordingRenderer) NotifyPromoted(_ context.Context, _ *entities.Event, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.promoted = append(r.promoted, userID)
	return nil
}

func (r *recordingRenderer) renderCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.renders)
}

func (r *recordingRenderer) lastRender() *entities.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.renders) == 0 {
		return nil
	}
	return r.renders[len(r.renders)-1]
}

type staticAuth struct {
	admins []string
}

func (a staticAuth) IsAdmin(userID string, _ []string) bool {
	return slices.Contains(a.admins, userID)
}

type namesDirectory map[string]string

func (d namesDirectory) DisplayName(_ context.Context, _, userID string) string {
	if name, ok := d[userID]; ok {
		return name
	}
	return userID
}

type sentReminder struct {
	eventID   string
	offset    time.Duration
	attendees []string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentReminder
	err  error
	hook func()
}

func (n *recordingNotifier) SendReminder(_ context.Context, e *entities.Event, offset time.Duration) error {
	if n.hook != nil {
		n.hook()
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentReminder{eventID: e.ID, offset: offset, attendees: e.AcceptedIDs()})
	return nil
}

func (n *recordingNotifier) reminders() []sentReminder {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.sent)
}

type queuedReminder struct {
	eventID string
	start   time.Time
}

type fakeReminderQueue struct {
	scheduled []queuedReminder
	cancelled []string
}

func (q *fakeReminderQueue) Schedule(eventID string, start time.Time) int {
	q.scheduled = append(q.scheduled, queuedReminder{eventID: eventID, start: start})
	return 1
}

func (q *fakeReminderQueue) Cancel(eventID string) {
	q.cancelled = append(q.cancelled, eventID)
}

// fakeMessenger hands out sequential message IDs and records every side effect.
type fakeMessenger struct {
	mu        sync.Mutex
	next      int
	offers    []string
	interests []string
	accepted  []string
	completed []*entities.TradeSession
	expired   []string
	seeded    []string
	failPost  bool
	// onSeed runs outside the fake's lock, like a user reacting the moment the affordance appears.
	onSeed func(messageID string, stage entities.TradeStage)
}

func (m *fakeMessenger) id(prefix string) string {
	m.next++
	return fmt.Sprintf("%s-%d", prefix, m.next)
}

func (m *fakeMessenger) PostOffer(_ context.Context, _ *entities.TradeOffer) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPost {
		return "", errors.New("channel gone")
	}
	id := m.id("offer")
	m.offers = append(m.offers, id)
	return id, nil
}

func (m *fakeMessenger) PostInterest(_ context.Context, _ *entities.TradeOffer, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id("interest")
	m.interests = append(m.interests, id)
	return id, nil
}

func (m *fakeMessenger) SeedAffordance(_ context.Context, _, messageID string, stage entities.TradeStage) error {
	m.mu.Lock()
	m.seeded = append(m.seeded, messageID)
	hook := m.onSeed
	m.mu.Unlock()
	if hook != nil {
		hook(messageID, stage)
	}
	return nil
}

func (m *fakeMessenger) MarkAccepted(_ context.Context, t *entities.TradeSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accepted = append(m.accepted, t.InterestMessageID)
	return nil
}

func (m *fakeMessenger) AnnounceCompletion(_ context.Context, t *entities.TradeSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed = append(m.completed, t)
	return nil
}

func (m *fakeMessenger) AnnounceExpired(_ context.Context, t *entities.TradeSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expired = append(m.expired, t.InterestMessageID)
	return nil
}

func (m *fakeMessenger) interestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.interests)
}

type countingMetrics struct {
	mu        sync.Mutex
	reminders map[string]int
	trades    map[string]int
	pending   int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{reminders: map[string]int{}, trades: map[string]int{}}
}

func (m *countingMetrics) Participation(string, string) {}

func (m *countingMetrics) Reminder(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminders[result]++
}

func (m *countingMetrics) PendingReminders(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = n
}

func (m *countingMetrics) pendingReminders() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

func (m *countingMetrics) Trade(stage string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trades[stage]++
}

func (m *countingMetrics) reminder(result string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reminders[result]
}
