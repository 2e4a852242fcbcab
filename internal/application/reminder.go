package application

import (
	"container/heap"
	"context"
	"errors"
	"log"
	"slices"
	"sync"
	"time"

	"guildbot/internal/domain"
	"guildbot/internal/ports/output"
)

// LatePolicy decides what happens to offsets already past when an event is scheduled.
type LatePolicy string

const (
	// LateSkip never fires a reminder late.
	LateSkip LatePolicy = "skip"
	// LateFireFirst fires the nearest past-due offset immediately if the event has not started yet.
	LateFireFirst LatePolicy = "fire-first"
)

const sendTimeout = 15 * time.Second

type reminder struct {
	eventID string
	offset  time.Duration
	fireAt  time.Time
	index   int
}

// reminderQueue is a min-heap on fireAt.
type reminderQueue []*reminder

func (q reminderQueue) Len() int { return len(q) }
func (q reminderQueue) Less(i, j int) bool {
	if q[i].fireAt.Equal(q[j].fireAt) {
		return q[i].offset > q[j].offset
	}
	return q[i].fireAt.Before(q[j].fireAt)
}
func (q reminderQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}
func (q *reminderQueue) Push(x any) {
	r := x.(*reminder)
	r.index = len(*q)
	*q = append(*q, r)
}
func (q *reminderQueue) Pop() any {
	old := *q
	n := len(old)
	r := old[n-1]
	old[n-1] = nil
	r.index = -1
	*q = old[:n-1]
	return r
}

// ReminderScheduler fires reminders at fixed offsets before each event's start.
// A single loop waits on the earliest deadline of a shared queue.
type ReminderScheduler struct {
	registry output.EventRegistry
	notifier output.ReminderNotifier
	metrics  output.Metrics
	offsets  []time.Duration // largest first
	policy   LatePolicy
	now      func() time.Time

	mu    sync.Mutex
	queue reminderQueue
	wake  chan struct{}
}

func NewReminderScheduler(
	registry output.EventRegistry,
	notifier output.ReminderNotifier,
	metrics output.Metrics,
	offsets []time.Duration,
	policy LatePolicy,
) *ReminderScheduler {
	if metrics == nil {
		metrics = output.NopMetrics{}
	}
	sorted := slices.Clone(offsets)
	slices.SortFunc(sorted, func(a, b time.Duration) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		default:
			return 0
		}
	})
	sorted = slices.Compact(sorted)
	if policy == "" {
		policy = LateSkip
	}
	return &ReminderScheduler{
		registry: registry,
		notifier: notifier,
		metrics:  metrics,
		offsets:  sorted,
		policy:   policy,
		now:      time.Now,
		wake:     make(chan struct{}, 1),
	}
}

// Schedule queues every offset of the event that is still ahead and returns how many were queued.
func (s *ReminderScheduler) Schedule(eventID string, start time.Time) int {
	now := s.now()
	var due []*reminder
	var latePicked bool
	// offsets are largest first, so the last past-due one is the nearest to start.
	var nearestLate *reminder
	for _, off := range s.offsets {
		fireAt := start.Add(-off)
		r := &reminder{eventID: eventID, offset: off, fireAt: fireAt}
		if fireAt.After(now) {
			due = append(due, r)
			continue
		}
		s.metrics.Reminder("late")
		nearestLate = r
	}
	if s.policy == LateFireFirst && nearestLate != nil && start.After(now) {
		nearestLate.fireAt = now
		due = append(due, nearestLate)
		latePicked = true
	}
	if len(due) == 0 {
		return 0
	}

	s.mu.Lock()
	for _, r := range due {
		heap.Push(&s.queue, r)
	}
	s.metrics.PendingReminders(len(s.queue))
	s.mu.Unlock()
	s.signal()
	if latePicked {
		log.Printf("⏰ Rappel en retard pour %s déclenché immédiatement", eventID)
	}
	return len(due)
}

// Cancel drops all queued reminders of the event.
func (s *ReminderScheduler) Cancel(eventID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.queue[:0]
	for _, r := range s.queue {
		if r.eventID != eventID {
			kept = append(kept, r)
		}
	}
	for i := len(kept); i < len(s.queue); i++ {
		s.queue[i] = nil
	}
	s.queue = kept
	for i, r := range s.queue {
		r.index = i
	}
	heap.Init(&s.queue)
	s.metrics.PendingReminders(len(s.queue))
}

// Pending returns the number of queued reminders.
func (s *ReminderScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Run blocks until ctx is done, firing reminders as their deadlines pass.
func (s *ReminderScheduler) Run(ctx context.Context) error {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()
	for {
		next, ok := s.nextDeadline()
		var timerC <-chan time.Time
		if ok {
			wait := next.Sub(s.now())
			if wait <= 0 {
				s.fireDue(ctx, s.now())
				continue
			}
			timer.Reset(wait)
			timerC = timer.C
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
		case <-timerC:
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
	}
}

func (s *ReminderScheduler) nextDeadline() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return time.Time{}, false
	}
	return s.queue[0].fireAt, true
}

func (s *ReminderScheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// fireDue pops and fires every reminder whose deadline is at or before now.
func (s *ReminderScheduler) fireDue(ctx context.Context, now time.Time) {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 || s.queue[0].fireAt.After(now) {
			s.mu.Unlock()
			return
		}
		r := heap.Pop(&s.queue).(*reminder)
		s.metrics.PendingReminders(len(s.queue))
		s.mu.Unlock()
		s.fire(ctx, r)
	}
}

func (s *ReminderScheduler) fire(ctx context.Context, r *reminder) {
	// Fresh read: members who joined after scheduling are included.
	event, err := s.registry.Get(ctx, r.eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			s.Cancel(r.eventID)
			s.metrics.Reminder("gone")
			return
		}
		log.Printf("❌ Rappel %s (-%s): lecture de l'événement impossible: %v", r.eventID, r.offset, err)
		s.metrics.Reminder("error")
		return
	}
	if len(event.Accepted) == 0 {
		s.metrics.Reminder("empty")
		return
	}
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := s.notifier.SendReminder(sendCtx, event, r.offset); err != nil {
		log.Printf("❌ Rappel %s (-%s) non délivré: %v", r.eventID, r.offset, err)
		s.metrics.Reminder("dropped")
		return
	}
	s.metrics.Reminder("sent")
}
