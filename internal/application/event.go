package application

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"guildbot/internal/domain"
	"guildbot/internal/domain/entities"
	"guildbot/internal/ports/output"
)

// ReminderQueue is the part of the scheduler the event service drives.
type ReminderQueue interface {
	Schedule(eventID string, start time.Time) int
	Cancel(eventID string)
}

type EventService struct {
	registry  output.EventRegistry
	records   output.RecordRepository
	renderer  output.EventRenderer
	directory output.DisplayDirectory
	auth      output.Authorizer
	reminders ReminderQueue
	now       func() time.Time
}

func NewEventService(
	registry output.EventRegistry,
	records output.RecordRepository,
	renderer output.EventRenderer,
	directory output.DisplayDirectory,
	auth output.Authorizer,
	reminders ReminderQueue,
) *EventService {
	return &EventService{
		registry:  registry,
		records:   records,
		renderer:  renderer,
		directory: directory,
		auth:      auth,
		reminders: reminders,
		now:       time.Now,
	}
}

// CreateEvent registers a freshly announced event and queues its reminders.
func (s *EventService) CreateEvent(ctx context.Context, event *entities.Event) error {
	if event.Capacity <= 0 {
		return domain.ErrInvalidCapacity
	}
	event.StartTime = event.StartTime.UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.now()
	}
	if err := s.registry.Create(ctx, event); err != nil {
		return err
	}
	queued := s.reminders.Schedule(event.ID, event.StartTime)
	log.Printf("✅ Événement %s (%q) enregistré, %d rappel(s) planifié(s)", event.ID, event.Title, queued)
	return nil
}

func (s *EventService) GetEvent(ctx context.Context, eventID string) (*entities.Event, error) {
	return s.registry.Get(ctx, eventID)
}

// ListEvents returns live events ordered by start time.
func (s *EventService) ListEvents(ctx context.Context) ([]*entities.Event, error) {
	events, err := s.registry.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(events, func(i, j int) bool { return events[i].StartTime.Before(events[j].StartTime) })
	return events, nil
}

// FinishEvent archives the event into an EventRecord and removes it from the registry.
// Only the creator or an admin may finish an event.
func (s *EventService) FinishEvent(ctx context.Context, eventID, actorID string, actorRoles []string, summary string) (*entities.EventRecord, error) {
	var record *entities.EventRecord
	var finished *entities.Event
	err := s.registry.Delete(ctx, eventID, func(e *entities.Event) error {
		if actorID != e.CreatorID && !s.auth.IsAdmin(actorID, actorRoles) {
			return domain.ErrUnauthorized
		}
		record = &entities.EventRecord{
			ID:           uuid.New(),
			EventID:      e.ID,
			Title:        e.Title,
			Participants: s.describeParticipants(ctx, e),
			Summary:      strings.TrimSpace(summary),
			ClosedBy:     s.directory.DisplayName(ctx, e.GuildID, actorID),
			FinishedAt:   s.now().UTC(),
		}
		if err := s.records.Save(ctx, record); err != nil {
			return fmt.Errorf("save record: %w", err)
		}
		finished = e.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.reminders.Cancel(eventID)
	if err := s.renderer.RenderFinished(ctx, finished, record); err != nil {
		log.Printf("❌ Erreur lors de la clôture de l'embed (event=%s): %v", eventID, err)
	}
	return record, nil
}

func (s *EventService) ListRecords(ctx context.Context, limit int) ([]entities.EventRecord, error) {
	return s.records.List(ctx, limit)
}

func (s *EventService) describeParticipants(ctx context.Context, e *entities.Event) []string {
	lines := make([]string, 0, len(e.Accepted))
	for _, p := range e.Accepted {
		name := s.directory.DisplayName(ctx, e.GuildID, p.UserID)
		if name == "" {
			name = p.UserID
		}
		lines = append(lines, fmt.Sprintf("%s — %s", name, p.Description))
	}
	return lines
}
