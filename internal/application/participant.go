package application

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"guildbot/internal/domain"
	"guildbot/internal/domain/entities"
	"guildbot/internal/ports/output"
)

// LeaveResult describes what a departure changed.
type LeaveResult struct {
	WasAccepted bool
	// PromotedID is the waitlisted participant moved into the freed slot, if any.
	PromotedID string
}

type ParticipantService struct {
	registry output.EventRegistry
	renderer output.EventRenderer
	auth     output.Authorizer
	metrics  output.Metrics
	now      func() time.Time
}

func NewParticipantService(
	registry output.EventRegistry,
	renderer output.EventRenderer,
	auth output.Authorizer,
	metrics output.Metrics,
) *ParticipantService {
	if metrics == nil {
		metrics = output.NopMetrics{}
	}
	return &ParticipantService{
		registry: registry,
		renderer: renderer,
		auth:     auth,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Join takes a free slot. A full event returns ErrCapacityExceeded; waitlisting is a separate call.
func (s *ParticipantService) Join(ctx context.Context, eventID, userID, description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		description = entities.NoDescription
	}
	err := s.registry.Update(ctx, eventID, func(e *entities.Event) error {
		if err := checkNotTracked(e, userID); err != nil {
			return err
		}
		if e.IsFull() {
			return domain.ErrCapacityExceeded
		}
		e.Accepted = append(e.Accepted, entities.Signup{UserID: userID, Description: description, JoinedAt: s.now()})
		s.render(ctx, e)
		return nil
	})
	s.metrics.Participation("join", resultLabel(err))
	return err
}

func (s *ParticipantService) JoinWaitlist(ctx context.Context, eventID, userID string) error {
	err := s.registry.Update(ctx, eventID, func(e *entities.Event) error {
		if err := checkNotTracked(e, userID); err != nil {
			return err
		}
		e.Waitlist = append(e.Waitlist, entities.WaitlistEntry{UserID: userID, JoinedAt: s.now()})
		s.render(ctx, e)
		return nil
	})
	s.metrics.Participation("waitlist", resultLabel(err))
	return err
}

// Leave removes userID from the event. An accepted departure always promotes the head of the waitlist.
func (s *ParticipantService) Leave(ctx context.Context, eventID, userID string) (LeaveResult, error) {
	res, err := s.depart(ctx, eventID, userID)
	s.metrics.Participation("leave", resultLabel(err))
	return res, err
}

// Remove lets the creator or an admin drop a member; promotion follows the same rule as Leave.
func (s *ParticipantService) Remove(ctx context.Context, eventID, actorID string, actorRoles []string, targetID string) (LeaveResult, error) {
	ev, err := s.registry.Get(ctx, eventID)
	if err != nil {
		return LeaveResult{}, err
	}
	if actorID != ev.CreatorID && !s.auth.IsAdmin(actorID, actorRoles) {
		return LeaveResult{}, domain.ErrUnauthorized
	}
	res, err := s.depart(ctx, eventID, targetID)
	s.metrics.Participation("remove", resultLabel(err))
	return res, err
}

func (s *ParticipantService) depart(ctx context.Context, eventID, userID string) (LeaveResult, error) {
	var res LeaveResult
	var snapshot *entities.Event
	err := s.registry.Update(ctx, eventID, func(e *entities.Event) error {
		if idx := e.AcceptedIndex(userID); idx >= 0 {
			e.Accepted = append(e.Accepted[:idx], e.Accepted[idx+1:]...)
			res.WasAccepted = true
			if len(e.Waitlist) > 0 {
				head := e.Waitlist[0]
				e.Waitlist = e.Waitlist[1:]
				e.Accepted = append(e.Accepted, entities.Signup{UserID: head.UserID, Description: entities.NoDescription, JoinedAt: s.now()})
				res.PromotedID = head.UserID
			}
		} else if idx := e.WaitlistIndex(userID); idx >= 0 {
			e.Waitlist = append(e.Waitlist[:idx], e.Waitlist[idx+1:]...)
		} else {
			return domain.ErrNotAMember
		}
		s.render(ctx, e)
		snapshot = e.Clone()
		return nil
	})
	if err != nil {
		return LeaveResult{}, err
	}
	if res.PromotedID != "" {
		s.metrics.Participation("promote", "ok")
		if err := s.renderer.NotifyPromoted(ctx, snapshot, res.PromotedID); err != nil {
			log.Printf("⚠️ Notification de promotion impossible (event=%s, user=%s): %v", eventID, res.PromotedID, err)
		}
	}
	return res, nil
}

// render runs under the event lock so successive renders of one event cannot be reordered.
func (s *ParticipantService) render(ctx context.Context, e *entities.Event) {
	if err := s.renderer.RenderEvent(ctx, e.Clone()); err != nil {
		log.Printf("❌ Erreur lors de la mise à jour de l'embed (event=%s): %v", e.ID, err)
	}
}

func checkNotTracked(e *entities.Event, userID string) error {
	if e.AcceptedIndex(userID) >= 0 {
		return domain.ErrAlreadyAccepted
	}
	if e.WaitlistIndex(userID) >= 0 {
		return domain.ErrAlreadyWaitlisted
	}
	return nil
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if code := domain.Code(err); code != "" {
		return code
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "error"
}
