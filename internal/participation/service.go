package participation

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ja-alumni/erp/internal/access"
	"github.com/ja-alumni/erp/internal/database"
	"github.com/ja-alumni/erp/internal/event"
)

// Store is the persistence the participation service depends on
type Store interface {
	Exists(ctx context.Context, eventID int64, memberID uuid.UUID) (bool, error)
	Add(ctx context.Context, eventID int64, memberID uuid.UUID) (*Participation, error)
	Remove(ctx context.Context, eventID int64, memberID uuid.UUID) (bool, error)
	Count(ctx context.Context, eventID int64) (int, error)
	Participants(ctx context.Context, eventID int64) ([]*Participant, error)
}

// EventLookup resolves an event and its access target
type EventLookup interface {
	Lookup(ctx context.Context, id int64) (*event.Event, access.Target, error)
}

// Service handles event registration
type Service struct {
	repo   Store
	events EventLookup
	authz  *access.Authorizer
}

// NewService creates a new participation service
func NewService(repo Store, events EventLookup, authz *access.Authorizer) *Service {
	return &Service{repo: repo, events: events, authz: authz}
}

func (s *Service) authorize(ctx context.Context, viewer access.Viewer, action access.Action, eventID int64) error {
	_, target, err := s.events.Lookup(ctx, eventID)
	if err != nil {
		return err
	}
	return s.authz.Check(ctx, viewer, action, target).Err()
}

// Toggle registers the viewer for the event, or unregisters them when already
// registered.
func (s *Service) Toggle(ctx context.Context, viewer access.Viewer, eventID int64) (*Status, error) {
	if err := s.authorize(ctx, viewer, access.ActionToggleParticipation, eventID); err != nil {
		return nil, err
	}

	registered, err := s.repo.Exists(ctx, eventID, viewer.ID)
	if err != nil {
		return nil, err
	}

	if registered {
		if _, err := s.repo.Remove(ctx, eventID, viewer.ID); err != nil {
			return nil, err
		}
		slog.DebugContext(ctx, "participation removed", "event_id", eventID, "member_id", viewer.ID)
	} else {
		if _, err := s.repo.Add(ctx, eventID, viewer.ID); err != nil && !database.IsUniqueViolation(err) {
			return nil, err
		}
		slog.DebugContext(ctx, "participation added", "event_id", eventID, "member_id", viewer.ID)
	}

	return s.status(ctx, eventID, !registered)
}

// Status returns the viewer's registration state and the head count
func (s *Service) Status(ctx context.Context, viewer access.Viewer, eventID int64) (*Status, error) {
	if err := s.authorize(ctx, viewer, access.ActionReadEvent, eventID); err != nil {
		return nil, err
	}
	registered, err := s.repo.Exists(ctx, eventID, viewer.ID)
	if err != nil {
		return nil, err
	}
	return s.status(ctx, eventID, registered)
}

func (s *Service) status(ctx context.Context, eventID int64, registered bool) (*Status, error) {
	count, err := s.repo.Count(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &Status{EventID: eventID, Registered: registered, Count: count}, nil
}

// Participants lists registered members for organisers of the event
func (s *Service) Participants(ctx context.Context, viewer access.Viewer, eventID int64) ([]*Participant, error) {
	if err := s.authorize(ctx, viewer, access.ActionWriteEvent, eventID); err != nil {
		return nil, err
	}
	return s.repo.Participants(ctx, eventID)
}
