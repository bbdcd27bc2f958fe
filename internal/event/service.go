package event

import (
	"context"
	"errors"
	"strings"

	"github.com/ja-alumni/erp/internal/access"
)

// Common errors
var (
	ErrEventNotFound = errors.New("event not found")
	ErrInvalidWindow = errors.New("event must end after it starts")
)

// Store is the persistence the event service depends on
type Store interface {
	Create(ctx context.Context, e *Event) (*Event, error)
	GetByID(ctx context.Context, id int64) (*Event, error)
	Update(ctx context.Context, e *Event) (*Event, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Event, int, error)
}

// Service handles event business logic
type Service struct {
	repo  Store
	authz *access.Authorizer
}

// NewService creates a new event service
func NewService(repo Store, authz *access.Authorizer) *Service {
	return &Service{repo: repo, authz: authz}
}

// List returns the calendar visible to viewer
func (s *Service) List(ctx context.Context, viewer access.Viewer, filter ListFilter, page, perPage int) ([]*Event, int, error) {
	var region *string
	if filter.Region != "" {
		region = &filter.Region
	}
	if err := s.authz.Check(ctx, viewer, access.ActionReadEvent, access.EventTarget(region)).Err(); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, filter, perPage, (page-1)*perPage)
}

// Get retrieves an event visible to viewer
func (s *Service) Get(ctx context.Context, viewer access.Viewer, id int64) (*Event, error) {
	e, target, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Check(ctx, viewer, access.ActionReadEvent, target).Err(); err != nil {
		return nil, err
	}
	return e, nil
}

// Lookup returns the event and the access target it maps to, with a missing
// target when no row exists.
func (s *Service) Lookup(ctx context.Context, id int64) (*Event, access.Target, error) {
	return s.load(ctx, id)
}

func (s *Service) load(ctx context.Context, id int64) (*Event, access.Target, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, access.Target{}, err
	}
	if e == nil {
		return nil, access.MissingTarget(access.TargetEvent), nil
	}
	return e, e.Target(), nil
}

// Create adds an event in the requested region, or a national one
func (s *Service) Create(ctx context.Context, viewer access.Viewer, req *CreateEventRequest) (*Event, error) {
	target := access.EventTarget(nil).WithPayload(req.Region, "")
	if err := s.authz.Check(ctx, viewer, access.ActionCreateEvent, target).Err(); err != nil {
		return nil, err
	}
	if req.EndsAt.Before(req.StartsAt) {
		return nil, ErrInvalidWindow
	}

	creator := viewer.ID
	return s.repo.Create(ctx, &Event{
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		StartsAt:      req.StartsAt,
		EndsAt:        req.EndsAt,
		Location:      req.Location,
		Region:        req.Region,
		CoverImageURL: req.CoverImageURL,
		CreatorID:     &creator,
	})
}

// Update edits an event. The viewer must be allowed to manage both the stored
// region and the resulting one.
func (s *Service) Update(ctx context.Context, viewer access.Viewer, id int64, req *UpdateEventRequest) (*Event, error) {
	e, target, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, s.authz.Check(ctx, viewer, access.ActionWriteEvent, target).Err()
	}

	next := *e
	applyUpdate(&next, req)

	target = target.WithPayload(next.Region, "")
	if err := s.authz.Check(ctx, viewer, access.ActionWriteEvent, target).Err(); err != nil {
		return nil, err
	}
	if next.EndsAt.Before(next.StartsAt) {
		return nil, ErrInvalidWindow
	}

	updated, err := s.repo.Update(ctx, &next)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrEventNotFound
	}
	return updated, nil
}

func applyUpdate(e *Event, req *UpdateEventRequest) {
	if req.Title != nil {
		e.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		e.Description = req.Description
	}
	if req.StartsAt != nil {
		e.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		e.EndsAt = *req.EndsAt
	}
	if req.Location != nil {
		e.Location = req.Location
	}
	if req.National != nil && *req.National {
		e.Region = nil
	} else if req.Region != nil {
		region := *req.Region
		e.Region = &region
	}
	if req.CoverImageURL != nil {
		e.CoverImageURL = req.CoverImageURL
	}
}

// Delete removes an event the viewer may manage
func (s *Service) Delete(ctx context.Context, viewer access.Viewer, id int64) error {
	_, target, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.Check(ctx, viewer, access.ActionWriteEvent, target).Err(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
