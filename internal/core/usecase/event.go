package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rbroggi/oneclick/internal/core/model"
	"github.com/rbroggi/oneclick/internal/core/ports"
)

// createEventRequiredFields are checked in order; the first missing one is reported.
var createEventRequiredFields = []string{
	"description",
	"name",
	"language",
	"topics",
	"fields",
	"email",
	"phone",
	"status",
	"industry",
	"minAge",
	"maxAge",
	"startDate",
	"endDate",
	"coordinates",
	"venue",
	"location",
	"url",
	"genders",
}

// EventServiceArgs contains the mandatory arguments for the EventService.
type EventServiceArgs struct {
	// Repository is the repository for persistence operations.
	Repository ports.Repository
}

// EventServiceOptArgs are the optional arguments for building an EventService.
type EventServiceOptArgs = func(*EventService)

// WithEventNowFunc can be used to override the nowFunc. Useful for testing.
func WithEventNowFunc(nowFunc func() time.Time) EventServiceOptArgs {
	return func(s *EventService) {
		s.nowFunc = nowFunc
	}
}

// NewEventService creates a new EventService.
func NewEventService(args EventServiceArgs, optArgs ...EventServiceOptArgs) *EventService {
	s := &EventService{
		repository: args.Repository,
		nowFunc:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range optArgs {
		opt(s)
	}
	return s
}

// EventService gathers the functionality around the event catalog.
type EventService struct {
	repository ports.Repository
	nowFunc    func() time.Time
}

// CreateEvent validates the raw event payload and persists the event. The
// owner is always the authenticated caller and the creation timestamp is
// server-assigned. The attendee-field schema is fixed at creation.
func (s *EventService) CreateEvent(ctx context.Context, args model.CreateEventArgs) (*model.CreateEventResponse, error) {
	if args.Caller == nil {
		return nil, model.ErrUnauthorized
	}
	if field := firstMissing(args.Payload, createEventRequiredFields); field != "" {
		return nil, model.MissingField(field)
	}

	event := &model.Event{
		OwnerID:     args.Caller.UserID,
		Name:        asString(args.Payload["name"]),
		Description: asString(args.Payload["description"]),
		Language:    asString(args.Payload["language"]),
		Topics:      asStrings(args.Payload["topics"]),
		Fields:      asStrings(args.Payload["fields"]),
		Email:       asString(args.Payload["email"]),
		Phone:       asString(args.Payload["phone"]),
		Status:      asString(args.Payload["status"]),
		Industry:    asString(args.Payload["industry"]),
		MinAge:      asInt(args.Payload["minAge"]),
		MaxAge:      asInt(args.Payload["maxAge"]),
		StartDate:   asString(args.Payload["startDate"]),
		EndDate:     asString(args.Payload["endDate"]),
		Coordinates: asFloats(args.Payload["coordinates"]),
		Venue:       asString(args.Payload["venue"]),
		Location:    asString(args.Payload["location"]),
		URL:         asString(args.Payload["url"]),
		Genders:     asStrings(args.Payload["genders"]),
		CreatedAt:   s.nowFunc(),
	}

	if err := s.repository.SaveEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("error saving event in repository: %w", err)
	}
	return &model.CreateEventResponse{Event: *event}, nil
}

// GetSchema returns the ordered attendee-field schema of the event.
func (s *EventService) GetSchema(ctx context.Context, eventID string) ([]string, error) {
	event, err := s.repository.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("error fetching event from repository: %w", err)
	}
	return event.Fields, nil
}

// ListOwned returns the events owned by the caller, in storage order.
func (s *EventService) ListOwned(ctx context.Context, args model.ListOwnedEventsArgs) (*model.ListEventsResponse, error) {
	if args.Caller == nil {
		return nil, model.ErrUnauthorized
	}

	res, err := s.repository.ListEvents(ctx, ports.ListEventsQuery{OwnerID: args.Caller.UserID})
	if err != nil {
		return nil, fmt.Errorf("error listing owned events on the repository: %w", err)
	}
	return &model.ListEventsResponse{Events: res.Events}, nil
}

// ListAll returns the full event catalog. It backs the unauthenticated
// recommendation feed.
func (s *EventService) ListAll(ctx context.Context) (*model.ListEventsResponse, error) {
	res, err := s.repository.ListEvents(ctx, ports.ListEventsQuery{})
	if err != nil {
		return nil, fmt.Errorf("error listing events on the repository: %w", err)
	}
	return &model.ListEventsResponse{Events: res.Events}, nil
}

// Search returns the events matching the query text. An empty query matches
// all events.
func (s *EventService) Search(ctx context.Context, args model.SearchEventsArgs) (*model.ListEventsResponse, error) {
	if args.Caller == nil {
		return nil, model.ErrUnauthorized
	}

	res, err := s.repository.ListEvents(ctx, ports.ListEventsQuery{Text: args.Query})
	if err != nil {
		return nil, fmt.Errorf("error searching events on the repository: %w", err)
	}
	return &model.ListEventsResponse{Events: res.Events}, nil
}
