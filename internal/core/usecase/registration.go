package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rbroggi/oneclick/internal/core/model"
	"github.com/rbroggi/oneclick/internal/core/ports"
)

// RegistrationServiceArgs contains the mandatory arguments for the RegistrationService.
type RegistrationServiceArgs struct {
	// Repository is the repository for persistence operations.
	Repository ports.Repository
}

// NewRegistrationService creates a new RegistrationService.
func NewRegistrationService(args RegistrationServiceArgs) *RegistrationService {
	return &RegistrationService{repository: args.Repository}
}

// RegistrationService gathers the functionality around the registration
// ledger: schema-driven attendee intake and the registered/unregistered
// state transitions.
type RegistrationService struct {
	repository ports.Repository
}

// Register applies the state transition requested by the isRegistered flag.
//
// Registering fetches the event schema and requires every schema field to be
// present in the payload; the record stores lowercase(field) -> value plus
// the event reference and, for authenticated callers, the registrant
// reference. Authenticated registration is an idempotent upsert keyed on
// (event, registrant). Unregistering requires an authenticated caller and
// removes every matching record; removing none is still a success.
func (s *RegistrationService) Register(ctx context.Context, args model.RegisterArgs) (*model.RegisterResponse, error) {
	flag, ok := args.Payload["isRegistered"]
	if !ok {
		return nil, model.MissingField("isRegistered")
	}
	registered, ok := asBool(flag)
	if !ok {
		return nil, &model.ValidationError{Field: "isRegistered", Reason: "must be a boolean"}
	}

	if !registered {
		if args.Caller == nil {
			return nil, model.ErrUnauthorized
		}
		if err := s.repository.DeleteAttendees(ctx, ports.DeleteAttendeesQuery{
			EventID: args.EventID,
			UserID:  args.Caller.UserID,
		}); err != nil {
			return nil, fmt.Errorf("error deleting attendee records: %w", err)
		}
		return &model.RegisterResponse{Registered: false}, nil
	}

	event, err := s.repository.GetEvent(ctx, args.EventID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("error fetching event from repository: %w", err)
	}

	data := make(map[string]any, len(event.Fields))
	for _, field := range event.Fields {
		value, ok := args.Payload[field]
		if !ok {
			return nil, model.MissingField(field)
		}
		data[strings.ToLower(field)] = value
	}

	attendee := &model.Attendee{
		EventID: args.EventID,
		Data:    data,
	}
	if args.Caller != nil {
		attendee.UserID = args.Caller.UserID
	}

	if err := s.repository.UpsertAttendee(ctx, attendee); err != nil {
		return nil, fmt.Errorf("error saving attendee record: %w", err)
	}

	return &model.RegisterResponse{Registered: true, Fields: event.Fields}, nil
}

// IsRegistered reports whether the caller holds a registration for the event.
// Anonymous callers are never registered.
func (s *RegistrationService) IsRegistered(ctx context.Context, eventID string, caller *model.Identity) (bool, error) {
	if caller == nil {
		return false, nil
	}

	found, err := s.repository.HasAttendee(ctx, eventID, caller.UserID)
	if err != nil {
		return false, fmt.Errorf("error checking attendee record: %w", err)
	}
	return found, nil
}

// ListAttendees returns the attendee roster of the event. Only the event
// owner may view it.
func (s *RegistrationService) ListAttendees(ctx context.Context, args model.ListAttendeesArgs) (*model.ListAttendeesResponse, error) {
	if args.Caller == nil {
		return nil, model.ErrUnauthorized
	}

	event, err := s.repository.GetEvent(ctx, args.EventID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("error fetching event from repository: %w", err)
	}
	if event.OwnerID != args.Caller.UserID {
		return nil, model.ErrUnauthorized
	}

	attendees, err := s.repository.ListAttendees(ctx, args.EventID)
	if err != nil {
		return nil, fmt.Errorf("error listing attendee records: %w", err)
	}
	return &model.ListAttendeesResponse{Attendees: attendees}, nil
}
