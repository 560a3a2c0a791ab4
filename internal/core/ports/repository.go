package ports

import (
	"context"

	"github.com/rbroggi/oneclick/internal/core/model"
)

// Repository is the interface for the persistence layer.
type Repository interface {
	// SaveUser durably saves the user. It returns model.ErrDuplicate when a
	// user with the same email already exists.
	SaveUser(ctx context.Context, user *model.User) error

	// GetUserByEmail returns the user with the given email or model.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// ListUsers lists all users matching the query parameters.
	ListUsers(ctx context.Context, query ListUsersQuery) (*ListUsersResult, error)

	// SaveEvent durably saves the event and assigns its identifier.
	SaveEvent(ctx context.Context, event *model.Event) error

	// GetEvent returns the event with the given id or model.ErrNotFound.
	GetEvent(ctx context.Context, id string) (*model.Event, error)

	// ListEvents lists all events matching the query parameters.
	ListEvents(ctx context.Context, query ListEventsQuery) (*ListEventsResult, error)

	// UpsertAttendee saves the attendee record. When the record carries a
	// UserID the write is keyed on (EventID, UserID): re-registering replaces
	// the existing record instead of duplicating it. Anonymous records are
	// plain inserts.
	UpsertAttendee(ctx context.Context, attendee *model.Attendee) error

	// DeleteAttendees removes every record matching the query. Deleting zero
	// records is not an error.
	DeleteAttendees(ctx context.Context, query DeleteAttendeesQuery) error

	// HasAttendee reports whether a record exists for the (eventID, userID) pair.
	HasAttendee(ctx context.Context, eventID, userID string) (bool, error)

	// ListAttendees returns every attendee record of the event in storage order.
	ListAttendees(ctx context.Context, eventID string) ([]model.Attendee, error)
}

// ListUsersQuery gathers the parameters for a user listing.
type ListUsersQuery struct {
	// Discoverable restricts the listing to users with discoverable=true.
	Discoverable bool

	// ExcludeEmail removes the user with this email from the listing.
	// Zero-value will be ignored as filter.
	ExcludeEmail string
}

// ListUsersResult gathers the users matching the query parameters.
type ListUsersResult struct {
	// Users matching the query parameters.
	Users []model.User
}

// ListEventsQuery gathers the parameters for an event listing.
type ListEventsQuery struct {
	// OwnerID restricts the listing to events owned by the user.
	// Zero-value will be ignored as filter.
	OwnerID string

	// Text is matched case-insensitively as a substring against name, venue,
	// location, topics and description. Zero-value matches all events.
	Text string
}

// ListEventsResult gathers the events matching the query parameters.
type ListEventsResult struct {
	// Events matching the query parameters, in storage order.
	Events []model.Event
}

// DeleteAttendeesQuery identifies the attendee records to remove.
type DeleteAttendeesQuery struct {
	// EventID is the owning event.
	EventID string

	// UserID is the registrant whose records are removed.
	UserID string
}
