package usecase

import (
	"context"
	"fmt"

	"github.com/rbroggi/oneclick/internal/core/model"
	"github.com/rbroggi/oneclick/internal/core/ports"
)

// mockRepository is a hand-rolled ports.Repository whose behavior is driven
// by per-method funcs. A call to a method without a configured func fails.
type mockRepository struct {
	saveUserFunc        func(ctx context.Context, user *model.User) error
	getUserByEmailFunc  func(ctx context.Context, email string) (*model.User, error)
	listUsersFunc       func(ctx context.Context, query ports.ListUsersQuery) (*ports.ListUsersResult, error)
	saveEventFunc       func(ctx context.Context, event *model.Event) error
	getEventFunc        func(ctx context.Context, id string) (*model.Event, error)
	listEventsFunc      func(ctx context.Context, query ports.ListEventsQuery) (*ports.ListEventsResult, error)
	upsertAttendeeFunc  func(ctx context.Context, attendee *model.Attendee) error
	deleteAttendeesFunc func(ctx context.Context, query ports.DeleteAttendeesQuery) error
	hasAttendeeFunc     func(ctx context.Context, eventID, userID string) (bool, error)
	listAttendeesFunc   func(ctx context.Context, eventID string) ([]model.Attendee, error)
}

func (m *mockRepository) SaveUser(ctx context.Context, user *model.User) error {
	if m.saveUserFunc == nil {
		return fmt.Errorf("unexpected call to SaveUser")
	}
	return m.saveUserFunc(ctx, user)
}

func (m *mockRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getUserByEmailFunc == nil {
		return nil, fmt.Errorf("unexpected call to GetUserByEmail")
	}
	return m.getUserByEmailFunc(ctx, email)
}

func (m *mockRepository) ListUsers(ctx context.Context, query ports.ListUsersQuery) (*ports.ListUsersResult, error) {
	if m.listUsersFunc == nil {
		return nil, fmt.Errorf("unexpected call to ListUsers")
	}
	return m.listUsersFunc(ctx, query)
}

func (m *mockRepository) SaveEvent(ctx context.Context, event *model.Event) error {
	if m.saveEventFunc == nil {
		return fmt.Errorf("unexpected call to SaveEvent")
	}
	return m.saveEventFunc(ctx, event)
}

func (m *mockRepository) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	if m.getEventFunc == nil {
		return nil, fmt.Errorf("unexpected call to GetEvent")
	}
	return m.getEventFunc(ctx, id)
}

func (m *mockRepository) ListEvents(ctx context.Context, query ports.ListEventsQuery) (*ports.ListEventsResult, error) {
	if m.listEventsFunc == nil {
		return nil, fmt.Errorf("unexpected call to ListEvents")
	}
	return m.listEventsFunc(ctx, query)
}

func (m *mockRepository) UpsertAttendee(ctx context.Context, attendee *model.Attendee) error {
	if m.upsertAttendeeFunc == nil {
		return fmt.Errorf("unexpected call to UpsertAttendee")
	}
	return m.upsertAttendeeFunc(ctx, attendee)
}

func (m *mockRepository) DeleteAttendees(ctx context.Context, query ports.DeleteAttendeesQuery) error {
	if m.deleteAttendeesFunc == nil {
		return fmt.Errorf("unexpected call to DeleteAttendees")
	}
	return m.deleteAttendeesFunc(ctx, query)
}

func (m *mockRepository) HasAttendee(ctx context.Context, eventID, userID string) (bool, error) {
	if m.hasAttendeeFunc == nil {
		return false, fmt.Errorf("unexpected call to HasAttendee")
	}
	return m.hasAttendeeFunc(ctx, eventID, userID)
}

func (m *mockRepository) ListAttendees(ctx context.Context, eventID string) ([]model.Attendee, error) {
	if m.listAttendeesFunc == nil {
		return nil, fmt.Errorf("unexpected call to ListAttendees")
	}
	return m.listAttendeesFunc(ctx, eventID)
}

// mockSender is a mock implementation of the Sender interface.
type mockSender struct {
	called    int
	lastEvent model.MailEvent
	sendError error
}

func (m *mockSender) Send(ctx context.Context, event model.MailEvent) error {
	m.called++
	m.lastEvent = event
	return m.sendError
}

// ledgerStore emulates the attendee-uniqueness behavior of the storage layer
// for tests that exercise whole register/unregister cycles.
type ledgerStore struct {
	records map[string]model.Attendee
	inserts int
}

func newLedgerStore() *ledgerStore {
	return &ledgerStore{records: make(map[string]model.Attendee)}
}

func (l *ledgerStore) key(eventID, userID string) string {
	return eventID + "/" + userID
}

func (l *ledgerStore) upsert(attendee *model.Attendee) {
	l.inserts++
	if attendee.UserID == "" {
		l.records[fmt.Sprintf("%s/anon-%d", attendee.EventID, l.inserts)] = *attendee
		return
	}
	l.records[l.key(attendee.EventID, attendee.UserID)] = *attendee
}

func (l *ledgerStore) delete(eventID, userID string) {
	delete(l.records, l.key(eventID, userID))
}

func (l *ledgerStore) has(eventID, userID string) bool {
	_, ok := l.records[l.key(eventID, userID)]
	return ok
}
