package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rbroggi/oneclick/internal/core/model"
	"github.com/rbroggi/oneclick/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationService_Register(t *testing.T) {
	caller := &model.Identity{UserID: "user-1", Email: "u1@example.com"}
	event := &model.Event{ID: "event-1", OwnerID: "owner-1", Fields: []string{"Name", "Phone"}}

	tests := []struct {
		name          string
		args          model.RegisterArgs
		repo          *mockRepository
		expectedResp  *model.RegisterResponse
		expectedError func(t *testing.T, err error)
		checkAttendee func(t *testing.T, attendee *model.Attendee)
	}{
		{
			name: "missing isRegistered flag",
			args: model.RegisterArgs{EventID: "event-1", Caller: caller, Payload: map[string]any{"Name": "A"}},
			repo: &mockRepository{},
			expectedError: func(t *testing.T, err error) {
				var vErr *model.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, "isRegistered", vErr.Field)
			},
		},
		{
			name: "non-boolean isRegistered flag",
			args: model.RegisterArgs{EventID: "event-1", Caller: caller, Payload: map[string]any{"isRegistered": "yes"}},
			repo: &mockRepository{},
			expectedError: func(t *testing.T, err error) {
				var vErr *model.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, "isRegistered", vErr.Field)
			},
		},
		{
			name: "register for unknown event",
			args: model.RegisterArgs{EventID: "ghost", Caller: caller, Payload: map[string]any{"isRegistered": true}},
			repo: &mockRepository{
				getEventFunc: func(ctx context.Context, id string) (*model.Event, error) {
					return nil, model.ErrNotFound
				},
			},
			expectedError: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, model.ErrNotFound)
			},
		},
		{
			name: "missing schema field is rejected naming the field",
			args: model.RegisterArgs{
				EventID: "event-1",
				Caller:  caller,
				Payload: map[string]any{"isRegistered": true, "Name": "A"},
			},
			repo: &mockRepository{
				getEventFunc: func(ctx context.Context, id string) (*model.Event, error) {
					return event, nil
				},
			},
			expectedError: func(t *testing.T, err error) {
				var vErr *model.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, "Phone", vErr.Field)
			},
		},
		{
			name: "authenticated registration builds schema-shaped record",
			args: model.RegisterArgs{
				EventID: "event-1",
				Caller:  caller,
				Payload: map[string]any{"isRegistered": true, "Name": "A", "Phone": "123"},
			},
			repo: &mockRepository{
				getEventFunc: func(ctx context.Context, id string) (*model.Event, error) {
					return event, nil
				},
			},
			expectedResp: &model.RegisterResponse{Registered: true, Fields: []string{"Name", "Phone"}},
			checkAttendee: func(t *testing.T, attendee *model.Attendee) {
				require.NotNil(t, attendee)
				assert.Equal(t, "event-1", attendee.EventID)
				assert.Equal(t, "user-1", attendee.UserID)
				assert.Equal(t, map[string]any{"name": "A", "phone": "123"}, attendee.Data)
			},
		},
		{
			name: "anonymous registration carries no registrant reference",
			args: model.RegisterArgs{
				EventID: "event-1",
				Payload: map[string]any{"isRegistered": true, "Name": "A", "Phone": "123"},
			},
			repo: &mockRepository{
				getEventFunc: func(ctx context.Context, id string) (*model.Event, error) {
					return event, nil
				},
			},
			expectedResp: &model.RegisterResponse{Registered: true, Fields: []string{"Name", "Phone"}},
			checkAttendee: func(t *testing.T, attendee *model.Attendee) {
				require.NotNil(t, attendee)
				assert.Empty(t, attendee.UserID)
			},
		},
		{
			name: "anonymous unregister is rejected",
			args: model.RegisterArgs{EventID: "event-1", Payload: map[string]any{"isRegistered": false}},
			repo: &mockRepository{},
			expectedError: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, model.ErrUnauthorized)
			},
		},
		{
			name: "unregister deletes matching records and tolerates zero deletions",
			args: model.RegisterArgs{EventID: "event-1", Caller: caller, Payload: map[string]any{"isRegistered": false}},
			repo: &mockRepository{
				deleteAttendeesFunc: func(ctx context.Context, query ports.DeleteAttendeesQuery) error {
					assert.Equal(t, "event-1", query.EventID)
					assert.Equal(t, "user-1", query.UserID)
					return nil
				},
			},
			expectedResp: &model.RegisterResponse{Registered: false},
		},
		{
			name: "storage failure surfaces to the caller",
			args: model.RegisterArgs{
				EventID: "event-1",
				Caller:  caller,
				Payload: map[string]any{"isRegistered": true, "Name": "A", "Phone": "123"},
			},
			repo: &mockRepository{
				getEventFunc: func(ctx context.Context, id string) (*model.Event, error) {
					return event, nil
				},
				upsertAttendeeFunc: func(ctx context.Context, attendee *model.Attendee) error {
					return &model.StorageError{Err: errors.New("connection reset")}
				},
			},
			expectedError: func(t *testing.T, err error) {
				var sErr *model.StorageError
				assert.ErrorAs(t, err, &sErr)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var saved *model.Attendee
			if test.repo.upsertAttendeeFunc == nil {
				test.repo.upsertAttendeeFunc = func(ctx context.Context, attendee *model.Attendee) error {
					saved = attendee
					return nil
				}
			}

			svc := NewRegistrationService(RegistrationServiceArgs{Repository: test.repo})
			resp, err := svc.Register(context.Background(), test.args)
			if test.expectedError != nil {
				test.expectedError(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expectedResp, resp)
			if test.checkAttendee != nil {
				test.checkAttendee(t, saved)
			}
		})
	}
}

// TestRegistrationService_RegisterTwiceIsIdempotent exercises the idempotence
// law: registering twice for the same (event, caller) pair must not produce
// two attendee records.
func TestRegistrationService_RegisterTwiceIsIdempotent(t *testing.T) {
	caller := &model.Identity{UserID: "user-1"}
	store := newLedgerStore()
	repo := &mockRepository{
		getEventFunc: func(ctx context.Context, id string) (*model.Event, error) {
			return &model.Event{ID: id, Fields: []string{"Name"}}, nil
		},
		upsertAttendeeFunc: func(ctx context.Context, attendee *model.Attendee) error {
			store.upsert(attendee)
			return nil
		},
	}
	svc := NewRegistrationService(RegistrationServiceArgs{Repository: repo})

	args := model.RegisterArgs{EventID: "event-1", Caller: caller, Payload: map[string]any{"isRegistered": true, "Name": "A"}}
	for i := 0; i < 2; i++ {
		_, err := svc.Register(context.Background(), args)
		require.NoError(t, err)
	}

	assert.Len(t, store.records, 1)
}

// TestRegistrationService_UnregisterThenCheck exercises the transition back
// to UNREGISTERED: register(false) followed by IsRegistered returns false.
func TestRegistrationService_UnregisterThenCheck(t *testing.T) {
	caller := &model.Identity{UserID: "user-1"}
	store := newLedgerStore()
	repo := &mockRepository{
		getEventFunc: func(ctx context.Context, id string) (*model.Event, error) {
			return &model.Event{ID: id, Fields: []string{"Name"}}, nil
		},
		upsertAttendeeFunc: func(ctx context.Context, attendee *model.Attendee) error {
			store.upsert(attendee)
			return nil
		},
		deleteAttendeesFunc: func(ctx context.Context, query ports.DeleteAttendeesQuery) error {
			store.delete(query.EventID, query.UserID)
			return nil
		},
		hasAttendeeFunc: func(ctx context.Context, eventID, userID string) (bool, error) {
			return store.has(eventID, userID), nil
		},
	}
	svc := NewRegistrationService(RegistrationServiceArgs{Repository: repo})

	_, err := svc.Register(context.Background(), model.RegisterArgs{
		EventID: "event-1",
		Caller:  caller,
		Payload: map[string]any{"isRegistered": true, "Name": "A"},
	})
	require.NoError(t, err)

	registered, err := svc.IsRegistered(context.Background(), "event-1", caller)
	require.NoError(t, err)
	require.True(t, registered)

	_, err = svc.Register(context.Background(), model.RegisterArgs{
		EventID: "event-1",
		Caller:  caller,
		Payload: map[string]any{"isRegistered": false},
	})
	require.NoError(t, err)

	registered, err = svc.IsRegistered(context.Background(), "event-1", caller)
	require.NoError(t, err)
	assert.False(t, registered)
}

func TestRegistrationService_IsRegistered(t *testing.T) {
	t.Run("anonymous caller is never registered", func(t *testing.T) {
		// the repository must not even be consulted
		svc := NewRegistrationService(RegistrationServiceArgs{Repository: &mockRepository{}})
		registered, err := svc.IsRegistered(context.Background(), "event-1", nil)
		require.NoError(t, err)
		assert.False(t, registered)
	})

	t.Run("authenticated caller reflects the actual lookup result", func(t *testing.T) {
		for _, has := range []bool{true, false} {
			repo := &mockRepository{
				hasAttendeeFunc: func(ctx context.Context, eventID, userID string) (bool, error) {
					assert.Equal(t, "event-1", eventID)
					assert.Equal(t, "user-1", userID)
					return has, nil
				},
			}
			svc := NewRegistrationService(RegistrationServiceArgs{Repository: repo})
			registered, err := svc.IsRegistered(context.Background(), "event-1", &model.Identity{UserID: "user-1"})
			require.NoError(t, err)
			assert.Equal(t, has, registered)
		}
	})
}

func TestRegistrationService_ListAttendees(t *testing.T) {
	owner := &model.Identity{UserID: "owner-1"}
	event := &model.Event{ID: "event-1", OwnerID: "owner-1"}
	roster := []model.Attendee{
		{ID: "a1", EventID: "event-1", UserID: "user-1", Data: map[string]any{"name": "A"}},
		{ID: "a2", EventID: "event-1", Data: map[string]any{"name": "B"}},
	}

	tests := []struct {
		name          string
		args          model.ListAttendeesArgs
		repo          *mockRepository
		expected      []model.Attendee
		expectedError error
	}{
		{
			name:          "anonymous caller is rejected",
			args:          model.ListAttendeesArgs{EventID: "event-1"},
			repo:          &mockRepository{},
			expectedError: model.ErrUnauthorized,
		},
		{
			name: "unknown event",
			args: model.ListAttendeesArgs{EventID: "ghost", Caller: owner},
			repo: &mockRepository{
				getEventFunc: func(ctx context.Context, id string) (*model.Event, error) {
					return nil, model.ErrNotFound
				},
			},
			expectedError: model.ErrNotFound,
		},
		{
			name: "non-owner is rejected",
			args: model.ListAttendeesArgs{EventID: "event-1", Caller: &model.Identity{UserID: "user-2"}},
			repo: &mockRepository{
				getEventFunc: func(ctx context.Context, id string) (*model.Event, error) {
					return event, nil
				},
			},
			expectedError: model.ErrUnauthorized,
		},
		{
			name: "owner receives the roster in storage order",
			args: model.ListAttendeesArgs{EventID: "event-1", Caller: owner},
			repo: &mockRepository{
				getEventFunc: func(ctx context.Context, id string) (*model.Event, error) {
					return event, nil
				},
				listAttendeesFunc: func(ctx context.Context, eventID string) ([]model.Attendee, error) {
					return roster, nil
				},
			},
			expected: roster,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			svc := NewRegistrationService(RegistrationServiceArgs{Repository: test.repo})
			resp, err := svc.ListAttendees(context.Background(), test.args)
			if test.expectedError != nil {
				assert.ErrorIs(t, err, test.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, resp.Attendees)
		})
	}
}
