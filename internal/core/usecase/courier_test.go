package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rbroggi/oneclick/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTransport is a mock implementation of the MailTransport interface.
type mockTransport struct {
	called    int
	lastMail  model.Mail
	sendError error
}

func (m *mockTransport) SendMail(ctx context.Context, mail model.Mail) error {
	m.called++
	m.lastMail = mail
	return m.sendError
}

func TestCourier_Handle(t *testing.T) {
	deliveryError := errors.New("delivery error")
	tests := []struct {
		name           string
		event          model.MailEvent
		sendError      error
		callsTransport bool
		mailAssertion  func(t *testing.T, mail model.Mail)
		expectedError  func(t *testing.T, err error)
	}{
		{
			name:           "welcome mail",
			event:          model.MailEvent{ID: "1", Kind: model.MailKindWelcome, To: "jane@example.com", Name: "Jane"},
			callsTransport: true,
			mailAssertion: func(t *testing.T, mail model.Mail) {
				assert.Equal(t, "jane@example.com", mail.To)
				assert.Contains(t, mail.Subject, "Jane")
				assert.Contains(t, mail.Text, "registration is complete")
				assert.NotEmpty(t, mail.HTML)
			},
		},
		{
			name:           "password reset mail",
			event:          model.MailEvent{ID: "2", Kind: model.MailKindPasswordReset, To: "jane@example.com", Name: "Jane"},
			callsTransport: true,
			mailAssertion: func(t *testing.T, mail model.Mail) {
				assert.Equal(t, "jane@example.com", mail.To)
				assert.Contains(t, mail.Subject, "password reset")
			},
		},
		{
			name:           "unknown kind is ignored",
			event:          model.MailEvent{ID: "3", Kind: "newsletter", To: "jane@example.com"},
			callsTransport: false,
		},
		{
			name:           "delivery error triggers error in handler",
			event:          model.MailEvent{ID: "4", Kind: model.MailKindWelcome, To: "jane@example.com", Name: "Jane"},
			sendError:      deliveryError,
			callsTransport: true,
			expectedError: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, deliveryError)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			transport := &mockTransport{sendError: test.sendError}
			courier := NewCourier(transport)
			err := courier.Handle(context.Background(), test.event)
			if test.expectedError != nil {
				test.expectedError(t, err)
			} else {
				require.NoError(t, err)
			}
			if test.callsTransport {
				require.Equal(t, 1, transport.called)
				if test.mailAssertion != nil {
					test.mailAssertion(t, transport.lastMail)
				}
			} else {
				require.Zero(t, transport.called)
			}
		})
	}
}
