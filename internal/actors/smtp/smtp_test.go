package smtp

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/rbroggi/oneclick/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMail(t *testing.T) {
	transport, err := NewTransport(TransportArgs{
		Host: "localhost",
		Port: 1025,
		From: "no-reply@oneclick.test",
	})
	require.NoError(t, err)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	transport.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err = transport.SendMail(context.Background(), model.Mail{
		To:      "jane@example.com",
		Subject: "Welcome",
		Text:    "hello Jane",
		HTML:    "<p>hello Jane</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "localhost:1025", gotAddr)
	assert.Equal(t, "no-reply@oneclick.test", gotFrom)
	assert.Equal(t, []string{"jane@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Welcome")
	assert.Contains(t, string(gotMsg), "multipart/alternative")
	assert.Contains(t, string(gotMsg), "hello Jane")
	assert.Contains(t, string(gotMsg), "<p>hello Jane</p>")
}

func TestSendMailPlainText(t *testing.T) {
	transport, err := NewTransport(TransportArgs{
		Host: "localhost",
		Port: 1025,
		From: "no-reply@oneclick.test",
	})
	require.NoError(t, err)

	var gotMsg []byte
	transport.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		gotMsg = msg
		return nil
	}

	err = transport.SendMail(context.Background(), model.Mail{
		To:      "jane@example.com",
		Subject: "Reset",
		Text:    "reset your password",
	})
	require.NoError(t, err)
	assert.Contains(t, string(gotMsg), "text/plain")
	assert.NotContains(t, string(gotMsg), "multipart/alternative")
}

func TestSendMailErrors(t *testing.T) {
	transport, err := NewTransport(TransportArgs{
		Host: "localhost",
		Port: 1025,
		From: "no-reply@oneclick.test",
	})
	require.NoError(t, err)
	transport.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		return errors.New("connection refused")
	}

	err = transport.SendMail(context.Background(), model.Mail{To: "jane@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jane@example.com")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = transport.SendMail(ctx, model.Mail{To: "jane@example.com"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewTransportValidation(t *testing.T) {
	_, err := NewTransport(TransportArgs{Port: 1025, From: "a@b"})
	assert.Error(t, err)
	_, err = NewTransport(TransportArgs{Host: "localhost", Port: 1025})
	assert.Error(t, err)
}
