package ports

import (
	"context"

	"github.com/rbroggi/oneclick/internal/core/model"
)

// MailEventHandler handles incoming MailEvents.
type MailEventHandler interface {
	// Handle will receive an incoming mail event and handle it.
	Handle(ctx context.Context, event model.MailEvent) error
}

// MailTransport is the port for delivering composed mail messages.
type MailTransport interface {
	// SendMail delivers the message to its recipient.
	SendMail(ctx context.Context, mail model.Mail) error
}
