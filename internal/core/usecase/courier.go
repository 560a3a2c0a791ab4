package usecase

import (
	"context"
	"fmt"

	"github.com/rbroggi/oneclick/internal/core/model"
	"github.com/rbroggi/oneclick/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

// NewCourier builds a new courier.
func NewCourier(transport ports.MailTransport) *Courier {
	return &Courier{transport: transport}
}

// Courier composes outbound mail messages from mail events and hands them to
// the delivery transport.
type Courier struct {
	transport ports.MailTransport
}

func (c *Courier) Handle(ctx context.Context, event model.MailEvent) error {
	var mail model.Mail
	switch event.Kind {
	case model.MailKindWelcome:
		mail = welcomeMail(event)
	case model.MailKindPasswordReset:
		mail = passwordResetMail(event)
	default:
		// an unknown kind is a producer/consumer version skew, not a
		// redeliverable failure
		log.WithField("kind", event.Kind).Warn("ignoring mail event of unknown kind")
		return nil
	}

	if err := c.transport.SendMail(ctx, mail); err != nil {
		return fmt.Errorf("error delivering mail for event ID [%s]: %w", event.ID, err)
	}
	return nil
}

func welcomeMail(event model.MailEvent) model.Mail {
	return model.Mail{
		To:      event.To,
		Subject: fmt.Sprintf("You're registered to 1Click, %s", event.Name),
		Text:    "Your registration is complete!\nLogin here http://localhost:3000/login to get started with 1Click!",
		HTML: `
	<html>
	<body>
		<h2>Your registration is complete!</h2>
		<p><em><a href="http://localhost:3000/login">Login here</a></em> to get started with 1Click!</p>
	</body>
	</html>
	`,
	}
}

func passwordResetMail(event model.MailEvent) model.Mail {
	return model.Mail{
		To:      event.To,
		Subject: "1Click password reset",
		Text:    fmt.Sprintf("Hi %s,\nFollow http://localhost:3000/reset-password to reset your 1Click password.", event.Name),
	}
}
