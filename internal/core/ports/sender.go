package ports

import (
	"context"

	"github.com/rbroggi/oneclick/internal/core/model"
)

// Sender is the port for publishing outbound mail-events.
type Sender interface {
	// Send sends mail-event data.
	Send(ctx context.Context, event model.MailEvent) error
}
