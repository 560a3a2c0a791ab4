package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/rbroggi/oneclick/internal/core/model"
	"github.com/rbroggi/oneclick/internal/core/ports"

	log "github.com/sirupsen/logrus"
)

// SubscriberArgs contain the mandatory arguments to build a subscriber.
type SubscriberArgs struct {
	// Subscription is a pubsub subscription
	Subscription *pubsub.Subscription

	// MailEventHandler is a mail event handler
	MailEventHandler ports.MailEventHandler
}

// Subscriber is a pubsub async subscriber
type Subscriber struct {
	subscription     *pubsub.Subscription
	mailEventHandler ports.MailEventHandler
}

// NewSubscriber creates a subscriber
func NewSubscriber(args SubscriberArgs) *Subscriber {
	return &Subscriber{
		subscription:     args.Subscription,
		mailEventHandler: args.MailEventHandler,
	}
}

// Consume starts the subscriber. This is a blocking method and should be started in it's own go-routine.
// The way to terminate the method is to cancel the context in input.
func (s *Subscriber) Consume(ctx context.Context) error {
	if err := s.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		mailEvent, err := decodeMsgIntoMailEvent(msg)
		if err != nil {
			log.WithError(err).Error("error decoding message into mail-event")
			msg.Nack()
			return
		}

		if err := s.mailEventHandler.Handle(ctx, *mailEvent); err != nil {
			log.WithError(err).Error("error in mail event handler")
			msg.Nack()
		} else {
			msg.Ack()
		}
	}); err != nil {
		return fmt.Errorf("error receiving messages from subscription: %w", err)
	}
	return nil
}

func decodeMsgIntoMailEvent(msg *pubsub.Message) (*model.MailEvent, error) {
	if msg == nil {
		return nil, errors.New("cannot decode nil pubsub msg")
	}
	mailEvent := new(model.MailEvent)
	if err := json.Unmarshal(msg.Data, mailEvent); err != nil {
		return nil, fmt.Errorf("json unmarshal error: %w", err)
	}
	if mailEvent.ID == "" {
		mailEvent.ID = msg.ID
	}
	return mailEvent, nil
}
