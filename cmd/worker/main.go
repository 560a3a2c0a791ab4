package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/pubsub"

	subscriberactor "github.com/rbroggi/oneclick/internal/actors/pubsub/subscriber"
	smtpactor "github.com/rbroggi/oneclick/internal/actors/smtp"
	"github.com/rbroggi/oneclick/internal/config"
	"github.com/rbroggi/oneclick/internal/core/usecase"
	log "github.com/sirupsen/logrus"
)

func init() {
	// Log as JSON instead of the default ASCII formatter.
	log.SetFormatter(&log.JSONFormatter{})

	// Output to stdout instead of the default stderr
	log.SetOutput(os.Stdout)

	// Only log the DebugLevel severity or above.
	log.SetLevel(log.DebugLevel)
}

func run() error {
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Error("could not load configuration")
		return err
	}

	client, err := pubsub.NewClient(ctx, cfg.PubSubProjectID)
	if err != nil {
		log.WithError(err).Error("could not create pubsub client")
		return err
	}
	defer client.Close()

	transport, err := smtpactor.NewTransport(smtpactor.TransportArgs{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	if err != nil {
		log.WithError(err).Error("could not create smtp transport")
		return err
	}

	courier := usecase.NewCourier(transport)

	subscriber := subscriberactor.NewSubscriber(subscriberactor.SubscriberArgs{
		Subscription:     client.Subscription(cfg.MailSubscriptionID),
		MailEventHandler: courier,
	})

	// start subscriber
	consumeErr := make(chan error, 1)
	go func(ctx context.Context) {
		consumeErr <- subscriber.Consume(ctx)
	}(ctx)

	log.
		WithField("subscription", cfg.MailSubscriptionID).
		Info("worker up or soon to be up. listening to SIGTERM, SIGINT, SIGQUIT for stoping the worker")

	// Wait for signal
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	select {
	case <-ch:
		cancel()
		return <-consumeErr
	case err := <-consumeErr:
		return err
	}
}

func main() {
	if err := run(); err != nil {
		panic(err)
	}
}
