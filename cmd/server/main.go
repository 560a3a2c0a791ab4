package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/pubsub"
	"github.com/go-pg/pg/v10"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rbroggi/oneclick/internal/actors/httpapi"
	mongoactor "github.com/rbroggi/oneclick/internal/actors/mongo"
	postgresactor "github.com/rbroggi/oneclick/internal/actors/postgres"
	produceractor "github.com/rbroggi/oneclick/internal/actors/pubsub/producer"
	"github.com/rbroggi/oneclick/internal/config"
	"github.com/rbroggi/oneclick/internal/core/ports"
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

	var repository ports.Repository
	switch cfg.StorageBackend {
	case "postgres":
		opts, err := pg.ParseURL(cfg.PostgresURL)
		if err != nil {
			log.WithError(err).Error("could not parse postgres url")
			return err
		}
		db := pg.Connect(opts)
		defer db.Close()
		if err := db.Ping(ctx); err != nil {
			log.WithError(err).Error("db does not appear to be reachable")
			return err
		}
		repository, err = postgresactor.NewPostgresDB(postgresactor.PostgresDBArgs{DB: db})
		if err != nil {
			log.WithError(err).Error("could not initialize postgres actor")
			return err
		}
	default:
		clientOptions := options.Client().ApplyURI(cfg.MongoURL)
		db, err := mongo.Connect(ctx, clientOptions)
		if err != nil {
			log.WithError(err).Error("could not connect to mongo")
			return err
		}
		defer db.Disconnect(ctx)
		if err := db.Ping(ctx, nil); err != nil {
			log.WithError(err).Error("db does not appear to be reachable")
			return err
		}
		mongoActor, err := mongoactor.NewMongoDB(mongoactor.MongoDBArgs{Database: db.Database(cfg.MongoDatabase)})
		if err != nil {
			log.WithError(err).Error("could not initialize mongo actor")
			return err
		}
		if err := mongoActor.EnsureIndexes(ctx); err != nil {
			log.WithError(err).Error("could not ensure mongo indexes")
			return err
		}
		repository = mongoActor
	}

	client, err := pubsub.NewClient(ctx, cfg.PubSubProjectID)
	if err != nil {
		log.WithError(err).Error("could not create pubsub client")
		return err
	}
	defer client.Close()

	producer, err := produceractor.NewProducer(client.Topic(cfg.MailTopicID))
	if err != nil {
		log.WithError(err).Error("could not create mail-event producer")
		return err
	}

	users := usecase.NewUserService(usecase.UserServiceArgs{Repository: repository, Sender: producer})
	events := usecase.NewEventService(usecase.EventServiceArgs{Repository: repository})
	registrations := usecase.NewRegistrationService(usecase.RegistrationServiceArgs{Repository: repository})

	auth, err := httpapi.NewAuthenticator(httpapi.AuthenticatorArgs{Secret: cfg.JWTSecret})
	if err != nil {
		log.WithError(err).Error("could not create authenticator")
		return err
	}

	server, err := httpapi.NewServer(httpapi.ServerArgs{
		Addr:          cfg.HTTPAddr,
		Auth:          auth,
		Users:         users,
		Events:        events,
		Registrations: registrations,
	})
	if err != nil {
		log.WithError(err).Error("could not create http server")
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ctx)
	}()

	log.
		WithField("http-server-addr", cfg.HTTPAddr).
		WithField("storage-backend", cfg.StorageBackend).
		Info("server up or soon to be up. listening to SIGTERM, SIGINT, SIGQUIT for stoping the server")

	// Wait for signal
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	select {
	case <-ch:
		cancel()
		return <-serveErr
	case err := <-serveErr:
		return err
	}
}

func main() {
	if err := run(); err != nil {
		panic(err)
	}
}
