package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"cloud.google.com/go/pubsub"
)

var (
	projectID    = flag.String("project", "oneclick", "pubsub project id")
	topicID      = flag.String("topic", "oneclick.MailEvents", "topic to create")
	subscription = flag.String("subscription", "worker.oneclick.MailEvents.sub", "subscription to attach to the topic")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	client, err := pubsub.NewClient(ctx, *projectID)
	if err != nil {
		log.Panicf("unable to create client to project %q: %v", *projectID, err)
	}
	defer client.Close()

	topic, err := client.CreateTopic(ctx, *topicID)
	if err != nil {
		if !strings.Contains(err.Error(), "Topic already exists") {
			log.Panicf("unable to create topic %s for project %s: %v", *topicID, *projectID, err)
		}
		topic = client.Topic(*topicID)
	}
	log.Printf("topic ready: [%s, %s]", *projectID, *topicID)

	_, err = client.CreateSubscription(ctx, *subscription, pubsub.SubscriptionConfig{Topic: topic})
	if err != nil && !strings.Contains(err.Error(), "Subscription already exists") {
		log.Panicf("unable to create subscription %s on topic %s for project %s: %v", *subscription, *topicID, *projectID, err)
	}
	log.Printf("subscription ready: [%s, %s, %s]", *projectID, *topicID, *subscription)
}
