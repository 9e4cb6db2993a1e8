// Command events-tail follows the account event stream through a consumer
// group and logs every event it receives.
// Usage: go run ./cmd/events-tail [-group G] [-consumer C] [-batch N]
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/eaglebank/banque/internal/config"
	"github.com/eaglebank/banque/internal/events"
	redisClient "github.com/eaglebank/banque/internal/redis"
)

func main() {
	group := flag.String("group", "banque-audit", "consumer group name")
	consumer := flag.String("consumer", hostname(), "consumer name within the group")
	batch := flag.Int64("batch", 10, "max events read per poll")
	flag.Parse()

	cfg, err := config.Load(".")
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	if !cfg.CacheEnabled() {
		log.Fatal("REDIS_ADDR must be set to follow the account event stream")
	}
	log.SetFormatter(&log.JSONFormatter{})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := redisClient.NewClient(ctx, cfg.RedisOptions())
	if err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}
	defer rdb.Close()

	subscriber := events.NewSubscriber(rdb, events.SubscriberConfig{
		Group:     *group,
		Consumer:  *consumer,
		BatchSize: *batch,
		Handler:   logEvent,
	})
	if err := subscriber.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("subscriber stopped")
	}
}

func logEvent(_ context.Context, event events.Event) error {
	log.WithFields(log.Fields{
		"type":      event.Type,
		"timestamp": event.Timestamp,
		"data":      event.Data,
	}).Info("account event")
	return nil
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "events-tail"
	}
	return name
}
