package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

type Handler func(ctx context.Context, event Event) error

// Subscriber reads a stream through a consumer group and acks every event
// its handler accepts. Rejected events stay in the group's pending list and
// are handed to the handler again by the next Redeliver pass.
type Subscriber struct {
	client            *redis.Client
	group             string
	consumer          string
	stream            string
	handler           Handler
	batchSize         int64
	blockDuration     time.Duration
	redeliverInterval time.Duration
}

type SubscriberConfig struct {
	Group             string
	Consumer          string
	Stream            string
	Handler           Handler
	BatchSize         int64
	BlockDuration     time.Duration
	// RedeliverInterval spaces out the retries of rejected events.
	RedeliverInterval time.Duration
}

func NewSubscriber(client *redis.Client, config SubscriberConfig) *Subscriber {
	if config.BatchSize == 0 {
		config.BatchSize = 10
	}
	if config.BlockDuration == 0 {
		config.BlockDuration = 5 * time.Second
	}
	if config.RedeliverInterval == 0 {
		config.RedeliverInterval = 30 * time.Second
	}
	if config.Stream == "" {
		config.Stream = AccountEventsStream
	}

	return &Subscriber{
		client:            client,
		group:             config.Group,
		consumer:          config.Consumer,
		stream:            config.Stream,
		handler:           config.Handler,
		batchSize:         config.BatchSize,
		blockDuration:     config.BlockDuration,
		redeliverInterval: config.RedeliverInterval,
	}
}

// Start blocks until ctx is cancelled. Events left pending by an earlier run
// are retried first.
func (s *Subscriber) Start(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, s.stream, s.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	logger := log.WithFields(log.Fields{"stream": s.stream, "group": s.group, "consumer": s.consumer})
	logger.Info("subscriber started")

	var lastRedeliver time.Time
	for {
		select {
		case <-ctx.Done():
			logger.Info("subscriber stopping")
			return ctx.Err()
		default:
		}

		if time.Since(lastRedeliver) >= s.redeliverInterval {
			if n, err := s.Redeliver(ctx); err != nil && ctx.Err() == nil {
				logger.WithError(err).Warn("error redelivering pending messages")
			} else if n > 0 {
				logger.WithField("count", n).Info("redelivered pending messages")
			}
			lastRedeliver = time.Now()
		}

		if _, err := s.Poll(ctx); err != nil && ctx.Err() == nil {
			logger.WithError(err).Warn("error reading messages")
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
	}
}

// Poll reads one batch of new events and returns how many were handled and
// acked.
func (s *Subscriber) Poll(ctx context.Context) (int, error) {
	return s.read(ctx, ">", s.blockDuration)
}

// Redeliver hands this consumer's pending events to the handler again and
// returns how many were handled and acked.
func (s *Subscriber) Redeliver(ctx context.Context) (int, error) {
	// A negative block omits BLOCK; pending reads never wait.
	return s.read(ctx, "0", -1)
}

func (s *Subscriber) read(ctx context.Context, id string, block time.Duration) (int, error) {
	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.group,
		Consumer: s.consumer,
		Streams:  []string{s.stream, id},
		Count:    s.batchSize,
		Block:    block,
	}).Result()

	if err == redis.Nil {
		return 0, nil // No messages
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read from stream: %w", err)
	}

	handled := 0
	for _, stream := range streams {
		for _, message := range stream.Messages {
			if err := s.processMessage(ctx, message); err != nil {
				log.WithError(err).WithField("message_id", message.ID).Warn("failed to process message")
				continue
			}

			if err := s.client.XAck(ctx, s.stream, s.group, message.ID).Err(); err != nil {
				log.WithError(err).WithField("message_id", message.ID).Warn("failed to ack message")
				continue
			}
			handled++
		}
	}

	return handled, nil
}

func (s *Subscriber) processMessage(ctx context.Context, message redis.XMessage) error {
	eventData, ok := message.Values["event"].(string)
	if !ok {
		return fmt.Errorf("invalid message format")
	}

	var event Event
	if err := json.Unmarshal([]byte(eventData), &event); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return s.handler(ctx, event)
}
