// Package redisroom implements the tracking room bus on Redis pub/sub. Every
// delivery room is the channel "tracking:<deliveryId>", so any service
// instance can publish to a room and every instance holding a member
// connection receives the event.
package redisroom

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/ports"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

const (
	channelPrefix = "tracking:"
	// subscriptionBuffer bounds the events queued for one slow member. Further
	// events are dropped; a member that falls behind rejoins for a snapshot.
	subscriptionBuffer = 64
)

var roomEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parcelhub",
	Subsystem: "tracking",
	Name:      "room_events_total",
	Help:      "Tracking room events by outcome (published, delivered, dropped, malformed).",
}, []string{"outcome"})

type Config struct {
	Addr     string
	Password string
	DB       int
}

// Connect opens a client and checks it with PING.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Broker is a ports.RoomBroker on Redis.
type Broker struct {
	client *redis.Client
	logger logrus.FieldLogger
}

func NewBroker(client *redis.Client, logger logrus.FieldLogger) *Broker {
	return &Broker{
		client: client,
		logger: logger.WithField("component", "redis-room-broker"),
	}
}

func channel(deliveryID kernel.UUID) string {
	return channelPrefix + deliveryID.String()
}

func (b *Broker) Publish(ctx context.Context, deliveryID kernel.UUID, event ports.RoomEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal room event: %w", err)
	}

	if err = b.client.Publish(ctx, channel(deliveryID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to room %s: %w", deliveryID, err)
	}

	roomEventsTotal.WithLabelValues("published").Inc()
	return nil
}

// Subscribe returns once Redis has confirmed the subscription, so every event
// published after Subscribe returns reaches the member.
func (b *Broker) Subscribe(ctx context.Context, deliveryID kernel.UUID) (ports.RoomSubscription, error) {
	pubsub := b.client.Subscribe(ctx, channel(deliveryID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to join room %s: %w", deliveryID, err)
	}

	sub := &subscription{
		pubsub: pubsub,
		events: make(chan ports.RoomEvent, subscriptionBuffer),
		done:   make(chan struct{}),
		logger: b.logger.WithField("delivery_id", deliveryID.String()),
	}
	go sub.forward()
	return sub, nil
}

type subscription struct {
	pubsub    *redis.PubSub
	events    chan ports.RoomEvent
	done      chan struct{}
	closeOnce sync.Once
	logger    logrus.FieldLogger
}

func (s *subscription) Events() <-chan ports.RoomEvent {
	return s.events
}

func (s *subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.pubsub.Close()
	})
	return err
}

func (s *subscription) forward() {
	defer close(s.events)

	messages := s.pubsub.Channel()
	for {
		select {
		case <-s.done:
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}

			var event ports.RoomEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				roomEventsTotal.WithLabelValues("malformed").Inc()
				s.logger.WithError(err).Warn("dropping malformed room event")
				continue
			}

			select {
			case s.events <- event:
				roomEventsTotal.WithLabelValues("delivered").Inc()
			case <-s.done:
				return
			default:
				roomEventsTotal.WithLabelValues("dropped").Inc()
				s.logger.WithField("event", event.Type).Warn("room member is too slow, event dropped")
			}
		}
	}
}
