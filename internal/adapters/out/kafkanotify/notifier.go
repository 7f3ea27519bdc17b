// Package kafkanotify dispatches user notifications. KafkaNotifier publishes
// them to a topic consumed by the push/e-mail service; LogNotifier only logs
// them and is used when no broker is configured.
package kafkanotify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/ports"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

const DefaultTopic = "parcelhub.notifications"

// Message is the value written for every notification.
type Message struct {
	ID         string                 `json:"id"`
	Type       ports.NotificationType `json:"type"`
	UserID     string                 `json:"userId"`
	DeliveryID string                 `json:"deliveryId"`
	Title      string                 `json:"title"`
	Body       string                 `json:"body"`
	CreatedAt  time.Time              `json:"createdAt"`
}

type Config struct {
	Brokers []string
	Topic   string
}

// NewProducerConfig returns the producer settings used in production: acks
// from all in-sync replicas, three retries and snappy compression.
func NewProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	return config
}

type KafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
	logger   logrus.FieldLogger
	now      func() time.Time
}

// Connect creates a KafkaNotifier with its own sync producer.
func Connect(cfg Config, logger logrus.FieldLogger) (*KafkaNotifier, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, NewProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	logger.WithField("brokers", cfg.Brokers).Info("Kafka producer created")
	return NewKafkaNotifier(producer, cfg.Topic, logger), nil
}

func NewKafkaNotifier(producer sarama.SyncProducer, topic string, logger logrus.FieldLogger) *KafkaNotifier {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaNotifier{
		producer: producer,
		topic:    topic,
		logger:   logger.WithField("component", "kafka-notifier"),
		now:      time.Now,
	}
}

func (n *KafkaNotifier) Close() error {
	return n.producer.Close()
}

// Notify sends one message keyed by the recipient, so notifications of a user
// stay ordered within their partition.
func (n *KafkaNotifier) Notify(ctx context.Context, notification ports.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := Message{
		ID:         kernel.NewUUID().String(),
		Type:       notification.Type,
		UserID:     notification.UserID.String(),
		DeliveryID: notification.DeliveryID.String(),
		Title:      notification.Title,
		Body:       notification.Body,
		CreatedAt:  n.now().UTC(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	partition, offset, err := n.producer.SendMessage(&sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(msg.UserID),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("notification_type"), Value: []byte(msg.Type)},
			{Key: []byte("timestamp"), Value: []byte(msg.CreatedAt.Format(time.RFC3339))},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send notification to topic %s: %w", n.topic, err)
	}

	n.logger.WithFields(logrus.Fields{
		"partition":       partition,
		"offset":          offset,
		"notification_id": msg.ID,
		"type":            msg.Type,
	}).Debug("notification published")
	return nil
}

// LogNotifier writes notifications to the log and never fails.
type LogNotifier struct {
	logger logrus.FieldLogger
}

func NewLogNotifier(logger logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{logger: logger.WithField("component", "log-notifier")}
}

func (n *LogNotifier) Notify(_ context.Context, notification ports.Notification) error {
	n.logger.WithFields(logrus.Fields{
		"user_id":     notification.UserID.String(),
		"delivery_id": notification.DeliveryID.String(),
		"type":        notification.Type,
	}).Info(notification.Title)
	return nil
}
