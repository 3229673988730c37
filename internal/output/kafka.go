package output

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"github.com/jouaraujo/curry-company/internal/dashboard"
	"github.com/jouaraujo/curry-company/internal/models"
)

// KafkaOutput publishes each table as one JSON message on
// <topic prefix>.<table name>.
type KafkaOutput struct {
	producer    sarama.SyncProducer
	topicPrefix string
	log         *slog.Logger
}

func NewKafkaOutput(cfg models.KafkaConfig, log *slog.Logger) (*KafkaOutput, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // required by SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second
	if cfg.SessionTimeoutMs > 0 {
		saramaConfig.Producer.Timeout = time.Duration(cfg.SessionTimeoutMs) * time.Millisecond
	}

	brokerList := strings.Split(cfg.BrokerList, ",")
	producer, err := sarama.NewSyncProducer(brokerList, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	log.Info("kafka producer created", "brokers", brokerList)
	return NewKafkaOutputWithProducer(producer, cfg.TopicPrefix, log), nil
}

func NewKafkaOutputWithProducer(producer sarama.SyncProducer, topicPrefix string, log *slog.Logger) *KafkaOutput {
	return &KafkaOutput{producer: producer, topicPrefix: topicPrefix, log: log}
}

func (k *KafkaOutput) topic(name string) string {
	if k.topicPrefix == "" {
		return name
	}
	return k.topicPrefix + "." + name
}

func (k *KafkaOutput) WriteTable(_ context.Context, table dashboard.Table) error {
	if k.producer == nil {
		return fmt.Errorf("kafka producer is closed")
	}

	msg, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to encode table %s: %w", table.Name, err)
	}

	topic := k.topic(table.Name)
	partition, offset, err := k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(table.Name),
		Value: sarama.ByteEncoder(msg),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to topic %s: %w", topic, err)
	}

	k.log.Debug("table published", "topic", topic, "partition", partition, "offset", offset)
	return nil
}

func (k *KafkaOutput) Close() error {
	if k.producer == nil {
		return nil
	}
	err := k.producer.Close()
	k.producer = nil
	return err
}
