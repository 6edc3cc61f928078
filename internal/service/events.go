// events.go — события изменения товаров (product.created|updated|deleted).
// Публикуются в Kafka, если заданы CG_KAFKA_BROKERS; иначе отбрасываются.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/habibulloh333/project-uas-prod/internal/domain/model"
)

// Типы событий.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// publishTimeout — предельное время публикации одного события.
const publishTimeout = 3 * time.Second

// ProductEvent — событие изменения товара.
type ProductEvent struct {
	ID         string       `json:"id"`
	Type       string       `json:"type"`
	Vendor     model.Vendor `json:"vendor"`
	Key        string       `json:"key"`
	Actor      string       `json:"actor,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
	Payload    any          `json:"payload,omitempty"`
}

// NewProductEvent создаёт событие с новым UUID.
func NewProductEvent(eventType string, vendor model.Vendor, key, actor string, payload any) ProductEvent {
	return ProductEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		Vendor:     vendor,
		Key:        key,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// EventPublisher — получатель событий изменения товаров.
type EventPublisher interface {
	Publish(ctx context.Context, ev ProductEvent) error
	Close() error
}

// NopPublisher — публикатор-заглушка, когда Kafka не настроена.
type NopPublisher struct{}

// Publish ничего не делает.
func (NopPublisher) Publish(context.Context, ProductEvent) error { return nil }

// Close ничего не делает.
func (NopPublisher) Close() error { return nil }

// kafkaMessageWriter — абстракция kafka.Writer для тестов.
type kafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher публикует события в топик Kafka (segmentio/kafka-go).
// Ключ сообщения — "<vendor>/<key>", поэтому события одного товара
// попадают в одну партицию и сохраняют порядок.
type KafkaPublisher struct {
	writer kafkaMessageWriter
}

// NewKafkaPublisher создаёт публикатор для списка брокеров и топика.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}}
}

// NewKafkaPublisherWith используется в тестах для подстановки writer.
func NewKafkaPublisherWith(w kafkaMessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// Publish сериализует событие в JSON и отправляет его в Kafka.
func (p *KafkaPublisher) Publish(ctx context.Context, ev ProductEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("сериализация события: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(string(ev.Vendor) + "/" + ev.Key),
		Value: b,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(ev.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("публикация события %s: %w", ev.Type, err)
	}
	return nil
}

// Close закрывает writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// publishQuietly публикует событие, не прерывая операцию при ошибке.
// Отмена запроса клиентом не отменяет публикацию.
func publishQuietly(ctx context.Context, pub EventPublisher, ev ProductEvent, logger *slog.Logger) {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := pub.Publish(pctx, ev); err != nil {
		logger.Warn("Не удалось опубликовать событие",
			slog.String("event_id", ev.ID),
			slog.String("type", ev.Type),
			slog.String("vendor", string(ev.Vendor)),
			slog.String("key", ev.Key),
			slog.String("error", err.Error()),
		)
	}
}
