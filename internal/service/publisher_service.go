package service

import (
	"context"
	"encoding/json"
	"time"

	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	Publish(ctx context.Context, event events.Event) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (s *publisherService) Publish(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(events.New(event.EventType(), event.Payload(), event.Timestamp()))
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	return s.publisher.Publish(s.topicName, msg)
}

// emitEvent publishes best effort: a failed publish is logged, never returned.
func emitEvent(ctx context.Context, publisher IPublisherService, log logger.ILogger, eventType string, data map[string]interface{}, at time.Time) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, events.New(eventType, data, at)); err != nil {
		log.Warn("Events", "Failed to publish event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}
