package events

import (
	"context"
	"time"

	"github.com/narendra12543/Learning-Management-System-sub001/pkg/logger"
)

// Event is an operator facing notification about a checkout outcome.
type Event struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

func NewEvent(eventType string, data map[string]interface{}) *Event {
	return &Event{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event *Event) error
}

// LogPublisher writes events to the application log. It is used when no
// topic is configured.
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log.WithField("component", "events")}
}

func (p *LogPublisher) Publish(_ context.Context, event *Event) error {
	p.log.WithFields(map[string]interface{}{
		"event_type":  event.Type,
		"occurred_at": event.OccurredAt,
		"data":        event.Data,
	}).Info("Event published")
	return nil
}
