package kafkapub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"review_analyzer/internal/adapters/observability"
	"review_analyzer/internal/domain"
)

const publishTimeout = 2 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher emits review.created events keyed by review id.
type Publisher struct {
	w     messageWriter
	topic string
}

var _ domain.Publisher = (*Publisher)(nil)

func New(brokers []string, topic string) *Publisher {
	return &Publisher{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
		topic: topic,
	}
}

type reviewCreated struct {
	Type      string  `json:"type"`
	ReviewID  string  `json:"review_id"`
	Location  string  `json:"location"`
	Timestamp string  `json:"timestamp"`
	Compound  float64 `json:"compound"`
}

func (p *Publisher) PublishReviewCreated(ctx context.Context, r domain.Review) error {
	ev := reviewCreated{
		Type:      "review.created",
		ReviewID:  r.ID,
		Location:  r.Location,
		Timestamp: r.Timestamp.Format(domain.TimestampLayout),
	}
	if r.Sentiment != nil {
		ev.Compound = r.Sentiment.Compound
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode review.created: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	err = p.w.WriteMessages(ctx, kafka.Message{Key: []byte(r.ID), Value: payload})
	observability.ObservePublish(p.topic, err)
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", r.ID, p.topic, err)
	}
	return nil
}

func (p *Publisher) Close() error { return p.w.Close() }
