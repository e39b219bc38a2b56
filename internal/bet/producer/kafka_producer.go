package producer

import (
	"context"
	"encoding/json"

	sharedkafka "github.com/rmachado/sportsbook-backend/internal/shared/kafka"
	"github.com/rmachado/sportsbook-backend/pkg/contracts/events"
)

type KafkaPublisher struct {
	Writer *sharedkafka.Writer
	Topic  string
}

func NewKafkaPublisher(w *sharedkafka.Writer, topic string) *KafkaPublisher {
	return &KafkaPublisher{Writer: w, Topic: topic}
}

func (p *KafkaPublisher) PublishBetPlaced(ctx context.Context, e events.BetPlaced) error {
	b, _ := json.Marshal(e)
	return sharedkafka.WriteJSON(ctx, p.Writer, e.BetID, b)
}
