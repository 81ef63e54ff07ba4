// Package matchpublisher streams executed trades to a Kafka topic for
// downstream consumers.
package matchpublisher

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	orderbookv1 "github.com/tradeforge/matching-engine/internal/domain/orderbook/v1"
	"github.com/tradeforge/matching-engine/pkg/config"
	"github.com/tradeforge/matching-engine/pkg/errors"
	"github.com/tradeforge/matching-engine/pkg/logger"
)

// Publisher represents a Kafka publisher for executed trades.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      logger.Interface
}

// NewPublisher creates a Kafka publisher writing to the trade topic.
func NewPublisher(cfg *config.Config, log logger.Interface) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTradeTopic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// Name identifies the publisher in dispatcher logs.
func (p *Publisher) Name() string {
	return "kafka-trade-publisher"
}

// Consume publishes one trade to the Kafka topic.
func (p *Publisher) Consume(ctx context.Context, trade orderbookv1.Trade) error {
	value, err := json.Marshal(trade)
	if err != nil {
		return errors.NewTracerWithCode(errors.TradePublishError).Wrap(err)
	}

	msg := kafka.Message{Value: value}
	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "error", Value: err.Error()},
			logger.Field{Key: "trade", Value: trade.String()},
		)
		return errors.NewTracerWithCode(errors.TradePublishError).Wrap(err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
