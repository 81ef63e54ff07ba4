// Package orderreader consumes orders from a Kafka topic and feeds them into
// the matching loop, as an alternative intake alongside the TCP server.
package orderreader

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	orderreaderv1 "github.com/tradeforge/matching-engine/internal/domain/order-reader/v1"
	"github.com/tradeforge/matching-engine/pkg/config"
	"github.com/tradeforge/matching-engine/pkg/logger"
)

// Reader represents a Kafka Reader for consuming messages from the order topic.
type Reader struct {
	kafkaReader *kafka.Reader
	logger      logger.Interface
}

var _ orderreaderv1.OrderReader = Reader{}

// NewReader creates a new Kafka reader for consuming messages from the order
// topic. It returns an implementation of the OrderReader interface.
func NewReader(cfg *config.Config, log logger.Interface) Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.KafkaBrokers,
		Topic:       cfg.KafkaOrderTopic,
		Partition:   0,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	return Reader{
		kafkaReader: kafkaReader,
		logger:      log,
	}
}

// logError is a helper method to log errors consistently
func (r Reader) logError(err error, operation string) {
	r.logger.Error(err,
		logger.Field{Key: "error", Value: err.Error()},
		logger.Field{Key: "operation", Value: operation},
	)
}

// ReadMessage reads a message from the order topic and parses its payload.
func (r Reader) ReadMessage(ctx context.Context) (kafka.Message, *orderreaderv1.PlaceOrderPayload, error) {
	msg, err := r.kafkaReader.ReadMessage(ctx)
	if err != nil {
		r.logError(err, "ReadMessage")
		return kafka.Message{}, nil, err
	}

	var payload orderreaderv1.PlaceOrderPayload
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		r.logError(err, "UnmarshalOrder")
		return kafka.Message{}, nil, err
	}

	r.logger.Debug("ReadMessage",
		logger.Field{Key: "client_id", Value: payload.ClientID},
		logger.Field{Key: "side", Value: payload.Side},
		logger.Field{Key: "price", Value: payload.Price},
		logger.Field{Key: "quantity", Value: payload.Quantity},
		logger.Field{Key: "offset", Value: msg.Offset},
	)

	return msg, &payload, nil
}

// Close properly closes the Kafka reader.
func (r Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logError(err, "Close")
		return err
	}
	return nil
}
