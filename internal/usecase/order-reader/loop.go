package orderreader

import (
	"context"
	stderrors "errors"
	"io"

	orderreaderv1 "github.com/tradeforge/matching-engine/internal/domain/order-reader/v1"
	orderbookv1 "github.com/tradeforge/matching-engine/internal/domain/orderbook/v1"
	"github.com/tradeforge/matching-engine/pkg/errors"
	"github.com/tradeforge/matching-engine/pkg/logger"
)

// Submitter accepts validated orders for matching.
type Submitter interface {
	Submit(order *orderbookv1.Order) bool
}

// Consumer pumps payloads from an OrderReader into a Submitter.
type Consumer struct {
	reader orderreaderv1.OrderReader
	sink   Submitter
	logger logger.Interface
}

// NewConsumer wires a reader to a submitter.
func NewConsumer(reader orderreaderv1.OrderReader, sink Submitter, log logger.Interface) *Consumer {
	return &Consumer{
		reader: reader,
		sink:   sink,
		logger: log,
	}
}

// Run reads until ctx is cancelled or the reader is closed. Malformed
// payloads are logged and skipped; they never halt the feed.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, payload, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, io.EOF) {
				return nil
			}
			return errors.NewTracerWithCode(errors.GeneralInternalServerError).Wrap(err)
		}

		order, err := payload.ToOrder()
		if err != nil {
			c.logger.Warn("skipping malformed order payload",
				logger.Field{Key: "error", Value: err.Error()},
				logger.Field{Key: "client_id", Value: payload.ClientID},
				logger.Field{Key: "offset", Value: msg.Offset},
			)
			continue
		}

		if !c.sink.Submit(order) {
			// The engine is shutting down; stop consuming.
			return nil
		}
	}
}
