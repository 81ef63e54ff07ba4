// Package orderreaderv1 defines the contract for pulling orders from an
// external feed, plus the wire payload those feeds carry.
package orderreaderv1

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// PlaceOrderPayload is the JSON shape order producers publish. Price travels
// as a decimal string so producers never deal in minor units.
type PlaceOrderPayload struct {
	ClientID string `json:"client_id"`
	Side     string `json:"side"`
	Price    string `json:"price"`
	Quantity int64  `json:"quantity"`
}

// OrderReader defines the interface for reading orders from a source.
type OrderReader interface {
	// ReadMessage reads the next message and returns it with the parsed payload
	ReadMessage(ctx context.Context) (kafka.Message, *PlaceOrderPayload, error)
	// Close closes the reader
	Close() error
}
