package orderbookv1

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	// ErrInvalidSide is returned when a side token is neither BUY nor SELL.
	ErrInvalidSide = errors.New("side must be BUY or SELL")
	// ErrInvalidQuantity is returned for non-positive quantities.
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// Side is the direction of an order.
type Side uint8

const (
	// Buy bids for the instrument.
	Buy Side = iota
	// Sell offers the instrument.
	Sell
)

// String returns the wire token for the side.
func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// ParseSide parses a wire token into a Side.
func ParseSide(token string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	}
	return 0, fmt.Errorf("%w: got %q", ErrInvalidSide, token)
}

// Order is a single limit order. ID, ClientID, Side and Price are fixed at
// creation; Quantity is the remaining unfilled amount and only ever
// decreases. An order whose quantity reaches zero is fully consumed and must
// not rest in the book.
type Order struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientID"`
	Side      Side      `json:"side"`
	Price     Price     `json:"price"`
	Quantity  int64     `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// NewOrder creates an order with a generated monotonic id and the current
// time. The timestamp is observability only; time priority in the book comes
// from insertion order, not from this field.
func NewOrder(clientID string, side Side, price Price, quantity int64) *Order {
	return &Order{
		ID:        NewOrderID(),
		ClientID:  clientID,
		Side:      side,
		Price:     price,
		Quantity:  quantity,
		Timestamp: time.Now(),
	}
}

// IsBuy reports whether the order bids.
func (o *Order) IsBuy() bool {
	return o.Side == Buy
}

// IsSell reports whether the order offers.
func (o *Order) IsSell() bool {
	return o.Side == Sell
}

// IsFilled reports whether the order has no remaining quantity.
func (o *Order) IsFilled() bool {
	return o.Quantity == 0
}

// Validate checks the order is well formed for submission.
func (o *Order) Validate() error {
	if !o.Price.IsValid() {
		return ErrInvalidPrice
	}
	if o.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

func (o *Order) String() string {
	return fmt.Sprintf("[%s] %s %d @ %s (client: %s)",
		o.ID, o.Side, o.Quantity, o.Price, o.ClientID)
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewOrderID returns a new monotonically increasing ULID string.
func NewOrderID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
